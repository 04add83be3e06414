package bot

import (
	"fmt"
	"strings"

	"blackjack/internal/game"
	"blackjack/internal/history"
	"blackjack/internal/player"
)

func formatGameStatus(r *game.Round, showDealerHand bool) string {
	dealerDisplay := fmt.Sprintf("[%s ?]", r.UpCard())
	if showDealerHand {
		dealerDisplay = fmt.Sprintf("%s (%d)", game.FormatHand(r.DealerCards), r.DealerScore())
	}

	return fmt.Sprintf("🎴 You: %s (%d)\n🃏 Dealer: %s",
		game.FormatHand(r.PlayerCards), r.PlayerScore(), dealerDisplay)
}

func outcomeText(r *game.Round, outcome game.Outcome) string {
	switch outcome {
	case game.OutcomeBlackjack:
		return "🎰 BLACKJACK! 🎰"
	case game.OutcomeWin:
		if game.IsBust(r.DealerCards) {
			return "🎉 Dealer busts! You win!"
		}
		return "🎉 You win!"
	case game.OutcomePush:
		if game.IsBlackjack(r.PlayerCards) {
			return "🤝 Both have blackjack. Push, bet returned."
		}
		return "🤝 Push, bet returned."
	default:
		switch {
		case game.IsBust(r.PlayerCards):
			return "💥 Bust! You lose."
		case game.IsBlackjack(r.DealerCards):
			return "🎰 Dealer has blackjack. You lose."
		}
		return "😔 Dealer wins."
	}
}

func formatGameEnd(r *game.Round, p *player.Player, outcome game.Outcome, payout game.Payout) string {
	var sb strings.Builder

	if r.Doubled {
		sb.WriteString(fmt.Sprintf("💰 Doubled: %d\n\n", r.Bet))
	}
	sb.WriteString(formatGameStatus(r, true))
	sb.WriteString("\n\n")
	sb.WriteString(outcomeText(r, outcome))

	if payout.Delta > 0 {
		sb.WriteString(fmt.Sprintf("\n💰 Won: +%d", payout.Delta))
	}
	sb.WriteString(fmt.Sprintf("\n💵 Balance: %d", p.Balance))

	return sb.String()
}

func formatGameUnsaved(r *game.Round, outcome game.Outcome) string {
	return formatGameStatus(r, true) + "\n\n" + outcomeText(r, outcome) +
		"\n\n⚠️ Could not save the result. Tap Retry to book it."
}

func formatHistory(records []history.Record) string {
	if len(records) == 0 {
		return "📜 No games played yet. Try /play"
	}

	var sb strings.Builder
	sb.WriteString("📜 Recent games:\n\n")
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%s %s %-9s bet %d, %s (%d) vs %s (%d), %+d\n",
			rec.CreatedAt.Format("01-02 15:04"),
			outcomeIcon(rec.Outcome),
			rec.Outcome,
			rec.Bet,
			game.FormatHand(rec.PlayerCards), rec.PlayerTotal,
			game.FormatHand(rec.DealerCards), rec.DealerTotal,
			rec.Delta,
		))
	}
	return sb.String()
}

func outcomeIcon(o game.Outcome) string {
	switch o {
	case game.OutcomeWin:
		return "✅"
	case game.OutcomeBlackjack:
		return "🎰"
	case game.OutcomePush:
		return "🤝"
	default:
		return "❌"
	}
}

func formatTop(stats []player.Stats) string {
	var sb strings.Builder
	sb.WriteString("🏆 Top players:\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, s := range stats {
		medal := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			medal = medals[i]
		}
		sb.WriteString(fmt.Sprintf("%s %d 💰 | %d games (%.0f%%)\n",
			medal, s.Balance, s.Games, s.WinRate))
	}
	return sb.String()
}
