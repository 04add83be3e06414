package game

import "github.com/shopspring/decimal"

const DefaultBlackjackPays = 1.5

// Credit goes back to the balance the bet was taken from; Delta is the net change.
type Payout struct {
	Credit int
	Delta  int
}

func PayoutFor(outcome Outcome, bet int, blackjackPays float64) Payout {
	switch outcome {
	case OutcomeWin:
		return Payout{Credit: bet * 2, Delta: bet}
	case OutcomeBlackjack:
		bonus := int(decimal.NewFromInt(int64(bet)).
			Mul(decimal.NewFromFloat(blackjackPays)).
			Floor().
			IntPart())
		return Payout{Credit: bet + bonus, Delta: bonus}
	case OutcomePush:
		return Payout{Credit: bet, Delta: 0}
	default:
		return Payout{Credit: 0, Delta: -bet}
	}
}
