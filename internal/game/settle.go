package game

import "fmt"

type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomeWin
	OutcomePush
	OutcomeBlackjack
)

var outcomeNames = [...]string{
	OutcomeLoss:      "loss",
	OutcomeWin:       "win",
	OutcomePush:      "push",
	OutcomeBlackjack: "blackjack",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

func ParseOutcome(s string) (Outcome, error) {
	for i, name := range outcomeNames {
		if name == s {
			return Outcome(i), nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// First match wins: a player bust loses even against a busted dealer.
func Settle(player, dealer []Card) Outcome {
	playerTotal := HandTotal(player)
	dealerTotal := HandTotal(dealer)
	playerBJ := IsBlackjack(player)
	dealerBJ := IsBlackjack(dealer)

	switch {
	case playerTotal > blackjackTotal:
		return OutcomeLoss
	case playerBJ && dealerBJ:
		return OutcomePush
	case playerBJ:
		return OutcomeBlackjack
	case dealerTotal > blackjackTotal:
		return OutcomeWin
	case playerTotal > dealerTotal:
		return OutcomeWin
	case playerTotal < dealerTotal:
		return OutcomeLoss
	default:
		return OutcomePush
	}
}
