package game

const (
	blackjackTotal = 21
	dealerStand    = 17
)

// HandTotal counts every ace as 1, then upgrades aces to 11 one at a time
// while that keeps the hand at 21 or below. Busted totals are returned as is.
func HandTotal(cards []Card) int {
	total, _ := handTotal(cards)
	return total
}

func handTotal(cards []Card) (total int, soft bool) {
	aces := 0
	for _, card := range cards {
		if card.Rank == Ace {
			aces++
		}
		total += card.Rank.Value()
	}

	for aces > 0 && total+10 <= blackjackTotal {
		total += 10
		aces--
		soft = true
	}
	return total, soft
}

func IsSoft(cards []Card) bool {
	_, soft := handTotal(cards)
	return soft
}

func IsBlackjack(cards []Card) bool {
	return len(cards) == 2 && HandTotal(cards) == blackjackTotal
}

func IsBust(cards []Card) bool {
	return HandTotal(cards) > blackjackTotal
}
