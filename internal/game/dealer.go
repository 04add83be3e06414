package game

// DealerPlay draws until the total reaches 17. Soft 17 stands. hand is not modified.
func DealerPlay(src CardSource, hand []Card) []Card {
	out := make([]Card, len(hand), len(hand)+4)
	copy(out, hand)

	for HandTotal(out) < dealerStand {
		out = append(out, src.Draw())
	}
	return out
}
