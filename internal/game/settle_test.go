package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		name     string
		player   []Card
		dealer   []Card
		expected Outcome
	}{
		{"player bust", hand(King, Queen, Two), hand(King, Eight), OutcomeLoss},
		{"player bust beats dealer bust", hand(King, Queen, Five), hand(King, Six, Nine), OutcomeLoss},
		{"player natural", hand(Ace, King), hand(Nine, Eight), OutcomeBlackjack},
		{"both natural", hand(Ace, King), hand(Ace, Queen), OutcomePush},
		{"dealer natural", hand(King, Nine), hand(Ace, Queen), OutcomeLoss},
		{"three card 21 against dealer natural", hand(Seven, Seven, Seven), hand(Ace, King), OutcomePush},
		{"dealer bust", hand(King, Queen), hand(King, Six, Seven), OutcomeWin},
		{"higher total", hand(King, Nine), hand(King, Seven), OutcomeWin},
		{"lower total", hand(King, Nine), hand(King, Queen), OutcomeLoss},
		{"equal totals", hand(King, Eight), hand(Nine, Nine), OutcomePush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Settle(tt.player, tt.dealer))
		})
	}
}

func TestOutcomeStringRoundTrip(t *testing.T) {
	for _, o := range []Outcome{OutcomeWin, OutcomeLoss, OutcomePush, OutcomeBlackjack} {
		parsed, err := ParseOutcome(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
	}

	_, err := ParseOutcome("surrender")
	assert.Error(t, err)
	assert.Equal(t, "Outcome(9)", Outcome(9).String())
}

func TestDealerPlay(t *testing.T) {
	t.Run("draws to 17", func(t *testing.T) {
		src := newStack(c(Two), c(Three))
		out := DealerPlay(src, hand(Ten, Four))
		assert.Equal(t, 19, HandTotal(out))
		assert.Len(t, out, 4)
	})

	t.Run("may bust", func(t *testing.T) {
		src := newStack(c(King))
		out := DealerPlay(src, hand(Ten, Six))
		assert.Equal(t, 26, HandTotal(out))
	})

	t.Run("stands on soft 17", func(t *testing.T) {
		src := newStack(c(Five))
		out := DealerPlay(src, hand(Ace, Six))
		assert.Len(t, out, 2)
		assert.Equal(t, 1, src.Remaining())
	})

	t.Run("does not modify input", func(t *testing.T) {
		in := make([]Card, 2, 8)
		in[0], in[1] = c(Two), c(Three)
		DealerPlay(newStack(c(King), c(Five)), in)
		assert.Len(t, in, 2)
		assert.Equal(t, []Card{c(Two), c(Three)}, in[:cap(in)][:2])
		assert.Equal(t, Card{}, in[:cap(in)][2])
	})

	t.Run("always reaches 17", func(t *testing.T) {
		src := NewSeededSource(11)
		for i := 0; i < 1000; i++ {
			start := []Card{src.Draw()}
			out := DealerPlay(src, start)
			assert.GreaterOrEqual(t, HandTotal(out), 17)
			assert.Equal(t, start[0], out[0])
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		src := NewSeededSource(12)
		for i := 0; i < 200; i++ {
			out := DealerPlay(src, nil)
			stack := newStack(c(Two))
			again := DealerPlay(stack, out)
			assert.Equal(t, out, again)
			assert.Equal(t, 1, stack.Remaining())
		}
	})
}

func TestPayoutFor(t *testing.T) {
	tests := []struct {
		name     string
		outcome  Outcome
		bet      int
		expected Payout
	}{
		{"win", OutcomeWin, 100, Payout{Credit: 200, Delta: 100}},
		{"blackjack", OutcomeBlackjack, 100, Payout{Credit: 250, Delta: 150}},
		{"blackjack rounds down", OutcomeBlackjack, 15, Payout{Credit: 37, Delta: 22}},
		{"push", OutcomePush, 100, Payout{Credit: 100, Delta: 0}},
		{"loss", OutcomeLoss, 100, Payout{Credit: 0, Delta: -100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PayoutFor(tt.outcome, tt.bet, DefaultBlackjackPays))
		})
	}
}
