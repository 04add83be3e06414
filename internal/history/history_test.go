package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"blackjack/internal/database"
	"blackjack/internal/game"
	"blackjack/internal/game/gametest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB)
}

func cards(ranks ...game.Rank) []game.Card {
	out := make([]game.Card, len(ranks))
	for i, r := range ranks {
		out[i] = game.Card{Rank: r, Suit: game.Suit(i % 4)}
	}
	return out
}

func TestNewRecordFromRound(t *testing.T) {
	src := gametest.NewStacked(cards(game.Ace, game.Nine, game.King, game.Seven)...)
	round := game.NewRound(src, 100)
	require.True(t, round.Done())

	payout := game.PayoutFor(round.Outcome(), round.Bet, game.DefaultBlackjackPays)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	rec := NewRecord(7, round, payout, now)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, int64(7), rec.ChatID)
	assert.Equal(t, game.OutcomeBlackjack, rec.Outcome)
	assert.Equal(t, 21, rec.PlayerTotal)
	assert.Equal(t, 16, rec.DealerTotal)
	assert.Equal(t, 150, rec.Delta)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.Len(t, rec.PlayerCards, 2)
}

func TestSaveAndListByChat(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := Record{
		ChatID:      1,
		Bet:         50,
		Outcome:     game.OutcomeLoss,
		PlayerTotal: 24,
		DealerTotal: 17,
		PlayerCards: cards(game.King, game.Four, game.Queen),
		DealerCards: cards(game.Ten, game.Seven),
		Delta:       -50,
		CreatedAt:   base,
	}
	second := Record{
		ChatID:      1,
		Bet:         100,
		Outcome:     game.OutcomeBlackjack,
		PlayerTotal: 21,
		DealerTotal: 19,
		PlayerCards: cards(game.Ace, game.Jack),
		DealerCards: cards(game.Nine, game.King),
		Delta:       150,
		CreatedAt:   base.Add(time.Minute),
	}
	other := second
	other.ChatID = 2

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, other))

	got, err := repo.ListByChat(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, game.OutcomeBlackjack, got[0].Outcome)
	assert.Equal(t, second.PlayerCards, got[0].PlayerCards)
	assert.Equal(t, second.DealerCards, got[0].DealerCards)
	assert.True(t, second.CreatedAt.Equal(got[0].CreatedAt), "created_at %v", got[0].CreatedAt)
	assert.NotEmpty(t, got[0].ID)

	assert.Equal(t, game.OutcomeLoss, got[1].Outcome)
	assert.Equal(t, -50, got[1].Delta)
	assert.Equal(t, 24, got[1].PlayerTotal)

	limited, err := repo.ListByChat(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := repo.ListByChat(ctx, 99, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDecodeCardsRejectsBadInput(t *testing.T) {
	_, err := decodeCards(`[{"rank":14,"suit":"♠"}]`)
	assert.Error(t, err)

	_, err = decodeCards(`[{"rank":3,"suit":"x"}]`)
	assert.Error(t, err)

	_, err = decodeCards(`not json`)
	assert.Error(t, err)

	got, err := decodeCards(`[{"rank":1,"suit":"♥"}]`)
	require.NoError(t, err)
	assert.Equal(t, []game.Card{{Rank: game.Ace, Suit: game.Hearts}}, got)
}
