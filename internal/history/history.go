package history

import (
	"context"
	"fmt"
	"time"

	"blackjack/internal/game"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is one settled round as shown on the /history screen.
type Record struct {
	ID          string
	ChatID      int64
	Bet         int
	Outcome     game.Outcome
	PlayerTotal int
	DealerTotal int
	PlayerCards []game.Card
	DealerCards []game.Card
	Delta       int
	CreatedAt   time.Time
}

func NewRecord(chatID int64, round *game.Round, payout game.Payout, now time.Time) Record {
	return Record{
		ID:          uuid.NewString(),
		ChatID:      chatID,
		Bet:         round.Bet,
		Outcome:     round.Outcome(),
		PlayerTotal: round.PlayerScore(),
		DealerTotal: round.DealerScore(),
		PlayerCards: append([]game.Card(nil), round.PlayerCards...),
		DealerCards: append([]game.Card(nil), round.DealerCards...),
		Delta:       payout.Delta,
		CreatedAt:   now.UTC(),
	}
}

type Repository interface {
	Save(ctx context.Context, rec Record) error
	ListByChat(ctx context.Context, chatID int64, limit int) ([]Record, error)
}

type row struct {
	ID          string    `db:"id"`
	ChatID      int64     `db:"chat_id"`
	Bet         int       `db:"bet"`
	Outcome     string    `db:"outcome"`
	PlayerTotal int       `db:"player_total"`
	DealerTotal int       `db:"dealer_total"`
	PlayerCards string    `db:"player_cards"`
	DealerCards string    `db:"dealer_cards"`
	Delta       int       `db:"delta"`
	CreatedAt   time.Time `db:"created_at"`
}

type SQLiteRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, rec Record) error {
	return Insert(ctx, r.db, rec)
}

// Insert writes rec through ext, which may be a transaction owned by the caller.
func Insert(ctx context.Context, ext sqlx.ExtContext, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	playerCards, err := encodeCards(rec.PlayerCards)
	if err != nil {
		return err
	}
	dealerCards, err := encodeCards(rec.DealerCards)
	if err != nil {
		return err
	}

	_, err = sqlx.NamedExecContext(ctx, ext, `
		INSERT INTO games (id, chat_id, bet, outcome, player_total, dealer_total,
			player_cards, dealer_cards, delta, created_at)
		VALUES (:id, :chat_id, :bet, :outcome, :player_total, :dealer_total,
			:player_cards, :dealer_cards, :delta, :created_at)
	`, row{
		ID:          rec.ID,
		ChatID:      rec.ChatID,
		Bet:         rec.Bet,
		Outcome:     rec.Outcome.String(),
		PlayerTotal: rec.PlayerTotal,
		DealerTotal: rec.DealerTotal,
		PlayerCards: playerCards,
		DealerCards: dealerCards,
		Delta:       rec.Delta,
		CreatedAt:   rec.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

// ListByChat returns the most recent rounds first.
func (r *SQLiteRepository) ListByChat(ctx context.Context, chatID int64, limit int) ([]Record, error) {
	var rows []row
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, chat_id, bet, outcome, player_total, dealer_total,
			player_cards, dealer_cards, delta, created_at
		FROM games
		WHERE chat_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, rw := range rows {
		rec, err := rw.record()
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", rw.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (rw row) record() (Record, error) {
	outcome, err := game.ParseOutcome(rw.Outcome)
	if err != nil {
		return Record{}, err
	}
	playerCards, err := decodeCards(rw.PlayerCards)
	if err != nil {
		return Record{}, err
	}
	dealerCards, err := decodeCards(rw.DealerCards)
	if err != nil {
		return Record{}, err
	}

	return Record{
		ID:          rw.ID,
		ChatID:      rw.ChatID,
		Bet:         rw.Bet,
		Outcome:     outcome,
		PlayerTotal: rw.PlayerTotal,
		DealerTotal: rw.DealerTotal,
		PlayerCards: playerCards,
		DealerCards: dealerCards,
		Delta:       rw.Delta,
		CreatedAt:   rw.CreatedAt,
	}, nil
}

type cardJSON struct {
	Rank int    `json:"rank"`
	Suit string `json:"suit"`
}

func encodeCards(cards []game.Card) (string, error) {
	out := make([]cardJSON, len(cards))
	for i, c := range cards {
		out[i] = cardJSON{Rank: int(c.Rank), Suit: c.Suit.String()}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode cards: %w", err)
	}
	return string(b), nil
}

func decodeCards(s string) ([]game.Card, error) {
	var in []cardJSON
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}

	cards := make([]game.Card, len(in))
	for i, c := range in {
		if c.Rank < int(game.Ace) || c.Rank > int(game.King) {
			return nil, fmt.Errorf("invalid rank %d", c.Rank)
		}
		suit, err := game.ParseSuit(c.Suit)
		if err != nil {
			return nil, err
		}
		cards[i] = game.Card{Rank: game.Rank(c.Rank), Suit: suit}
	}
	return cards, nil
}
