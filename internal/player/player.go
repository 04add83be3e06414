package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blackjack/internal/game"
	"blackjack/internal/history"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrNotFound      = errors.New("player not found")
)

type Player struct {
	ChatID     int64 `db:"chat_id"`
	Balance    int   `db:"balance"`
	Wins       int   `db:"wins"`
	Losses     int   `db:"losses"`
	Pushes     int   `db:"pushes"`
	Blackjacks int   `db:"blackjacks"`
	Games      int   `db:"games"`
	LastBet    int   `db:"last_bet"`
}

type Stats struct {
	ChatID  int64 `db:"chat_id"`
	Balance int   `db:"balance"`
	Wins    int   `db:"wins"`
	Games   int   `db:"games"`
	WinRate float64
}

type Repository interface {
	GetOrCreate(ctx context.Context, chatID int64, startBalance, defaultBet int) (*Player, error)
	Save(ctx context.Context, player *Player) error
	GetTopByBalance(ctx context.Context, limit int) ([]Stats, error)
	AddChips(ctx context.Context, chatID int64, amount int) (int, error)
	Settle(ctx context.Context, player *Player, rec history.Record) error
}

type SQLiteRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetOrCreate(ctx context.Context, chatID int64, startBalance, defaultBet int) (*Player, error) {
	player := &Player{}

	err := r.db.GetContext(ctx, player, `
		SELECT chat_id, balance, wins, losses, pushes, blackjacks, games, last_bet
		FROM players WHERE chat_id = ?
	`, chatID)

	if errors.Is(err, sql.ErrNoRows) {
		player = &Player{ChatID: chatID, Balance: startBalance, LastBet: defaultBet}

		_, err = r.db.NamedExecContext(ctx, `
			INSERT INTO players (chat_id, balance, last_bet)
			VALUES (:chat_id, :balance, :last_bet)
		`, player)

		if err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return player, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, player *Player) error {
	return save(ctx, r.db, player)
}

// Settle stores the player and the round record in one transaction.
func (r *SQLiteRepository) Settle(ctx context.Context, player *Player, rec history.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer tx.Rollback()

	if err := save(ctx, tx, player); err != nil {
		return err
	}
	if err := history.Insert(ctx, tx, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}

func save(ctx context.Context, ext sqlx.ExtContext, player *Player) error {
	res, err := sqlx.NamedExecContext(ctx, ext, `
		UPDATE players SET
			balance = :balance, wins = :wins, losses = :losses, pushes = :pushes,
			blackjacks = :blackjacks, games = :games, last_bet = :last_bet,
			updated_at = CURRENT_TIMESTAMP
		WHERE chat_id = :chat_id
	`, player)
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetTopByBalance(ctx context.Context, limit int) ([]Stats, error) {
	var stats []Stats
	err := r.db.SelectContext(ctx, &stats, `
		SELECT chat_id, balance, wins, games
		FROM players
		WHERE games > 0
		ORDER BY balance DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top players: %w", err)
	}

	for i := range stats {
		if stats[i].Games > 0 {
			stats[i].WinRate = float64(stats[i].Wins) / float64(stats[i].Games) * 100
		}
	}
	return stats, nil
}

// AddChips credits purchased chips and returns the new balance.
func (r *SQLiteRepository) AddChips(ctx context.Context, chatID int64, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin purchase: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE players SET balance = balance + ?, updated_at = CURRENT_TIMESTAMP
		WHERE chat_id = ?
	`, amount, chatID)
	if err != nil {
		return 0, fmt.Errorf("failed to add chips: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}

	var balance int
	if err := tx.GetContext(ctx, &balance, `SELECT balance FROM players WHERE chat_id = ?`, chatID); err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit purchase: %w", err)
	}
	return balance, nil
}

// Apply books a settled round: credit goes back to the balance and the
// matching counter is bumped.
func (p *Player) Apply(outcome game.Outcome, credit int) {
	p.Balance += credit
	p.Games++

	switch outcome {
	case game.OutcomeWin:
		p.Wins++
	case game.OutcomeBlackjack:
		p.Wins++
		p.Blackjacks++
	case game.OutcomePush:
		p.Pushes++
	default:
		p.Losses++
	}
}

func (p *Player) PlaceBet(amount int) bool {
	if amount <= 0 || amount > p.Balance {
		return false
	}
	p.Balance -= amount
	p.LastBet = amount
	return true
}

func (p *Player) CanAfford(amount int) bool {
	return p.Balance >= amount
}

func (p *Player) WinRate() float64 {
	if p.Games == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Games) * 100
}
