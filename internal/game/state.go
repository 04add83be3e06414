package game

import (
	"errors"
	"sync"
)

var (
	ErrRoundFinished = errors.New("round is already finished")
	ErrCannotDouble  = errors.New("double is only allowed on the first two cards")
)

type Phase int

const (
	PhasePlayer Phase = iota
	PhaseDone
)

// Round is not safe for concurrent use.
type Round struct {
	Bet         int
	PlayerCards []Card
	DealerCards []Card
	Phase       Phase
	Doubled     bool

	src CardSource
}

// A natural on either side ends the round before the dealer draws.
func NewRound(src CardSource, bet int) *Round {
	r := &Round{
		Bet:         bet,
		PlayerCards: make([]Card, 0, 6),
		DealerCards: make([]Card, 0, 6),
		Phase:       PhasePlayer,
		src:         src,
	}

	r.PlayerCards = append(r.PlayerCards, src.Draw())
	r.DealerCards = append(r.DealerCards, src.Draw())
	r.PlayerCards = append(r.PlayerCards, src.Draw())
	r.DealerCards = append(r.DealerCards, src.Draw())

	if IsBlackjack(r.PlayerCards) || IsBlackjack(r.DealerCards) {
		r.Phase = PhaseDone
	}
	return r
}

func (r *Round) Done() bool {
	return r.Phase == PhaseDone
}

func (r *Round) Hit() (Card, error) {
	if r.Done() {
		return Card{}, ErrRoundFinished
	}

	card := r.src.Draw()
	r.PlayerCards = append(r.PlayerCards, card)

	switch total := r.PlayerScore(); {
	case total > blackjackTotal:
		r.Phase = PhaseDone
	case total == blackjackTotal:
		r.finish()
	}
	return card, nil
}

func (r *Round) Stand() error {
	if r.Done() {
		return ErrRoundFinished
	}
	r.finish()
	return nil
}

func (r *Round) CanDouble() bool {
	return !r.Done() && len(r.PlayerCards) == 2 && !r.Doubled
}

// Double does not touch the balance; the caller takes the extra stake.
func (r *Round) Double() (Card, error) {
	if r.Done() {
		return Card{}, ErrRoundFinished
	}
	if !r.CanDouble() {
		return Card{}, ErrCannotDouble
	}

	r.Bet *= 2
	r.Doubled = true

	card := r.src.Draw()
	r.PlayerCards = append(r.PlayerCards, card)

	if IsBust(r.PlayerCards) {
		r.Phase = PhaseDone
		return card, nil
	}
	r.finish()
	return card, nil
}

func (r *Round) finish() {
	r.DealerCards = DealerPlay(r.src, r.DealerCards)
	r.Phase = PhaseDone
}

func (r *Round) Outcome() Outcome {
	return Settle(r.PlayerCards, r.DealerCards)
}

func (r *Round) PlayerScore() int {
	return HandTotal(r.PlayerCards)
}

func (r *Round) DealerScore() int {
	return HandTotal(r.DealerCards)
}

func (r *Round) UpCard() Card {
	return r.DealerCards[0]
}

// Manager keeps the live round of every chat.
type Manager struct {
	rounds map[int64]*Round
	mu     sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		rounds: make(map[int64]*Round),
	}
}

func (m *Manager) Get(chatID int64) *Round {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rounds[chatID]
}

func (m *Manager) Set(chatID int64, round *Round) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[chatID] = round
}

func (m *Manager) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, chatID)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rounds)
}
