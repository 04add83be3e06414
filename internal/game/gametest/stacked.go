// Package gametest provides scripted card sources for tests that replay
// rounds card for card.
package gametest

import (
	"fmt"
	"sync"

	"blackjack/internal/game"
)

// Stacked deals a fixed list of cards in order. Drawing past the end panics.
type Stacked struct {
	mu    sync.Mutex
	cards []game.Card
	next  int
}

func NewStacked(cards ...game.Card) *Stacked {
	return &Stacked{cards: cards}
}

func (s *Stacked) Draw() game.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.cards) {
		panic(fmt.Sprintf("gametest: all %d stacked cards dealt", len(s.cards)))
	}
	card := s.cards[s.next]
	s.next++
	return card
}

func (s *Stacked) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards) - s.next
}
