package game

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// CardSource draws with replacement; there is no shoe to run out of.
type CardSource interface {
	Draw() Card
}

type randSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSource() CardSource {
	var seed [8]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		panic("game: cannot seed card source: " + err.Error())
	}
	return NewSeededSource(int64(binary.LittleEndian.Uint64(seed[:])))
}

func NewSeededSource(seed int64) CardSource {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSource) Draw() Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	rank := Rank(s.rng.Intn(13) + 1)
	suit := Suit(s.rng.Intn(len(suitSymbols)))
	return Card{Rank: rank, Suit: suit}
}
