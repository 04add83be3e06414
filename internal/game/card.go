package game

import (
	"fmt"
	"strconv"
	"strings"
)

type Rank uint8

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

// Value is the card's base contribution to a total. Aces count 1 here;
// HandTotal decides whether they are upgraded to 11.
func (r Rank) Value() int {
	if r >= Jack {
		return 10
	}
	return int(r)
}

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return strconv.Itoa(int(r))
}

type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var suitSymbols = [...]string{"♠", "♥", "♦", "♣"}

func (s Suit) Valid() bool {
	return int(s) < len(suitSymbols)
}

func (s Suit) String() string {
	if !s.Valid() {
		return "?"
	}
	return suitSymbols[s]
}

func ParseSuit(symbol string) (Suit, error) {
	for i, sym := range suitSymbols {
		if sym == symbol {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", symbol)
}

type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

func FormatHand(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
