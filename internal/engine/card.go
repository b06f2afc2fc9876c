// Package engine implements the Callbreak game rules.
//
// The package is pure logic over in-memory values: it never touches the
// store, never blocks, and every operation either mutates the owned Game
// value or returns a caller-visible error. Persistence of the resulting
// snapshot is entirely the caller's concern.
package engine

import (
	"fmt"
	"math/rand"
)

// Suit identifies one of the four standard suits.
type Suit uint8

const (
	SuitClubs Suit = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

// Rank is the standard 13-rank ladder, 2 low and Ace high.
type Rank uint8

const (
	RankTwo Rank = iota + 2
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

var suitLetters = [4]byte{'C', 'D', 'H', 'S'}
var rankLetters = [13]byte{'2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K', 'A'}

// Card is an immutable rank+suit pair. Each combination appears exactly
// once per deck, so two cards in one round are never equal.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// String renders the card as rank letter followed by suit letter,
// e.g. "AS" for the Ace of Spades, "TD" for the Ten of Diamonds.
func (c Card) String() string {
	if c.Rank < RankTwo || c.Rank > RankAce || c.Suit > SuitSpades {
		return "??"
	}
	return string([]byte{rankLetters[c.Rank-RankTwo], suitLetters[c.Suit]})
}

// MarshalText serializes the card in its two-letter form so that hands
// round-trip through the store as arrays of strings.
func (c Card) MarshalText() ([]byte, error) {
	s := c.String()
	if s == "??" {
		return nil, fmt.Errorf("cannot marshal invalid card {rank %d, suit %d}", c.Rank, c.Suit)
	}
	return []byte(s), nil
}

// UnmarshalText parses the two-letter form produced by MarshalText.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a two-letter card token such as "AS" or "TD".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("malformed card %q: want rank letter followed by suit letter", s)
	}
	var card Card
	found := false
	for i, r := range rankLetters {
		if r == s[0] {
			card.Rank = RankTwo + Rank(i)
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("malformed card %q: unknown rank %q", s, s[0])
	}
	found = false
	for i, l := range suitLetters {
		if l == s[1] {
			card.Suit = Suit(i)
			found = true
			break
		}
	}
	if !found {
		return Card{}, fmt.Errorf("malformed card %q: unknown suit %q", s, s[1])
	}
	return card, nil
}

// Suits returns the four suits in ascending order.
func Suits() []Suit {
	return []Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}
}

// Ranks returns the thirteen ranks in ascending order.
func Ranks() []Rank {
	ranks := make([]Rank, 0, 13)
	for r := RankTwo; r <= RankAce; r++ {
		ranks = append(ranks, r)
	}
	return ranks
}

// NewDeck returns the 52 unique cards in a fresh random permutation.
// Successive calls yield independent shuffles.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits() {
		for _, rank := range Ranks() {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}
