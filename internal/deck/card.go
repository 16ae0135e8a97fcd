package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Ranks are numbered the way card codes are laid
// out: Two is 0 and Ace is 12.
type Rank int

const (
	Two Rank = iota
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
	Ace
)

const rankChars = "23456789TJQKA"
const suitChars = "shdc"

// String returns the string representation of a rank
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return rankChars[r : r+1]
}

// CardsPerDeck is the number of distinct card codes.
const CardsPerDeck = 52

// Card is a rank-suit code in [0,52). The rank is code%13 and the suit is
// code/13.
type Card uint8

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card(int(suit)*13 + int(rank))
}

// Rank returns the card's rank
func (c Card) Rank() Rank {
	return Rank(c % 13)
}

// Suit returns the card's suit
func (c Card) Suit() Suit {
	return Suit(c / 13)
}

// Valid reports whether the code is inside the 52-card range.
func (c Card) Valid() bool {
	return c < CardsPerDeck
}

// Value returns the blackjack value of the card: pips count face value,
// J/Q/K count 10 and an Ace counts 11. Hands rescore aces to 1 when needed.
func (c Card) Value() int {
	v := int(c.Rank()) + 2
	switch {
	case v > 10 && v < 14:
		return 10
	case v == 14:
		return 11
	}
	return v
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank() == Ace
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit().IsRed()
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// ParseCard parses a two character card such as "As", "Td" or "9c".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q: expected rank and suit", s)
	}
	rank := strings.IndexByte(rankChars, strings.ToUpper(s[:1])[0])
	if rank < 0 {
		return 0, fmt.Errorf("invalid rank in card %q", s)
	}
	suit := strings.IndexByte(suitChars, strings.ToLower(s[1:])[0])
	if suit < 0 {
		return 0, fmt.Errorf("invalid suit in card %q", s)
	}
	return NewCard(Rank(rank), Suit(suit)), nil
}

// ParseCards parses a run of cards such as "AsKd9c" or "As Kd 9c".
// Whitespace between cards is ignored.
func ParseCards(s string) ([]Card, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string %q: odd length", s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
