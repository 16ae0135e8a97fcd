package deck

import (
	"math/rand/v2"
	"slices"
)

// Shoe is one or more shuffled 52-card decks drawn from the end towards the
// start. position indexes the next card to be drawn, so Remaining is
// position+1 and an exhausted shoe has position -1.
type Shoe struct {
	cards    []Card
	position int
	decks    int
	rng      *rand.Rand
}

// NewShoe creates a shuffled shoe of the given number of decks
func NewShoe(rng *rand.Rand, decks int) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	s := &Shoe{rng: rng}
	s.Reset(decks)
	return s
}

// NewStackedShoe creates a shoe that deals exactly the given cards in order.
// It never shuffles; Reset on a stacked shoe restores the original order.
// A stacked shoe reports zero decks, so it only asks for a reshuffle once it
// is empty.
func NewStackedShoe(cards ...Card) *Shoe {
	stacked := slices.Clone(cards)
	slices.Reverse(stacked)
	return &Shoe{
		cards:    stacked,
		position: len(stacked) - 1,
	}
}

// Reset rebuilds a full shoe of the given number of decks, shuffles it and
// puts the cursor back on top.
func (s *Shoe) Reset(decks int) {
	if s.rng == nil {
		s.position = len(s.cards) - 1
		return
	}
	if decks < 1 {
		decks = 1
	}
	s.decks = decks
	s.cards = s.cards[:0]
	for i := 0; i < decks*CardsPerDeck; i++ {
		s.cards = append(s.cards, Card(i%CardsPerDeck))
	}
	s.shuffle()
	s.position = len(s.cards) - 1
}

// shuffle is a Fisher–Yates shuffle over the whole shoe
func (s *Shoe) shuffle() {
	for n := len(s.cards) - 1; n > 0; n-- {
		j := s.rng.IntN(n + 1)
		s.cards[n], s.cards[j] = s.cards[j], s.cards[n]
	}
}

// Draw removes and returns the next card. It returns false once the shoe is
// exhausted; callers must reshuffle before drawing again.
func (s *Shoe) Draw() (Card, bool) {
	if s.position < 0 {
		return 0, false
	}
	card := s.cards[s.position]
	s.position--
	return card, true
}

// Remaining returns the number of undrawn cards
func (s *Shoe) Remaining() int {
	return s.position + 1
}

// Size returns the total number of cards in a full shoe
func (s *Shoe) Size() int {
	return len(s.cards)
}

// Decks returns the number of decks the shoe was built from
func (s *Shoe) Decks() int {
	return s.decks
}

// NeedsReshuffle reports whether the undrawn part of the shoe has fallen to
// part × decks × 52 cards or fewer.
func (s *Shoe) NeedsReshuffle(part float64) bool {
	return float64(s.Remaining()) <= part*float64(s.decks*CardsPerDeck)
}
