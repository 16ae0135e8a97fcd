package game

import (
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// Round owns the hands of one deal: the player hands in processing order,
// the dealer hand and the per-seat winnings. Split children are inserted
// into hands while it is being walked, so it is always addressed by index.
type Round struct {
	ID       string
	hands    []*Hand
	dealer   *Hand
	seats    int
	revealed bool
	current  int
	splits   map[Seat]int
	winnings []float64
}

func newRound(id string, seats int) *Round {
	r := &Round{
		ID:       id,
		hands:    make([]*Hand, 0, seats),
		dealer:   NewHand(DealerSeat),
		seats:    seats,
		current:  -1,
		splits:   make(map[Seat]int),
		winnings: make([]float64, seats),
	}
	for seat := 0; seat < seats; seat++ {
		r.hands = append(r.hands, NewHand(Seat(seat)))
	}
	return r
}

// Hands returns the player hands in processing order, including split
// parents that are no longer active
func (r *Round) Hands() []*Hand {
	return r.hands
}

// Hand returns the i-th player hand
func (r *Round) Hand(i int) *Hand {
	return r.hands[i]
}

// Dealer returns the dealer's hand
func (r *Round) Dealer() *Hand {
	return r.dealer
}

// Seats returns the number of player seats in the round
func (r *Round) Seats() int {
	return r.seats
}

// DealerUpcard returns the dealer's face-up card: the second card dealt.
// The first card is the hole card.
func (r *Round) DealerUpcard() deck.Card {
	if r.dealer.Len() < 2 {
		return r.dealer.Card(0)
	}
	return r.dealer.Card(1)
}

// Revealed reports whether the dealer's hole card is visible
func (r *Round) Revealed() bool {
	return r.revealed
}

// Winnings returns the per-seat winnings, in units of the original bet
func (r *Round) Winnings() []float64 {
	return slices.Clone(r.winnings)
}

// ActiveHands returns the hands that take part in settlement
func (r *Round) ActiveHands() []*Hand {
	out := make([]*Hand, 0, len(r.hands))
	for _, h := range r.hands {
		if h.Active {
			out = append(out, h)
		}
	}
	return out
}

// hasSplit reports whether seat has split a hand this round
func (r *Round) hasSplit(seat Seat) bool {
	return r.splits[seat] > 0
}

// split replaces the hand at index with two children, each holding one of
// its cards, inserted immediately after it.
func (r *Round) split(index int) (*Hand, *Hand) {
	parent := r.hands[index]
	parent.Active = false
	parent.State = StateDone

	state := StateSplit
	if parent.Card(0).IsAce() {
		state = StateSplitAces
	}

	first, second := NewHand(parent.Seat), NewHand(parent.Seat)
	first.AddCard(parent.Card(0))
	second.AddCard(parent.Card(1))
	for _, child := range []*Hand{first, second} {
		child.State = state
		child.FromSplit = true
	}

	r.hands = slices.Insert(r.hands, index+1, first, second)
	r.splits[parent.Seat]++
	return first, second
}

// forceDone ends every player hand, used when the dealer has a natural
func (r *Round) forceDone() {
	for _, h := range r.hands {
		h.State = StateDone
	}
}
