package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// HandState drives the per-hand state machine. The numeric values are the
// ones the round engine has always used: 0 is terminal.
type HandState int

const (
	StateDone      HandState = 0
	StateInitial   HandState = 1
	StateAfterHit  HandState = 2
	StateSplit     HandState = 3
	StateSplitAces HandState = 4
)

// String returns the string representation of the state
func (s HandState) String() string {
	switch s {
	case StateDone:
		return "done"
	case StateInitial:
		return "initial"
	case StateAfterHit:
		return "after-hit"
	case StateSplit:
		return "split"
	case StateSplitAces:
		return "split-aces"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Seat identifies who owns a hand. The dealer is -1, the first seat (the
// human in interactive play) is 0 and bots follow from 1.
type Seat int

const (
	DealerSeat Seat = -1
	HumanSeat  Seat = 0
)

// Hand is a single blackjack hand. The running sum and the number of aces
// still counted as 11 are maintained as cards are added and always agree
// with the card sequence.
type Hand struct {
	Seat      Seat
	State     HandState
	Bet       float64
	Active    bool
	Blackjack bool
	Doubled   bool
	FromSplit bool

	cards    []deck.Card
	sum      int
	softAces int
}

// NewHand creates an empty hand for a seat in the initial state with a bet of 1
func NewHand(seat Seat) *Hand {
	return &Hand{
		Seat:   seat,
		State:  StateInitial,
		Bet:    1,
		Active: true,
	}
}

// AddCard appends a card and rescores one soft ace if the new card pushes
// the total over 21.
func (h *Hand) AddCard(card deck.Card) {
	h.cards = append(h.cards, card)
	value := card.Value()
	if value == 11 {
		h.softAces++
	}
	h.sum += value
	if h.softAces > 0 && h.sum > 21 {
		h.sum -= 10
		h.softAces--
	}
}

// Total returns the best total of the hand
func (h *Hand) Total() int {
	return h.sum
}

// IsSoft reports whether an ace is currently counted as 11
func (h *Hand) IsSoft() bool {
	return h.softAces > 0
}

// SoftAces returns the number of aces counted as 11
func (h *Hand) SoftAces() int {
	return h.softAces
}

// IsBust reports whether the total exceeds 21
func (h *Hand) IsBust() bool {
	return h.sum > 21
}

// Len returns the number of cards in the hand
func (h *Hand) Len() int {
	return len(h.cards)
}

// Cards returns a copy of the hand's cards
func (h *Hand) Cards() []deck.Card {
	return slices.Clone(h.cards)
}

// Card returns the i-th card of the hand
func (h *Hand) Card(i int) deck.Card {
	return h.cards[i]
}

// Splittable returns the shared blackjack value when the hand holds exactly
// two cards of equal value, 0 otherwise. Any two ten-valued cards match.
func (h *Hand) Splittable() int {
	if len(h.cards) == 2 && h.cards[0].Value() == h.cards[1].Value() {
		return h.cards[0].Value()
	}
	return 0
}

// IsDealer reports whether the hand belongs to the dealer
func (h *Hand) IsDealer() bool {
	return h.Seat == DealerSeat
}

// IsDone reports whether the hand has reached the terminal state
func (h *Hand) IsDone() bool {
	return h.State == StateDone
}

// String returns the cards and total, e.g. "[A♠ 7♦] soft 18"
func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	total := fmt.Sprintf("%d", h.sum)
	if h.IsSoft() {
		total = "soft " + total
	}
	return "[" + strings.Join(parts, " ") + "] " + total
}
