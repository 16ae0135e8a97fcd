package game

import "github.com/lox/blackjack/internal/deck"

// HandView is a read-only copy of a hand for rendering
type HandView struct {
	Seat      Seat
	Cards     []deck.Card
	Hidden    int // Number of leading cards shown face down
	Total     int // Zero while a card is hidden
	Soft      bool
	Bet       float64
	Active    bool
	Blackjack bool
	Doubled   bool
	State     HandState
	Current   bool
}

// RoundSnapshot is a read-only copy of a round. Observers may keep it; it
// shares nothing with the live round.
type RoundSnapshot struct {
	RoundID  string
	Hands    []HandView
	Dealer   HandView
	Revealed bool
	Current  int // Index into Hands of the hand being processed, -1 for none
}

// Snapshot copies the round's visible state. The dealer's hole card stays
// hidden until the round reveals it.
func (r *Round) Snapshot() RoundSnapshot {
	snap := RoundSnapshot{
		RoundID:  r.ID,
		Hands:    make([]HandView, len(r.hands)),
		Revealed: r.revealed,
		Current:  r.current,
	}
	for i, h := range r.hands {
		snap.Hands[i] = viewOf(h, 0)
		snap.Hands[i].Current = i == r.current
	}

	hidden := 0
	if !r.revealed && r.dealer.Len() > 0 {
		hidden = 1
	}
	snap.Dealer = viewOf(r.dealer, hidden)
	return snap
}

func viewOf(h *Hand, hidden int) HandView {
	v := HandView{
		Seat:      h.Seat,
		Cards:     h.Cards(),
		Hidden:    hidden,
		Total:     h.Total(),
		Soft:      h.IsSoft(),
		Bet:       h.Bet,
		Active:    h.Active,
		Blackjack: h.Blackjack,
		Doubled:   h.Doubled,
		State:     h.State,
	}
	if hidden > 0 {
		v.Total = 0
		v.Soft = false
		// The hole card code must not leak to observers.
		for i := 0; i < hidden && i < len(v.Cards); i++ {
			v.Cards[i] = 0
		}
	}
	return v
}

// ActiveHands returns the views of hands that take part in settlement
func (s RoundSnapshot) ActiveHands() []HandView {
	out := make([]HandView, 0, len(s.Hands))
	for _, h := range s.Hands {
		if h.Active {
			out = append(out, h)
		}
	}
	return out
}
