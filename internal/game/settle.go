package game

import "github.com/lox/blackjack/internal/deck"

// Outcome is the result of one hand against the dealer
type Outcome int

const (
	Lose Outcome = iota - 1
	Push
	Win
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return "push"
	}
}

// HandOutcome is the settlement of one active hand
type HandOutcome struct {
	Seat      Seat
	HandIndex int
	Cards     []deck.Card
	Total     int
	Bet       float64
	Blackjack bool
	Doubled   bool
	FromSplit bool
	Outcome   Outcome
	Delta     float64 // Winnings in units of the original bet, after the multiplier
}

// Bust reports whether the hand went over 21
func (o HandOutcome) Bust() bool {
	return o.Total > 21
}

// Settle compares every active hand with the dealer. A player bust loses
// even when the dealer busts too; otherwise a dealer bust or a higher total
// wins, a lower total loses and equal totals push. Deltas are bet × multiplier.
func Settle(hands []*Hand, dealer *Hand, multiplier float64) []HandOutcome {
	outcomes := make([]HandOutcome, 0, len(hands))
	for i, h := range hands {
		if !h.Active {
			continue
		}

		var outcome Outcome
		switch {
		case h.Total() > 21:
			outcome = Lose
		case dealer.Total() > 21:
			outcome = Win
		case h.Total() > dealer.Total():
			outcome = Win
		case h.Total() < dealer.Total():
			outcome = Lose
		default:
			outcome = Push
		}

		outcomes = append(outcomes, HandOutcome{
			Seat:      h.Seat,
			HandIndex: i,
			Cards:     h.Cards(),
			Total:     h.Total(),
			Bet:       h.Bet,
			Blackjack: h.Blackjack,
			Doubled:   h.Doubled,
			FromSplit: h.FromSplit,
			Outcome:   outcome,
			Delta:     float64(outcome) * h.Bet * multiplier,
		})
	}
	return outcomes
}

// SeatWinnings sums hand deltas per seat
func SeatWinnings(outcomes []HandOutcome, seats int) []float64 {
	winnings := make([]float64, seats)
	for _, o := range outcomes {
		if int(o.Seat) >= 0 && int(o.Seat) < seats {
			winnings[o.Seat] += o.Delta
		}
	}
	return winnings
}

// RoundResult is everything decided by a settled round
type RoundResult struct {
	RoundID         string
	Outcomes        []HandOutcome
	Winnings        []float64 // Per seat, this round
	Totals          []float64 // Per seat, running balance after this round
	DealerCards     []deck.Card
	DealerTotal     int
	DealerBlackjack bool
	Reshuffled      bool
	Snapshot        RoundSnapshot
}

// OutcomesFor returns the outcomes of one seat's hands
func (r *RoundResult) OutcomesFor(seat Seat) []HandOutcome {
	var out []HandOutcome
	for _, o := range r.Outcomes {
		if o.Seat == seat {
			out = append(out, o)
		}
	}
	return out
}
