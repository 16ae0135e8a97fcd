package game

import (
	"context"

	"github.com/lox/blackjack/internal/deck"
)

// DecisionRequest is an immutable snapshot of everything a seat may use to
// decide on a hand. Agents and hint requests read it; nothing they do with
// it reaches back into the round.
type DecisionRequest struct {
	RoundID   string
	Seat      Seat
	HandIndex int // Position of the hand in the round's hand list
	Cards     []deck.Card
	Total     int
	Soft      bool
	State     HandState
	Bet       float64
	DealerUp  deck.Card
	Available ActionSet
}

// Agent represents any entity (human or bot) that decides for a seat.
// Agents receive immutable state and return an action - the engine applies it.
type Agent interface {
	// Decide returns an action for the requested hand. It may block until
	// one is available; it must return when ctx is cancelled.
	Decide(ctx context.Context, req DecisionRequest) (Action, error)
}

// AgentFunc adapts a function to the Agent interface
type AgentFunc func(ctx context.Context, req DecisionRequest) (Action, error)

// Decide calls f(ctx, req)
func (f AgentFunc) Decide(ctx context.Context, req DecisionRequest) (Action, error) {
	return f(ctx, req)
}

// newDecisionRequest snapshots a hand for its agent
func newDecisionRequest(roundID string, index int, hand *Hand, dealerUp deck.Card, available ActionSet) DecisionRequest {
	return DecisionRequest{
		RoundID:   roundID,
		Seat:      hand.Seat,
		HandIndex: index,
		Cards:     hand.Cards(),
		Total:     hand.Total(),
		Soft:      hand.IsSoft(),
		State:     hand.State,
		Bet:       hand.Bet,
		DealerUp:  dealerUp,
		Available: available,
	}
}
