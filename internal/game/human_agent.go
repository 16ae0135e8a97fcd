package game

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoPrompt is returned by a HumanAgent without a user interface
var ErrNoPrompt = errors.New("no user interface available")

// PromptFunc asks a human for an action. It blocks until the human answers
// or ctx is cancelled.
type PromptFunc func(ctx context.Context, req DecisionRequest) (Action, error)

// HumanAgent represents a human player that interacts through a user interface.
// Answers outside the offered actions are dropped and the human is asked again.
type HumanAgent struct {
	prompt    PromptFunc
	onInvalid func(req DecisionRequest, action Action)
}

// NewHumanAgent creates a new human agent with a prompt function
func NewHumanAgent(prompt PromptFunc) *HumanAgent {
	return &HumanAgent{prompt: prompt}
}

// OnInvalid registers a callback for answers that are not available
func (h *HumanAgent) OnInvalid(fn func(req DecisionRequest, action Action)) {
	h.onInvalid = fn
}

// Decide prompts until the human picks one of req.Available
func (h *HumanAgent) Decide(ctx context.Context, req DecisionRequest) (Action, error) {
	if h.prompt == nil {
		return 0, ErrNoPrompt
	}
	if req.Available.Empty() {
		return 0, fmt.Errorf("no actions offered for seat %d", req.Seat)
	}

	for {
		action, err := h.prompt(ctx, req)
		if err != nil {
			return 0, err
		}
		if req.Available.Has(action) {
			return action, nil
		}
		if h.onInvalid != nil {
			h.onInvalid(req, action)
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
}
