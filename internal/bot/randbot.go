package bot

import (
	"context"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// RandBot is a simple bot that picks uniformly among the offered actions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

// Decide implements game.Agent
func (r *RandBot) Decide(_ context.Context, req game.DecisionRequest) (game.Action, error) {
	actions := req.Available.Actions()
	if len(actions) == 0 {
		return game.Stand, nil
	}
	return actions[r.rng.IntN(len(actions))], nil
}
