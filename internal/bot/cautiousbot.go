package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// CautiousBot never takes a card that could bust it. Soft hands hit below
// 18 since an ace can always drop to one.
type CautiousBot struct {
	logger *log.Logger
}

// NewCautiousBot creates a new CautiousBot instance
func NewCautiousBot(logger *log.Logger) *CautiousBot {
	return &CautiousBot{logger: logger}
}

// Decide implements game.Agent
func (c *CautiousBot) Decide(_ context.Context, req game.DecisionRequest) (game.Action, error) {
	switch {
	case req.Soft && req.Total < 18:
		return game.Hit, nil
	case !req.Soft && req.Total < 12:
		return game.Hit, nil
	default:
		return game.Stand, nil
	}
}
