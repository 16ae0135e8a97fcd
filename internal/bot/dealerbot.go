package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// DealerBot mimics the house: hit below 17, never double or split
type DealerBot struct {
	logger *log.Logger
}

// NewDealerBot creates a new DealerBot instance
func NewDealerBot(logger *log.Logger) *DealerBot {
	return &DealerBot{logger: logger}
}

// Decide implements game.Agent
func (d *DealerBot) Decide(_ context.Context, req game.DecisionRequest) (game.Action, error) {
	return game.DealerDecide(req.Total), nil
}
