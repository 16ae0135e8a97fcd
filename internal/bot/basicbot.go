package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// BasicBot plays textbook basic strategy
type BasicBot struct {
	oracle *game.Oracle
	logger *log.Logger
}

// NewBasicBot creates a new BasicBot instance
func NewBasicBot(logger *log.Logger) *BasicBot {
	return &BasicBot{oracle: game.NewOracle(logger), logger: logger}
}

// Decide implements game.Agent
func (b *BasicBot) Decide(_ context.Context, req game.DecisionRequest) (game.Action, error) {
	action := b.oracle.Advise(req)
	b.logger.Debug("Bot decision", "seat", req.Seat, "total", req.Total, "soft", req.Soft,
		"dealerUp", req.DealerUp, "action", action)
	return action, nil
}
