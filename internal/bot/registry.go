// Package bot provides the computer players that fill the non-human seats.
package bot

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// ErrUnknownBot is returned for a strategy name with no bot behind it
var ErrUnknownBot = errors.New("unknown bot strategy")

// Strategy names accepted by New
const (
	Basic    = "basic"
	Dealer   = "dealer"
	Cautious = "cautious"
	Random   = "random"
)

// Names returns the known strategy names in display order
func Names() []string {
	return []string{Basic, Dealer, Cautious, Random}
}

// New creates the bot for a strategy name. rng is only used by bots that
// make random choices.
func New(name string, rng *rand.Rand, logger *log.Logger) (game.Agent, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Basic
	}
	logger = logger.WithPrefix(name + "-bot")

	switch name {
	case Basic:
		return NewBasicBot(logger), nil
	case Dealer:
		return NewDealerBot(logger), nil
	case Cautious:
		return NewCautiousBot(logger), nil
	case Random:
		if rng == nil {
			return nil, fmt.Errorf("%s bot requires an rng", Random)
		}
		return NewRandBot(rng, logger), nil
	default:
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownBot, name, strings.Join(Names(), ", "))
	}
}

// Valid reports whether name is a known strategy
func Valid(name string) bool {
	return slices.Contains(Names(), strings.ToLower(strings.TrimSpace(name)))
}
