package game

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/statistics"
)

// Option configures a GameEngine during creation.
type Option func(*options)

type options struct {
	logger  *log.Logger
	clock   quartz.Clock
	bus     EventBus
	session *statistics.Session
	shoe    *deck.Shoe
	rng     *rand.Rand
	ids     func() string
}

// WithLogger sets the logger. Without one the engine is silent.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock sets the clock used for pacing. Tests pass a quartz mock.
func WithClock(clock quartz.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithEventBus publishes events on bus instead of a private one
func WithEventBus(bus EventBus) Option {
	return func(o *options) { o.bus = bus }
}

// WithSession records the human's decisions into session
func WithSession(session *statistics.Session) Option {
	return func(o *options) { o.session = session }
}

// WithShoe uses a prepared shoe, such as a stacked one. It takes precedence over WithRNG.
func WithShoe(shoe *deck.Shoe) Option {
	return func(o *options) { o.shoe = shoe }
}

// WithRNG shuffles the engine's shoe with rng, making play deterministic
//
// Example usage:
//
//	rng := randutil.New(42)
//	engine, err := game.NewGameEngine(cfg, agents, game.WithRNG(rng))
func WithRNG(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithRoundIDs sets the round identifier generator
func WithRoundIDs(ids func() string) Option {
	return func(o *options) { o.ids = ids }
}
