package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/roundid"
	"github.com/lox/blackjack/internal/statistics"
)

// ErrShoeExhausted is returned when the shoe runs out of cards mid-round
var ErrShoeExhausted = errors.New("shoe exhausted")

// Pacing holds the delays between visible steps of a round. Zero disables a delay.
type Pacing struct {
	Deal   time.Duration // Between dealt cards
	Bot    time.Duration // Before a bot acts
	Dealer time.Duration // Before the dealer acts
}

// Config configures a GameEngine
type Config struct {
	Decks         int     // Decks in the shoe
	ReshufflePart float64 // Reshuffle when at most this fraction of the shoe remains
	Seats         int     // Player seats, including the human seat
	Human         bool    // Seat 0 is played by a human
	BetMultiplier float64 // Scales every settled delta
	MaxHands      int     // Splits are refused once a round holds this many hands
	Pacing        Pacing
}

// DefaultConfig returns the standard single-deck table: the human plus two bots
func DefaultConfig() Config {
	return Config{
		Decks:         1,
		ReshufflePart: 0.25,
		Seats:         3,
		Human:         true,
		BetMultiplier: 1,
		MaxHands:      12,
		Pacing: Pacing{
			Deal:   200 * time.Millisecond,
			Bot:    500 * time.Millisecond,
			Dealer: 500 * time.Millisecond,
		},
	}
}

// Validate checks the configuration for values the engine cannot play with
func (c Config) Validate() error {
	if c.Decks < 1 {
		return fmt.Errorf("decks must be at least 1, got %d", c.Decks)
	}
	if c.ReshufflePart <= 0 || c.ReshufflePart > 1 {
		return fmt.Errorf("reshuffle part must be in (0, 1], got %v", c.ReshufflePart)
	}
	if c.Seats < 1 {
		return fmt.Errorf("at least one seat required, got %d", c.Seats)
	}
	if c.BetMultiplier <= 0 {
		return fmt.Errorf("bet multiplier must be positive, got %v", c.BetMultiplier)
	}
	if c.MaxHands < c.Seats {
		return fmt.Errorf("max hands (%d) must be at least the number of seats (%d)", c.MaxHands, c.Seats)
	}
	if c.Pacing.Deal < 0 || c.Pacing.Bot < 0 || c.Pacing.Dealer < 0 {
		return errors.New("pacing delays must not be negative")
	}
	return nil
}

// GameEngine plays rounds of blackjack between a fixed set of seats and the
// dealer. It owns the shoe and the running per-seat totals; one round runs
// at a time.
type GameEngine struct {
	cfg     Config
	agents  []Agent
	shoe    *deck.Shoe
	oracle  *Oracle
	logger  *log.Logger
	clock   quartz.Clock
	bus     EventBus
	session *statistics.Session
	ids     func() string

	mu     sync.Mutex
	totals []float64
	rounds int
}

// NewGameEngine creates an engine. agents holds one agent per seat; with
// cfg.Human set, agents[0] is the human's.
func NewGameEngine(cfg Config, agents []Agent, opts ...Option) (*GameEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(agents) != cfg.Seats {
		return nil, fmt.Errorf("need %d agents, got %d", cfg.Seats, len(agents))
	}
	for i, agent := range agents {
		if agent == nil {
			return nil, fmt.Errorf("agent for seat %d is nil", i)
		}
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}
	if o.clock == nil {
		o.clock = quartz.NewReal()
	}
	if o.bus == nil {
		o.bus = NewEventBus()
	}
	if o.session == nil {
		o.session = statistics.NewSession()
	}
	if o.ids == nil {
		o.ids = roundid.Generate
	}
	if o.shoe == nil {
		rng := o.rng
		if rng == nil {
			rng, _ = randutil.FromSeed(0)
		}
		o.shoe = deck.NewShoe(rng, cfg.Decks)
	}

	logger := o.logger.WithPrefix("engine")
	return &GameEngine{
		cfg:     cfg,
		agents:  slices.Clone(agents),
		shoe:    o.shoe,
		oracle:  NewOracle(o.logger),
		logger:  logger,
		clock:   o.clock,
		bus:     o.bus,
		session: o.session,
		ids:     o.ids,
		totals:  make([]float64, cfg.Seats),
	}, nil
}

// GetEventBus returns the event bus for subscribing to game events
func (e *GameEngine) GetEventBus() EventBus {
	return e.bus
}

// Session returns the human's decision statistics
func (e *GameEngine) Session() *statistics.Session {
	return e.session
}

// Config returns the engine configuration
func (e *GameEngine) Config() Config {
	return e.cfg
}

// Totals returns the running per-seat balance over all settled rounds
func (e *GameEngine) Totals() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.totals)
}

// Rounds returns the number of settled rounds
func (e *GameEngine) Rounds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rounds
}

// PlayRound deals, plays and settles one round. Totals change only when the
// round settles: a cancelled or failed round leaves them untouched.
func (e *GameEngine) PlayRound(ctx context.Context) (*RoundResult, error) {
	reshuffled := false
	if e.shoe.NeedsReshuffle(e.cfg.ReshufflePart) {
		e.shoe.Reset(e.cfg.Decks)
		reshuffled = true
		e.logger.Info("Deck reshuffled", "decks", e.cfg.Decks, "cards", e.shoe.Remaining())
		e.bus.Publish(NewReshuffleEvent(e.cfg.Decks, e.shoe.Remaining()))
	}

	r := newRound(e.ids(), e.cfg.Seats)
	logger := e.logger.With("round", r.ID)
	logger.Debug("Round started", "seats", e.cfg.Seats, "shoe", e.shoe.Remaining())
	e.bus.Publish(NewRoundStartEvent(r.Snapshot(), e.cfg.Seats))

	if err := e.deal(ctx, r); err != nil {
		return nil, fmt.Errorf("round %s: %w", r.ID, err)
	}

	if r.dealer.Total() == 21 {
		logger.Debug("Dealer natural", "dealer", r.dealer)
		r.revealed = true
		r.forceDone()
		e.bus.Publish(NewRevealEvent(r.Snapshot(), true))
	}

	// Split children are inserted after the current index, so the length
	// is re-read on every iteration.
	for i := 0; i < len(r.hands); i++ {
		r.current = i
		for !r.hands[i].IsDone() {
			if err := e.step(ctx, r, i, r.hands[i]); err != nil {
				return nil, fmt.Errorf("round %s: %w", r.ID, err)
			}
		}
	}
	r.current = -1

	if !r.revealed {
		r.revealed = true
		e.bus.Publish(NewRevealEvent(r.Snapshot(), false))
	}
	for !r.dealer.IsDone() {
		if err := e.step(ctx, r, -1, r.dealer); err != nil {
			return nil, fmt.Errorf("round %s: %w", r.ID, err)
		}
	}

	return e.settle(r, reshuffled, logger), nil
}

// settle scores the round and commits it to the running totals
func (e *GameEngine) settle(r *Round, reshuffled bool, logger *log.Logger) *RoundResult {
	outcomes := Settle(r.hands, r.dealer, e.cfg.BetMultiplier)
	r.winnings = SeatWinnings(outcomes, r.seats)

	e.mu.Lock()
	for seat, delta := range r.winnings {
		e.totals[seat] += delta
	}
	e.rounds++
	totals := slices.Clone(e.totals)
	e.mu.Unlock()

	result := &RoundResult{
		RoundID:         r.ID,
		Outcomes:        outcomes,
		Winnings:        r.Winnings(),
		Totals:          totals,
		DealerCards:     r.dealer.Cards(),
		DealerTotal:     r.dealer.Total(),
		DealerBlackjack: r.dealer.Blackjack,
		Reshuffled:      reshuffled,
		Snapshot:        r.Snapshot(),
	}

	logger.Info("Round settled", "dealer", r.dealer.Total(), "winnings", result.Winnings)
	e.bus.Publish(NewRoundEndEvent(result))
	return result
}

// deal gives two cards to every seat and the dealer, one at a time
func (e *GameEngine) deal(ctx context.Context, r *Round) error {
	for pass := 0; pass < 2; pass++ {
		for _, h := range r.hands {
			if err := e.dealCard(ctx, r, h, false); err != nil {
				return err
			}
		}
		if err := e.dealCard(ctx, r, r.dealer, pass == 0); err != nil {
			return err
		}
	}
	return nil
}

func (e *GameEngine) dealCard(ctx context.Context, r *Round, h *Hand, faceDown bool) error {
	if err := e.pace(ctx, e.cfg.Pacing.Deal); err != nil {
		return err
	}
	card, err := e.draw(h)
	if err != nil {
		return err
	}
	e.bus.Publish(NewCardDealtEvent(r.Snapshot(), h.Seat, card, faceDown))
	return nil
}

func (e *GameEngine) draw(h *Hand) (deck.Card, error) {
	card, ok := e.shoe.Draw()
	if !ok {
		return 0, ErrShoeExhausted
	}
	h.AddCard(card)
	return card, nil
}

// step advances one hand by one transition of its state machine
func (e *GameEngine) step(ctx context.Context, r *Round, index int, h *Hand) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch h.State {
	case StateInitial:
		if h.Total() == 21 {
			// A natural pays 3:2 unless the seat has already split this round.
			if h.IsDealer() || !r.hasSplit(h.Seat) {
				h.Blackjack = true
				if !h.IsDealer() {
					h.Bet *= 1.5
				}
			}
			h.State = StateDone
			return nil
		}
		return e.act(ctx, r, index, h, e.openingActions(r, h))

	case StateAfterHit:
		if h.Total() >= 21 {
			h.State = StateDone
			return nil
		}
		return e.act(ctx, r, index, h, NewActionSet(Stand, Hit))

	case StateSplit:
		if _, err := e.drawPaced(ctx, r, h); err != nil {
			return err
		}
		if h.Total() >= 21 {
			h.State = StateDone
			return nil
		}
		return e.act(ctx, r, index, h, e.openingActions(r, h))

	case StateSplitAces:
		if _, err := e.drawPaced(ctx, r, h); err != nil {
			return err
		}
		h.State = StateDone
		return nil

	default:
		e.logger.Error("Unexpected hand state", "round", r.ID, "seat", h.Seat, "state", h.State)
		h.State = StateDone
		return nil
	}
}

func (e *GameEngine) drawPaced(ctx context.Context, r *Round, h *Hand) (deck.Card, error) {
	if err := e.pace(ctx, e.cfg.Pacing.Deal); err != nil {
		return 0, err
	}
	card, err := e.draw(h)
	if err != nil {
		return 0, err
	}
	e.bus.Publish(NewCardDealtEvent(r.Snapshot(), h.Seat, card, false))
	return card, nil
}

// openingActions are the actions offered on a hand's first decision
func (e *GameEngine) openingActions(r *Round, h *Hand) ActionSet {
	if h.IsDealer() {
		return NewActionSet(Stand, Hit)
	}
	available := NewActionSet(Stand, Hit, Double)
	if h.Splittable() > 0 && len(r.hands) < e.cfg.MaxHands {
		available = available.With(Split)
	}
	return available
}

// act obtains a decision for the hand and applies it
func (e *GameEngine) act(ctx context.Context, r *Round, index int, h *Hand, available ActionSet) error {
	action, err := e.decide(ctx, r, index, h, available)
	if err != nil {
		return err
	}
	e.bus.Publish(NewDecisionEvent(r.Snapshot(), h.Seat, index, action))

	switch action {
	case Stand:
		h.State = StateDone
	case Hit:
		if _, err := e.drawPaced(ctx, r, h); err != nil {
			return err
		}
		h.State = StateAfterHit
	case Double:
		h.Bet *= 2
		h.Doubled = true
		if _, err := e.drawPaced(ctx, r, h); err != nil {
			return err
		}
		h.State = StateDone
	case Split:
		first, second := r.split(index)
		e.logger.Debug("Split", "round", r.ID, "seat", h.Seat, "first", first, "second", second, "hands", len(r.hands))
	}
	return nil
}

// decide asks the hand's owner for one of the available actions
func (e *GameEngine) decide(ctx context.Context, r *Round, index int, h *Hand, available ActionSet) (Action, error) {
	if h.IsDealer() {
		if err := e.pace(ctx, e.cfg.Pacing.Dealer); err != nil {
			return 0, err
		}
		return DealerDecide(h.Total()), nil
	}

	req := newDecisionRequest(r.ID, index, h, r.DealerUpcard(), available)
	agent := e.agents[h.Seat]

	if e.isHuman(h.Seat) {
		for {
			action, err := agent.Decide(ctx, req)
			if err != nil {
				return 0, err
			}
			if available.Has(action) {
				e.session.RecordDecision(action == e.oracle.Advise(req))
				return action, nil
			}
			e.bus.Publish(NewInvalidActionEvent(r.Snapshot(), h.Seat, action, available))
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
	}

	if err := e.pace(ctx, e.cfg.Pacing.Bot); err != nil {
		return 0, err
	}
	action, err := agent.Decide(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		e.logger.Error("Bot failed to decide, using basic strategy", "round", r.ID, "seat", h.Seat, "error", err)
		return e.oracle.Advise(req), nil
	}
	if !available.Has(action) {
		fallback := fallbackAction(available)
		e.logger.Error("Bot chose unavailable action", "round", r.ID, "seat", h.Seat,
			"action", action, "available", available, "fallback", fallback)
		return fallback, nil
	}
	return action, nil
}

func (e *GameEngine) isHuman(seat Seat) bool {
	return e.cfg.Human && seat == HumanSeat
}

// pace waits d on the engine clock, returning early if ctx is cancelled
func (e *GameEngine) pace(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := e.clock.NewTimer(d, "pace")
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
