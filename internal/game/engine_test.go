package game

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testConfig(seats int, human bool) Config {
	cfg := DefaultConfig()
	cfg.Seats = seats
	cfg.Human = human
	cfg.Pacing = Pacing{}
	return cfg
}

// eventRecorder collects every published event
type eventRecorder struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *eventRecorder) OnEvent(e GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) ofType(t EventType) []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []GameEvent
	for _, e := range r.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

// stander stands on everything
var stander = AgentFunc(func(context.Context, DecisionRequest) (Action, error) {
	return Stand, nil
})

// scripted returns the given actions in order, then stands
func scripted(actions ...Action) (Agent, *[]DecisionRequest) {
	var seen []DecisionRequest
	return AgentFunc(func(_ context.Context, req DecisionRequest) (Action, error) {
		seen = append(seen, req)
		if len(seen) <= len(actions) {
			return actions[len(seen)-1], nil
		}
		return Stand, nil
	}), &seen
}

// splitter splits every pair it is offered and stands otherwise
var splitter = AgentFunc(func(_ context.Context, req DecisionRequest) (Action, error) {
	if req.Available.Has(Split) {
		return Split, nil
	}
	return Stand, nil
})

func newTestEngine(t *testing.T, cfg Config, agents []Agent, cards string, opts ...Option) (*GameEngine, *eventRecorder) {
	t.Helper()
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)

	base := []Option{
		WithLogger(testLogger()),
		WithEventBus(bus),
		WithShoe(deck.NewStackedShoe(deck.MustParseCards(cards)...)),
		WithRoundIDs(func() string { return "r1" }),
	}
	engine, err := NewGameEngine(cfg, agents, append(base, opts...)...)
	require.NoError(t, err)
	return engine, rec
}

func TestSettlementAgainstDealerDraws(t *testing.T) {
	// Deal order: seat, dealer hole, seat, dealer up, then draws.
	tests := []struct {
		name  string
		cards string
		delta float64
	}{
		{"20 loses to dealer 21", "Ts 6c Qh Td 5s", -1},
		{"20 beats dealer 22", "Ts 6c Qh Td 6s", 1},
		{"20 pushes dealer 20", "Ts 6c Qh Td 4s", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t, testConfig(1, false), []Agent{stander}, tt.cards)

			result, err := engine.PlayRound(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []float64{tt.delta}, result.Winnings)
			assert.Equal(t, []float64{tt.delta}, engine.Totals())
			assert.Equal(t, 1, engine.Rounds())
		})
	}
}

func TestPlayerNaturalPaysThreeToTwo(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig(1, false), []Agent{stander}, "As 9c Kh 8d")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 1)
	assert.True(t, result.Outcomes[0].Blackjack)
	assert.Equal(t, 1.5, result.Outcomes[0].Bet)
	assert.Equal(t, []float64{1.5}, result.Winnings)
	assert.Equal(t, 17, result.DealerTotal)
}

func TestDealerNaturalEndsRound(t *testing.T) {
	called := false
	agent := AgentFunc(func(context.Context, DecisionRequest) (Action, error) {
		called = true
		return Hit, nil
	})
	engine, rec := newTestEngine(t, testConfig(2, false), []Agent{agent, agent}, "Ts 9h As 9s 8d Kd")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	assert.False(t, called, "no seat acts after a dealer natural")
	assert.True(t, result.DealerBlackjack)
	assert.Equal(t, []float64{-1, -1}, result.Winnings)

	reveals := rec.ofType(EventTypeReveal)
	require.Len(t, reveals, 1)
	assert.True(t, reveals[0].(RevealEvent).DealerNatural)
}

func TestNaturalAgainstDealerNaturalPushes(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig(1, false), []Agent{stander}, "As Ac Kh Kd")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)
	assert.True(t, result.DealerBlackjack)
	assert.False(t, result.Outcomes[0].Blackjack)
	assert.Equal(t, []float64{0}, result.Winnings)
}

func TestDoubleDown(t *testing.T) {
	agent, seen := scripted(Double)
	engine, _ := newTestEngine(t, testConfig(1, false), []Agent{agent}, "5s 7c 6h Td Ts")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	require.Len(t, *seen, 1, "a doubled hand takes exactly one card")
	require.Len(t, result.Outcomes, 1)
	o := result.Outcomes[0]
	assert.True(t, o.Doubled)
	assert.Equal(t, 2.0, o.Bet)
	assert.Equal(t, 21, o.Total)
	assert.Len(t, o.Cards, 3)
	assert.Equal(t, []float64{2}, result.Winnings)
}

func TestSplitInsertsFirstCardChildBeforeSecondAfterParent(t *testing.T) {
	// Seat 0: 8s 8h, seat 1: Ts 9s, dealer: 7c (hole) Td.
	// The child holding the parent's first card plays first and draws 3d;
	// the second card's child draws Kd.
	engine, _ := newTestEngine(t, testConfig(2, false), []Agent{splitter, stander},
		"8s Ts 7c 8h 9s Td 3d Kd")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	hands := result.Snapshot.Hands
	require.Len(t, hands, 4)
	assert.False(t, hands[0].Active, "split parent is inactive")
	assert.Equal(t, deck.MustParseCards("8s 3d"), hands[1].Cards)
	assert.Equal(t, deck.MustParseCards("8h Kd"), hands[2].Cards)
	assert.Equal(t, Seat(1), hands[3].Seat)

	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, Lose, result.Outcomes[0].Outcome)
	assert.Equal(t, Win, result.Outcomes[1].Outcome)
	assert.Equal(t, Win, result.Outcomes[2].Outcome)
	assert.Equal(t, []float64{0, 1}, result.Winnings)
}

func TestSplitAcesTakeOneCardEach(t *testing.T) {
	agent, seen := scripted(Split)
	engine, _ := newTestEngine(t, testConfig(1, false), []Agent{agent}, "As 7c Ah Td Kd 5s")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	assert.Len(t, *seen, 1, "split aces are never asked again")
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, 21, result.Outcomes[0].Total)
	assert.False(t, result.Outcomes[0].Blackjack, "21 after a split is not a natural")
	assert.Equal(t, 1.0, result.Outcomes[0].Bet)
	assert.Equal(t, 16, result.Outcomes[1].Total)
	assert.Equal(t, []float64{0}, result.Winnings)
}

func TestNaturalAfterSplitIsNotBlackjack(t *testing.T) {
	// Seat 0 splits tens; the first child draws an ace for 21.
	agent := AgentFunc(func(_ context.Context, req DecisionRequest) (Action, error) {
		if req.State == StateInitial {
			return Split, nil
		}
		return Stand, nil
	})
	engine, _ := newTestEngine(t, testConfig(1, false), []Agent{agent}, "Ks 7c Qh Td Ad 9s")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, 21, result.Outcomes[0].Total)
	assert.False(t, result.Outcomes[0].Blackjack)
	assert.Equal(t, 1.0, result.Outcomes[0].Delta)
	assert.Equal(t, 19, result.Outcomes[1].Total)
}

func TestResplitAndHandLimit(t *testing.T) {
	cfg := testConfig(1, false)
	cfg.MaxHands = 2

	var offered []ActionSet
	agent := AgentFunc(func(_ context.Context, req DecisionRequest) (Action, error) {
		offered = append(offered, req.Available)
		if req.Available.Has(Split) {
			return Split, nil
		}
		return Stand, nil
	})
	// 8s 8h split; first child draws 8d, a pair again, but the round
	// already holds three hands.
	engine, _ := newTestEngine(t, cfg, []Agent{agent}, "8s 7c 8h Td 8d 2c")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	require.Len(t, offered, 3)
	assert.True(t, offered[0].Has(Split))
	assert.False(t, offered[1].Has(Split), "no split beyond the hand limit")
	assert.Len(t, result.Snapshot.Hands, 3)
}

func TestResplitWithinLimit(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig(1, false), []Agent{splitter}, "8s 7c 8h Td 8d 2c 3c 4c")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	// Parent, inactive first child, its two children, then the second child.
	hands := result.Snapshot.Hands
	require.Len(t, hands, 5)
	assert.False(t, hands[0].Active)
	assert.False(t, hands[1].Active)
	assert.Equal(t, deck.MustParseCards("8s 2c"), hands[2].Cards)
	assert.Equal(t, deck.MustParseCards("8d 3c"), hands[3].Cards)
	assert.Equal(t, deck.MustParseCards("8h 4c"), hands[4].Cards)
	assert.Len(t, result.Outcomes, 3)
}

func TestHumanIsAskedAgainAfterInvalidAction(t *testing.T) {
	agent, seen := scripted(Split, Stand)
	session := statistics.NewSession()
	engine, rec := newTestEngine(t, testConfig(1, true), []Agent{agent}, "Ts 7c 7h Td", WithSession(session))

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	assert.Len(t, *seen, 2)
	invalid := rec.ofType(EventTypeInvalidAction)
	require.Len(t, invalid, 1)
	assert.Equal(t, Split, invalid[0].(InvalidActionEvent).Action)

	total, correct := session.Decisions()
	assert.Equal(t, 1, total, "only the accepted action is scored")
	assert.Equal(t, 1, correct, "standing on 17 is basic strategy")
	assert.Equal(t, []float64{0}, result.Winnings)
}

func TestHumanDecisionsScoredAgainstBasicStrategy(t *testing.T) {
	session := statistics.NewSession()

	hitter, _ := scripted(Hit, Stand)
	engine, _ := newTestEngine(t, testConfig(1, true), []Agent{hitter}, "Ts 7c 6h Td 2s", WithSession(session))
	_, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	total, correct := session.Decisions()
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, correct, "hit hard 16 against a ten, then stand on 18")

	holder, _ := scripted(Stand)
	engine, _ = newTestEngine(t, testConfig(1, true), []Agent{holder}, "Ts 7c 6h Td", WithSession(session))
	_, err = engine.PlayRound(context.Background())
	require.NoError(t, err)

	total, correct = session.Decisions()
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, correct, "standing on hard 16 against a ten is a mistake")
	assert.InDelta(t, 66.67, session.Accuracy(), 0.01)
}

func TestBotUnavailableActionIsDowngraded(t *testing.T) {
	agent, seen := scripted(Split, Stand)
	engine, _ := newTestEngine(t, testConfig(1, false), []Agent{agent}, "Ts 7c 2h Td 5s")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	assert.Len(t, *seen, 2)
	require.Len(t, result.Outcomes, 1)
	assert.Len(t, result.Outcomes[0].Cards, 3, "split on a non-pair becomes a hit")
	assert.Equal(t, 17, result.Outcomes[0].Total)
	assert.Equal(t, []float64{0}, result.Winnings)
}

func TestBotErrorFallsBackToBasicStrategy(t *testing.T) {
	agent := AgentFunc(func(context.Context, DecisionRequest) (Action, error) {
		return 0, errors.New("bot crashed")
	})
	engine, _ := newTestEngine(t, testConfig(1, false), []Agent{agent}, "Ts 7c 6h Td 4s 2c")

	result, err := engine.PlayRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, result.Outcomes[0].Total, "hard 16 vs ten hits")
}

func TestShoeExhaustedMidRound(t *testing.T) {
	engine, _ := newTestEngine(t, testConfig(1, false), []Agent{stander}, "Ts 7c 6h")

	_, err := engine.PlayRound(context.Background())
	require.ErrorIs(t, err, ErrShoeExhausted)
	assert.Contains(t, err.Error(), "round r1")
	assert.Equal(t, []float64{0}, engine.Totals())
	assert.Zero(t, engine.Rounds())
}

func TestCancelledRoundLeavesTotalsUntouched(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	agent := AgentFunc(func(ctx context.Context, _ DecisionRequest) (Action, error) {
		cancel()
		<-ctx.Done()
		return 0, ctx.Err()
	})
	engine, rec := newTestEngine(t, testConfig(1, true), []Agent{agent}, "Ts 7c 6h Td 4s")

	_, err := engine.PlayRound(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []float64{0}, engine.Totals())
	assert.Empty(t, rec.ofType(EventTypeRoundEnd))
}

func TestPacingWaitsOnClock(t *testing.T) {
	cfg := testConfig(1, false)
	cfg.Pacing = Pacing{Deal: 100 * time.Millisecond}
	mClock := quartz.NewMock(t)

	engine, _ := newTestEngine(t, cfg, []Agent{stander}, "Ts 7c 9h Td", WithClock(mClock))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := engine.PlayRound(ctx)
		done <- err
	}()

	for i := 0; i < 4; i++ {
		require.Eventually(t, func() bool {
			_, ok := mClock.Peek()
			return ok
		}, time.Second, time.Millisecond)
		mClock.Advance(100 * time.Millisecond).MustWait(ctx)
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("round did not finish")
	}
	assert.Equal(t, []float64{1}, engine.Totals())
}

func TestPacingHonoursCancellation(t *testing.T) {
	cfg := testConfig(1, false)
	cfg.Pacing = Pacing{Deal: time.Hour}

	engine, _ := newTestEngine(t, cfg, []Agent{stander}, "Ts 7c 9h Td", WithClock(quartz.NewMock(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.PlayRound(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, engine.Rounds())
}

func TestEventsAndHiddenHoleCard(t *testing.T) {
	engine, rec := newTestEngine(t, testConfig(1, false), []Agent{stander}, "Ts 7c 9h Td")

	_, err := engine.PlayRound(context.Background())
	require.NoError(t, err)

	require.Len(t, rec.ofType(EventTypeRoundStart), 1)
	dealt := rec.ofType(EventTypeCardDealt)
	require.Len(t, dealt, 4)

	hole := dealt[1].(CardDealtEvent)
	assert.Equal(t, DealerSeat, hole.Seat)
	assert.True(t, hole.FaceDown)
	assert.Zero(t, hole.Card)

	up := dealt[3].(CardDealtEvent)
	assert.False(t, up.FaceDown)
	assert.Equal(t, "T♦", up.Card.String())

	snap := up.Round()
	assert.False(t, snap.Revealed)
	assert.Equal(t, 1, snap.Dealer.Hidden)
	assert.Zero(t, snap.Dealer.Total)
	assert.Zero(t, snap.Dealer.Cards[0])

	end := rec.ofType(EventTypeRoundEnd)
	require.Len(t, end, 1)
	final := end[0].Round()
	assert.True(t, final.Revealed)
	assert.Equal(t, 17, final.Dealer.Total)
	assert.Equal(t, deck.MustParseCards("7c Td"), final.Dealer.Cards)
}

func TestDecisionRequestSeesUpcard(t *testing.T) {
	agent, seen := scripted(Stand)
	engine, _ := newTestEngine(t, testConfig(1, false), []Agent{agent}, "Ts 7c 6h Td 4s")

	_, err := engine.PlayRound(context.Background())
	require.NoError(t, err)
	require.Len(t, *seen, 1)

	req := (*seen)[0]
	assert.Equal(t, "r1", req.RoundID)
	assert.Equal(t, "T♦", req.DealerUp.String())
	assert.Equal(t, 16, req.Total)
	assert.Equal(t, NewActionSet(Stand, Hit, Double), req.Available)
}

func TestTotalsAccumulateWithMultiplier(t *testing.T) {
	cfg := testConfig(1, false)
	cfg.BetMultiplier = 2
	engine, _ := newTestEngine(t, cfg, []Agent{stander}, "Ts 6c Qh Td 6s Ts 6c Qh Td 5s")

	_, err := engine.PlayRound(context.Background())
	require.NoError(t, err)
	_, err = engine.PlayRound(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []float64{0}, engine.Totals())
	assert.Equal(t, 2, engine.Rounds())
}

func TestReshuffleBetweenRounds(t *testing.T) {
	cfg := testConfig(1, false)
	cfg.Decks = 6
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)

	agent := AgentFunc(func(_ context.Context, req DecisionRequest) (Action, error) {
		action, _ := Advise(req)
		return action, nil
	})
	engine, err := NewGameEngine(cfg, []Agent{agent},
		WithLogger(testLogger()), WithEventBus(bus), WithRNG(randutil.New(42)))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := engine.PlayRound(context.Background())
		require.NoError(t, err)
	}

	assert.NotEmpty(t, rec.ofType(EventTypeReshuffle))
	assert.Len(t, rec.ofType(EventTypeRoundEnd), 100)
}

func TestNewGameEngineValidation(t *testing.T) {
	_, err := NewGameEngine(testConfig(2, false), []Agent{stander})
	assert.Error(t, err, "agent count must match seats")

	_, err = NewGameEngine(testConfig(1, false), []Agent{nil})
	assert.Error(t, err)

	cfg := testConfig(1, false)
	cfg.Decks = 0
	_, err = NewGameEngine(cfg, []Agent{stander})
	assert.Error(t, err)

	cfg = testConfig(1, false)
	cfg.ReshufflePart = 1.5
	_, err = NewGameEngine(cfg, []Agent{stander})
	assert.Error(t, err)

	_, err = NewGameEngine(testConfig(1, false), []Agent{stander})
	assert.NoError(t, err)
}
