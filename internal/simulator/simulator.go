// Package simulator plays many bot-only rounds to measure how strategies fare.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds        int
	Strategies    []string // One bot strategy per seat
	Decks         int
	ReshufflePart float64
	BetMultiplier float64
	Seed          int64
	Workers       int
	Timeout       time.Duration // Per round
	Logger        *log.Logger
}

// SeatReport is the outcome of one seat over the whole simulation
type SeatReport struct {
	Seat     int
	Strategy string
	Stats    *statistics.Statistics
}

// Report is the result of a simulation run
type Report struct {
	Rounds  int
	Seed    int64
	Workers int
	Elapsed time.Duration
	Voided  int // Rounds abandoned because the shoe ran out mid-round
	Seats   []SeatReport
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Decks < 1 {
		config.Decks = 1
	}
	if config.ReshufflePart == 0 {
		config.ReshufflePart = 0.25
	}
	if config.BetMultiplier == 0 {
		config.BetMultiplier = 1
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if len(config.Strategies) == 0 {
		config.Strategies = []string{bot.Basic}
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}
	return &Simulator{config: config}
}

// Run splits the rounds across workers, each with its own shoe and seed,
// and merges their statistics in worker order.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.config.Rounds < 1 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}
	for _, name := range s.config.Strategies {
		if !bot.Valid(name) {
			return nil, fmt.Errorf("seat strategy %q: %w", name, bot.ErrUnknownBot)
		}
	}

	start := time.Now()
	workers := min(s.config.Workers, s.config.Rounds)
	perWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers

	results := make([]workerResult, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		g.Go(func() error {
			result, err := s.runWorker(ctx, w, rounds)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			results[w] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Rounds:  s.config.Rounds,
		Seed:    s.config.Seed,
		Workers: workers,
		Seats:   make([]SeatReport, len(s.config.Strategies)),
	}
	for seat, name := range s.config.Strategies {
		merged := &statistics.Statistics{}
		for _, worker := range results {
			merged.Merge(worker.stats[seat])
		}
		if err := merged.Validate(); err != nil {
			return nil, fmt.Errorf("seat %d statistics validation failed: %w", seat, err)
		}
		report.Seats[seat] = SeatReport{Seat: seat, Strategy: name, Stats: merged}
	}
	for _, worker := range results {
		report.Voided += worker.voided
	}
	report.Elapsed = time.Since(start)
	return report, nil
}

type workerResult struct {
	stats  []*statistics.Statistics
	voided int
}

// runWorker plays rounds on a private engine and returns per-seat statistics.
// A round that exhausts the shoe is voided and replayed after the reshuffle.
func (s *Simulator) runWorker(ctx context.Context, worker, rounds int) (workerResult, error) {
	seed := randutil.Derive(s.config.Seed, worker)
	logger := s.config.Logger.With("worker", worker)

	agents := make([]game.Agent, len(s.config.Strategies))
	for i, name := range s.config.Strategies {
		agent, err := bot.New(name, randutil.New(randutil.Derive(seed, i+1)), logger)
		if err != nil {
			return workerResult{}, err
		}
		agents[i] = agent
	}

	cfg := game.Config{
		Decks:         s.config.Decks,
		ReshufflePart: s.config.ReshufflePart,
		Seats:         len(agents),
		BetMultiplier: s.config.BetMultiplier,
		MaxHands:      max(12, len(agents)),
	}
	engine, err := game.NewGameEngine(cfg, agents,
		game.WithLogger(logger),
		game.WithRNG(randutil.New(seed)),
		game.WithRoundIDs(sequentialIDs(worker)))
	if err != nil {
		return workerResult{}, err
	}

	stats := make([]*statistics.Statistics, len(agents))
	for i := range stats {
		stats[i] = &statistics.Statistics{}
	}

	voided := 0
	for played := 0; played < rounds; {
		result, err := s.playRound(ctx, engine)
		if errors.Is(err, game.ErrShoeExhausted) && voided < rounds {
			logger.Warn("Round voided", "error", err)
			voided++
			continue
		}
		if err != nil {
			return workerResult{}, fmt.Errorf("round %d (seed %d): %w", played+1, seed, err)
		}
		for seat := range stats {
			stats[seat].Add(seatResult(result, seat, seed))
		}
		played++
	}

	logger.Debug("Worker finished", "rounds", rounds, "voided", voided, "totals", engine.Totals())
	return workerResult{stats: stats, voided: voided}, nil
}

// playRound runs a single round with timeout protection
func (s *Simulator) playRound(ctx context.Context, engine *game.GameEngine) (*game.RoundResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	return engine.PlayRound(ctx)
}

func seatResult(result *game.RoundResult, seat int, seed int64) statistics.RoundResult {
	out := statistics.RoundResult{Seed: seed}
	for _, o := range result.OutcomesFor(game.Seat(seat)) {
		out.Hands = append(out.Hands, statistics.HandResult{
			Delta:     o.Delta,
			Blackjack: o.Blackjack,
			Doubled:   o.Doubled,
			FromSplit: o.FromSplit,
			Bust:      o.Bust(),
		})
	}
	return out
}

func sequentialIDs(worker int) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("w%d-%06d", worker, n)
	}
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, rounds int, strategies []string, seed int64, logger *log.Logger) (*Report, error) {
	return New(Config{
		Rounds:     rounds,
		Strategies: strategies,
		Seed:       seed,
		Logger:     logger,
	}).Run(ctx)
}

// Summary is the machine-readable form of a report
type Summary struct {
	Rounds    int           `json:"rounds"`
	Seed      int64         `json:"seed"`
	Workers   int           `json:"workers"`
	ElapsedMS int64         `json:"elapsed_ms"`
	Voided    int           `json:"voided"`
	Seats     []SeatSummary `json:"seats"`
}

// SeatSummary is one seat of a Summary
type SeatSummary struct {
	Seat       int     `json:"seat"`
	Strategy   string  `json:"strategy"`
	Hands      int     `json:"hands"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	CI95Low    float64 `json:"ci95_low"`
	CI95High   float64 `json:"ci95_high"`
	Total      float64 `json:"total"`
	WinRate    float64 `json:"win_rate"`
	Blackjacks int     `json:"blackjacks"`
	Doubles    int     `json:"doubles"`
	Splits     int     `json:"splits"`
	Busts      int     `json:"busts"`
}

// Summary converts the report for JSON output
func (r *Report) Summary() Summary {
	out := Summary{
		Rounds:    r.Rounds,
		Seed:      r.Seed,
		Workers:   r.Workers,
		ElapsedMS: r.Elapsed.Milliseconds(),
		Voided:    r.Voided,
	}
	for _, seat := range r.Seats {
		low, high := seat.Stats.ConfidenceInterval95()
		out.Seats = append(out.Seats, SeatSummary{
			Seat:       seat.Seat,
			Strategy:   seat.Strategy,
			Hands:      seat.Stats.Hands,
			Mean:       seat.Stats.Mean(),
			StdDev:     seat.Stats.StdDev(),
			CI95Low:    low,
			CI95High:   high,
			Total:      seat.Stats.SumNet,
			WinRate:    seat.Stats.WinRate(),
			Blackjacks: seat.Stats.Blackjacks,
			Doubles:    seat.Stats.Doubles,
			Splits:     seat.Stats.Splits,
			Busts:      seat.Stats.Busts,
		})
	}
	return out
}

// PrintSummary writes a human-readable summary of simulation results
func PrintSummary(w io.Writer, report *Report) {
	strategies := make([]string, len(report.Seats))
	for i, seat := range report.Seats {
		strategies[i] = seat.Strategy
	}

	fmt.Fprintf(w, "\n=== FINAL RESULTS: %s ===\n", strings.Join(strategies, ", "))
	fmt.Fprintf(w, "Rounds played: %d (seed %d, %d workers, %s)\n",
		report.Rounds, report.Seed, report.Workers, report.Elapsed.Round(time.Millisecond))
	if report.Voided > 0 {
		fmt.Fprintf(w, "Rounds voided on an exhausted shoe: %d\n", report.Voided)
	}

	for _, seat := range report.Seats {
		stats := seat.Stats
		low, high := stats.ConfidenceInterval95()

		fmt.Fprintf(w, "\n=== SEAT %d (%s) ===\n", seat.Seat+1, seat.Strategy)
		fmt.Fprintf(w, "Mean: %.4f units/round\n", stats.Mean())
		fmt.Fprintf(w, "Median: %.4f units/round\n", stats.Median())
		fmt.Fprintf(w, "Std Dev: %.4f units\n", stats.StdDev())
		fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/round\n", low, high)
		fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
			stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
		fmt.Fprintf(w, "Total: %s x Original Bet\n", game.FormatUnits(stats.SumNet))
		fmt.Fprintf(w, "Hands: %d (won %d, lost %d, pushed %d, %.1f%% wins)\n",
			stats.Hands, stats.Wins, stats.Losses, stats.Pushes, stats.WinRate()*100)
		fmt.Fprintf(w, "Blackjacks: %d, doubles: %d, split hands: %d, busts: %d\n",
			stats.Blackjacks, stats.Doubles, stats.Splits, stats.Busts)
	}
}
