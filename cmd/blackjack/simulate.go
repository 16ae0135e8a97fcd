package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/simulator"
)

type SimulateCmd struct {
	Rounds     int           `short:"n" default:"100000" help:"Rounds to play"`
	Strategies []string      `short:"s" default:"basic" help:"Bot strategy for each seat (${strategies})"`
	Decks      int           `short:"d" default:"6" help:"Decks in the shoe"`
	Reshuffle  float64       `default:"0.25" help:"Reshuffle once this fraction of the shoe remains"`
	Multiplier float64       `default:"1" help:"Bet multiplier applied to every result"`
	Seed       int64         `help:"Base seed, 0 for a random one"`
	Workers    int           `short:"w" help:"Parallel workers, 0 for one per CPU"`
	Timeout    time.Duration `default:"5s" help:"Time limit for a single round"`
	Output     string        `short:"o" help:"Write a JSON summary to this file"`
	LogLevel   string        `default:"warn" help:"Log level for stderr"`
	Debug      bool          `help:"Log at debug level"`
}

func (c *SimulateCmd) Run() error {
	logger, err := newLogger(os.Stderr, c.LogLevel, c.Debug)
	if err != nil {
		return err
	}

	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	for _, s := range c.Strategies {
		if !bot.Valid(s) {
			return fmt.Errorf("%w %q", bot.ErrUnknownBot, s)
		}
	}

	workers := c.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	logger.Info("Starting simulation", "rounds", c.Rounds, "strategies", c.Strategies,
		"decks", c.Decks, "workers", workers, "seed", seed)

	sim := simulator.New(simulator.Config{
		Rounds:        c.Rounds,
		Strategies:    c.Strategies,
		Decks:         c.Decks,
		ReshufflePart: c.Reshuffle,
		BetMultiplier: c.Multiplier,
		Seed:          seed,
		Workers:       workers,
		Timeout:       c.Timeout,
		Logger:        logger,
	})
	report, err := sim.Run(ctx)
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			return fmt.Errorf("simulation interrupted: %w", err)
		}
		return err
	}

	simulator.PrintSummary(os.Stdout, report)

	if c.Output != "" {
		if err := fileutil.WriteJSONAtomic(c.Output, report.Summary()); err != nil {
			return err
		}
		logger.Info("Wrote summary", "path", c.Output)
	}
	return nil
}
