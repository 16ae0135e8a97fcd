package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/tui"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
)

type PlayCmd struct {
	Config    string  `short:"c" default:"blackjack.hcl" help:"HCL configuration file, defaults apply when it does not exist"`
	Bots      int     `short:"b" default:"-1" help:"Number of computer players (overrides config)"`
	Strategy  string  `help:"Strategy for computer players added by --bots (${strategies})" default:"basic"`
	Decks     int     `short:"d" help:"Decks in the shoe (overrides config)"`
	Reshuffle float64 `help:"Reshuffle once this fraction of the shoe remains (overrides config)"`
	Seed      int64   `help:"Shuffle seed, 0 for a random one"`
	NoPace    bool    `help:"Deal and play without delays"`
	NoColor   bool    `help:"Disable colors"`
	Debug     bool    `help:"Log at debug level"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logFile, err := openLogFile(cfg.Display.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, cfg.Display.LogLevel, c.Debug)
	if err != nil {
		return err
	}
	if c.NoColor || !cfg.ColorEnabled() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	rng, seed := randutil.FromSeed(c.Seed)
	logger.Info("Starting table", "seed", seed, "bots", len(cfg.Bots), "decks", cfg.Table.Decks,
		"reshuffle", cfg.Table.ReshufflePart)

	session := statistics.NewSession()
	ui := tui.NewTUIAgent(session, cfg.Display.MessageWindow, logger)

	human := game.NewHumanAgent(ui.Decide)
	human.OnInvalid(func(req game.DecisionRequest, action game.Action) {
		ui.Notify(fmt.Sprintf("%s is not available, choose one of %s", action.Label(), req.Available))
	})

	agents := []game.Agent{human}
	for i, b := range cfg.Bots {
		agent, err := bot.New(b.Strategy, randutil.New(randutil.Derive(seed, i+1)), logger)
		if err != nil {
			return fmt.Errorf("bot %q: %w", b.Name, err)
		}
		agents = append(agents, agent)
	}

	engine, err := game.NewGameEngine(cfg.EngineConfig(), agents,
		game.WithLogger(logger),
		game.WithRNG(rng),
		game.WithSession(session),
	)
	if err != nil {
		return err
	}
	engine.GetEventBus().Subscribe(ui)

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return ui.Run()
	})
	g.Go(func() error {
		defer ui.Quit()
		return playRounds(gctx, engine, ui, logger)
	})
	err = g.Wait()

	for _, line := range session.Summary() {
		fmt.Println(line)
	}
	if totals := engine.Totals(); len(totals) > 0 {
		fmt.Printf("Your total balance change: %s x Original Bet over %d rounds\n",
			game.FormatUnits(totals[game.HumanSeat]), engine.Rounds())
	}

	if errors.Is(err, tui.ErrQuit) || errors.Is(err, context.Canceled) {
		logger.Info("Player left the table", "rounds", engine.Rounds())
		return nil
	}
	return err
}

// applyOverrides lets flags win over the configuration file
func (c *PlayCmd) applyOverrides(cfg *config.Config) {
	if c.Bots >= 0 {
		bots := cfg.Bots[:min(c.Bots, len(cfg.Bots))]
		for i := len(bots); i < c.Bots; i++ {
			bots = append(bots, config.BotConfig{Name: fmt.Sprintf("Bot %d", i+1), Strategy: c.Strategy})
		}
		cfg.Bots = bots
	}
	if c.Decks > 0 {
		cfg.Table.Decks = c.Decks
	}
	if c.Reshuffle > 0 {
		cfg.Table.ReshufflePart = c.Reshuffle
	}
	if c.NoPace {
		cfg.Pacing = &config.PacingSettings{}
	}
}

// playRounds deals rounds for as long as the player asks for them
func playRounds(ctx context.Context, engine *game.GameEngine, ui *tui.TUIAgent, logger *log.Logger) error {
	for {
		if err := ui.WaitForNextRound(ctx); err != nil {
			return err
		}

		result, err := engine.PlayRound(ctx)
		switch {
		case errors.Is(err, game.ErrShoeExhausted):
			logger.Warn("Shoe ran out mid-round, round voided", "error", err)
			ui.Notify("The shoe ran out of cards, round voided")
			continue
		case err != nil:
			return err
		}

		logger.Info("Round complete", "round", result.RoundID, "winnings", result.Winnings,
			"dealer", result.DealerTotal, "reshuffled", result.Reshuffled)
	}
}
