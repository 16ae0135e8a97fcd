// Package config loads the table configuration from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
)

// DefaultFile is the configuration file looked up when none is given
const DefaultFile = "blackjack.hcl"

// Config represents the complete table configuration
type Config struct {
	Table   *TableSettings   `hcl:"table,block"`
	Bots    []BotConfig      `hcl:"bot,block"`
	Pacing  *PacingSettings  `hcl:"pacing,block"`
	Display *DisplaySettings `hcl:"display,block"`
}

// TableSettings contains the house rules
type TableSettings struct {
	Decks         int     `hcl:"decks,optional"`
	ReshufflePart float64 `hcl:"reshuffle_part,optional"`
	BetMultiplier float64 `hcl:"bet_multiplier,optional"`
	MaxHands      int     `hcl:"max_hands,optional"`
}

// BotConfig defines one computer seat; seats follow the order of the blocks
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
}

// PacingSettings holds the delays between visible steps, in milliseconds
type PacingSettings struct {
	DealMS   int `hcl:"deal_ms,optional"`
	BotMS    int `hcl:"bot_ms,optional"`
	DealerMS int `hcl:"dealer_ms,optional"`
}

// DisplaySettings contains user interface settings
type DisplaySettings struct {
	MessageWindow int    `hcl:"message_window,optional"`
	Color         *bool  `hcl:"color,optional"`
	LogLevel      string `hcl:"log_level,optional"`
	LogFile       string `hcl:"log_file,optional"`
}

// DefaultConfig returns the single-deck table with two basic-strategy bots
func DefaultConfig() *Config {
	color := true
	return &Config{
		Table: &TableSettings{
			Decks:         1,
			ReshufflePart: 0.25,
			BetMultiplier: 1,
			MaxHands:      12,
		},
		Bots: []BotConfig{
			{Name: "Bot 1", Strategy: bot.Basic},
			{Name: "Bot 2", Strategy: bot.Basic},
		},
		Pacing: &PacingSettings{
			DealMS:   200,
			BotMS:    500,
			DealerMS: 500,
		},
		Display: &DisplaySettings{
			MessageWindow: game.DefaultMessageWindow,
			Color:         &color,
			LogLevel:      "info",
			LogFile:       "blackjack.log",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills every unset value from DefaultConfig
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Table == nil {
		c.Table = def.Table
	}
	if c.Table.Decks == 0 {
		c.Table.Decks = def.Table.Decks
	}
	if c.Table.ReshufflePart == 0 {
		c.Table.ReshufflePart = def.Table.ReshufflePart
	}
	if c.Table.BetMultiplier == 0 {
		c.Table.BetMultiplier = def.Table.BetMultiplier
	}
	if c.Table.MaxHands == 0 {
		c.Table.MaxHands = def.Table.MaxHands
	}

	// No bot blocks at all means the default table; an explicit empty
	// table is not expressible in HCL blocks.
	if len(c.Bots) == 0 {
		c.Bots = def.Bots
	}
	for i := range c.Bots {
		if c.Bots[i].Strategy == "" {
			c.Bots[i].Strategy = bot.Basic
		}
	}

	if c.Pacing == nil {
		c.Pacing = def.Pacing
	}

	if c.Display == nil {
		c.Display = def.Display
	}
	if c.Display.MessageWindow == 0 {
		c.Display.MessageWindow = def.Display.MessageWindow
	}
	if c.Display.Color == nil {
		c.Display.Color = def.Display.Color
	}
	if c.Display.LogLevel == "" {
		c.Display.LogLevel = def.Display.LogLevel
	}
	if c.Display.LogFile == "" {
		c.Display.LogFile = def.Display.LogFile
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.Decks < 1 || c.Table.Decks > 8 {
		return fmt.Errorf("table: decks must be between 1 and 8, got %d", c.Table.Decks)
	}
	if c.Table.ReshufflePart <= 0 || c.Table.ReshufflePart > 1 {
		return fmt.Errorf("table: reshuffle_part must be in (0, 1], got %v", c.Table.ReshufflePart)
	}
	if c.Table.BetMultiplier <= 0 {
		return fmt.Errorf("table: bet_multiplier must be positive, got %v", c.Table.BetMultiplier)
	}
	if c.Table.MaxHands < 1+len(c.Bots) {
		return fmt.Errorf("table: max_hands must be at least the number of seats (%d)", 1+len(c.Bots))
	}
	if len(c.Bots) > 6 {
		return fmt.Errorf("at most 6 bots can sit at the table, got %d", len(c.Bots))
	}

	seen := make(map[string]bool)
	for _, b := range c.Bots {
		if seen[b.Name] {
			return fmt.Errorf("bot %q: duplicate name", b.Name)
		}
		seen[b.Name] = true
		if !bot.Valid(b.Strategy) {
			return fmt.Errorf("bot %q: %w %q", b.Name, bot.ErrUnknownBot, b.Strategy)
		}
	}

	if c.Pacing.DealMS < 0 || c.Pacing.BotMS < 0 || c.Pacing.DealerMS < 0 {
		return errors.New("pacing: delays must not be negative")
	}
	if c.Display.MessageWindow < 1 {
		return fmt.Errorf("display: message_window must be positive, got %d", c.Display.MessageWindow)
	}
	return nil
}

// Strategies returns the bot strategy of every computer seat in seat order
func (c *Config) Strategies() []string {
	out := make([]string, len(c.Bots))
	for i, b := range c.Bots {
		out[i] = b.Strategy
	}
	return out
}

// ColorEnabled reports whether the UI may use color
func (c *Config) ColorEnabled() bool {
	return c.Display.Color == nil || *c.Display.Color
}

// EngineConfig returns the engine configuration for a table with the human
// in seat 0 followed by the configured bots
func (c *Config) EngineConfig() game.Config {
	return game.Config{
		Decks:         c.Table.Decks,
		ReshufflePart: c.Table.ReshufflePart,
		Seats:         1 + len(c.Bots),
		Human:         true,
		BetMultiplier: c.Table.BetMultiplier,
		MaxHands:      c.Table.MaxHands,
		Pacing: game.Pacing{
			Deal:   time.Duration(c.Pacing.DealMS) * time.Millisecond,
			Bot:    time.Duration(c.Pacing.BotMS) * time.Millisecond,
			Dealer: time.Duration(c.Pacing.DealerMS) * time.Millisecond,
		},
	}
}

// Encode renders the configuration as HCL
func (c *Config) Encode() []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(c, f.Body())
	return f.Bytes()
}

// Save writes the configuration to filename atomically
func (c *Config) Save(filename string) error {
	if err := fileutil.WriteFileAtomic(filename, c.Encode(), 0o644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
