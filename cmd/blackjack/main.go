package main

import (
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lox/blackjack/internal/bot"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play blackjack against the dealer and computer players"`
	Simulate SimulateCmd      `cmd:"" help:"Measure bot strategies over many rounds"`
	Chart    ChartCmd         `cmd:"" help:"Print the basic strategy chart"`
	Config   ConfigCmd        `cmd:"" help:"Manage the configuration file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Terminal blackjack with a basic strategy coach"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":    version,
			"strategies": strings.Join(bot.Names(), ", "),
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
