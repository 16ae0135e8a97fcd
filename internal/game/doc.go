// Package game implements the rules of a blackjack round.
//
// The main type is GameEngine, which plays rounds between a fixed set of
// seats and the dealer from a shared shoe, keeping a running balance per
// seat in units of the original bet.
//
// # Basic Usage
//
//	agents := []game.Agent{human, bot1, bot2}
//	engine, err := game.NewGameEngine(game.DefaultConfig(), agents,
//	    game.WithLogger(logger))
//	result, err := engine.PlayRound(ctx)
//
// # Hands
//
// Each Hand carries a small state machine (HandState). A fresh hand either
// stands on a natural or is offered stand, hit, double and, for a pair,
// split. Splitting replaces a hand with two children inserted directly after
// it, so the round walks its hands by index. Split aces take one card each
// and stop.
//
// # Decisions
//
// Agents receive a DecisionRequest, an immutable snapshot, and return an
// Action. Humans who pick an unavailable action are asked again; bots are
// downgraded to hit or stand. BasicStrategy is the reference oracle used by
// bots, hints and the human's accuracy score.
//
// # Deterministic Testing
//
// Inject a stacked shoe and a quartz mock clock:
//
//	shoe := deck.NewStackedShoe(deck.MustParseCards("Ts 9h 6d Kc")...)
//	engine, _ := game.NewGameEngine(cfg, agents,
//	    game.WithShoe(shoe), game.WithClock(quartz.NewMock(t)))
package game
