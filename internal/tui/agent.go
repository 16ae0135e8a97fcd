package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
)

// ErrQuit is returned once the player asks to leave the table
var ErrQuit = errors.New("player quit")

var (
	_ game.Agent           = (*TUIAgent)(nil)
	_ game.EventSubscriber = (*TUIAgent)(nil)
)

// TUIAgent plays the human seat through the terminal UI. The engine's
// goroutine calls Decide and OnEvent; both reach the model as messages.
type TUIAgent struct {
	model   *TUIModel
	program *tea.Program
	logger  *log.Logger
}

// NewTUIAgent creates a TUI-backed agent that owns the terminal
func NewTUIAgent(session *statistics.Session, window int, logger *log.Logger) *TUIAgent {
	model := NewTUIModel(session, window, logger)
	return &TUIAgent{
		model:   model,
		program: tea.NewProgram(model, tea.WithAltScreen()),
		logger:  logger.WithPrefix("ui"),
	}
}

// NewTestTUIAgent creates an agent without a terminal program. Messages
// are applied to the model synchronously and input is injected.
func NewTestTUIAgent(session *statistics.Session, window int, logger *log.Logger) *TUIAgent {
	return &TUIAgent{
		model:  NewTUIModelWithOptions(session, window, logger, true),
		logger: logger.WithPrefix("ui"),
	}
}

// Model returns the underlying model
func (ti *TUIAgent) Model() *TUIModel {
	return ti.model
}

// Run runs the TUI program until the player quits
func (ti *TUIAgent) Run() error {
	if ti.program == nil {
		return nil
	}
	if _, err := ti.program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// Quit closes the TUI
func (ti *TUIAgent) Quit() {
	ti.model.SendQuitSignal()
}

func (ti *TUIAgent) send(msg tea.Msg) {
	if ti.program == nil {
		ti.model.Update(msg)
		return
	}
	ti.program.Send(msg)
}

// OnEvent implements game.EventSubscriber
func (ti *TUIAgent) OnEvent(event game.GameEvent) {
	ti.send(EventMsg{Event: event})
}

// Decide implements game.Agent. It shows the hand, waits for a line of
// input and returns the parsed action. Whether the action is available is
// left to the engine, which announces refusals and asks again.
func (ti *TUIAgent) Decide(ctx context.Context, req game.DecisionRequest) (game.Action, error) {
	ti.send(PromptMsg{Request: req})
	defer ti.send(PromptDoneMsg{})

	ti.logger.Info("Waiting for user action", "round", req.RoundID, "hand", req.HandIndex, "available", req.Available)
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case result := <-ti.model.Results():
			if result.Quit {
				ti.logger.Info("User chose to quit")
				return 0, ErrQuit
			}
			action, err := game.ParseAction(result.Input)
			if err != nil {
				ti.send(LogMsg{Entry: fmt.Sprintf("Unknown action %q, choose one of %s", result.Input, req.Available)})
				continue
			}
			ti.logger.Info("Received user action", "input", result.Input, "action", action)
			return action, nil
		}
	}
}

// WaitForNextRound blocks until the player asks for another round
func (ti *TUIAgent) WaitForNextRound(ctx context.Context) error {
	ti.send(WaitingMsg{Waiting: true})
	defer ti.send(WaitingMsg{Waiting: false})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-ti.model.Results():
		if result.Quit {
			return ErrQuit
		}
		return nil
	}
}

// Notify adds a line to the message log
func (ti *TUIAgent) Notify(entry string) {
	ti.send(LogMsg{Entry: entry})
}
