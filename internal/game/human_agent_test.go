package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanAgentRepromptsUntilAvailable(t *testing.T) {
	answers := []Action{Split, Double, Hit}
	asked := 0
	human := NewHumanAgent(func(_ context.Context, _ DecisionRequest) (Action, error) {
		a := answers[asked]
		asked++
		return a, nil
	})

	var refused []Action
	human.OnInvalid(func(_ DecisionRequest, action Action) {
		refused = append(refused, action)
	})

	req := DecisionRequest{Available: NewActionSet(Stand, Hit)}
	action, err := human.Decide(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, Hit, action)
	assert.Equal(t, 3, asked)
	assert.Equal(t, []Action{Split, Double}, refused)
}

func TestHumanAgentErrors(t *testing.T) {
	t.Run("no prompt", func(t *testing.T) {
		_, err := NewHumanAgent(nil).Decide(context.Background(), DecisionRequest{Available: NewActionSet(Stand)})
		assert.ErrorIs(t, err, ErrNoPrompt)
	})

	t.Run("nothing offered", func(t *testing.T) {
		human := NewHumanAgent(func(context.Context, DecisionRequest) (Action, error) { return Stand, nil })
		_, err := human.Decide(context.Background(), DecisionRequest{Seat: HumanSeat})
		assert.Error(t, err)
	})

	t.Run("cancelled while refusing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		human := NewHumanAgent(func(context.Context, DecisionRequest) (Action, error) {
			cancel()
			return Split, nil
		})
		_, err := human.Decide(ctx, DecisionRequest{Available: NewActionSet(Stand, Hit)})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("prompt error is returned", func(t *testing.T) {
		human := NewHumanAgent(func(ctx context.Context, _ DecisionRequest) (Action, error) {
			return 0, context.DeadlineExceeded
		})
		_, err := human.Decide(context.Background(), DecisionRequest{Available: NewActionSet(Stand)})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
