package game

import (
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatName(t *testing.T) {
	assert.Equal(t, "Dealer", SeatName(DealerSeat, true))
	assert.Equal(t, "You", SeatName(HumanSeat, true))
	assert.Equal(t, "Bot 2", SeatName(2, true))
	assert.Equal(t, "Bot 1", SeatName(0, false))
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "1.5", FormatUnits(1.5))
	assert.Equal(t, "-2", FormatUnits(-2))
	assert.Equal(t, "0", FormatUnits(0))
}

func TestFormatDecision(t *testing.T) {
	f := NewEventFormatter(FormattingOptions{Human: true})

	assert.Equal(t, "You Hit", f.FormatDecision(HumanSeat, Hit))
	assert.Equal(t, "You Double Down", f.FormatDecision(HumanSeat, Double))
	assert.Equal(t, "Bot 1 Doubles Down", f.FormatDecision(1, Double))
	assert.Equal(t, "Bot 2 Splits", f.FormatDecision(2, Split))
	assert.Equal(t, "Dealer Hits", f.FormatDecision(DealerSeat, Hit))
	assert.Equal(t, "Dealer Stands", f.FormatDecision(DealerSeat, Stand))
}

func TestFormatRoundEnd(t *testing.T) {
	f := NewEventFormatter(FormattingOptions{Human: true})

	tests := []struct {
		name   string
		result *RoundResult
		want   []string
	}{
		{
			name:   "win",
			result: &RoundResult{DealerTotal: 20, Winnings: []float64{1.5, -1}, Totals: []float64{2.5, -1}},
			want: []string{
				"Round over: Dealer has 20",
				"You won 1.5 x Original Bet",
				"Bot 1 lost 1 x Original Bet",
				"Your total balance change: 2.5 x Original Bet",
			},
		},
		{
			name: "every bot seat is reported",
			result: &RoundResult{
				DealerTotal: 22,
				Winnings:    []float64{-1, 2, 0},
				Totals:      []float64{-1, 3, -2},
			},
			want: []string{
				"Round over: Dealer has 22",
				"You lost 1 x Original Bet",
				"Bot 1 won 2 x Original Bet",
				"Bot 2 did not win or lose anything",
				"Your total balance change: -1 x Original Bet",
			},
		},
		{
			name:   "loss against blackjack",
			result: &RoundResult{DealerTotal: 21, DealerBlackjack: true, Winnings: []float64{-1}, Totals: []float64{-3}},
			want: []string{
				"Round over: Dealer has Blackjack",
				"You lost 1 x Original Bet",
				"Your total balance change: -3 x Original Bet",
			},
		},
		{
			name:   "push",
			result: &RoundResult{DealerTotal: 18, Winnings: []float64{0}, Totals: []float64{0}},
			want: []string{
				"Round over: Dealer has 18",
				"You did not win or lose anything",
				"Your total balance change: 0 x Original Bet",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatRoundEnd(tt.result))
		})
	}
}

func TestFormatRoundEndWithoutHuman(t *testing.T) {
	f := NewEventFormatter(FormattingOptions{})
	lines := f.FormatRoundEnd(&RoundResult{DealerTotal: 19, Winnings: []float64{1, -2}})
	assert.Equal(t, []string{"Round over: Dealer has 19", "Bot 1: 1", "Bot 2: -2"}, lines)
}

func TestFormatEvents(t *testing.T) {
	f := NewEventFormatter(FormattingOptions{Human: true})
	snap := RoundSnapshot{Current: -1}

	assert.Equal(t, []string{"Round Started"}, f.Format(NewRoundStartEvent(snap, 3)))
	assert.Equal(t, []string{"Deck Reshuffled"}, f.Format(NewReshuffleEvent(1, 52)))
	assert.Equal(t, []string{"Bot 2 Stands"}, f.Format(NewDecisionEvent(snap, 2, 2, Stand)))
	assert.Equal(t, []string{"Split is not available, choose one of [stand hit]"},
		f.Format(NewInvalidActionEvent(snap, HumanSeat, Split, NewActionSet(Stand, Hit))))
	assert.Equal(t, []string{"Dealer has Blackjack"}, f.Format(NewRevealEvent(snap, true)))
	assert.Empty(t, f.Format(NewRevealEvent(snap, false)))

	card := deck.MustParseCards("Ah")[0]
	assert.Empty(t, f.Format(NewCardDealtEvent(snap, HumanSeat, card, false)))

	verbose := NewEventFormatter(FormattingOptions{Human: true, Cards: true})
	assert.Equal(t, []string{"You are dealt A♥"}, verbose.Format(NewCardDealtEvent(snap, HumanSeat, card, false)))
	assert.Equal(t, []string{"Dealer is dealt a face-down card"}, verbose.Format(NewCardDealtEvent(snap, DealerSeat, card, true)))
}

func TestMessageLogKeepsWindow(t *testing.T) {
	l := NewMessageLog(3, NewEventFormatter(FormattingOptions{Human: true}))
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		l.Add(m)
	}
	assert.Equal(t, []string{"c", "d", "e"}, l.Messages())

	l.Clear()
	assert.Empty(t, l.Messages())
	assert.Equal(t, DefaultMessageWindow, NewMessageLog(0, nil).window)
}

func TestMessageLogSubscribesToEngine(t *testing.T) {
	l := NewMessageLog(DefaultMessageWindow, NewEventFormatter(FormattingOptions{Human: true}))
	engine, _ := newTestEngine(t, testConfig(2, true), []Agent{stander, stander}, "Ts 9h 6c Qh 8d Td 5s")
	engine.GetEventBus().Subscribe(l)

	_, err := engine.PlayRound(t.Context())
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, []string{
		"Round Started",
		"You Stand",
		"Bot 1 Stands",
		"Dealer Hits",
		"Round over: Dealer has 21",
		"You lost 1 x Original Bet",
		"Bot 1 lost 1 x Original Bet",
		"Your total balance change: -1 x Original Bet",
	}, l.Messages())
}

func TestMessageLogStartsEachRoundEmpty(t *testing.T) {
	l := NewMessageLog(DefaultMessageWindow, NewEventFormatter(FormattingOptions{Human: true}))
	var added []string
	l.OnAdd(func(m string) { added = append(added, m) })

	engine, _ := newTestEngine(t, testConfig(1, true), []Agent{stander}, "Ts 7c 9h Td Ts 7c 9h Td")
	engine.GetEventBus().Subscribe(l)

	for i := 0; i < 2; i++ {
		_, err := engine.PlayRound(t.Context())
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"Round Started",
		"You Stand",
		"Dealer Stands",
		"Round over: Dealer has 17",
		"You won 1 x Original Bet",
		"Your total balance change: 2 x Original Bet",
	}, l.Messages())
	assert.Len(t, added, 12, "listeners see both rounds")
}

func TestMessageLogKeepsReshuffleWithItsRound(t *testing.T) {
	l := NewMessageLog(DefaultMessageWindow, NewEventFormatter(FormattingOptions{Human: true}))
	snap := RoundSnapshot{Current: -1}

	l.Add("Round over: Dealer has 20")
	l.OnEvent(NewReshuffleEvent(1, 52))
	l.OnEvent(NewRoundStartEvent(snap, 1))
	assert.Equal(t, []string{"Deck Reshuffled", "Round Started"}, l.Messages())

	l.OnEvent(NewRoundStartEvent(snap, 1))
	assert.Equal(t, []string{"Round Started"}, l.Messages())
}
