package game

import (
	"fmt"
	"strconv"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	Human bool // Seat 0 is addressed as "You"
	Cards bool // Mention dealt cards, for logs and transcripts
}

// EventFormatter turns game events into the table's message lines
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// SeatName returns how a seat is addressed at the table
func SeatName(seat Seat, human bool) string {
	switch {
	case seat == DealerSeat:
		return "Dealer"
	case human && seat == HumanSeat:
		return "You"
	case human:
		return fmt.Sprintf("Bot %d", seat)
	default:
		return fmt.Sprintf("Bot %d", seat+1)
	}
}

// FormatUnits formats an amount in units of the original bet: 1.5, -2, 0
func FormatUnits(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Format returns the message lines for an event; most events produce one
// line and some produce none
func (ef *EventFormatter) Format(event GameEvent) []string {
	switch e := event.(type) {
	case RoundStartEvent:
		return []string{"Round Started"}
	case ReshuffleEvent:
		return []string{"Deck Reshuffled"}
	case CardDealtEvent:
		if !ef.opts.Cards {
			return nil
		}
		name, verb := SeatName(e.Seat, ef.opts.Human), "is"
		if name == "You" {
			verb = "are"
		}
		if e.FaceDown {
			return []string{fmt.Sprintf("%s %s dealt a face-down card", name, verb)}
		}
		return []string{fmt.Sprintf("%s %s dealt %s", name, verb, e.Card)}
	case DecisionEvent:
		return []string{ef.FormatDecision(e.Seat, e.Action)}
	case InvalidActionEvent:
		return []string{fmt.Sprintf("%s is not available, choose one of %s", e.Action.Label(), e.Available)}
	case RevealEvent:
		if e.DealerNatural {
			return []string{"Dealer has Blackjack"}
		}
		return nil
	case RoundEndEvent:
		return ef.FormatRoundEnd(e.Result)
	default:
		return nil
	}
}

// FormatDecision formats an action as "You Hit" or "Bot 2 Doubles Down"
func (ef *EventFormatter) FormatDecision(seat Seat, action Action) string {
	name := SeatName(seat, ef.opts.Human)
	if seat == HumanSeat && ef.opts.Human {
		return fmt.Sprintf("%s %s", name, action.Label())
	}

	var verb string
	switch action {
	case Stand:
		verb = "Stands"
	case Hit:
		verb = "Hits"
	case Double:
		verb = "Doubles Down"
	case Split:
		verb = "Splits"
	default:
		verb = action.String()
	}
	return fmt.Sprintf("%s %s", name, verb)
}

// FormatRoundEnd formats the settlement lines of a round: the dealer's
// total, one line per seat and, for a human table, the human's running balance
func (ef *EventFormatter) FormatRoundEnd(result *RoundResult) []string {
	if result == nil {
		return nil
	}

	lines := make([]string, 0, len(result.Winnings)+2)
	if result.DealerBlackjack {
		lines = append(lines, "Round over: Dealer has Blackjack")
	} else {
		lines = append(lines, fmt.Sprintf("Round over: Dealer has %d", result.DealerTotal))
	}

	if !ef.opts.Human || len(result.Winnings) == 0 {
		for seat, delta := range result.Winnings {
			lines = append(lines, fmt.Sprintf("%s: %s", SeatName(Seat(seat), false), FormatUnits(delta)))
		}
		return lines
	}

	for seat, delta := range result.Winnings {
		lines = append(lines, formatSeatResult(SeatName(Seat(seat), true), delta))
	}
	if len(result.Totals) > 0 {
		lines = append(lines, fmt.Sprintf("Your total balance change: %s x Original Bet", FormatUnits(result.Totals[HumanSeat])))
	}
	return lines
}

// formatSeatResult reads "You won 1.5 x Original Bet" or "Bot 2 lost 1 x Original Bet"
func formatSeatResult(name string, delta float64) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("%s won %s x Original Bet", name, FormatUnits(delta))
	case delta < 0:
		return fmt.Sprintf("%s lost %s x Original Bet", name, FormatUnits(-delta))
	default:
		return name + " did not win or lose anything"
	}
}
