package game

import (
	"sync"
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart    EventType = "round_start"
	EventTypeReshuffle     EventType = "reshuffle"
	EventTypeCardDealt     EventType = "card_dealt"
	EventTypeDecision      EventType = "decision"
	EventTypeInvalidAction EventType = "invalid_action"
	EventTypeReveal        EventType = "reveal"
	EventTypeRoundEnd      EventType = "round_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens during a round. Every event
// carries a snapshot so renderers never touch the live round.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
	Round() RoundSnapshot
}

type eventBase struct {
	snapshot  RoundSnapshot
	timestamp time.Time
}

func newEventBase(snapshot RoundSnapshot) eventBase {
	return eventBase{snapshot: snapshot, timestamp: time.Now()}
}

func (e eventBase) Timestamp() time.Time  { return e.timestamp }
func (e eventBase) Round() RoundSnapshot  { return e.snapshot }

// RoundStartEvent is published when a new round begins, before any card is dealt
type RoundStartEvent struct {
	eventBase
	Seats int
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }

// NewRoundStartEvent creates a new round start event
func NewRoundStartEvent(snapshot RoundSnapshot, seats int) RoundStartEvent {
	return RoundStartEvent{eventBase: newEventBase(snapshot), Seats: seats}
}

// ReshuffleEvent is published when the shoe is rebuilt before a round
type ReshuffleEvent struct {
	eventBase
	Decks int
	Cards int
}

func (e ReshuffleEvent) EventType() EventType { return EventTypeReshuffle }

// NewReshuffleEvent creates a new reshuffle event
func NewReshuffleEvent(decks, cards int) ReshuffleEvent {
	return ReshuffleEvent{eventBase: newEventBase(RoundSnapshot{Current: -1}), Decks: decks, Cards: cards}
}

// CardDealtEvent is published for every card that leaves the shoe. Card is
// zero and FaceDown set for the dealer's hole card.
type CardDealtEvent struct {
	eventBase
	Seat     Seat
	Card     deck.Card
	FaceDown bool
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }

// NewCardDealtEvent creates a new card dealt event
func NewCardDealtEvent(snapshot RoundSnapshot, seat Seat, card deck.Card, faceDown bool) CardDealtEvent {
	if faceDown {
		card = 0
	}
	return CardDealtEvent{eventBase: newEventBase(snapshot), Seat: seat, Card: card, FaceDown: faceDown}
}

// DecisionEvent is published when a seat or the dealer acts on a hand
type DecisionEvent struct {
	eventBase
	Seat      Seat
	HandIndex int
	Action    Action
}

func (e DecisionEvent) EventType() EventType { return EventTypeDecision }

// NewDecisionEvent creates a new decision event
func NewDecisionEvent(snapshot RoundSnapshot, seat Seat, handIndex int, action Action) DecisionEvent {
	return DecisionEvent{eventBase: newEventBase(snapshot), Seat: seat, HandIndex: handIndex, Action: action}
}

// InvalidActionEvent is published when a human picks an action that was not offered
type InvalidActionEvent struct {
	eventBase
	Seat      Seat
	Action    Action
	Available ActionSet
}

func (e InvalidActionEvent) EventType() EventType { return EventTypeInvalidAction }

// NewInvalidActionEvent creates a new invalid action event
func NewInvalidActionEvent(snapshot RoundSnapshot, seat Seat, action Action, available ActionSet) InvalidActionEvent {
	return InvalidActionEvent{eventBase: newEventBase(snapshot), Seat: seat, Action: action, Available: available}
}

// RevealEvent is published when the dealer's hole card is turned over
type RevealEvent struct {
	eventBase
	DealerNatural bool
}

func (e RevealEvent) EventType() EventType { return EventTypeReveal }

// NewRevealEvent creates a new reveal event
func NewRevealEvent(snapshot RoundSnapshot, dealerNatural bool) RevealEvent {
	return RevealEvent{eventBase: newEventBase(snapshot), DealerNatural: dealerNatural}
}

// RoundEndEvent is published once a round is settled
type RoundEndEvent struct {
	eventBase
	Result *RoundResult
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }

// NewRoundEndEvent creates a new round end event
func NewRoundEndEvent(result *RoundResult) RoundEndEvent {
	return RoundEndEvent{eventBase: newEventBase(result.Snapshot), Result: result}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is an in-memory event bus. Publish delivers synchronously
// on the caller's goroutine; subscribers that need another goroutine hand
// the event off themselves.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Function
// subscribers cannot be compared and are never removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if _, ok := subscriber.(SubscriberFunc); ok {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if _, ok := sub.(SubscriberFunc); ok {
			continue
		}
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subscribers := make([]EventSubscriber, len(bus.subscribers))
	copy(subscribers, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subscribers {
		subscriber.OnEvent(event)
	}
}
