package game

import (
	"slices"
	"sync"
)

// DefaultMessageWindow is how many recent messages the table shows
const DefaultMessageWindow = 10

// MessageLog keeps the most recent table messages. It subscribes to an
// event bus and is safe to read from another goroutine. Each round starts
// with an empty window; a reshuffle announced just before the round stays.
type MessageLog struct {
	mu         sync.Mutex
	window     int
	messages   []string
	formatter  *EventFormatter
	listeners  []func(string)
	reshuffled bool
}

// NewMessageLog creates a log holding at most window messages
func NewMessageLog(window int, formatter *EventFormatter) *MessageLog {
	if window <= 0 {
		window = DefaultMessageWindow
	}
	return &MessageLog{window: window, formatter: formatter}
}

// OnAdd registers fn to be called with every message added, including
// those that later fall out of the window or are cleared
func (l *MessageLog) OnAdd(fn func(string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// OnEvent implements EventSubscriber
func (l *MessageLog) OnEvent(event GameEvent) {
	switch event.(type) {
	case ReshuffleEvent:
		l.Clear()
		l.mu.Lock()
		l.reshuffled = true
		l.mu.Unlock()
	case RoundStartEvent:
		l.mu.Lock()
		keep := l.reshuffled
		l.reshuffled = false
		l.mu.Unlock()
		if !keep {
			l.Clear()
		}
	}

	if l.formatter == nil {
		return
	}
	for _, line := range l.formatter.Format(event) {
		l.Add(line)
	}
}

// Add appends a message, dropping the oldest beyond the window
func (l *MessageLog) Add(message string) {
	l.mu.Lock()
	l.messages = append(l.messages, message)
	if over := len(l.messages) - l.window; over > 0 {
		l.messages = slices.Delete(l.messages, 0, over)
	}
	listeners := slices.Clone(l.listeners)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(message)
	}
}

// Messages returns the window, oldest first
func (l *MessageLog) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.messages)
}

// Clear empties the log
func (l *MessageLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}
