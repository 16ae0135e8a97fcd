package game

import (
	"fmt"
	"strings"
)

// Action is a decision a seat can take on a hand
type Action int

const (
	Stand Action = iota
	Hit
	Double
	Split
)

// String returns the lowercase action name
func (a Action) String() string {
	switch a {
	case Stand:
		return "stand"
	case Hit:
		return "hit"
	case Double:
		return "double"
	case Split:
		return "split"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Label returns the display name used in messages and hints
func (a Action) Label() string {
	switch a {
	case Stand:
		return "Stand"
	case Hit:
		return "Hit"
	case Double:
		return "Double Down"
	case Split:
		return "Split"
	default:
		return "Unknown"
	}
}

// Key returns the number key bound to the action in the UI (1-4)
func (a Action) Key() string {
	return fmt.Sprintf("%d", int(a)+1)
}

// ParseAction parses user input into an action. It accepts the full name,
// its first letter, the number keys 1-4 and a few common aliases.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stand", "s", "stay", "1":
		return Stand, nil
	case "hit", "h", "2":
		return Hit, nil
	case "double", "d", "dd", "double down", "3":
		return Double, nil
	case "split", "p", "4":
		return Split, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// ActionSet is a set of actions
type ActionSet uint8

// NewActionSet returns a set containing the given actions
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

// Has reports whether a is in the set
func (s ActionSet) Has(a Action) bool {
	if a < Stand || a > Split {
		return false
	}
	return s&(1<<uint(a)) != 0
}

// With returns the set with a added
func (s ActionSet) With(a Action) ActionSet {
	return s | 1<<uint(a)
}

// Without returns the set with a removed
func (s ActionSet) Without(a Action) ActionSet {
	return s &^ (1 << uint(a))
}

// Empty reports whether no action is available
func (s ActionSet) Empty() bool {
	return s == 0
}

// Actions lists the members in Stand, Hit, Double, Split order
func (s ActionSet) Actions() []Action {
	var out []Action
	for a := Stand; a <= Split; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// String returns the set as "[stand hit]"
func (s ActionSet) String() string {
	names := make([]string, 0, 4)
	for _, a := range s.Actions() {
		names = append(names, a.String())
	}
	return "[" + strings.Join(names, " ") + "]"
}
