package statistics

import (
	"fmt"
	"sync/atomic"
)

// Session counts the human's decisions against basic strategy and the hints
// they asked for. Counters are atomic: hints arrive from the UI goroutine
// while the engine records decisions.
type Session struct {
	decisions atomic.Int64
	correct   atomic.Int64
	hints     atomic.Int64
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// RecordDecision counts one human decision
func (s *Session) RecordDecision(correct bool) {
	s.decisions.Add(1)
	if correct {
		s.correct.Add(1)
	}
}

// RecordHint counts one hint request
func (s *Session) RecordHint() {
	s.hints.Add(1)
}

// Decisions returns the total and correct decision counts
func (s *Session) Decisions() (total, correct int) {
	return int(s.decisions.Load()), int(s.correct.Load())
}

// Hints returns how many hints were requested
func (s *Session) Hints() int {
	return int(s.hints.Load())
}

// Accuracy returns the percentage of correct decisions, 0 when none were made
func (s *Session) Accuracy() float64 {
	total, correct := s.Decisions()
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Summary returns the end-of-session report lines
func (s *Session) Summary() []string {
	total, correct := s.Decisions()
	return []string{
		fmt.Sprintf("Correct decisions based on basic strategy: %d out of %d ( %.2f %% )", correct, total, s.Accuracy()),
		fmt.Sprintf("Hints used: %d", s.Hints()),
	}
}
