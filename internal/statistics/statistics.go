package statistics

import (
	"fmt"
	"math"
	"sort"
)

// HandResult is one settled hand of a seat
type HandResult struct {
	Delta     float64 // Units of the original bet won (+) or lost (-)
	Blackjack bool
	Doubled   bool
	FromSplit bool
	Bust      bool
}

// RoundResult is one seat's share of a settled round
type RoundResult struct {
	Seed  int64 // RNG seed of the worker that played it (for replay)
	Hands []HandResult
}

// Net returns the seat's winnings for the round
func (r RoundResult) Net() float64 {
	net := 0.0
	for _, h := range r.Hands {
		net += h.Delta
	}
	return net
}

// Statistics tracks one seat's results over many rounds
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	// Per-hand analytics; a round holds more than one hand after a split
	Hands      int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Doubles    int
	Splits     int // Hands that came out of a split
	Busts      int

	WinUnits  float64 // Units from winning hands
	LossUnits float64 // Units from losing hands (negative)
	AllUnits  float64 // Total units for sanity check
}

// Mean returns the arithmetic mean of all results in units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net()
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	for _, h := range result.Hands {
		s.Hands++
		switch {
		case h.Delta > 0:
			s.Wins++
			s.WinUnits += h.Delta
		case h.Delta < 0:
			s.Losses++
			s.LossUnits += h.Delta
		default:
			s.Pushes++
		}
		s.AllUnits += h.Delta

		if h.Blackjack {
			s.Blackjacks++
		}
		if h.Doubled {
			s.Doubles++
		}
		if h.FromSplit {
			s.Splits++
		}
		if h.Bust {
			s.Busts++
		}
	}
}

// Merge folds other into s, used to combine per-worker statistics
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Hands += other.Hands
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Doubles += other.Doubles
	s.Splits += other.Splits
	s.Busts += other.Busts
	s.WinUnits += other.WinUnits
	s.LossUnits += other.LossUnits
	s.AllUnits += other.AllUnits
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the fraction of hands won
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Hands)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllUnits-s.WinUnits-s.LossUnits) <= 1e-6 &&
		math.Abs(s.AllUnits-s.SumNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllUnits=%.6f, WinUnits=%.6f, LossUnits=%.6f, SumNet=%.6f",
			s.AllUnits, s.WinUnits, s.LossUnits, s.SumNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if s.Hands < s.Rounds {
		return fmt.Errorf("hands (%d) fewer than rounds (%d)", s.Hands, s.Rounds)
	}

	if s.Wins+s.Losses+s.Pushes != s.Hands {
		return fmt.Errorf("outcomes (%d) do not match hands (%d)", s.Wins+s.Losses+s.Pushes, s.Hands)
	}

	if s.Busts > s.Losses {
		return fmt.Errorf("busts (%d) exceed losses (%d)", s.Busts, s.Losses)
	}

	return nil
}
