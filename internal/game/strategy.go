package game

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

var (
	// ErrUnexpectedTotal marks a total/soft/pair combination the strategy
	// tables do not cover.
	ErrUnexpectedTotal = errors.New("unexpected total for basic strategy")

	// ErrForbiddenAction marks a strategy choice that is not in the set of
	// actions the caller offered.
	ErrForbiddenAction = errors.New("strategy chose an action that is not available")
)

// StrategyError describes an anomaly found while consulting the basic
// strategy tables. The action returned alongside it is always usable.
type StrategyError struct {
	Err      error
	Total    int
	Soft     bool
	Pair     bool
	DealerUp int
	Chosen   Action
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%v (total %d, soft %t, pair %t, dealer %d, chosen %s)",
		e.Err, e.Total, e.Soft, e.Pair, e.DealerUp, e.Chosen)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// BasicStrategy returns the basic-strategy action for a hand total against
// the dealer's up-card value (2-11). It is a pure function. A non-nil error
// reports a gap in the tables or a choice outside available; the returned
// action is still a safe member of available.
func BasicStrategy(total int, soft bool, dealerUp int, available ActionSet) (Action, error) {
	var (
		chosen  Action
		anomaly error
		pair    = available.Has(Split) && total != 10 && total != 20
	)

	switch {
	case pair:
		chosen, anomaly = pairStrategy(total, soft, dealerUp)
	case soft:
		chosen, anomaly = softStrategy(total, dealerUp, available)
	default:
		chosen, anomaly = hardStrategy(total, dealerUp)
	}

	if chosen == Double && !available.Has(Double) {
		chosen = Hit
	}

	if !available.Has(chosen) {
		violation := &StrategyError{Err: ErrForbiddenAction, Total: total, Soft: soft, Pair: pair, DealerUp: dealerUp, Chosen: chosen}
		return fallbackAction(available), violation
	}

	if anomaly != nil {
		return chosen, &StrategyError{Err: anomaly, Total: total, Soft: soft, Pair: pair, DealerUp: dealerUp, Chosen: chosen}
	}
	return chosen, nil
}

func pairStrategy(total int, soft bool, up int) (Action, error) {
	switch total {
	case 4, 6:
		if up <= 7 {
			return Split, nil
		}
		return Hit, nil
	case 8:
		if up == 5 || up == 6 {
			return Split, nil
		}
		return Hit, nil
	case 12:
		if soft || up <= 6 {
			return Split, nil
		}
		return Hit, nil
	case 14:
		if up <= 7 {
			return Split, nil
		}
		return Hit, nil
	case 16:
		return Split, nil
	case 18:
		if up == 7 || up >= 10 {
			return Stand, nil
		}
		return Split, nil
	}
	return Hit, ErrUnexpectedTotal
}

func softStrategy(total int, up int, available ActionSet) (Action, error) {
	switch total {
	case 13, 14:
		if up == 5 || up == 6 {
			return Double, nil
		}
		return Hit, nil
	case 15, 16:
		if up >= 4 && up <= 6 {
			return Double, nil
		}
		return Hit, nil
	case 17:
		if up >= 3 && up <= 6 {
			return Double, nil
		}
		return Hit, nil
	case 18:
		switch {
		case up >= 3 && up <= 6 && available.Has(Double):
			return Double, nil
		case up <= 8:
			return Stand, nil
		}
		return Hit, nil
	case 19, 20:
		return Stand, nil
	}
	return unexpectedTotal(total, true)
}

func hardStrategy(total int, up int) (Action, error) {
	switch total {
	case 4, 5, 6, 7, 8:
		return Hit, nil
	case 9:
		if up >= 3 && up <= 6 {
			return Double, nil
		}
		return Hit, nil
	case 10:
		if up <= 9 {
			return Double, nil
		}
		return Hit, nil
	case 11:
		if up <= 10 {
			return Double, nil
		}
		return Hit, nil
	case 12:
		if up >= 4 && up <= 6 {
			return Stand, nil
		}
		return Hit, nil
	case 13, 14, 15, 16:
		if up <= 6 {
			return Stand, nil
		}
		return Hit, nil
	case 17, 18, 19, 20:
		return Stand, nil
	}
	return unexpectedTotal(total, false)
}

// unexpectedTotal picks a total the tables do not list: a hand that cannot
// bust on the next card hits, anything else stands.
func unexpectedTotal(total int, soft bool) (Action, error) {
	if soft || total < 12 {
		return Hit, ErrUnexpectedTotal
	}
	return Stand, ErrUnexpectedTotal
}

func fallbackAction(available ActionSet) Action {
	if available.Has(Hit) {
		return Hit
	}
	return Stand
}

// DealerDecide is the fixed dealer rule: hit below 17, stand otherwise.
func DealerDecide(total int) Action {
	if total < 17 {
		return Hit
	}
	return Stand
}

// Advise applies basic strategy to a decision request. It only reads the
// request, so it is safe to call for hints while the request is pending.
func Advise(req DecisionRequest) (Action, error) {
	return BasicStrategy(req.Total, req.Soft, req.DealerUp.Value(), req.Available)
}

// Oracle is basic strategy with anomaly logging. Table gaps are logged at
// warn, availability mismatches at error; neither interrupts play.
type Oracle struct {
	logger *log.Logger
}

// NewOracle creates an oracle that reports anomalies to logger
func NewOracle(logger *log.Logger) *Oracle {
	return &Oracle{logger: logger.WithPrefix("strategy")}
}

// Decide returns the basic-strategy action and logs any anomaly
func (o *Oracle) Decide(total int, soft bool, dealerUp int, available ActionSet) Action {
	action, err := BasicStrategy(total, soft, dealerUp, available)
	o.report(err)
	return action
}

// Advise is Decide for a decision request
func (o *Oracle) Advise(req DecisionRequest) Action {
	action, err := Advise(req)
	o.report(err)
	return action
}

func (o *Oracle) report(err error) {
	var se *StrategyError
	if !errors.As(err, &se) {
		return
	}
	if errors.Is(se, ErrForbiddenAction) {
		o.logger.Error("Forbidden strategy option", "total", se.Total, "soft", se.Soft,
			"pair", se.Pair, "dealerUp", se.DealerUp, "chosen", se.Chosen)
		return
	}
	o.logger.Warn("Unexpected sum", "total", se.Total, "soft", se.Soft,
		"pair", se.Pair, "dealerUp", se.DealerUp, "fallback", se.Chosen)
}
