package core

import (
	"encoding/json"
	"math"
)

// Months is a count of months that may be unbounded. A payment that does not
// even cover accruing interest never retires its balance; that case is a
// tagged variant here rather than a raw +Inf, so it cannot leak into
// arithmetic by accident. It marshals as the string "infinite".
type Months struct {
	count     int
	unbounded bool
}

// MonthsOf returns a bounded month count.
func MonthsOf(n int) Months {
	return Months{count: n}
}

// UnboundedMonths returns the never-completes sentinel.
func UnboundedMonths() Months {
	return Months{unbounded: true}
}

// Unbounded reports whether the count is the infinite sentinel.
func (m Months) Unbounded() bool { return m.unbounded }

// Count returns the bounded month count, or 0 when unbounded.
func (m Months) Count() int {
	if m.unbounded {
		return 0
	}
	return m.count
}

func (m Months) MarshalJSON() ([]byte, error) {
	if m.unbounded {
		return json.Marshal("infinite")
	}
	return json.Marshal(m.count)
}

func (m *Months) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "infinite" {
			*m = UnboundedMonths()
			return nil
		}
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = MonthsOf(n)
	return nil
}

// Payoff is the outcome of retiring a single balance with a fixed monthly
// payment. When Term is unbounded the interest is unbounded too and
// TotalInterest is zero by convention.
type Payoff struct {
	Term          Months
	TotalInterest float64
}

// Unbounded reports whether the balance is never retired.
func (p Payoff) Unbounded() bool { return p.Term.Unbounded() }

// AmortizePayoff computes months-to-payoff and total interest for a balance
// paid down with a fixed monthly payment at the given monthly interest rate.
//
// It is the single computational primitive shared by the minimum-only
// baseline and every strategy-optimized plan:
//   - payment <= 0 never retires debt: unbounded.
//   - rate <= 0: simple division, zero interest.
//   - payment <= balance*rate: the balance never decreases, unbounded.
//   - otherwise the closed-form amortization formula; if the log argument
//     degenerates numerically, fall back to simple division with zero
//     interest rather than failing.
func AmortizePayoff(balance, monthlyPayment, monthlyRate float64) Payoff {
	if monthlyPayment <= 0 {
		return Payoff{Term: UnboundedMonths()}
	}

	if monthlyRate <= 0 {
		months := int(math.Ceil(balance / monthlyPayment))
		return Payoff{Term: MonthsOf(months)}
	}

	monthlyInterest := balance * monthlyRate
	if monthlyPayment <= monthlyInterest {
		return Payoff{Term: UnboundedMonths()}
	}

	logArg := 1 - (balance*monthlyRate)/monthlyPayment
	if logArg <= 0 {
		// Guarded above, but float rounding can still push the argument out
		// of the log domain.
		months := int(math.Ceil(balance / monthlyPayment))
		return Payoff{Term: MonthsOf(months)}
	}

	raw := -math.Log(logArg) / math.Log(1+monthlyRate)
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		months := int(math.Ceil(balance / monthlyPayment))
		return Payoff{Term: MonthsOf(months)}
	}

	months := int(math.Ceil(raw))
	totalInterest := math.Max(0, monthlyPayment*float64(months)-balance)
	return Payoff{Term: MonthsOf(months), TotalInterest: totalInterest}
}
