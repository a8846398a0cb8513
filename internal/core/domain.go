package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	StrategyAvalanche Strategy = "avalanche"
	StrategySnowball  Strategy = "snowball"
	StrategyHybrid    Strategy = "hybrid"
)

const (
	PersonaStudent      = "student"
	PersonaProfessional = "professional"
	PersonaFamily       = "family"
)

type (
	// Strategy selects how extra debt payments are ordered.
	Strategy string

	// Transaction is a single spending record. Input only; never persisted.
	Transaction struct {
		Date        time.Time
		Description string
		Amount      float64
	}

	// Debt describes one outstanding balance as supplied by the caller.
	Debt struct {
		Name           string  `json:"name"`
		Balance        float64 `json:"balance"`
		APR            float64 `json:"apr"`
		MinimumPayment float64 `json:"minimum_payment"`
	}

	// Goal describes one savings target as supplied by the caller.
	Goal struct {
		Name           string  `json:"name"`
		TargetAmount   float64 `json:"target_amount"`
		TimelineMonths int     `json:"timeline_months"`
		Priority       int     `json:"priority"`
	}

	// UserContext carries optional caller hints that shape recommendations.
	UserContext struct {
		Persona          string `json:"persona,omitempty"`
		Language         string `json:"language,omitempty"`
		HasEmergencyFund *bool  `json:"has_emergency_fund,omitempty"`
	}

	// SkippedEntry records one input row dropped during cleaning, so callers
	// can see what was ignored and why instead of rows vanishing silently.
	SkippedEntry struct {
		Index  int    `json:"index"`
		Name   string `json:"name,omitempty"`
		Reason string `json:"reason"`
	}

	// Insight is one structured observation about the caller's finances.
	Insight struct {
		Title       string           `json:"title"`
		Description string           `json:"description"`
		Type        string           `json:"type"`
		Priority    string           `json:"priority"`
		Action      string           `json:"action,omitempty"`
		Details     string           `json:"details,omitempty"`
		Category    string           `json:"category,omitempty"`
		Amount      float64          `json:"amount,omitempty"`
		Percentage  float64          `json:"percentage,omitempty"`
		Evidence    *InsightEvidence `json:"evidence,omitempty"`
	}

	// InsightEvidence backs an insight with the numbers that produced it.
	InsightEvidence struct {
		TransactionCount int                `json:"transaction_count,omitempty"`
		AvgTransaction   float64            `json:"avg_transaction,omitempty"`
		TopMerchants     map[string]float64 `json:"top_merchants,omitempty"`
		Frequency        int                `json:"frequency,omitempty"`
		AvgMealCost      float64            `json:"avg_meal_cost,omitempty"`
		Services         []string           `json:"services,omitempty"`
	}

	// Recommendation is one actionable suggestion. Optional fields are only
	// set by the components that produce them.
	Recommendation struct {
		Title                string  `json:"title"`
		Description          string  `json:"description"`
		Action               string  `json:"action,omitempty"`
		Type                 string  `json:"type"`
		Priority             string  `json:"priority"`
		Category             string  `json:"category,omitempty"`
		PotentialBenefit     string  `json:"potential_benefit,omitempty"`
		Implementation       string  `json:"implementation,omitempty"`
		PotentialSavings     float64 `json:"potential_savings,omitempty"`
		TargetAmount         float64 `json:"target_amount,omitempty"`
		MonthlySavingsNeeded float64 `json:"monthly_savings_needed,omitempty"`
	}
)

var (
	// ErrUnknownStrategy reports a strategy value outside the supported set.
	// Passing one is a contract violation, not a recoverable input problem.
	ErrUnknownStrategy = errors.New("unknown debt strategy")

	// ErrInvalidIncome reports a non-positive monthly income.
	ErrInvalidIncome = errors.New("income must be greater than zero")
)

// ParseStrategy validates a strategy string from the transport boundary.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyAvalanche:
		return StrategyAvalanche, nil
	case StrategySnowball:
		return StrategySnowball, nil
	case StrategyHybrid:
		return StrategyHybrid, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Valid reports whether the strategy is one of the supported values.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyAvalanche, StrategySnowball, StrategyHybrid:
		return true
	}
	return false
}

// finite reports whether v is a usable number. NaN and Inf in caller input
// are treated the same way as non-numeric rows in the cleaning pass.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// roundTo2 rounds a monetary value to two decimals for presentation.
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
