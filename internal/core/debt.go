package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// APR values outside this range are treated as data errors and clamped.
	maxAPR = 50.0

	highInterestAPR     = 18.0
	balanceTransferAPR  = 15.0
	lowPaymentRatioPct  = 3.0
	extraPaymentSuggest = 0.2
)

type (
	// PayoffEntry is one debt's projected payoff under a specific plan.
	// Entries are computed fresh per request and never mutated in place.
	PayoffEntry struct {
		DebtName       string
		Balance        float64
		APR            float64
		MonthlyPayment float64
		Term           Months
		TotalInterest  float64
		TotalPayments  float64
		PayoffOrder    int
	}

	// DebtSummary aggregates the cleaned debt set.
	DebtSummary struct {
		TotalDebt           float64 `json:"total_debt"`
		TotalMinimumPayment float64 `json:"total_minimum_payment"`
		ExtraPayment        float64 `json:"extra_payment"`
		StrategyUsed        string  `json:"strategy_used"`
		TotalMonthlyPayment float64 `json:"total_monthly_payment"`
		DebtCount           int     `json:"debt_count"`
	}

	// DebtSavings compares the optimized plan against the minimum-only
	// baseline. Both figures are floored at zero.
	DebtSavings struct {
		InterestSaved float64 `json:"interest_saved"`
		MonthsSaved   int     `json:"months_saved"`
		TotalSaved    float64 `json:"total_saved"`
	}

	// DebtMilestone marks the projected payoff of one debt, with the cash
	// flow freed up once every debt up to that point is retired.
	DebtMilestone struct {
		DebtName           string  `json:"debt_name"`
		TargetDate         string  `json:"target_date"`
		MonthsFromNow      int     `json:"months_from_now"`
		FreedCashFlow      float64 `json:"freed_cash_flow"`
		CelebrationMessage string  `json:"celebration_message"`
	}

	// DebtPlanResult is the full payoff plan for one request.
	DebtPlanResult struct {
		Summary         DebtSummary      `json:"summary"`
		Savings         DebtSavings      `json:"savings"`
		PayoffPlan      []PayoffEntry    `json:"payoff_plan"`
		BaselinePlan    []PayoffEntry    `json:"baseline_plan"`
		Insights        []Insight        `json:"insights"`
		Recommendations []Recommendation `json:"recommendations"`
		NextAction      string           `json:"next_action"`
		Milestones      []DebtMilestone  `json:"milestones"`
		SkippedDebts    []SkippedEntry   `json:"skipped_debts,omitempty"`
	}

	// cleanedDebt is a validated debt with its derived monthly rate.
	cleanedDebt struct {
		Debt
		monthlyRate float64
	}
)

// MarshalJSON renders the unbounded sentinel as "infinite" for the months,
// interest, and total-payment fields together; they are all meaningless for
// a debt that is never retired.
func (e PayoffEntry) MarshalJSON() ([]byte, error) {
	type wireEntry struct {
		DebtName       string          `json:"debt_name"`
		Balance        float64         `json:"balance"`
		APR            float64         `json:"apr"`
		MonthlyPayment float64         `json:"monthly_payment"`
		MonthsToPayoff Months          `json:"months_to_payoff"`
		TotalInterest  json.RawMessage `json:"total_interest"`
		TotalPayments  json.RawMessage `json:"total_payments"`
		PayoffOrder    int             `json:"payoff_order"`
	}

	infinite := json.RawMessage(`"infinite"`)
	w := wireEntry{
		DebtName:       e.DebtName,
		Balance:        e.Balance,
		APR:            e.APR,
		MonthlyPayment: e.MonthlyPayment,
		MonthsToPayoff: e.Term,
		TotalInterest:  infinite,
		TotalPayments:  infinite,
		PayoffOrder:    e.PayoffOrder,
	}
	if !e.Term.Unbounded() {
		ti, err := json.Marshal(roundTo2(e.TotalInterest))
		if err != nil {
			return nil, err
		}
		tp, err := json.Marshal(roundTo2(e.TotalPayments))
		if err != nil {
			return nil, err
		}
		w.TotalInterest = ti
		w.TotalPayments = tp
	}
	return json.Marshal(w)
}

// CreateDebtPlan builds a debt payoff plan: a minimum-only baseline, a
// strategy-optimized plan, the savings between them, and structured
// insights, recommendations, and milestones.
//
// Invalid debt rows are dropped and reported in SkippedDebts; an empty or
// fully invalid input yields a zeroed result, not an error. The only error
// returned is an unknown strategy, which is a programming mistake at the
// call site.
func CreateDebtPlan(debts []Debt, extraPayment float64, strategy Strategy, userCtx *UserContext) (DebtPlanResult, error) {
	if !strategy.Valid() {
		return DebtPlanResult{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	if !finite(extraPayment) || extraPayment < 0 {
		extraPayment = 0
	}

	cleaned, skipped := cleanDebts(debts)
	if len(cleaned) == 0 {
		empty := emptyDebtPlan()
		empty.SkippedDebts = skipped
		return empty, nil
	}

	baseline := minimumOnlyPlan(cleaned)
	optimized := strategyPlan(cleaned, extraPayment, strategy)

	var totalBalance, totalMinimum float64
	for _, d := range cleaned {
		totalBalance += d.Balance
		totalMinimum += d.MinimumPayment
	}

	result := DebtPlanResult{
		Summary: DebtSummary{
			TotalDebt:           roundTo2(totalBalance),
			TotalMinimumPayment: roundTo2(totalMinimum),
			ExtraPayment:        roundTo2(extraPayment),
			StrategyUsed:        string(strategy),
			TotalMonthlyPayment: roundTo2(totalMinimum + extraPayment),
			DebtCount:           len(cleaned),
		},
		Savings:         planSavings(baseline, optimized),
		PayoffPlan:      optimized,
		BaselinePlan:    baseline,
		Insights:        debtInsights(cleaned, optimized, strategy),
		Recommendations: debtRecommendations(cleaned, userCtx),
		NextAction:      nextAction(optimized, strategy),
		Milestones:      debtMilestones(optimized),
		SkippedDebts:    skipped,
	}
	return result, nil
}

// cleanDebts validates and normalizes debt rows. Rows that cannot yield a
// meaningful plan are dropped with a reason; APR is clamped to [0, maxAPR].
func cleanDebts(debts []Debt) ([]cleanedDebt, []SkippedEntry) {
	var (
		cleaned []cleanedDebt
		skipped []SkippedEntry
	)

	for i, d := range debts {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			name = fmt.Sprintf("Debt %d", i+1)
		}

		reason := ""
		switch {
		case !finite(d.Balance) || !finite(d.APR) || !finite(d.MinimumPayment):
			reason = "non-numeric field"
		case d.Balance <= 0:
			reason = "balance must be positive"
		case d.MinimumPayment <= 0:
			reason = "minimum payment must be positive"
		}
		if reason != "" {
			skipped = append(skipped, SkippedEntry{Index: i, Name: name, Reason: reason})
			continue
		}

		apr := d.APR
		if apr < 0 {
			apr = 0
		} else if apr > maxAPR {
			apr = maxAPR
		}

		cleaned = append(cleaned, cleanedDebt{
			Debt: Debt{
				Name:           name,
				Balance:        d.Balance,
				APR:            apr,
				MinimumPayment: d.MinimumPayment,
			},
			monthlyRate: apr / 100 / 12,
		})
	}

	return cleaned, skipped
}

// minimumOnlyPlan projects every debt paid with just its minimum payment.
func minimumOnlyPlan(debts []cleanedDebt) []PayoffEntry {
	plan := make([]PayoffEntry, 0, len(debts))
	for i, d := range debts {
		p := AmortizePayoff(d.Balance, d.MinimumPayment, d.monthlyRate)
		plan = append(plan, payoffEntry(d, d.MinimumPayment, p, i+1))
	}
	return plan
}

// strategyPlan orders debts by strategy and assigns the whole extra payment
// to the first debt in that order. The allocation is a one-shot greedy
// assignment: freed-up payments do not roll into the next debt over time.
func strategyPlan(debts []cleanedDebt, extraPayment float64, strategy Strategy) []PayoffEntry {
	ordered := make([]cleanedDebt, len(debts))
	copy(ordered, debts)

	switch strategy {
	case StrategyAvalanche:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].APR > ordered[j].APR
		})
	case StrategySnowball:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Balance < ordered[j].Balance
		})
	default: // hybrid: rate weighted against balance size
		sort.SliceStable(ordered, func(i, j int) bool {
			return hybridScore(ordered[i]) > hybridScore(ordered[j])
		})
	}

	plan := make([]PayoffEntry, 0, len(ordered))
	for i, d := range ordered {
		payment := d.MinimumPayment
		if i == 0 {
			payment += extraPayment
		}
		p := AmortizePayoff(d.Balance, payment, d.monthlyRate)
		plan = append(plan, payoffEntry(d, payment, p, i+1))
	}
	return plan
}

func hybridScore(d cleanedDebt) float64 {
	denom := d.Balance / 10000
	if denom < 1 {
		denom = 1
	}
	return (d.APR / 100) / denom
}

func payoffEntry(d cleanedDebt, payment float64, p Payoff, order int) PayoffEntry {
	e := PayoffEntry{
		DebtName:       d.Name,
		Balance:        d.Balance,
		APR:            d.APR,
		MonthlyPayment: payment,
		Term:           p.Term,
		PayoffOrder:    order,
	}
	if !p.Unbounded() {
		e.TotalInterest = p.TotalInterest
		e.TotalPayments = payment * float64(p.Term.Count())
	}
	return e
}

// planSavings compares baseline and optimized plans. Debts with an
// unbounded payoff contribute nothing to either side so the sentinel never
// enters arithmetic; both figures are floored at zero.
func planSavings(baseline, optimized []PayoffEntry) DebtSavings {
	var baseInterest, optInterest float64
	var baseMonths, optMonths int

	for _, e := range baseline {
		if e.Term.Unbounded() {
			continue
		}
		baseInterest += e.TotalInterest
		if e.Term.Count() > baseMonths {
			baseMonths = e.Term.Count()
		}
	}
	for _, e := range optimized {
		if e.Term.Unbounded() {
			continue
		}
		optInterest += e.TotalInterest
		if e.Term.Count() > optMonths {
			optMonths = e.Term.Count()
		}
	}

	interestSaved := baseInterest - optInterest
	if interestSaved < 0 {
		interestSaved = 0
	}
	monthsSaved := baseMonths - optMonths
	if monthsSaved < 0 {
		monthsSaved = 0
	}

	return DebtSavings{
		InterestSaved: roundTo2(interestSaved),
		MonthsSaved:   monthsSaved,
		TotalSaved:    roundTo2(interestSaved),
	}
}

func debtInsights(debts []cleanedDebt, plan []PayoffEntry, strategy Strategy) []Insight {
	insights := []Insight{}

	var highInterestTotal float64
	for _, d := range debts {
		if d.APR > highInterestAPR {
			highInterestTotal += d.Balance
		}
	}
	if highInterestTotal > 0 {
		insights = append(insights, Insight{
			Title:       "High Interest Debt Alert",
			Description: fmt.Sprintf("$%.2f in debt with APR > %.0f%%", highInterestTotal, highInterestAPR),
			Type:        "warning",
			Priority:    "high",
			Action:      "Consider debt consolidation or balance transfer",
		})
	}

	fastest := 0
	for _, e := range plan {
		if e.Term.Unbounded() {
			continue
		}
		if fastest == 0 || e.Term.Count() < fastest {
			fastest = e.Term.Count()
		}
	}
	if fastest > 0 {
		insights = append(insights, Insight{
			Title:       fmt.Sprintf("%s Strategy Selected", titleCase(string(strategy))),
			Description: fmt.Sprintf("First debt paid off in %d months", fastest),
			Type:        "info",
			Priority:    "medium",
			Details:     strategyExplanation(strategy),
		})
	}

	var totalBalance, totalMinimum float64
	for _, d := range debts {
		totalBalance += d.Balance
		totalMinimum += d.MinimumPayment
	}
	if totalBalance > 0 {
		ratio := totalMinimum / totalBalance * 100
		if ratio < lowPaymentRatioPct {
			insights = append(insights, Insight{
				Title:       "Low Payment Ratio",
				Description: fmt.Sprintf("Monthly payments are %.1f%% of total debt", ratio),
				Type:        "warning",
				Priority:    "medium",
				Action:      "Consider increasing payments to accelerate payoff",
			})
		}
	}

	return insights
}

func debtRecommendations(debts []cleanedDebt, userCtx *UserContext) []Recommendation {
	recs := []Recommendation{}

	var totalMinimum float64
	for _, d := range debts {
		totalMinimum += d.MinimumPayment
	}
	suggestedExtra := totalMinimum * extraPaymentSuggest
	recs = append(recs, Recommendation{
		Title:            "Increase Monthly Payments",
		Description:      fmt.Sprintf("Adding $%.2f/month could significantly reduce payoff time", suggestedExtra),
		Action:           fmt.Sprintf("Try to pay $%.2f total monthly", totalMinimum+suggestedExtra),
		Type:             "payment_increase",
		Priority:         "high",
		PotentialBenefit: "Faster payoff and reduced interest",
	})

	var highAPRCount int
	var highAPRTotal float64
	for _, d := range debts {
		if d.APR > balanceTransferAPR {
			highAPRCount++
			highAPRTotal += d.Balance
		}
	}
	if highAPRCount > 1 {
		recs = append(recs, Recommendation{
			Title:            "Consider Balance Transfer",
			Description:      fmt.Sprintf("$%.2f in high-APR debt could benefit from consolidation", highAPRTotal),
			Action:           "Look for 0% APR balance transfer offers",
			Type:             "consolidation",
			Priority:         "medium",
			PotentialBenefit: "Lower interest rates",
		})
	}

	if userCtx != nil && userCtx.HasEmergencyFund != nil && !*userCtx.HasEmergencyFund {
		recs = append(recs, Recommendation{
			Title:            "Build Small Emergency Fund First",
			Description:      "Consider building a $1,000 emergency fund before aggressive debt payoff",
			Action:           "Balance debt payoff with emergency savings",
			Type:             "emergency_fund",
			Priority:         "high",
			PotentialBenefit: "Avoid taking on more debt for emergencies",
		})
	}

	if userCtx != nil && userCtx.Persona == PersonaFamily {
		recs = append(recs, Recommendation{
			Title:            "Family Debt Strategy",
			Description:      "Involve your partner in debt payoff planning",
			Action:           "Set up automatic payments and regular progress reviews",
			Type:             "family_planning",
			Priority:         "medium",
			PotentialBenefit: "Better accountability and success",
		})
	}

	return recs
}

func strategyExplanation(strategy Strategy) string {
	switch strategy {
	case StrategyAvalanche:
		return "Pays minimum on all debts, extra goes to highest APR debt. Saves the most money on interest."
	case StrategySnowball:
		return "Pays minimum on all debts, extra goes to smallest balance. Provides psychological wins and motivation."
	case StrategyHybrid:
		return "Balances interest rates and balances for a middle-ground approach between avalanche and snowball."
	}
	return "Custom debt payoff strategy"
}

// nextAction names the priority debt and the payment that retires it.
func nextAction(plan []PayoffEntry, strategy Strategy) string {
	if len(plan) == 0 {
		return "Add your debts to create a payoff plan!"
	}

	priority := plan[0]
	for _, e := range plan[1:] {
		if e.PayoffOrder < priority.PayoffOrder {
			priority = e
		}
	}

	if priority.Term.Unbounded() {
		return fmt.Sprintf(
			"Focus on '%s' using %s strategy, but its payment of $%.2f/month does not cover accruing interest. Increase it first.",
			priority.DebtName, strategy, priority.MonthlyPayment,
		)
	}
	return fmt.Sprintf(
		"Focus on '%s' using %s strategy. Pay $%.2f/month to eliminate it in %d months.",
		priority.DebtName, strategy, priority.MonthlyPayment, priority.Term.Count(),
	)
}

// debtMilestones walks the plan in payoff order, accumulating the months
// elapsed and the cash flow freed as each debt falls off. Debts that are
// never retired produce no milestone.
func debtMilestones(plan []PayoffEntry) []DebtMilestone {
	ordered := make([]PayoffEntry, len(plan))
	copy(ordered, plan)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PayoffOrder < ordered[j].PayoffOrder
	})

	milestones := []DebtMilestone{}
	cumulativeMonths := 0
	cumulativeFreed := 0.0
	now := time.Now()

	for _, e := range ordered {
		if e.Term.Unbounded() {
			continue
		}
		if e.Term.Count() > cumulativeMonths {
			cumulativeMonths = e.Term.Count()
		}
		cumulativeFreed += e.MonthlyPayment

		milestones = append(milestones, DebtMilestone{
			DebtName:      e.DebtName,
			TargetDate:    now.AddDate(0, cumulativeMonths, 0).Format("January 2006"),
			MonthsFromNow: cumulativeMonths,
			FreedCashFlow: roundTo2(cumulativeFreed),
			CelebrationMessage: fmt.Sprintf(
				"%s paid off! You've freed up $%.2f/month!", e.DebtName, e.MonthlyPayment,
			),
		})
	}

	return milestones
}

func emptyDebtPlan() DebtPlanResult {
	return DebtPlanResult{
		Summary: DebtSummary{
			StrategyUsed: "none",
		},
		PayoffPlan:      []PayoffEntry{},
		BaselinePlan:    []PayoffEntry{},
		Insights:        []Insight{},
		Recommendations: []Recommendation{},
		NextAction:      "Add your debts to get started with a personalized payoff plan!",
		Milestones:      []DebtMilestone{},
	}
}

// titleCase uppercases the first letter of a single lowercase word.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
