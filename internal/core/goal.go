package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

const (
	maxTimelineMonths = 600
	maxGoalPriority   = 10

	emergencyFundShare = 0.2
	firstGoalShare     = 0.6
	secondGoalShare    = 0.3

	feasibilityGoalPenalty  = 5.0
	feasibilityGoalFreebies = 3
	emergencyFundBonus      = 10.0
)

// Goal categories in priority-multiplier order. A higher multiplier lowers
// the goal's adjusted priority number, which means it is processed earlier.
const (
	CategoryEmergencyFund = "emergency_fund"
	CategoryDebtPayoff    = "debt_payoff"
	CategoryRetirement    = "retirement"
	CategoryMajorPurchase = "major_purchase"
	CategoryVacation      = "vacation"
	CategoryLuxury        = "luxury"
)

var goalCategoryMultipliers = map[string]float64{
	CategoryEmergencyFund: 1.5,
	CategoryDebtPayoff:    1.3,
	CategoryRetirement:    1.2,
	CategoryMajorPurchase: 1.0,
	CategoryVacation:      0.8,
	CategoryLuxury:        0.6,
}

// goalCategoryKeywords is checked in order; the first match wins. The
// default category for unmatched names is major_purchase.
var goalCategoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryEmergencyFund, []string{"emergency", "emergency fund", "rainy day"}},
	{CategoryDebtPayoff, []string{"debt", "payoff", "loan", "credit card"}},
	{CategoryRetirement, []string{"retirement", "401k", "ira", "pension"}},
	{CategoryMajorPurchase, []string{"house", "car", "home", "down payment", "laptop", "computer"}},
	{CategoryVacation, []string{"vacation", "travel", "trip", "holiday"}},
	{CategoryLuxury, []string{"luxury", "jewelry", "watch", "designer"}},
}

type (
	// enhancedGoal is a validated goal with its derived planning fields.
	enhancedGoal struct {
		Goal
		id               string
		category         string
		monthlyRequired  float64
		adjustedPriority float64
		urgencyScore     float64
	}

	// FinancialOverview summarizes the monthly budget behind a goal plan.
	FinancialOverview struct {
		MonthlyIncome    float64 `json:"monthly_income"`
		MonthlyExpenses  float64 `json:"monthly_expenses"`
		AvailableMonthly float64 `json:"available_monthly"`
		DeficitAmount    float64 `json:"deficit_amount,omitempty"`
		SavingsRate      float64 `json:"savings_rate"`
	}

	// GoalAnalysis aggregates goal-set level metrics.
	GoalAnalysis struct {
		TotalGoals           int     `json:"total_goals"`
		TotalTargetAmount    float64 `json:"total_target_amount"`
		TotalMonthlyRequired float64 `json:"total_monthly_required"`
		FeasibilityScore     float64 `json:"feasibility_score"`
		Message              string  `json:"message,omitempty"`
		RequiredAction       string  `json:"required_action,omitempty"`
	}

	// GoalScenario is one alternative pace for reaching a goal.
	GoalScenario struct {
		Name           string  `json:"name"`
		MonthlyAmount  float64 `json:"monthly_amount"`
		TimelineMonths int     `json:"timeline_months"`
		Description    string  `json:"description"`
	}

	// GoalAssessment is the individual feasibility analysis of one goal.
	GoalAssessment struct {
		GoalName           string         `json:"goal_name"`
		TargetAmount       float64        `json:"target_amount"`
		RequestedTimeline  int            `json:"requested_timeline"`
		MonthlyRequired    float64        `json:"monthly_required"`
		IsFeasible         bool           `json:"is_feasible"`
		RealisticTimeline  Months         `json:"realistic_timeline"`
		AffordabilityRatio float64        `json:"affordability_ratio"`
		Scenarios          []GoalScenario `json:"scenarios"`
		Category           string         `json:"category"`
		Priority           int            `json:"priority"`
		AdjustedPriority   float64        `json:"adjusted_priority"`
	}

	// GoalAllocation is the monthly budget share assigned to one goal.
	GoalAllocation struct {
		GoalName          string  `json:"goal_name"`
		MonthlyAllocation float64 `json:"monthly_allocation"`
		TimelineMonths    Months  `json:"timeline_months"`
		PriorityRank      int     `json:"priority_rank"`
		AllocationReason  string  `json:"allocation_reason"`
	}

	// AllocationPlan is the optimized split of available budget across all
	// goals. Allocations never sum past the available monthly budget; the
	// unallocated remainder is tracked explicitly.
	AllocationPlan struct {
		Allocations          map[string]GoalAllocation `json:"allocations"`
		TotalAllocated       float64                   `json:"total_allocated"`
		RemainingBudget      float64                   `json:"remaining_budget"`
		AllocationEfficiency float64                   `json:"allocation_efficiency"`
	}

	// GoalMilestone marks a completion or halfway point for one goal.
	GoalMilestone struct {
		GoalID             string  `json:"goal_id"`
		GoalName           string  `json:"goal_name"`
		TargetDate         string  `json:"target_date"`
		MonthsFromNow      int     `json:"months_from_now"`
		MonthlyAmount      float64 `json:"monthly_amount"`
		MilestoneType      string  `json:"milestone_type"`
		CelebrationMessage string  `json:"celebration_message"`
	}

	// ActionPlan lists concrete follow-ups at three cadences.
	ActionPlan struct {
		ImmediateActions []string `json:"immediate_actions"`
		MonthlyActions   []string `json:"monthly_actions"`
		QuarterlyActions []string `json:"quarterly_actions"`
		SuccessFactors   []string `json:"success_factors,omitempty"`
	}

	// GoalPlanResult is the full goal plan for one request.
	GoalPlanResult struct {
		FinancialOverview FinancialOverview         `json:"financial_overview"`
		GoalAnalysis      GoalAnalysis              `json:"goal_analysis"`
		IndividualGoals   map[string]GoalAssessment `json:"individual_goals"`
		OptimizedPlan     AllocationPlan            `json:"optimized_plan"`
		Insights          []Insight                 `json:"insights"`
		Recommendations   []Recommendation          `json:"recommendations"`
		Milestones        []GoalMilestone           `json:"milestones"`
		ActionPlan        ActionPlan                `json:"action_plan"`
		SkippedGoals      []SkippedEntry            `json:"skipped_goals,omitempty"`
	}
)

// CreateGoalPlan allocates the monthly budget surplus across a set of
// savings goals, producing per-goal feasibility analysis, an optimized
// allocation, insights, recommendations, and milestones.
//
// A non-positive income is a domain error. A deficit (expenses >= income)
// short-circuits to a deficit-mode result with feasibility zero; no
// allocation is attempted.
func CreateGoalPlan(income, expenses float64, goals []Goal, userCtx *UserContext) (GoalPlanResult, error) {
	if !finite(income) || income <= 0 {
		return GoalPlanResult{}, ErrInvalidIncome
	}
	if !finite(expenses) || expenses < 0 {
		expenses = 0
	}

	available := income - expenses
	if available <= 0 {
		return deficitPlan(income, expenses), nil
	}

	enhanced, skipped := enhanceGoals(goals)
	if len(enhanced) == 0 {
		empty := emptyGoalPlan(income, expenses, "No valid goals provided")
		empty.SkippedGoals = skipped
		return empty, nil
	}

	individual := analyzeGoals(enhanced, available)
	allocation := optimizeAllocation(enhanced, available)

	var totalTarget, totalRequired float64
	for _, g := range enhanced {
		totalTarget += g.TargetAmount
		totalRequired += g.monthlyRequired
	}

	result := GoalPlanResult{
		FinancialOverview: FinancialOverview{
			MonthlyIncome:    income,
			MonthlyExpenses:  expenses,
			AvailableMonthly: available,
			SavingsRate:      available / income * 100,
		},
		GoalAnalysis: GoalAnalysis{
			TotalGoals:           len(enhanced),
			TotalTargetAmount:    roundTo2(totalTarget),
			TotalMonthlyRequired: roundTo2(totalRequired),
			FeasibilityScore:     feasibilityScore(enhanced, available),
		},
		IndividualGoals: individual,
		OptimizedPlan:   allocation,
		Insights:        goalInsights(enhanced, allocation),
		Recommendations: goalRecommendations(enhanced, available, allocation, userCtx),
		Milestones:      goalMilestones(enhanced, allocation),
		ActionPlan:      actionPlan(allocation),
		SkippedGoals:    skipped,
	}
	return result, nil
}

// CategorizeGoal infers a goal category from its name. Unmatched names fall
// back to major_purchase.
func CategorizeGoal(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range goalCategoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return CategoryMajorPurchase
}

// enhanceGoals validates goals and derives the planning fields. Invalid
// goals are dropped with a reason; timeline and priority are clamped to
// their documented ranges. The result is sorted by (adjusted priority,
// urgency): lower adjusted priority numbers are processed first.
func enhanceGoals(goals []Goal) ([]enhancedGoal, []SkippedEntry) {
	var (
		enhanced []enhancedGoal
		skipped  []SkippedEntry
	)

	for i, g := range goals {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			name = fmt.Sprintf("Goal %d", i+1)
		}

		reason := ""
		switch {
		case !finite(g.TargetAmount):
			reason = "non-numeric target amount"
		case g.TargetAmount <= 0:
			reason = "target amount must be positive"
		case g.TimelineMonths <= 0:
			reason = "timeline must be positive"
		}
		if reason != "" {
			skipped = append(skipped, SkippedEntry{Index: i, Name: name, Reason: reason})
			continue
		}

		timeline := g.TimelineMonths
		if timeline > maxTimelineMonths {
			timeline = maxTimelineMonths
		}
		priority := g.Priority
		if priority < 1 {
			priority = 1
		} else if priority > maxGoalPriority {
			priority = maxGoalPriority
		}

		category := CategorizeGoal(name)
		enhanced = append(enhanced, enhancedGoal{
			Goal: Goal{
				Name:           name,
				TargetAmount:   g.TargetAmount,
				TimelineMonths: timeline,
				Priority:       priority,
			},
			id:               fmt.Sprintf("goal_%d", i),
			category:         category,
			monthlyRequired:  g.TargetAmount / float64(timeline),
			adjustedPriority: adjustedPriority(priority, category),
			urgencyScore:     urgencyScore(timeline, category),
		})
	}

	sort.SliceStable(enhanced, func(i, j int) bool {
		if enhanced[i].adjustedPriority != enhanced[j].adjustedPriority {
			return enhanced[i].adjustedPriority < enhanced[j].adjustedPriority
		}
		return enhanced[i].urgencyScore < enhanced[j].urgencyScore
	})

	return enhanced, skipped
}

// adjustedPriority divides the user priority by the category multiplier;
// important categories push the number down, which raises real priority.
func adjustedPriority(priority int, category string) float64 {
	multiplier, ok := goalCategoryMultipliers[category]
	if !ok {
		multiplier = 1.0
	}
	return float64(priority) / multiplier
}

// urgencyScore grows as the timeline shrinks, boosted for safety-critical
// categories.
func urgencyScore(timelineMonths int, category string) float64 {
	if timelineMonths < 1 {
		timelineMonths = 1
	}
	urgency := 12 / float64(timelineMonths)
	switch category {
	case CategoryEmergencyFund:
		urgency *= 2
	case CategoryDebtPayoff:
		urgency *= 1.5
	}
	return urgency
}

func analyzeGoals(goals []enhancedGoal, available float64) map[string]GoalAssessment {
	analysis := make(map[string]GoalAssessment, len(goals))

	for _, g := range goals {
		feasible := g.monthlyRequired <= available

		realistic := MonthsOf(g.TimelineMonths)
		if !feasible {
			realistic = MonthsOf(int(math.Ceil(g.TargetAmount / available)))
		}

		analysis[g.id] = GoalAssessment{
			GoalName:           g.Name,
			TargetAmount:       g.TargetAmount,
			RequestedTimeline:  g.TimelineMonths,
			MonthlyRequired:    roundTo2(g.monthlyRequired),
			IsFeasible:         feasible,
			RealisticTimeline:  realistic,
			AffordabilityRatio: g.monthlyRequired / available,
			Scenarios:          goalScenarios(g, available),
			Category:           g.category,
			Priority:           g.Priority,
			AdjustedPriority:   g.adjustedPriority,
		}
	}

	return analysis
}

// goalScenarios projects conservative, moderate, and aggressive paces from
// fixed fractions of the available budget.
func goalScenarios(g enhancedGoal, available float64) []GoalScenario {
	type pace struct {
		name     string
		fraction float64
	}
	paces := []pace{
		{"Conservative", 0.3},
		{"Moderate", 0.5},
		{"Aggressive", 0.8},
	}

	scenarios := make([]GoalScenario, 0, len(paces))
	for _, p := range paces {
		monthly := available * p.fraction
		if monthly <= 0 {
			continue
		}
		scenarios = append(scenarios, GoalScenario{
			Name:           p.name,
			MonthlyAmount:  roundTo2(monthly),
			TimelineMonths: int(math.Ceil(g.TargetAmount / monthly)),
			Description:    fmt.Sprintf("%.0f%% of available income", p.fraction*100),
		})
	}
	return scenarios
}

// optimizeAllocation runs the two-pass split: emergency fund goals first
// (capped at 20% of available), then the remaining goals in priority order
// with a diminishing share of what is left. Every allocation is capped at
// the goal's own monthly requirement and at the remaining budget.
func optimizeAllocation(goals []enhancedGoal, available float64) AllocationPlan {
	allocations := make(map[string]GoalAllocation, len(goals))
	remaining := available

	for _, g := range goals {
		if g.category != CategoryEmergencyFund || remaining <= 0 {
			continue
		}
		amount := math.Min(g.monthlyRequired, math.Min(remaining*emergencyFundShare, remaining))
		allocations[g.id] = allocationFor(g, amount, 1, "Emergency fund prioritization")
		remaining -= amount
	}

	rank := 0
	nonEmergency := 0
	for _, g := range goals {
		if g.category == CategoryEmergencyFund {
			continue
		}
		nonEmergency++
	}
	for _, g := range goals {
		if g.category == CategoryEmergencyFund {
			continue
		}

		if remaining <= 0 {
			allocations[g.id] = allocationFor(g, 0, rank+2, "Insufficient budget")
			rank++
			continue
		}

		var amount float64
		switch rank {
		case 0:
			amount = math.Min(g.monthlyRequired, remaining*firstGoalShare)
		case 1:
			amount = math.Min(g.monthlyRequired, remaining*secondGoalShare)
		default:
			rest := nonEmergency - 2
			if rest < 1 {
				rest = 1
			}
			amount = math.Min(g.monthlyRequired, remaining/float64(rest))
		}

		allocations[g.id] = allocationFor(g, amount, rank+2,
			fmt.Sprintf("Priority-based allocation (rank %d)", rank+1))
		remaining -= amount
		rank++
	}

	allocated := available - remaining
	return AllocationPlan{
		Allocations:          allocations,
		TotalAllocated:       roundTo2(allocated),
		RemainingBudget:      roundTo2(remaining),
		AllocationEfficiency: allocated / available * 100,
	}
}

// allocationFor recomputes the goal's realistic timeline from the actual
// allocation; a zero allocation means the goal never completes.
func allocationFor(g enhancedGoal, amount float64, rank int, reason string) GoalAllocation {
	timeline := UnboundedMonths()
	if amount > 0 {
		timeline = MonthsOf(int(math.Ceil(g.TargetAmount / amount)))
	}
	return GoalAllocation{
		GoalName:          g.Name,
		MonthlyAllocation: roundTo2(amount),
		TimelineMonths:    timeline,
		PriorityRank:      rank,
		AllocationReason:  reason,
	}
}

// feasibilityScore rates the goal set from 0 to 100: how much of the total
// monthly requirement the budget covers, penalized for goal sprawl and
// rewarded for having an emergency fund goal.
func feasibilityScore(goals []enhancedGoal, available float64) float64 {
	if len(goals) == 0 || available <= 0 {
		return 0
	}

	var totalRequired float64
	hasEmergency := false
	for _, g := range goals {
		totalRequired += g.monthlyRequired
		if g.category == CategoryEmergencyFund {
			hasEmergency = true
		}
	}
	if totalRequired == 0 {
		return 100
	}

	score := math.Min(100, available/totalRequired*100)
	score -= float64(max(0, len(goals)-feasibilityGoalFreebies)) * feasibilityGoalPenalty
	if hasEmergency {
		score += emergencyFundBonus
	}

	return math.Max(0, math.Min(100, score))
}

func goalInsights(goals []enhancedGoal, allocation AllocationPlan) []Insight {
	insights := []Insight{}

	if allocation.AllocationEfficiency < 80 {
		insights = append(insights, Insight{
			Title:       "Opportunity for More Savings",
			Description: fmt.Sprintf("Only %.1f%% of available income allocated to goals", allocation.AllocationEfficiency),
			Type:        "opportunity",
			Priority:    "medium",
			Action:      fmt.Sprintf("Consider allocating the remaining $%.2f/month", allocation.RemainingBudget),
		})
	}

	hasEmergency := false
	for _, g := range goals {
		if g.category == CategoryEmergencyFund {
			hasEmergency = true
			break
		}
	}
	if !hasEmergency {
		insights = append(insights, Insight{
			Title:       "Missing Emergency Fund",
			Description: "No emergency fund goal detected",
			Type:        "warning",
			Priority:    "high",
			Action:      "Consider adding an emergency fund as your first priority",
		})
	}

	longTimelines := 0
	for _, a := range allocation.Allocations {
		if a.TimelineMonths.Unbounded() || a.TimelineMonths.Count() > 60 {
			longTimelines++
		}
	}
	if longTimelines > 0 {
		insights = append(insights, Insight{
			Title:       "Very Long Goal Timelines",
			Description: fmt.Sprintf("%d goals will take over 5 years to complete", longTimelines),
			Type:        "info",
			Priority:    "low",
			Action:      "Consider increasing monthly contributions or adjusting goal amounts",
		})
	}

	highPriority := 0
	for _, g := range goals {
		if g.adjustedPriority <= 2 {
			highPriority++
		}
	}
	if highPriority > 3 {
		insights = append(insights, Insight{
			Title:       "Too Many High-Priority Goals",
			Description: fmt.Sprintf("%d out of %d goals marked as high priority", highPriority, len(goals)),
			Type:        "warning",
			Priority:    "medium",
			Action:      "Consider focusing on 2-3 most important goals first",
		})
	}

	return insights
}

func goalRecommendations(goals []enhancedGoal, available float64, allocation AllocationPlan, userCtx *UserContext) []Recommendation {
	recs := []Recommendation{}

	if allocation.TotalAllocated > 0 {
		recs = append(recs, Recommendation{
			Title:          "Automate Your Savings",
			Description:    fmt.Sprintf("Set up automatic transfers for $%.2f/month", allocation.TotalAllocated),
			Action:         "Create automatic transfers on payday to separate goal accounts",
			Type:           "automation",
			Priority:       "high",
			Implementation: "Set up in your banking app or with your employer",
		})
	}

	active := 0
	for _, a := range allocation.Allocations {
		if a.MonthlyAllocation > 0 {
			active++
		}
	}
	if active > 1 {
		recs = append(recs, Recommendation{
			Title:          "Separate Savings Accounts",
			Description:    fmt.Sprintf("Create separate accounts for your %d active goals", active),
			Action:         "Open high-yield savings accounts for each major goal",
			Type:           "account_structure",
			Priority:       "medium",
			Implementation: "Use online banks for better interest rates",
		})
	}

	var totalRequired float64
	for _, g := range goals {
		totalRequired += g.monthlyRequired
	}
	if available < totalRequired {
		recs = append(recs, Recommendation{
			Title:          "Consider Income Optimization",
			Description:    "Your goals require more than current available income",
			Action:         "Look for ways to increase income or reduce expenses",
			Type:           "income_optimization",
			Priority:       "high",
			Implementation: "Side hustle, skills training, or expense audit",
		})
	}

	if userCtx != nil {
		switch userCtx.Persona {
		case PersonaStudent:
			recs = append(recs, Recommendation{
				Title:       "Student-Focused Strategy",
				Description: "Start with small, achievable goals to build momentum",
				Action:      "Focus on emergency fund first, then larger goals",
				Type:        "student_strategy",
				Priority:    "medium",
			})
		case PersonaFamily:
			recs = append(recs, Recommendation{
				Title:       "Family Goal Coordination",
				Description: "Involve your partner in goal planning and progress tracking",
				Action:      "Set up joint accounts and regular financial check-ins",
				Type:        "family_strategy",
				Priority:    "medium",
			})
		}
	}

	return recs
}

// goalMilestones emits a completion milestone for every goal that finishes,
// plus a halfway milestone for goals that take more than a year. Goals are
// visited in allocation-timeline order so the nearest milestones come first.
func goalMilestones(goals []enhancedGoal, allocation AllocationPlan) []GoalMilestone {
	ordered := make([]enhancedGoal, len(goals))
	copy(ordered, goals)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti := allocation.Allocations[ordered[i].id].TimelineMonths
		tj := allocation.Allocations[ordered[j].id].TimelineMonths
		if ti.Unbounded() {
			return false
		}
		if tj.Unbounded() {
			return true
		}
		return ti.Count() < tj.Count()
	})

	milestones := []GoalMilestone{}
	now := time.Now()

	for _, g := range ordered {
		alloc, ok := allocation.Allocations[g.id]
		if !ok || alloc.TimelineMonths.Unbounded() || alloc.TimelineMonths.Count() <= 0 {
			continue
		}
		timeline := alloc.TimelineMonths.Count()

		milestones = append(milestones, GoalMilestone{
			GoalID:             g.id,
			GoalName:           g.Name,
			TargetDate:         now.AddDate(0, timeline, 0).Format("January 2006"),
			MonthsFromNow:      timeline,
			MonthlyAmount:      alloc.MonthlyAllocation,
			MilestoneType:      "completion",
			CelebrationMessage: fmt.Sprintf("Congratulations! You've reached your %s goal!", g.Name),
		})

		if timeline > 12 {
			milestones = append(milestones, GoalMilestone{
				GoalID:             g.id,
				GoalName:           g.Name,
				TargetDate:         now.AddDate(0, timeline/2, 0).Format("January 2006"),
				MonthsFromNow:      timeline / 2,
				MonthlyAmount:      alloc.MonthlyAllocation,
				MilestoneType:      "halfway",
				CelebrationMessage: fmt.Sprintf("You're halfway to your %s goal! Keep it up!", g.Name),
			})
		}
	}

	return milestones
}

func actionPlan(allocation AllocationPlan) ActionPlan {
	plan := ActionPlan{
		ImmediateActions: []string{},
		MonthlyActions: []string{
			"Review goal progress and adjust if needed",
			"Check account balances and celebrate milestones",
			"Look for opportunities to increase contributions",
		},
		QuarterlyActions: []string{
			"Reassess goal priorities based on life changes",
			"Compare actual vs. planned progress",
			"Consider rebalancing allocations",
		},
		SuccessFactors: []string{
			"Consistency in monthly contributions",
			"Regular progress monitoring",
			"Flexibility to adjust when life changes",
		},
	}
	if len(allocation.Allocations) > 0 {
		plan.ImmediateActions = []string{
			"Open separate high-yield savings accounts for each goal",
			"Set up automatic transfers from checking to goal accounts",
			"Download a goal tracking app or create a spreadsheet",
		}
	}
	return plan
}

// deficitPlan is the short-circuit result when expenses consume the whole
// income: no allocation is attempted and the feasibility score is zero.
func deficitPlan(income, expenses float64) GoalPlanResult {
	deficit := expenses - income

	return GoalPlanResult{
		FinancialOverview: FinancialOverview{
			MonthlyIncome:    income,
			MonthlyExpenses:  expenses,
			AvailableMonthly: income - expenses,
			DeficitAmount:    deficit,
			SavingsRate:      0,
		},
		GoalAnalysis: GoalAnalysis{
			FeasibilityScore: 0,
			Message:          "Goals not feasible with current income vs expenses",
			RequiredAction:   "Focus on expense reduction or income increase first",
		},
		IndividualGoals: map[string]GoalAssessment{},
		OptimizedPlan:   AllocationPlan{Allocations: map[string]GoalAllocation{}},
		Insights: []Insight{
			{
				Title:       "Budget Deficit Alert",
				Description: "Your expenses exceed your income",
				Type:        "critical",
				Priority:    "immediate",
			},
		},
		Recommendations: []Recommendation{
			{
				Title:       "Address Budget Deficit First",
				Description: fmt.Sprintf("You have a $%.2f monthly deficit", deficit),
				Action:      "Focus on reducing expenses or increasing income before setting savings goals",
				Type:        "budget_fix",
				Priority:    "critical",
			},
			{
				Title:       "Expense Audit Needed",
				Description: "Analyze spending to find reduction opportunities",
				Action:      "Track all expenses for 30 days and identify cuts",
				Type:        "expense_reduction",
				Priority:    "high",
			},
		},
		Milestones: []GoalMilestone{},
		ActionPlan: ActionPlan{
			ImmediateActions: []string{},
			MonthlyActions:   []string{},
			QuarterlyActions: []string{},
		},
	}
}

func emptyGoalPlan(income, expenses float64, message string) GoalPlanResult {
	available := income - expenses
	savingsRate := 0.0
	if income > 0 {
		savingsRate = available / income * 100
	}
	return GoalPlanResult{
		FinancialOverview: FinancialOverview{
			MonthlyIncome:    income,
			MonthlyExpenses:  expenses,
			AvailableMonthly: available,
			SavingsRate:      savingsRate,
		},
		GoalAnalysis: GoalAnalysis{
			Message: message,
		},
		IndividualGoals: map[string]GoalAssessment{},
		OptimizedPlan:   AllocationPlan{Allocations: map[string]GoalAllocation{}},
		Insights:        []Insight{},
		Recommendations: []Recommendation{},
		Milestones:      []GoalMilestone{},
		ActionPlan: ActionPlan{
			ImmediateActions: []string{},
			MonthlyActions:   []string{},
			QuarterlyActions: []string{},
		},
	}
}
