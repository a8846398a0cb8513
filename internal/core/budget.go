package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

const (
	anomalyMinSamples    = 2
	anomalyStdThreshold  = 2.0
	anomalyLimit         = 10
	topMerchantLimit     = 10
	topCategoryInsights  = 5
	diningFrequencyShare = 0.15
	diningReductionShare = 0.20
	diningSavingsRate    = 0.30
	subscriptionSavings  = 0.40
)

type (
	// BudgetSummary is the headline aggregate of one analysis window.
	BudgetSummary struct {
		TotalSpending      float64 `json:"total_spending"`
		TransactionCount   int     `json:"transaction_count"`
		AvgTransaction     float64 `json:"avg_transaction"`
		AvgDailySpending   float64 `json:"avg_daily_spending"`
		MonthlyEstimate    float64 `json:"monthly_estimate"`
		AnalysisPeriodDays int     `json:"analysis_period_days"`
		TopCategory        string  `json:"top_category"`
	}

	// Anomaly is a transaction far above its category's typical amount.
	Anomaly struct {
		Date        string  `json:"date"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Reason      string  `json:"reason"`
		Deviation   float64 `json:"deviation"`
	}

	// SpendingTrends summarizes how spending moves over the window.
	SpendingTrends struct {
		DailyAverage     float64 `json:"daily_average"`
		WeeklyTrend      string  `json:"weekly_trend"`
		SpendingVelocity float64 `json:"spending_velocity"`
		PeakSpendingDay  string  `json:"peak_spending_day"`
		MonthlyGrowth    float64 `json:"monthly_growth"`
	}

	// BudgetAnalysis is the full categorized view of a transaction set.
	BudgetAnalysis struct {
		Summary         BudgetSummary      `json:"summary"`
		Categories      map[string]float64 `json:"categories"`
		Anomalies       []Anomaly          `json:"anomalies"`
		Insights        []Insight          `json:"insights"`
		Recommendations []Recommendation   `json:"recommendations"`
		TopMerchants    map[string]float64 `json:"top_merchants"`
		Trends          SpendingTrends     `json:"trends"`
		SkippedRecords  []SkippedEntry     `json:"skipped_records,omitempty"`
	}

	// categorizedTxn carries a validated transaction with its derived
	// category and absolute amount.
	categorizedTxn struct {
		Transaction
		category  string
		amountAbs float64
	}
)

// AnalyzeBudget categorizes a set of transactions and computes spending
// aggregates, anomalies, insights, recommendations, and trends. Amounts
// are treated by absolute value so refunds and debits aggregate together.
// Invalid transactions are dropped with a skip record; an empty or
// all-invalid input yields the zero-valued analysis, not an error.
func AnalyzeBudget(transactions []Transaction, userCtx *UserContext) BudgetAnalysis {
	txns, skipped := cleanTransactions(transactions)
	if len(txns) == 0 {
		analysis := emptyBudgetAnalysis()
		analysis.SkippedRecords = skipped
		return analysis
	}

	var total float64
	categories := map[string]float64{}
	merchants := map[string]float64{}
	for _, t := range txns {
		total += t.amountAbs
		categories[t.category] += t.amountAbs
		merchants[t.Description] += t.amountAbs
	}

	minDate, maxDate := txns[0].Date, txns[0].Date
	for _, t := range txns[1:] {
		if t.Date.Before(minDate) {
			minDate = t.Date
		}
		if t.Date.After(maxDate) {
			maxDate = t.Date
		}
	}
	periodDays := int(maxDate.Sub(minDate).Hours() / 24)
	avgDaily := total / float64(max(1, periodDays))

	return BudgetAnalysis{
		Summary: BudgetSummary{
			TotalSpending:      roundTo2(total),
			TransactionCount:   len(txns),
			AvgTransaction:     roundTo2(total / float64(len(txns))),
			AvgDailySpending:   roundTo2(avgDaily),
			MonthlyEstimate:    roundTo2(avgDaily * 30),
			AnalysisPeriodDays: periodDays,
			TopCategory:        topCategory(categories),
		},
		Categories:      roundValues(categories),
		Anomalies:       findAnomalies(txns),
		Insights:        budgetInsights(txns, categories, total),
		Recommendations: budgetRecommendations(txns, categories, total, periodDays, userCtx),
		TopMerchants:    topMerchants(merchants),
		Trends:          spendingTrends(txns),
		SkippedRecords:  skipped,
	}
}

// cleanTransactions drops transactions with non-finite amounts or zero
// dates and categorizes the rest.
func cleanTransactions(transactions []Transaction) ([]categorizedTxn, []SkippedEntry) {
	var (
		txns    []categorizedTxn
		skipped []SkippedEntry
	)

	for i, t := range transactions {
		reason := ""
		switch {
		case !finite(t.Amount):
			reason = "non-numeric amount"
		case t.Date.IsZero():
			reason = "missing date"
		}
		if reason != "" {
			skipped = append(skipped, SkippedEntry{Index: i, Name: t.Description, Reason: reason})
			continue
		}
		txns = append(txns, categorizedTxn{
			Transaction: t,
			category:    CategorizeTransaction(t.Description),
			amountAbs:   math.Abs(t.Amount),
		})
	}
	return txns, skipped
}

func topCategory(categories map[string]float64) string {
	if len(categories) == 0 {
		return "none"
	}
	best, bestAmount := "", math.Inf(-1)
	for name, amount := range categories {
		if amount > bestAmount || (amount == bestAmount && name < best) {
			best, bestAmount = name, amount
		}
	}
	return best
}

func roundValues(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = roundTo2(v)
	}
	return out
}

func topMerchants(merchants map[string]float64) map[string]float64 {
	type merchant struct {
		name   string
		amount float64
	}
	sorted := make([]merchant, 0, len(merchants))
	for name, amount := range merchants {
		sorted = append(sorted, merchant{name, amount})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].amount != sorted[j].amount {
			return sorted[i].amount > sorted[j].amount
		}
		return sorted[i].name < sorted[j].name
	})
	if len(sorted) > topMerchantLimit {
		sorted = sorted[:topMerchantLimit]
	}

	out := make(map[string]float64, len(sorted))
	for _, m := range sorted {
		out[m.name] = roundTo2(m.amount)
	}
	return out
}

// findAnomalies flags transactions more than two sample standard
// deviations above their category mean. Categories need more than two
// transactions to have a meaningful spread. The ten largest deviations
// are kept.
func findAnomalies(txns []categorizedTxn) []Anomaly {
	byCategory := map[string][]categorizedTxn{}
	for _, t := range txns {
		byCategory[t.category] = append(byCategory[t.category], t)
	}

	anomalies := []Anomaly{}
	for category, catTxns := range byCategory {
		if len(catTxns) <= anomalyMinSamples {
			continue
		}
		mean, std := meanStd(catTxns)
		threshold := mean + anomalyStdThreshold*std

		for _, t := range catTxns {
			if t.amountAbs <= threshold {
				continue
			}
			deviation := 0.0
			if std > 0 {
				deviation = (t.amountAbs - mean) / std
			}
			anomalies = append(anomalies, Anomaly{
				Date:        t.Date.Format("2006-01-02"),
				Description: t.Description,
				Amount:      roundTo2(t.amountAbs),
				Category:    category,
				Reason:      fmt.Sprintf("Unusually high for %s (avg: $%.2f)", category, mean),
				Deviation:   deviation,
			})
		}
	}

	sort.Slice(anomalies, func(i, j int) bool {
		if anomalies[i].Deviation != anomalies[j].Deviation {
			return anomalies[i].Deviation > anomalies[j].Deviation
		}
		return anomalies[i].Description < anomalies[j].Description
	})
	if len(anomalies) > anomalyLimit {
		anomalies = anomalies[:anomalyLimit]
	}
	return anomalies
}

// meanStd returns the mean and sample standard deviation of the absolute
// amounts.
func meanStd(txns []categorizedTxn) (float64, float64) {
	var sum float64
	for _, t := range txns {
		sum += t.amountAbs
	}
	mean := sum / float64(len(txns))

	if len(txns) < 2 {
		return mean, 0
	}
	var sq float64
	for _, t := range txns {
		d := t.amountAbs - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(txns)-1))
}

func budgetInsights(txns []categorizedTxn, categories map[string]float64, total float64) []Insight {
	insights := []Insight{}

	type catAmount struct {
		name   string
		amount float64
	}
	sorted := make([]catAmount, 0, len(categories))
	for name, amount := range categories {
		sorted = append(sorted, catAmount{name, amount})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].amount != sorted[j].amount {
			return sorted[i].amount > sorted[j].amount
		}
		return sorted[i].name < sorted[j].name
	})
	if len(sorted) > topCategoryInsights {
		sorted = sorted[:topCategoryInsights]
	}

	for _, cat := range sorted {
		percentage := 0.0
		if total > 0 {
			percentage = cat.amount / total * 100
		}
		catTxns := filterCategory(txns, cat.name)

		avg := 0.0
		if len(catTxns) > 0 {
			avg = cat.amount / float64(len(catTxns))
		}
		insights = append(insights, Insight{
			Title:       fmt.Sprintf("$%.2f spent on %s", cat.amount, titleCase(strings.ReplaceAll(cat.name, "_", " "))),
			Description: fmt.Sprintf("This represents %.1f%% of your total spending", percentage),
			Type:        "spending_category",
			Category:    cat.name,
			Amount:      roundTo2(cat.amount),
			Percentage:  roundTo2(percentage),
			Evidence: &InsightEvidence{
				TransactionCount: len(catTxns),
				AvgTransaction:   roundTo2(avg),
				TopMerchants:     categoryTopMerchants(catTxns, 3),
			},
		})
	}

	if dining := categories["dining"]; dining > total*diningFrequencyShare {
		diningTxns := filterCategory(txns, "dining")
		avgMeal := 0.0
		if len(diningTxns) > 0 {
			avgMeal = dining / float64(len(diningTxns))
		}
		insights = append(insights, Insight{
			Title:       "High Dining Out Frequency",
			Description: fmt.Sprintf("You dined out %d times, spending $%.2f", len(diningTxns), dining),
			Type:        "frequency_alert",
			Category:    "dining",
			Amount:      roundTo2(dining),
			Evidence: &InsightEvidence{
				Frequency:   len(diningTxns),
				AvgMealCost: roundTo2(avgMeal),
			},
		})
	}

	subTxns := filterCategory(txns, "subscriptions")
	if len(subTxns) > 3 {
		services := []string{}
		seen := map[string]bool{}
		for _, t := range subTxns {
			if !seen[t.Description] {
				seen[t.Description] = true
				services = append(services, t.Description)
			}
		}
		insights = append(insights, Insight{
			Title:       "Multiple Subscriptions Detected",
			Description: fmt.Sprintf("%d subscription charges found", len(subTxns)),
			Type:        "subscription_alert",
			Category:    "subscriptions",
			Amount:      roundTo2(categories["subscriptions"]),
			Evidence: &InsightEvidence{
				TransactionCount: len(subTxns),
				Services:         services,
			},
		})
	}

	return insights
}

func filterCategory(txns []categorizedTxn, category string) []categorizedTxn {
	var out []categorizedTxn
	for _, t := range txns {
		if t.category == category {
			out = append(out, t)
		}
	}
	return out
}

func categoryTopMerchants(txns []categorizedTxn, limit int) map[string]float64 {
	merchants := map[string]float64{}
	for _, t := range txns {
		merchants[t.Description] += t.amountAbs
	}
	type merchant struct {
		name   string
		amount float64
	}
	sorted := make([]merchant, 0, len(merchants))
	for name, amount := range merchants {
		sorted = append(sorted, merchant{name, amount})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].amount != sorted[j].amount {
			return sorted[i].amount > sorted[j].amount
		}
		return sorted[i].name < sorted[j].name
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make(map[string]float64, len(sorted))
	for _, m := range sorted {
		out[m.name] = roundTo2(m.amount)
	}
	return out
}

func budgetRecommendations(txns []categorizedTxn, categories map[string]float64, total float64, periodDays int, userCtx *UserContext) []Recommendation {
	recs := []Recommendation{}

	if dining := categories["dining"]; dining > total*diningReductionShare {
		recs = append(recs, Recommendation{
			Title:            "Reduce Dining Out",
			Description:      "Your dining expenses are high relative to total spending",
			Action:           fmt.Sprintf("Try cooking at home more often. You could save ~$%.2f monthly", dining*diningSavingsRate),
			Type:             "spending_reduction",
			Priority:         "high",
			Category:         "dining",
			PotentialSavings: roundTo2(dining * diningSavingsRate),
		})
	}

	if subs := categories["subscriptions"]; subs > 0 {
		subCount := len(filterCategory(txns, "subscriptions"))
		if subCount > 2 {
			recs = append(recs, Recommendation{
				Title:            "Review Subscriptions",
				Description:      fmt.Sprintf("You have %d active subscriptions", subCount),
				Action:           "Cancel unused subscriptions to save money monthly",
				Type:             "subscription_optimization",
				Priority:         "medium",
				Category:         "subscriptions",
				PotentialSavings: roundTo2(subs * subscriptionSavings),
			})
		}
	}

	monthlyExpenses := total * 30 / float64(max(1, periodDays))
	if monthlyExpenses > 0 {
		recs = append(recs, Recommendation{
			Title:                "Build Emergency Fund",
			Description:          fmt.Sprintf("Aim for 3-6 months of expenses ($%.2f - $%.2f)", monthlyExpenses*3, monthlyExpenses*6),
			Action:               fmt.Sprintf("Start saving $%.2f monthly for emergencies", monthlyExpenses*0.1),
			Type:                 "savings_goal",
			Priority:             "high",
			Category:             "savings",
			TargetAmount:         roundTo2(monthlyExpenses * 3),
			MonthlySavingsNeeded: roundTo2(monthlyExpenses * 0.1),
		})
	}

	if userCtx != nil && userCtx.Persona == PersonaFamily && categories["childcare"] > 0 {
		recs = append(recs, Recommendation{
			Title:       "Childcare Tax Benefits",
			Description: "You may be eligible for childcare tax credits",
			Action:      "Consult a tax professional about dependent care FSA or tax credits",
			Type:        "tax_optimization",
			Priority:    "medium",
			Category:    "childcare",
		})
	}

	return recs
}

// spendingTrends aggregates daily, weekly, and monthly totals. The weekly
// trend compares the last ISO week against the first; monthly growth is
// the mean month-over-month percent change.
func spendingTrends(txns []categorizedTxn) SpendingTrends {
	daily := map[string]float64{}
	dailyDates := map[string]time.Time{}
	weekly := map[int]float64{}
	monthly := map[string]float64{}

	for _, t := range txns {
		day := t.Date.Format("2006-01-02")
		daily[day] += t.amountAbs
		dailyDates[day] = t.Date
		_, week := t.Date.ISOWeek()
		weekly[week] += t.amountAbs
		monthly[t.Date.Format("2006-01")] += t.amountAbs
	}

	var dailySum, peakAmount float64
	peakDay := "Unknown"
	for day, amount := range daily {
		dailySum += amount
		if amount > peakAmount {
			peakAmount = amount
			peakDay = dailyDates[day].Weekday().String()
		}
	}
	dailyAvg := dailySum / float64(len(daily))

	velocity := 0.0
	if len(daily) > 1 {
		var sq float64
		for _, amount := range daily {
			d := amount - dailyAvg
			sq += d * d
		}
		velocity = math.Sqrt(sq / float64(len(daily)-1))
	}

	weeklyTrend := "stable"
	if len(weekly) > 1 {
		weeks := make([]int, 0, len(weekly))
		for w := range weekly {
			weeks = append(weeks, w)
		}
		sort.Ints(weeks)
		if weekly[weeks[len(weeks)-1]] > weekly[weeks[0]] {
			weeklyTrend = "increasing"
		}
	}

	monthlyGrowth := 0.0
	if len(monthly) > 1 {
		months := make([]string, 0, len(monthly))
		for m := range monthly {
			months = append(months, m)
		}
		sort.Strings(months)
		var growthSum float64
		for i := 1; i < len(months); i++ {
			prev := monthly[months[i-1]]
			if prev > 0 {
				growthSum += (monthly[months[i]] - prev) / prev * 100
			}
		}
		monthlyGrowth = growthSum / float64(len(months)-1)
	}

	return SpendingTrends{
		DailyAverage:     roundTo2(dailyAvg),
		WeeklyTrend:      weeklyTrend,
		SpendingVelocity: roundTo2(velocity),
		PeakSpendingDay:  peakDay,
		MonthlyGrowth:    roundTo2(monthlyGrowth),
	}
}

func emptyBudgetAnalysis() BudgetAnalysis {
	return BudgetAnalysis{
		Summary:         BudgetSummary{TopCategory: "none"},
		Categories:      map[string]float64{},
		Anomalies:       []Anomaly{},
		Insights:        []Insight{},
		Recommendations: []Recommendation{},
		TopMerchants:    map[string]float64{},
		Trends:          SpendingTrends{WeeklyTrend: "stable", PeakSpendingDay: "Unknown"},
	}
}
