package core

import "strings"

// CategoryMiscellaneous is the fallback for descriptions nothing else
// matches.
const CategoryMiscellaneous = "miscellaneous"

// spendingCategory pairs a category name with its matching terms. Keywords
// are checked before patterns within each category.
type spendingCategory struct {
	name     string
	keywords []string
	patterns []string
}

// spendingCategories is matched in order and the first hit wins, so
// placement matters: "gas" under housing (utility bills) must come before
// transport (fuel). The trailing entries cover region-specific spending.
var spendingCategories = []spendingCategory{
	{
		name:     "housing",
		keywords: []string{"rent", "mortgage", "utilities", "internet", "cable", "electricity", "gas", "water"},
		patterns: []string{"housing", "rent", "mortgage"},
	},
	{
		name:     "groceries",
		keywords: []string{"grocery", "supermarket", "whole foods", "trader joe", "safeway", "food", "mart"},
		patterns: []string{"grocery", "food", "market"},
	},
	{
		name:     "transport",
		keywords: []string{"gas", "uber", "lyft", "parking", "metro", "bus", "taxi", "petrol", "fuel"},
		patterns: []string{"transport", "travel", "commute"},
	},
	{
		name:     "dining",
		keywords: []string{"restaurant", "coffee", "starbucks", "delivery", "takeout", "dining", "cafe"},
		patterns: []string{"restaurant", "dining", "food delivery"},
	},
	{
		name:     "entertainment",
		keywords: []string{"netflix", "spotify", "movie", "theater", "gaming", "streaming", "concert"},
		patterns: []string{"entertainment", "streaming", "movies"},
	},
	{
		name:     "shopping",
		keywords: []string{"amazon", "target", "walmart", "clothing", "retail", "shopping", "store"},
		patterns: []string{"shopping", "retail", "purchase"},
	},
	{
		name:     "healthcare",
		keywords: []string{"pharmacy", "doctor", "hospital", "medical", "dental", "health", "medicine"},
		patterns: []string{"healthcare", "medical", "doctor"},
	},
	{
		name:     "childcare",
		keywords: []string{"daycare", "babysitter", "school", "tuition", "childcare", "kids"},
		patterns: []string{"childcare", "education", "school"},
	},
	{
		name:     "subscriptions",
		keywords: []string{"subscription", "membership", "annual fee", "monthly fee", "premium"},
		patterns: []string{"subscription", "membership", "recurring"},
	},
	{
		name:     "debt",
		keywords: []string{"credit card", "loan payment", "student loan", "car payment", "mortgage payment"},
		patterns: []string{"payment", "loan", "credit"},
	},
	{
		name:     "savings",
		keywords: []string{"savings", "transfer", "deposit", "investment", "retirement"},
		patterns: []string{"savings", "investment", "transfer"},
	},
	{
		name:     CategoryMiscellaneous,
		keywords: []string{"atm", "fee", "charge", "misc", "other"},
		patterns: []string{"fee", "charge", "other"},
	},
	{
		name:     "festival_expenses",
		keywords: []string{"diwali", "holi", "eid", "christmas", "pongal", "durga puja", "festival"},
		patterns: []string{"festival", "celebration", "religious"},
	},
	{
		name:     "gold_jewelry",
		keywords: []string{"gold", "jewelry", "ornaments", "tanishq", "kalyan"},
		patterns: []string{"gold", "jewelry", "ornament"},
	},
	{
		name:     "domestic_help",
		keywords: []string{"maid", "cook", "driver", "domestic help", "household help"},
		patterns: []string{"domestic", "household", "help"},
	},
}

// CategorizeTransaction maps a transaction description to a spending
// category by case-insensitive substring match. Empty or unmatched
// descriptions fall back to miscellaneous.
func CategorizeTransaction(description string) string {
	lower := strings.ToLower(description)
	if strings.TrimSpace(lower) == "" {
		return CategoryMiscellaneous
	}

	for _, cat := range spendingCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.name
			}
		}
		for _, p := range cat.patterns {
			if strings.Contains(lower, p) {
				return cat.name
			}
		}
	}
	return CategoryMiscellaneous
}
