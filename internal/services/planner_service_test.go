package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"finadvisor/internal/cache"
	"finadvisor/internal/core"
	"finadvisor/internal/events"
)

type fakePublisher struct {
	messages []*events.PlanComputedMessage
	err      error
}

func (f *fakePublisher) PublishPlanComputed(_ context.Context, msg *events.PlanComputedMessage) error {
	f.messages = append(f.messages, msg)
	return f.err
}

func debtInput() DebtPlanInput {
	return DebtPlanInput{
		Debts: []core.Debt{
			{Name: "Credit Card", Balance: 5000, APR: 20, MinimumPayment: 150},
		},
		ExtraPayment: 100,
		Strategy:     core.StrategyAvalanche,
	}
}

func TestPlannerService_DebtPlan(t *testing.T) {
	svc := NewPlannerService(nil, nil)

	body, cached, err := svc.DebtPlan(context.Background(), debtInput())
	if err != nil {
		t.Fatalf("DebtPlan() error = %v", err)
	}
	if cached {
		t.Error("first request should not be a cache hit")
	}

	var result core.DebtPlanResult
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("response is not a debt plan: %v", err)
	}
	if result.Summary.DebtCount != 1 {
		t.Errorf("debt count = %d, want 1", result.Summary.DebtCount)
	}
}

func TestPlannerService_CachesIdenticalRequests(t *testing.T) {
	c := cache.NewLRUCache[string](10, time.Minute)
	pub := &fakePublisher{}
	svc := NewPlannerService(c, pub)
	ctx := context.Background()

	first, cached, err := svc.DebtPlan(ctx, debtInput())
	if err != nil {
		t.Fatalf("DebtPlan() error = %v", err)
	}
	if cached {
		t.Error("first request should miss")
	}

	second, cached, err := svc.DebtPlan(ctx, debtInput())
	if err != nil {
		t.Fatalf("DebtPlan() error = %v", err)
	}
	if !cached {
		t.Error("second identical request should hit the cache")
	}
	if string(first) != string(second) {
		t.Error("cached response differs from computed response")
	}

	if len(pub.messages) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.messages))
	}
	if pub.messages[0].CacheHit || !pub.messages[1].CacheHit {
		t.Errorf("cache hit flags = %v, %v, want false, true",
			pub.messages[0].CacheHit, pub.messages[1].CacheHit)
	}
	if pub.messages[0].PlanType != events.PlanTypeDebt {
		t.Errorf("plan type = %q, want %q", pub.messages[0].PlanType, events.PlanTypeDebt)
	}
}

func TestPlannerService_DifferentRequestsDifferentKeys(t *testing.T) {
	c := cache.NewLRUCache[string](10, time.Minute)
	svc := NewPlannerService(c, nil)
	ctx := context.Background()

	if _, _, err := svc.DebtPlan(ctx, debtInput()); err != nil {
		t.Fatalf("DebtPlan() error = %v", err)
	}

	other := debtInput()
	other.ExtraPayment = 250
	_, cached, err := svc.DebtPlan(ctx, other)
	if err != nil {
		t.Fatalf("DebtPlan() error = %v", err)
	}
	if cached {
		t.Error("a different request must not hit the first request's entry")
	}
	if c.Size() != 2 {
		t.Errorf("cache size = %d, want 2", c.Size())
	}
}

func TestPlannerService_DomainErrorsPropagate(t *testing.T) {
	svc := NewPlannerService(nil, nil)

	_, _, err := svc.DebtPlan(context.Background(), DebtPlanInput{
		Debts:    []core.Debt{{Name: "X", Balance: 100, APR: 10, MinimumPayment: 10}},
		Strategy: core.Strategy("tsunami"),
	})
	if !errors.Is(err, core.ErrUnknownStrategy) {
		t.Errorf("error = %v, want ErrUnknownStrategy", err)
	}

	_, _, err = svc.GoalPlan(context.Background(), GoalPlanInput{MonthlyIncome: 0})
	if !errors.Is(err, core.ErrInvalidIncome) {
		t.Errorf("error = %v, want ErrInvalidIncome", err)
	}
}

func TestPlannerService_PublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewPlannerService(nil, pub)

	_, _, err := svc.DebtPlan(context.Background(), debtInput())
	if err != nil {
		t.Fatalf("DebtPlan() error = %v, want nil despite publish failure", err)
	}
}

func TestPlannerService_GoalPlanAndBudget(t *testing.T) {
	svc := NewPlannerService(cache.NewLRUCache[string](10, time.Minute), nil)
	ctx := context.Background()

	goalBody, _, err := svc.GoalPlan(ctx, GoalPlanInput{
		MonthlyIncome:   5000,
		MonthlyExpenses: 3000,
		Goals: []core.Goal{
			{Name: "Emergency Fund", TargetAmount: 6000, TimelineMonths: 12, Priority: 1},
		},
	})
	if err != nil {
		t.Fatalf("GoalPlan() error = %v", err)
	}
	var goalResult core.GoalPlanResult
	if err := json.Unmarshal(goalBody, &goalResult); err != nil {
		t.Fatalf("response is not a goal plan: %v", err)
	}
	if goalResult.GoalAnalysis.TotalGoals != 1 {
		t.Errorf("total goals = %d, want 1", goalResult.GoalAnalysis.TotalGoals)
	}

	budgetBody, _, err := svc.AnalyzeBudget(ctx, BudgetInput{
		Transactions: []core.Transaction{
			{Date: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), Description: "Starbucks Coffee", Amount: 8},
		},
	})
	if err != nil {
		t.Fatalf("AnalyzeBudget() error = %v", err)
	}
	var budgetResult core.BudgetAnalysis
	if err := json.Unmarshal(budgetBody, &budgetResult); err != nil {
		t.Fatalf("response is not a budget analysis: %v", err)
	}
	if budgetResult.Summary.TopCategory != "dining" {
		t.Errorf("top category = %q, want dining", budgetResult.Summary.TopCategory)
	}
}
