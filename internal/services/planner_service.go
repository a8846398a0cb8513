package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"finadvisor/internal/cache"
	"finadvisor/internal/core"
	"finadvisor/internal/events"
	"finadvisor/internal/log"
	"finadvisor/internal/middleware/trace"
)

// PlanPublisher publishes plan lifecycle events.
type PlanPublisher interface {
	PublishPlanComputed(ctx context.Context, msg *events.PlanComputedMessage) error
}

// PlannerService orchestrates plan computation with result caching and
// event publication. Planning itself is pure computation; the service
// owns every side effect around it. Both the cache and the publisher are
// optional: a nil cache computes every request, a nil publisher skips
// events. Event publishing is best-effort and never fails a request.
type PlannerService struct {
	cache     cache.Cache[string]
	publisher PlanPublisher
	logger    *log.StructuredLogger
}

// NewPlannerService creates a planner service. cache and publisher may be
// nil.
func NewPlannerService(c cache.Cache[string], publisher PlanPublisher) *PlannerService {
	return &PlannerService{
		cache:     c,
		publisher: publisher,
		logger:    log.NewStructuredLogger(log.Default()),
	}
}

type (
	// DebtPlanInput is one debt planning request.
	DebtPlanInput struct {
		Debts        []core.Debt       `json:"debts"`
		ExtraPayment float64           `json:"extra_payment"`
		Strategy     core.Strategy     `json:"strategy"`
		UserContext  *core.UserContext `json:"user_context,omitempty"`
	}

	// GoalPlanInput is one goal planning request.
	GoalPlanInput struct {
		Goals           []core.Goal       `json:"goals"`
		MonthlyIncome   float64           `json:"monthly_income"`
		MonthlyExpenses float64           `json:"monthly_expenses"`
		UserContext     *core.UserContext `json:"user_context,omitempty"`
	}

	// BudgetInput is one budget analysis request.
	BudgetInput struct {
		Transactions []core.Transaction `json:"transactions"`
		UserContext  *core.UserContext  `json:"user_context,omitempty"`
	}
)

// DebtPlan computes a debt payoff plan, serving identical requests from
// cache. The returned bool reports a cache hit.
func (s *PlannerService) DebtPlan(ctx context.Context, input DebtPlanInput) (json.RawMessage, bool, error) {
	return s.plan(ctx, events.PlanTypeDebt, input, func() (any, error) {
		return core.CreateDebtPlan(input.Debts, input.ExtraPayment, input.Strategy, input.UserContext)
	})
}

// GoalPlan computes a goal allocation plan, serving identical requests
// from cache.
func (s *PlannerService) GoalPlan(ctx context.Context, input GoalPlanInput) (json.RawMessage, bool, error) {
	return s.plan(ctx, events.PlanTypeGoal, input, func() (any, error) {
		return core.CreateGoalPlan(input.MonthlyIncome, input.MonthlyExpenses, input.Goals, input.UserContext)
	})
}

// AnalyzeBudget categorizes and analyzes a transaction set, serving
// identical requests from cache.
func (s *PlannerService) AnalyzeBudget(ctx context.Context, input BudgetInput) (json.RawMessage, bool, error) {
	return s.plan(ctx, events.PlanTypeBudget, input, func() (any, error) {
		return core.AnalyzeBudget(input.Transactions, input.UserContext), nil
	})
}

// plan runs one compute-or-cache cycle: key the request, try the cache,
// compute on miss, store, publish.
func (s *PlannerService) plan(ctx context.Context, planType string, input any, compute func() (any, error)) (json.RawMessage, bool, error) {
	key, err := cacheKey(planType, input)
	if err != nil {
		return nil, false, fmt.Errorf("compute cache key: %w", err)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.LogPlanComputed(ctx, planType, key, true, log.OpCacheLookup)
			s.publishPlanComputed(ctx, planType, key, true)
			return json.RawMessage(cached), true, nil
		}
	}

	result, err := compute()
	if err != nil {
		return nil, false, err
	}

	body, err := json.Marshal(result)
	if err != nil {
		return nil, false, fmt.Errorf("marshal %s plan: %w", planType, err)
	}

	if s.cache != nil {
		s.cache.Set(key, string(body))
	}
	s.logger.LogPlanComputed(ctx, planType, key, false, planOperation(planType))
	s.publishPlanComputed(ctx, planType, key, false)

	return body, false, nil
}

func (s *PlannerService) publishPlanComputed(ctx context.Context, planType, key string, cacheHit bool) {
	if s.publisher == nil {
		return
	}

	msg := events.NewPlanComputedMessage(planType, trace.GetRequestID(ctx), key, cacheHit)
	if err := s.publisher.PublishPlanComputed(ctx, msg); err != nil {
		// Events are advisory; the plan request already succeeded.
		s.logger.LogError(ctx, "Failed to publish plan event", err,
			log.ComponentEvents, log.OpPublish,
			log.NewFields().WithPlan(planType, key, cacheHit))
	}
}

// planOperation maps a plan type to its logging operation name.
func planOperation(planType string) string {
	switch planType {
	case events.PlanTypeDebt:
		return log.OpDebtPlan
	case events.PlanTypeGoal:
		return log.OpGoalPlan
	default:
		return log.OpBudget
	}
}

// cacheKey derives a stable key from the plan type and the JSON encoding
// of the request. Encoding order is deterministic for a fixed input struct,
// so equal requests always share a key.
func cacheKey(planType string, input any) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return planType + ":" + hex.EncodeToString(sum[:]), nil
}
