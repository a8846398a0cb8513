package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finadvisor/internal/events"
	"finadvisor/internal/log"
)

// StatsWorker consumes plan-computed events and aggregates usage counters.
// It holds everything in memory; counters reset when the worker restarts.
type StatsWorker struct {
	mu         sync.Mutex
	logger     *log.Logger
	planCounts map[string]int64
	cacheHits  int64
	total      int64
}

// Stats is a point-in-time snapshot of the aggregated counters.
type Stats struct {
	Total      int64
	CacheHits  int64
	PlanCounts map[string]int64
}

func NewStatsWorker(logger *log.Logger) *StatsWorker {
	return &StatsWorker{
		logger:     logger.WithComponent("worker"),
		planCounts: make(map[string]int64),
	}
}

// HandlePlanComputed processes one plan-computed event. Unknown plan types
// are rejected so the broker redelivers them for inspection.
func (w *StatsWorker) HandlePlanComputed(msg *events.PlanComputedMessage) error {
	switch msg.PlanType {
	case events.PlanTypeDebt, events.PlanTypeGoal, events.PlanTypeBudget:
	default:
		return fmt.Errorf("unknown plan type %q", msg.PlanType)
	}

	w.mu.Lock()
	w.planCounts[msg.PlanType]++
	w.total++
	if msg.CacheHit {
		w.cacheHits++
	}
	w.mu.Unlock()

	w.logger.Debug("plan event recorded",
		log.FieldPlanType, msg.PlanType,
		log.FieldRequestID, msg.RequestID,
		log.FieldCacheHit, msg.CacheHit)
	return nil
}

// Snapshot returns a copy of the current counters.
func (w *StatsWorker) Snapshot() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	counts := make(map[string]int64, len(w.planCounts))
	for k, v := range w.planCounts {
		counts[k] = v
	}
	return Stats{
		Total:      w.total,
		CacheHits:  w.cacheHits,
		PlanCounts: counts,
	}
}

// ReportLoop logs aggregated counters at the given interval until the
// context is canceled.
func (w *StatsWorker) ReportLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := w.Snapshot()
			w.logger.Info("plan event totals",
				"total", stats.Total,
				"cache_hits", stats.CacheHits,
				"debt_plans", stats.PlanCounts[events.PlanTypeDebt],
				"goal_plans", stats.PlanCounts[events.PlanTypeGoal],
				"budget_analyses", stats.PlanCounts[events.PlanTypeBudget])
		}
	}
}
