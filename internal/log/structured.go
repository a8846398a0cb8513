package log

import (
	"context"
	"log/slog"
)

// Default returns a logger wrapping the process-wide slog default.
func Default() *Logger {
	return &Logger{
		Logger:    slog.Default(),
		component: ComponentApp,
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogPlanComputed logs a completed plan computation
func (sl *StructuredLogger) LogPlanComputed(ctx context.Context, planType, cacheKey string, cacheHit bool, operation string) {
	fields := NewFields().
		WithPlan(planType, cacheKey, cacheHit).
		WithOperation(operation).
		WithComponent(ComponentPlanner)

	sl.logger.InfoContext(ctx, "Plan computed", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
