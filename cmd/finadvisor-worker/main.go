package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finadvisor/internal/config"
	"finadvisor/internal/events"
	"finadvisor/internal/log"
	"finadvisor/internal/worker"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", log.FieldError, err.Error())
		return err
	}
	if cfg.AMQPURL == "" {
		err := errors.New("AMQP_URL is required for the worker")
		logger.Error("invalid configuration", log.FieldError, err.Error())
		return err
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("broker connection failed", log.FieldError, err.Error())
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats := worker.NewStatsWorker(logger)

	logger.Info("worker started",
		log.FieldOperation, log.OpStartup,
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumePlanComputed(ctx, stats.HandlePlanComputed)
	})

	g.Go(func() error {
		stats.ReportLoop(ctx, time.Minute)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker error", log.FieldError, err.Error())
		return err
	}

	final := stats.Snapshot()
	logger.Info("worker stopped",
		log.FieldOperation, log.OpShutdown,
		"total_events", final.Total,
		"cache_hits", final.CacheHits)
	return nil
}
