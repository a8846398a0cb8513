package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finadvisor/internal/cache"
	"finadvisor/internal/config"
	"finadvisor/internal/events"
	apphttp "finadvisor/internal/http"
	"finadvisor/internal/log"
	"finadvisor/internal/services"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; the environment wins.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", log.FieldError, err.Error())
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	planCache, closeCache, err := buildCache(ctx, cfg, logger)
	if err != nil {
		logger.Error("cache initialization failed", log.FieldError, err.Error())
		return err
	}
	defer closeCache()

	publisher := buildPublisher(cfg, logger)
	if publisher != nil {
		defer publisher.Close()
	}

	var planner *services.PlannerService
	if publisher != nil {
		planner = services.NewPlannerService(planCache, publisher)
	} else {
		planner = services.NewPlannerService(planCache, nil)
	}

	srv := apphttp.NewServer(cfg, planner, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			"api_prefix", cfg.APIPrefix,
			"cache_backend", cfg.CacheBackend,
			"events_enabled", cfg.AMQPURL != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", log.FieldError, err.Error())
		return err
	}

	logger.Info("server stopped gracefully", log.FieldOperation, log.OpShutdown)
	return nil
}

// buildCache selects the plan cache backend. The returned close function
// stops cleanup goroutines or closes the Redis connection.
func buildCache(ctx context.Context, cfg *config.Config, logger *log.Logger) (cache.Cache[string], func(), error) {
	switch cfg.CacheBackend {
	case "redis":
		rc := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			rc.Close()
			return nil, nil, err
		}
		logger.Info("redis cache initialized", "addr", cfg.RedisAddr)
		return rc, func() { rc.Close() }, nil
	default:
		lru := cache.NewLRUCache[string](cfg.CacheMaxSize, cfg.CacheTTL)
		manager := cache.NewManager()
		manager.Register(lru)
		manager.StartCleanup(cfg.CacheCleanup)
		logger.Info("memory cache initialized", "max_size", cfg.CacheMaxSize, "ttl", cfg.CacheTTL.String())
		return lru, manager.Stop, nil
	}
}

// buildPublisher connects the event client when AMQP is configured.
// A broker that is down at startup disables events instead of failing
// the service; plan computation works without it.
func buildPublisher(cfg *config.Config, logger *log.Logger) *events.Client {
	if cfg.AMQPURL == "" {
		return nil
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("event publishing disabled, broker unavailable",
			log.FieldError, err.Error(),
			"exchange", cfg.AMQPExchange)
		return nil
	}

	logger.Info("event publisher connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}
