package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"finadvisor/internal/config"
	"finadvisor/internal/log"
	"finadvisor/internal/middleware/ratelimit"
	"finadvisor/internal/middleware/security"
	"finadvisor/internal/middleware/trace"
	"finadvisor/internal/services"
)

// Server wraps http.Server with the planning API routes and middleware.
type Server struct {
	http.Server

	planner  *services.PlannerService
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	apiPrefix       string
	maxRequestBytes int64
	maxUploadBytes  int64

	shutdownOnce sync.Once
}

// NewServer builds the HTTP server with all routes and middleware wired.
func NewServer(cfg *config.Config, planner *services.PlannerService, logger *log.Logger) *Server {
	detector := security.NewDetector()

	s := &Server{
		planner:  planner,
		logger:   logger.WithComponent(log.ComponentHTTP),
		detector: detector,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
		tracer:          trace.NewMiddleware(detector.ExtractClientIP),
		apiPrefix:       cfg.APIPrefix,
		maxRequestBytes: cfg.MaxRequestBytes,
		maxUploadBytes:  cfg.MaxUploadBytes,
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)

	api := r.PathPrefix(s.apiPrefix).Subrouter()
	api.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)
	api.HandleFunc("/debt/plan", s.handleDebtPlan).Methods(http.MethodPost)
	api.HandleFunc("/goals/plan", s.handleGoalPlan).Methods(http.MethodPost)
	api.HandleFunc("/budget/analyze", s.handleBudgetAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/upload/transactions", s.handleUploadTransactions).Methods(http.MethodPost)
	api.Use(s.limiter.Middleware(detector.ExtractClientIP, s.handleRateLimited))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	handler := headers.Middleware(s.tracer.Middleware(s.guardSuspicious(r)))

	s.Server = http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Shutdown stops background goroutines and drains in-flight requests.
// Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// guardSuspicious logs requests matching known probe patterns. They are
// still served; detection feeds metrics and logs, not blocking.
func (s *Server) guardSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			s.logger.WarnContext(r.Context(), "suspicious request pattern",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "finadvisor",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found")
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
