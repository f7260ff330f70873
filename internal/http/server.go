package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/uson1004/SwanBudget/internal/cache"
	"github.com/uson1004/SwanBudget/internal/finance"
	"github.com/uson1004/SwanBudget/internal/gateway"
	applog "github.com/uson1004/SwanBudget/internal/log"
	"github.com/uson1004/SwanBudget/internal/middleware/ratelimit"
	"github.com/uson1004/SwanBudget/internal/middleware/security"
	"github.com/uson1004/SwanBudget/internal/middleware/trace"
	"github.com/uson1004/SwanBudget/internal/storage"
)

// Options configures NewServer. Zero values select defaults.
type Options struct {
	Logger             *applog.Logger
	RateLimitPerMinute int
	BackupPrefix       string
	Processor          *gateway.Processor
	// Checks are pinged by /readyz.
	Checks map[string]storage.Pinger
	Clock  func() time.Time
}

// Statistics reports are cached per ledger revision; the TTL only bounds
// how long a report for "today" can lag behind the clock.
const (
	reportCacheSize = 64
	reportCacheTTL  = time.Minute
)

type Server struct {
	http.Server
	store        finance.Manager
	processor    *gateway.Processor
	logger       *applog.Logger
	limiter      *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware
	checks       map[string]storage.Pinger
	reports      *cache.LRU[any]
	backupPrefix string
	now          func() time.Time
	started      time.Time
	shutdownOnce sync.Once
}

// NewServer wires the routes and middleware and returns a ready-to-run
// server.
func NewServer(addr string, store finance.Manager, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Processor == nil {
		opts.Processor = gateway.NewProcessor()
	}
	if opts.BackupPrefix == "" {
		opts.BackupPrefix = finance.DefaultBackupPrefix
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &Server{
		store:        store,
		processor:    opts.Processor,
		logger:       opts.Logger.WithComponent(applog.ComponentHTTP),
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:     security.NewDetector(),
		checks:       opts.Checks,
		reports:      cache.NewLRU[any](reportCacheSize, reportCacheTTL),
		backupPrefix: opts.BackupPrefix,
		now:          opts.Clock,
		started:      time.Now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(s.routes()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Payment processor stand-ins.
	api.HandleFunc("/cards", s.handleGatewayRegisterCard).Methods(http.MethodPost)
	api.HandleFunc("/cards", s.handleGatewayRemoveCard).Methods(http.MethodDelete)
	api.HandleFunc("/transactions", s.handleGatewayCreateTransaction).Methods(http.MethodPost)

	ledger := api.PathPrefix("/ledger").Subrouter()
	ledger.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	ledger.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	ledger.HandleFunc("/transactions/{id}", s.handleUpdateTransaction).Methods(http.MethodPut)
	ledger.HandleFunc("/transactions/{id}", s.handleDeleteTransaction).Methods(http.MethodDelete)
	ledger.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	ledger.HandleFunc("/cards", s.handleListCards).Methods(http.MethodGet)
	ledger.HandleFunc("/cards", s.handleCreateCard).Methods(http.MethodPost)
	ledger.HandleFunc("/cards/{id}", s.handleDeleteCard).Methods(http.MethodDelete)
	ledger.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	ledger.HandleFunc("/categories", s.handleCreateCategory).Methods(http.MethodPost)
	ledger.HandleFunc("/categories/{id}", s.handleDeleteCategory).Methods(http.MethodDelete)
	ledger.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	ledger.HandleFunc("/settings", s.handlePatchSettings).Methods(http.MethodPatch)
	ledger.HandleFunc("/backup", s.handleBackup).Methods(http.MethodGet)
	ledger.HandleFunc("/restore", s.handleRestore).Methods(http.MethodPost)
	ledger.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)

	api.HandleFunc("/statistics", s.handleMonthStatistics).Methods(http.MethodGet)
	api.HandleFunc("/statistics/yearly", s.handleYearStatistics).Methods(http.MethodGet)
	api.HandleFunc("/calculator", s.handleCalculator).Methods(http.MethodPost)

	return r
}

// middleware wraps the router so unmatched routes are traced and limited
// too. The logger goes in first; trace narrows it to the request id.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
	}, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete)(h)
	h = s.detector.Middleware(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = trace.Recover(h)
	h = s.tracer.Middleware(h)
	return applog.Middleware(s.logger)(h)
}

// Shutdown stops the rate limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
