// Package http exposes the JSON API: authentication, transaction and
// category CRUD, the dashboard aggregates, and the reset operation. The
// embedded frontend is served from the web package.
package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sanalover24/Expense-Tracker/internal/auth"
	"github.com/sanalover24/Expense-Tracker/internal/cache"
	"github.com/sanalover24/Expense-Tracker/internal/middleware/ratelimit"
	"github.com/sanalover24/Expense-Tracker/internal/middleware/security"
	"github.com/sanalover24/Expense-Tracker/internal/middleware/trace"
	"github.com/sanalover24/Expense-Tracker/internal/store"
	appweb "github.com/sanalover24/Expense-Tracker/web"
)

type Server struct {
	http.Server

	stores   *store.Manager
	sessions *auth.Manager

	detector *security.Detector
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	headers  *security.HeadersMiddleware

	// Dashboard responses per owner; invalidated on every write.
	dashCache *cache.LRUCache[dashboardResponse]
	janitor   *cache.Janitor

	// readyCheck reports whether the backing store is reachable. nil means
	// always ready.
	readyCheck func(ctx context.Context) error

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. readyCheck may be nil.
func NewServer(addr string, stores *store.Manager, sessions *auth.Manager, readyCheck func(ctx context.Context) error) *Server {
	mux := http.NewServeMux()

	detector := security.NewDetector()

	s := &Server{
		stores:     stores,
		sessions:   sessions,
		detector:   detector,
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:     trace.NewMiddleware(detector.ExtractClientIP),
		headers:    security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		dashCache:  cache.NewLRUCache[dashboardResponse](200, 5*time.Minute),
		janitor:    cache.NewJanitor(),
		readyCheck: readyCheck,
	}

	s.janitor.Register(s.dashCache)
	s.janitor.Start(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metricsz", s.handleMetrics)

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/me", s.handleMe)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/reset", s.handleReset)

	// Embedded frontend.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.FileServer(http.FS(sub))
		mux.Handle("GET /", security.StaticAssetMiddleware(3600)(static))
	}

	handler := s.headers.Middleware(
		s.tracer.Middleware(
			s.scanLogging(
				s.limiter.Middleware(detector.ExtractClientIP)(mux))))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Shutdown stops the background sweepers and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.readyCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.readyCheck(ctx); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics exposes the in-process counters for operators.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.tracer.Snapshot()
	writeJSON(w, http.StatusOK, map[string]int64{
		"total_requests":          m.TotalRequests,
		"last_duration_us":        m.LastDurationUS,
		"rate_limited_requests":   s.limiter.LimitedHits(),
		"suspicious_requests":     s.detector.SuspiciousCount(),
		"dashboard_cache_entries": int64(s.dashCache.Size()),
	})
}

// scanLogging flags request shapes typical of automated scans. Flagged
// requests are logged and counted but still served.
func (s *Server) scanLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

// invalidateDashboard drops every cached view for the owner after a write.
func (s *Server) invalidateDashboard(owner string) {
	s.dashCache.DeletePrefix(owner + ":")
}
