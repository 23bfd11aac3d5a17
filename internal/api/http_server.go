// Package api exposes the reservation intake and admin dashboard over HTTP.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"reservas/internal/auth"
	"reservas/internal/config"
	"reservas/internal/metrics"
	"reservas/internal/pos"
	"reservas/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const sessionTokenHeader = "X-Session-Token"

// Server is the HTTP front of the service: public intake and POS endpoints
// plus the session-gated admin surface.
type Server struct {
	cfg          *config.Config
	reservations *service.ReservationService
	gate         *auth.Gate
	pos          *pos.Service
	server       *http.Server
	limiter      *clientLimiter
	logger       *zerolog.Logger
}

func NewServer(cfg *config.Config, reservations *service.ReservationService, gate *auth.Gate, posService *pos.Service, logger *zerolog.Logger) *Server {
	srv := &Server{
		cfg:          cfg,
		reservations: reservations,
		gate:         gate,
		pos:          posService,
		limiter:      newClientLimiter(cfg.RateLimit),
		logger:       logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/reservations", srv.handleReservations)
	mux.HandleFunc("/api/v1/reservations/export", srv.handleExport)
	mux.HandleFunc("/api/v1/stats", srv.handleStats)
	mux.HandleFunc("/api/v1/admin/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/admin/logout", srv.handleLogout)
	mux.HandleFunc("/api/v1/menu", srv.handleMenu)
	mux.HandleFunc("/api/v1/pos/cart", srv.handleCart)
	mux.HandleFunc("/api/v1/pos/cart/increment", srv.handleCartItemOp(posService.Increment))
	mux.HandleFunc("/api/v1/pos/cart/decrement", srv.handleCartItemOp(posService.Decrement))
	mux.HandleFunc("/api/v1/pos/cart/remove", srv.handleCartItemOp(posService.Remove))
	mux.HandleFunc("/api/v1/pos/confirm", srv.handleConfirm)
	mux.HandleFunc("/api/v1/pos/selections", srv.handleSelections)
	mux.HandleFunc("/healthz", srv.handleHealth)
	if cfg.Monitoring.PrometheusEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	handler := srv.loggingMiddleware(srv.limiter.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the fully wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// requireSession guards admin handlers. Returns false after writing the 401.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) bool {
	token := r.Header.Get(sessionTokenHeader)
	if token == "" || !s.gate.IsLoggedIn(r.Context(), token) {
		writeError(w, http.StatusUnauthorized, "sesión requerida")
		return false
	}
	return true
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// clientLimiter rate-limits per remote host. Disabled when RPS is zero.
type clientLimiter struct {
	cfg      config.RateLimitConfig
	limiters sync.Map
}

func newClientLimiter(cfg config.RateLimitConfig) *clientLimiter {
	return &clientLimiter{cfg: cfg}
}

func (l *clientLimiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.cfg.RPS <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if !l.getLimiter(clientKey(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *clientLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}
