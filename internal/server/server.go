package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/abtest"
	"github.com/jonathan/ats-engine/internal/config"
	"github.com/jonathan/ats-engine/internal/db"
	"github.com/jonathan/ats-engine/internal/extraction"
	"github.com/jonathan/ats-engine/internal/gaps"
	"github.com/jonathan/ats-engine/internal/logger"
	"github.com/jonathan/ats-engine/internal/scoring"
	"github.com/jonathan/ats-engine/internal/server/middleware"
	"github.com/jonathan/ats-engine/internal/server/ratelimit"
	"github.com/jonathan/ats-engine/internal/similarity"
)

const (
	maxBodyBytes    = 2 << 20
	shutdownTimeout = 30 * time.Second
)

// Deps are the engines behind the API. Weights may be nil.
type Deps struct {
	Scorer    *scoring.Scorer
	Extractor *extraction.Extractor
	Gaps      *gaps.Analyzer
	Semantic  *similarity.Semantic
	Analyzer  *abtest.Analyzer
	Store     db.Store
	Weights   *scoring.MLWeights
	Logger    *zap.Logger
}

func (d Deps) check() error {
	switch {
	case d.Scorer == nil:
		return errors.New("scorer is required")
	case d.Extractor == nil:
		return errors.New("extractor is required")
	case d.Gaps == nil:
		return errors.New("gap analyzer is required")
	case d.Semantic == nil:
		return errors.New("semantic matcher is required")
	case d.Analyzer == nil:
		return errors.New("a/b analyzer is required")
	case d.Store == nil:
		return errors.New("version store is required")
	}
	return nil
}

// Server is the HTTP API server.
type Server struct {
	cfg        config.ServerConfig
	deps       Deps
	log        *zap.Logger
	limiter    *ratelimit.Limiter
	jwtService *JWTService
	validate   *validator.Validate
	handler    http.Handler
	httpServer *http.Server
}

// New wires the routes and middleware. The caller owns deps.Store and closes
// it after Start returns.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if err := deps.check(); err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	jwtConfig, err := cfg.JWT()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		cfg:      cfg.Server,
		deps:     deps,
		log:      logger.Named(deps.Logger, "server"),
		limiter:  ratelimit.NewLimiter(ratelimit.NewConfig(cfg.Server.RateLimit, cfg.Server.Burst)),
		validate: newValidator(),
	}
	if jwtConfig != nil {
		s.jwtService = NewJWTService(jwtConfig)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /v1/score", s.handleScore)
	mux.HandleFunc("POST /v1/score/batch", s.handleScoreBatch)
	mux.HandleFunc("POST /v1/gaps", s.handleGaps)
	mux.HandleFunc("POST /v1/extract", s.handleExtract)
	mux.HandleFunc("POST /v1/similarity", s.handleSimilarity)

	mux.HandleFunc("POST /v1/abtest/analyze", s.handleABTestAnalyze)
	mux.HandleFunc("POST /v1/abtest/compare", s.handleABTestCompare)
	mux.HandleFunc("POST /v1/abtest/multivariate", s.handleABTestMultivariate)

	mux.Handle("POST /v1/versions", s.withAuth(s.handleCreateVersion))
	mux.Handle("GET /v1/versions", s.withAuth(s.handleListVersions))
	mux.Handle("GET /v1/versions/report", s.withAuth(s.handleVersionReport))
	mux.Handle("POST /v1/versions/{id}/outcomes", s.withAuth(s.handleRecordOutcome))

	s.handler = s.withCORS(s.withRequestID(s.withLogging(s.withRateLimit(s.withTimeout(mux)))))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// AuthEnabled reports whether version routes require a bearer token.
func (s *Server) AuthEnabled() bool {
	return s.jwtService != nil
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	defer s.limiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting",
			zap.String("addr", s.httpServer.Addr),
			zap.Bool("auth", s.AuthEnabled()),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Close releases the rate limiter without serving.
func (s *Server) Close() {
	s.limiter.Stop()
}

func (s *Server) withAuth(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return h
	}
	onFail := func(w http.ResponseWriter, _ *http.Request, reason string) {
		s.errorResponse(w, http.StatusUnauthorized, reason)
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator(), onFail)(h)
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(s.cfg.AllowedOrigins))
	for _, o := range s.cfg.AllowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(allowed) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", requestID(r)),
		)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.limiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withTimeout(next http.Handler) http.Handler {
	timeout := s.cfg.RequestTimeout
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if timeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientID keys rate limiting by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit <= 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
}

type rateLimitBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	ResetAt    string `json:"reset_at"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	body := rateLimitBody{
		Error:     "rate_limit_exceeded",
		Message:   "Rate limit exceeded. Please try again later.",
		Limit:     info.Limit,
		Remaining: info.Remaining,
		ResetAt:   info.ResetTime.UTC().Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		secs := int((info.RetryAfter + time.Second - 1) / time.Second)
		body.RetryAfter = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.log.Debug("rate limit exceeded",
		zap.String("client", clientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)
	s.jsonResponse(w, http.StatusTooManyRequests, body)
}
