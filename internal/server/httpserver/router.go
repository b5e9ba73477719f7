package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/airsig/airsig-go/internal/core/service"
	"github.com/airsig/airsig-go/internal/server/httpserver/handler"
	"github.com/airsig/airsig-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// PairingService handles session and gesture operations.
	PairingService *service.PairingService

	// Metrics is the application metric registry. Nil disables both
	// recording and the /metrics endpoint.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger *slog.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// GlobalRateLimit is the per-IP rate limit (requests/second, 0 = off).
	GlobalRateLimit int

	// EnableAudit enables request logging for all API requests.
	EnableAudit bool
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		GlobalRateLimit: 100,
		EnableAudit:     true,
	}
}

// NewRouter creates and configures the HTTP router with all routes and
// middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := handler.New(cfg.PairingService, cfg.Metrics, logger)

	// API middleware chain, innermost first.
	apiMiddlewares := []Middleware{
		RequestID(),
		Recover(logger),
		CORS(cfg.CORSAllowedOrigins),
	}
	if cfg.GlobalRateLimit > 0 {
		apiMiddlewares = append(apiMiddlewares, RateLimit(cfg.GlobalRateLimit))
	}
	if cfg.EnableAudit {
		apiMiddlewares = append(apiMiddlewares, Audit(logger, cfg.Metrics))
	}
	apiHandler := Chain(h, apiMiddlewares...)

	// Health probes skip rate limiting and audit noise.
	probeHandler := Chain(h, RequestID(), Recover(logger))

	mux := http.NewServeMux()

	mux.Handle("GET /health", probeHandler)
	mux.Handle("GET /ready", probeHandler)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(logger)))
	}

	// Pairing session endpoints
	mux.Handle("POST /v1/sessions", apiHandler)
	mux.Handle("POST /v1/sessions/match", apiHandler)
	mux.Handle("GET /v1/sessions/{id}", apiHandler)
	mux.Handle("POST /v1/sessions/{id}/complete", apiHandler)
	mux.Handle("GET /v1/sessions/{id}/events", apiHandler)

	// Gesture scoring
	mux.Handle("POST /v1/gestures/score", apiHandler)

	// CORS preflight for every API path
	mux.Handle("OPTIONS /", Chain(h, RequestID(), CORS(cfg.CORSAllowedOrigins)))

	return mux
}
