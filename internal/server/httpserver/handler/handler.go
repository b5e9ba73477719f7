// Package handler provides HTTP request handlers for AirSig.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/airsig/airsig-go/internal/core/domain"
	"github.com/airsig/airsig-go/internal/core/service"
	"github.com/airsig/airsig-go/internal/telemetry/metric"
)

// Handler is the main HTTP handler that routes requests to the
// endpoint implementations.
type Handler struct {
	pairingSvc *service.PairingService
	metrics    *metric.Registry
	logger     *slog.Logger
	mux        *http.ServeMux
}

// New creates a new Handler with the given service.
func New(pairingSvc *service.PairingService, metrics *metric.Registry, logger *slog.Logger) *Handler {
	h := &Handler{
		pairingSvc: pairingSvc,
		metrics:    metrics,
		logger:     logger,
		mux:        http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	// Health endpoints
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	// Pairing session endpoints
	h.mux.HandleFunc("POST /v1/sessions", h.handleCreateSession)
	h.mux.HandleFunc("POST /v1/sessions/match", h.handleMatchSession)
	h.mux.HandleFunc("GET /v1/sessions/{id}", h.handleGetSession)
	h.mux.HandleFunc("POST /v1/sessions/{id}/complete", h.handleCompleteSession)
	h.mux.HandleFunc("GET /v1/sessions/{id}/events", h.handleSessionEvents)

	// Gesture scoring
	h.mux.HandleFunc("POST /v1/gestures/score", h.handleScoreGesture)
}

// writeJSON writes a JSON response with the standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with the standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// recordWaitingGauge refreshes the waiting-sessions gauge after any
// operation that can change how many sessions are matchable.
func (h *Handler) recordWaitingGauge() {
	if h.metrics == nil {
		return
	}
	if n := h.pairingSvc.WaitingCount(); n >= 0 {
		h.metrics.SessionsWaiting.Set(float64(n))
	}
}

// getRequestID extracts the request ID set by the middleware.
func getRequestID(r *http.Request) string {
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		status := errorCodeToHTTPStatus(code)
		h.writeError(w, r, status, code, err.Error(), nil)
		return
	}

	h.logger.Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, "AS-SYS-5000", "internal server error", nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"), strings.HasSuffix(code, "-4041"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"), strings.HasSuffix(code, "-4091"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4001"), strings.HasSuffix(code, "-4002"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "AS-ARG-"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "AS-SYS-5"):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
