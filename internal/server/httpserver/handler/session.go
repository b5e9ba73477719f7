// Package handler provides HTTP request handlers for AirSig.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/airsig/airsig-go/internal/core/domain"
	"github.com/airsig/airsig-go/internal/core/service"
)

// handleCreateSession handles POST /v1/sessions.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "AS-SYS-4000", "invalid request body", nil)
		return
	}

	resp, err := h.pairingSvc.CreateSession(r.Context(), &service.CreateSessionRequest{
		Points: pointsToDomain(req.Points),
		Data: domain.TransferData{
			Type:    domain.TransferType(req.Data.Type),
			Title:   req.Data.Title,
			Content: req.Data.Content,
		},
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SessionsCreated.Inc()
	}
	h.recordWaitingGauge()

	session := resp.Session
	h.writeJSON(w, r, http.StatusCreated, CreateSessionResponse{
		SessionID:   session.ID,
		GestureHash: session.GestureHash,
		Status:      string(session.Status),
		CreatedAt:   session.CreatedAt,
		ExpiresAt:   session.ExpiresAt,
	})
}

// handleMatchSession handles POST /v1/sessions/match.
//
// A miss is a 200 with matched=false, not an error: the receiving
// device keeps polling or re-records.
func (h *Handler) handleMatchSession(w http.ResponseWriter, r *http.Request) {
	var req MatchSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "AS-SYS-4000", "invalid request body", nil)
		return
	}

	resp, err := h.pairingSvc.FindMatchingSession(r.Context(), &service.FindMatchRequest{
		Points:   pointsToDomain(req.Points),
		DeviceID: r.Header.Get("X-Device-ID"),
	})
	if err != nil {
		if h.metrics != nil && domain.IsDomainError(err, domain.ErrRateLimited.Code) {
			h.metrics.ObserveMatch("throttled")
		}
		h.handleServiceError(w, r, err)
		return
	}

	if !resp.Matched {
		if h.metrics != nil {
			h.metrics.ObserveMatch("miss")
		}
		h.writeJSON(w, r, http.StatusOK, MatchSessionResponse{Matched: false})
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveMatch("hit")
		h.metrics.SessionsMatched.Inc()
	}
	h.recordWaitingGauge()

	// The receiver earned the payload: return it decrypted.
	content := h.pairingSvc.DecryptSessionData(resp.Session)
	h.writeJSON(w, r, http.StatusOK, MatchSessionResponse{
		Matched: true,
		Session: sessionToPayload(resp.Session, content),
	})
}

// handleGetSession handles GET /v1/sessions/{id}.
//
// Status polling endpoint for the sending device; the payload content
// is not included.
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		h.writeError(w, r, http.StatusBadRequest, "AS-ARG-1002", "session_id is required", nil)
		return
	}

	session, err := h.pairingSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, sessionToPayload(session, ""))
}

// handleCompleteSession handles POST /v1/sessions/{id}/complete.
func (h *Handler) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		h.writeError(w, r, http.StatusBadRequest, "AS-ARG-1002", "session_id is required", nil)
		return
	}

	resp, err := h.pairingSvc.CompleteSession(r.Context(), &service.CompleteSessionRequest{
		SessionID: sessionID,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SessionsCompleted.Inc()
	}
	h.recordWaitingGauge()

	h.writeJSON(w, r, http.StatusOK, CompleteSessionResponse{
		SessionID:   resp.Session.ID,
		Status:      string(resp.Session.Status),
		CompletedAt: resp.Session.CompletedAt,
	})
}
