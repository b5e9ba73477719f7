// Package handler provides HTTP request handlers for AirSig.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/airsig/airsig-go/internal/core/domain"
)

// handleSessionEvents handles GET /v1/sessions/{id}/events.
//
// It streams session status changes as Server-Sent Events until the
// session reaches a terminal state or the client disconnects. The
// sending device uses this instead of polling GET /v1/sessions/{id}.
func (h *Handler) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		h.writeError(w, r, http.StatusBadRequest, "AS-ARG-1002", "session_id is required", nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, r, http.StatusInternalServerError, "AS-SYS-5000", "streaming unsupported", nil)
		return
	}

	// Snapshot first so the client always sees the current state even
	// if nothing changes afterwards.
	session, err := h.pairingSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if h.metrics != nil {
		h.metrics.WatchersActive.Inc()
		defer h.metrics.WatchersActive.Dec()
	}

	// Subscribers must not block the store's notification path, so
	// changes are handed to this goroutine through a small buffer.
	// A session only changes a handful of times in its life.
	events := make(chan *domain.Session, 8)
	cancel, err := h.pairingSvc.WatchSession(sessionID, func(s *domain.Session) {
		select {
		case events <- s:
		default:
		}
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	defer cancel()

	writeEvent(w, session)
	flusher.Flush()
	if session.Status.Terminal() {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case s := <-events:
			writeEvent(w, s)
			flusher.Flush()
			if s.Status.Terminal() {
				return
			}
		}
	}
}

// writeEvent emits one SSE frame carrying the session state. The
// payload content is never included in the stream.
func writeEvent(w http.ResponseWriter, s *domain.Session) {
	data, err := json.Marshal(sessionToPayload(s, ""))
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: status\ndata: %s\n\n", data)
}
