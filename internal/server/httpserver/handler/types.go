// Package handler provides HTTP request handlers for AirSig.
package handler

import (
	"time"

	"github.com/airsig/airsig-go/internal/core/domain"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses
// Prometheus format and /v1/sessions/{id}/events which streams SSE).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// PointPayload is one recorded gesture point on the wire.
type PointPayload struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// CreateSessionRequest is the request body for POST /v1/sessions.
type CreateSessionRequest struct {
	Points []PointPayload      `json:"points"`
	Data   TransferDataPayload `json:"data"`
}

// TransferDataPayload is the payload description on the wire.
type TransferDataPayload struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// CreateSessionResponse is the response body for POST /v1/sessions.
// The payload content is not echoed back.
type CreateSessionResponse struct {
	SessionID   string `json:"session_id"`
	GestureHash string `json:"gesture_hash"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
	ExpiresAt   int64  `json:"expires_at"`
}

// MatchSessionRequest is the request body for POST /v1/sessions/match.
type MatchSessionRequest struct {
	Points []PointPayload `json:"points"`
}

// MatchSessionResponse is the response body for POST /v1/sessions/match.
// On a miss, Matched is false and Session is omitted.
type MatchSessionResponse struct {
	Matched bool            `json:"matched"`
	Session *SessionPayload `json:"session,omitempty"`
}

// SessionPayload represents a session in API responses. Content carries
// the decrypted payload when the caller is entitled to it.
type SessionPayload struct {
	ID          string `json:"id"`
	GestureHash string `json:"gesture_hash"`
	SenderID    string `json:"sender_id"`
	DataType    string `json:"data_type"`
	DataTitle   string `json:"data_title,omitempty"`
	Content     string `json:"content,omitempty"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
	ExpiresAt   int64  `json:"expires_at"`
	MatchedAt   int64  `json:"matched_at,omitempty"`
	CompletedAt int64  `json:"completed_at,omitempty"`
}

// CompleteSessionResponse is the response body for
// POST /v1/sessions/{id}/complete.
type CompleteSessionResponse struct {
	SessionID   string `json:"session_id"`
	Status      string `json:"status"`
	CompletedAt int64  `json:"completed_at"`
}

// ScoreGestureRequest is the request body for POST /v1/gestures/score.
type ScoreGestureRequest struct {
	Points []PointPayload `json:"points"`

	// TemplateID restricts scoring to one template; empty scores all.
	TemplateID string `json:"template_id,omitempty"`
}

// TemplateScore is one template's similarity to the submitted path.
type TemplateScore struct {
	TemplateID string  `json:"template_id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// ScoreGestureResponse is the response body for POST /v1/gestures/score.
type ScoreGestureResponse struct {
	Signature string          `json:"signature"`
	Scores    []TemplateScore `json:"scores"`

	// Best is the highest-scoring template above the match floor.
	Best *TemplateScore `json:"best,omitempty"`
}

// sessionToPayload converts a domain session for API responses.
func sessionToPayload(s *domain.Session, content string) *SessionPayload {
	return &SessionPayload{
		ID:          s.ID,
		GestureHash: s.GestureHash,
		SenderID:    s.SenderID,
		DataType:    s.DataType,
		DataTitle:   s.DataTitle,
		Content:     content,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		ExpiresAt:   s.ExpiresAt,
		MatchedAt:   s.MatchedAt,
		CompletedAt: s.CompletedAt,
	}
}

// pointsToDomain converts wire points to the domain representation.
func pointsToDomain(points []PointPayload) domain.PathSample {
	out := make(domain.PathSample, len(points))
	for i, p := range points {
		out[i] = domain.Point{X: p.X, Y: p.Y, Timestamp: p.Timestamp}
	}
	return out
}
