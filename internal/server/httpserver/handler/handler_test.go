package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/airsig/airsig-go/internal/core/domain"
	"github.com/airsig/airsig-go/internal/core/service"
	"github.com/airsig/airsig-go/internal/storage/memory"
	"github.com/airsig/airsig-go/internal/telemetry/metric"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store := memory.New()
	svc := service.NewPairingService(store)
	return New(svc, metric.NewRegistry(), slog.Default())
}

func linePoints(n int) []PointPayload {
	points := make([]PointPayload, n)
	for i := 0; i < n; i++ {
		points[i] = PointPayload{X: float64(i) * 10, Y: float64(i) * 10, Timestamp: int64(i) * 40}
	}
	return points
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, *Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var envelope Response
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("%s %s: response is not an envelope: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec, &envelope
}

func decodeData(t *testing.T, envelope *Response, target any) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func createTestSession(t *testing.T, h *Handler) CreateSessionResponse {
	t.Helper()
	rec, envelope := doJSON(t, h, http.MethodPost, "/v1/sessions", CreateSessionRequest{
		Points: linePoints(20),
		Data:   TransferDataPayload{Type: "text", Title: "note", Content: "meet at noon"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created CreateSessionResponse
	decodeData(t, envelope, &created)
	return created
}

func TestCreateSessionEndpoint(t *testing.T) {
	h := newTestHandler(t)

	created := createTestSession(t, h)
	if created.SessionID == "" || created.Status != "waiting" {
		t.Fatalf("unexpected create response: %+v", created)
	}
	if created.ExpiresAt-created.CreatedAt != domain.SessionTTL.Milliseconds() {
		t.Errorf("TTL window = %dms, want %dms",
			created.ExpiresAt-created.CreatedAt, domain.SessionTTL.Milliseconds())
	}
}

func TestCreateSessionTooShort(t *testing.T) {
	h := newTestHandler(t)

	rec, envelope := doJSON(t, h, http.MethodPost, "/v1/sessions", CreateSessionRequest{
		Points: linePoints(5),
		Data:   TransferDataPayload{Type: "text", Content: "x"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if envelope.Code != domain.ErrInsufficientPoints.Code {
		t.Errorf("code = %s, want %s", envelope.Code, domain.ErrInsufficientPoints.Code)
	}
}

func TestCreateSessionBadBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMatchEndpoint(t *testing.T) {
	h := newTestHandler(t)
	created := createTestSession(t, h)

	rec, envelope := doJSON(t, h, http.MethodPost, "/v1/sessions/match", MatchSessionRequest{
		Points: linePoints(18),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var matched MatchSessionResponse
	decodeData(t, envelope, &matched)
	if !matched.Matched || matched.Session == nil {
		t.Fatalf("expected a match, got %+v", matched)
	}
	if matched.Session.ID != created.SessionID {
		t.Errorf("matched %s, want %s", matched.Session.ID, created.SessionID)
	}
	if matched.Session.Content != "meet at noon" {
		t.Errorf("content = %q, want the decrypted payload", matched.Session.Content)
	}
}

func TestMatchEndpointMiss(t *testing.T) {
	h := newTestHandler(t)

	rec, envelope := doJSON(t, h, http.MethodPost, "/v1/sessions/match", MatchSessionRequest{
		Points: linePoints(18),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("a miss must be 200, got %d", rec.Code)
	}
	var matched MatchSessionResponse
	decodeData(t, envelope, &matched)
	if matched.Matched {
		t.Fatal("expected no match against an empty store")
	}
}

func TestGetSessionEndpoint(t *testing.T) {
	h := newTestHandler(t)
	created := createTestSession(t, h)

	rec, envelope := doJSON(t, h, http.MethodGet, "/v1/sessions/"+created.SessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var session SessionPayload
	decodeData(t, envelope, &session)
	if session.ID != created.SessionID {
		t.Errorf("id = %s, want %s", session.ID, created.SessionID)
	}
	if session.Content != "" {
		t.Error("status polling must not expose the payload content")
	}
}

func TestGetSessionNotFound(t *testing.T) {
	h := newTestHandler(t)

	rec, envelope := doJSON(t, h, http.MethodGet, "/v1/sessions/asgs-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if envelope.Code != domain.ErrSessionNotFound.Code {
		t.Errorf("code = %s, want %s", envelope.Code, domain.ErrSessionNotFound.Code)
	}
}

func TestCompleteEndpoint(t *testing.T) {
	h := newTestHandler(t)
	created := createTestSession(t, h)

	path := fmt.Sprintf("/v1/sessions/%s/complete", created.SessionID)
	rec, envelope := doJSON(t, h, http.MethodPost, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var completed CompleteSessionResponse
	decodeData(t, envelope, &completed)
	if completed.Status != "completed" || completed.CompletedAt == 0 {
		t.Fatalf("unexpected complete response: %+v", completed)
	}

	// Idempotent repeat.
	rec, _ = doJSON(t, h, http.MethodPost, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat complete status = %d, want 200", rec.Code)
	}
}

func TestScoreGestureEndpoint(t *testing.T) {
	h := newTestHandler(t)

	// An exact star trace should score the star template highest. The
	// star spans the full unit box, so renormalization of the submitted
	// path is the identity and the score stays near 1.
	tpl, ok := domain.TemplateByID("star")
	if !ok {
		t.Fatal("star template missing")
	}
	points := make([]PointPayload, len(tpl.Points))
	for i, p := range tpl.Points {
		points[i] = PointPayload{X: p.X * 200, Y: p.Y * 200}
	}

	rec, envelope := doJSON(t, h, http.MethodPost, "/v1/gestures/score", ScoreGestureRequest{
		Points: points,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var scored ScoreGestureResponse
	decodeData(t, envelope, &scored)
	if scored.Best == nil {
		t.Fatal("expected a best match for a template-shaped path")
	}
	if scored.Best.TemplateID != "star" {
		t.Errorf("best = %s, want star", scored.Best.TemplateID)
	}
	if scored.Best.Similarity < 0.9 {
		t.Errorf("self-similarity = %f, want >= 0.9", scored.Best.Similarity)
	}
}

func TestScoreGestureUnknownTemplate(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/v1/gestures/score", ScoreGestureRequest{
		Points:     linePoints(20),
		TemplateID: "pentagram",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func scrapeMetrics(t *testing.T, metrics *metric.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read metrics body: %v", err)
	}
	return string(body)
}

func TestSessionMetricsRecorded(t *testing.T) {
	store := memory.New()
	svc := service.NewPairingService(store)
	metrics := metric.NewRegistry()
	h := New(svc, metrics, slog.Default())

	created := createTestSession(t, h)

	body := scrapeMetrics(t, metrics)
	for _, want := range []string{
		"airsig_sessions_created_total 1",
		"airsig_sessions_waiting 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("after create, sample missing: %s", want)
		}
	}

	doJSON(t, h, http.MethodPost, "/v1/sessions/match", MatchSessionRequest{
		Points: linePoints(18),
	})
	doJSON(t, h, http.MethodPost, "/v1/sessions/"+created.SessionID+"/complete", nil)

	body = scrapeMetrics(t, metrics)
	for _, want := range []string{
		"airsig_sessions_matched_total 1",
		"airsig_sessions_completed_total 1",
		"airsig_sessions_waiting 0",
		`airsig_match_attempts_total{outcome="hit"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("after match and complete, sample missing: %s", want)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestHandler(t)

	for _, path := range []string{"/health", "/ready"} {
		rec, envelope := doJSON(t, h, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
		if envelope.Code != "OK" {
			t.Errorf("%s code = %s, want OK", path, envelope.Code)
		}
	}
}
