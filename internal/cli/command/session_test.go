package command

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeServer records requests and replies with canned envelopes.
type fakeServer struct {
	*httptest.Server

	lastPath string
	lastBody []byte
}

func newFakeServer(t *testing.T, handler func(path string) (int, string)) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.lastPath = r.URL.Path
		fs.lastBody, _ = io.ReadAll(r.Body)
		status, body := handler(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(fs.Server.Close)
	return fs
}

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	return App().Run(append([]string{"airsig-cli"}, args...))
}

func TestSendCommand(t *testing.T) {
	srv := newFakeServer(t, func(string) (int, string) {
		return http.StatusCreated, `{"code":"OK","message":"Success","data":{"session_id":"asgs-1","gesture_hash":"012345","status":"waiting","expires_at":1700000060000}}`
	})
	trace := writeTempTrace(t, `[{"x":0,"y":0},{"x":10,"y":0},{"x":20,"y":0}]`)

	err := runApp(t, "--server", srv.URL, "send",
		"--trace", trace, "--type", "text", "--content", "meet at noon")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if srv.lastPath != "/v1/sessions" {
		t.Errorf("path = %s", srv.lastPath)
	}

	var body struct {
		Points []TracePoint      `json:"points"`
		Data   map[string]string `json:"data"`
	}
	if err := json.Unmarshal(srv.lastBody, &body); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if len(body.Points) != 3 {
		t.Errorf("points = %d, want 3", len(body.Points))
	}
	if body.Data["content"] != "meet at noon" || body.Data["type"] != "text" {
		t.Errorf("data = %v", body.Data)
	}
}

func TestSendRequiresContent(t *testing.T) {
	trace := writeTempTrace(t, `[{"x":0,"y":0}]`)
	if err := runApp(t, "send", "--trace", trace); err == nil {
		t.Fatal("expected error without --content")
	}
}

func TestReceiveCommandMiss(t *testing.T) {
	srv := newFakeServer(t, func(string) (int, string) {
		return http.StatusOK, `{"code":"OK","message":"Success","data":{"matched":false}}`
	})
	trace := writeTempTrace(t, `[{"x":0,"y":0},{"x":10,"y":0}]`)

	err := runApp(t, "--server", srv.URL, "--device-id", "dev-1",
		"receive", "--trace", trace)
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if srv.lastPath != "/v1/sessions/match" {
		t.Errorf("path = %s", srv.lastPath)
	}
}

func TestReceiveCommandHit(t *testing.T) {
	srv := newFakeServer(t, func(string) (int, string) {
		return http.StatusOK, `{"code":"OK","message":"Success","data":{"matched":true,"session":{"id":"asgs-1","data_type":"text","content":"hello","status":"matched"}}}`
	})
	trace := writeTempTrace(t, `[{"x":0,"y":0},{"x":10,"y":0}]`)

	if err := runApp(t, "--server", srv.URL, "receive", "--trace", trace); err != nil {
		t.Fatalf("receive failed: %v", err)
	}
}

func TestCompleteCommand(t *testing.T) {
	srv := newFakeServer(t, func(string) (int, string) {
		return http.StatusOK, `{"code":"OK","message":"Success","data":{"session_id":"asgs-1","status":"completed","completed_at":1700000030000}}`
	})

	if err := runApp(t, "--server", srv.URL, "complete", "asgs-1"); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if srv.lastPath != "/v1/sessions/asgs-1/complete" {
		t.Errorf("path = %s", srv.lastPath)
	}
}

func TestCompleteRequiresID(t *testing.T) {
	if err := runApp(t, "complete"); err == nil {
		t.Fatal("expected error without session ID")
	}
}

func TestStatusCommand(t *testing.T) {
	srv := newFakeServer(t, func(string) (int, string) {
		return http.StatusOK, `{"code":"OK","message":"Success","data":{"id":"asgs-1","data_type":"text","status":"waiting","expires_at":1700000060000}}`
	})

	if err := runApp(t, "--server", srv.URL, "-o", "json", "status", "asgs-1"); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if srv.lastPath != "/v1/sessions/asgs-1" {
		t.Errorf("path = %s", srv.lastPath)
	}
}

func TestStatusNotFound(t *testing.T) {
	srv := newFakeServer(t, func(string) (int, string) {
		return http.StatusNotFound, `{"code":"AS-SESS-4040","message":"session not found"}`
	})

	err := runApp(t, "--server", srv.URL, "status", "asgs-missing")
	if err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestScoreCommand(t *testing.T) {
	srv := newFakeServer(t, func(string) (int, string) {
		return http.StatusOK, `{"code":"OK","message":"Success","data":{"signature":"0123","scores":[{"template_id":"circle","name":"Circle","similarity":0.91}],"best":{"template_id":"circle","name":"Circle","similarity":0.91}}}`
	})
	trace := writeTempTrace(t, `[{"x":0,"y":0},{"x":10,"y":0}]`)

	err := runApp(t, "--server", srv.URL, "score", "--trace", trace, "--template", "circle")
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if srv.lastPath != "/v1/gestures/score" {
		t.Errorf("path = %s", srv.lastPath)
	}

	var body map[string]any
	if err := json.Unmarshal(srv.lastBody, &body); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if body["template_id"] != "circle" {
		t.Errorf("template_id = %v", body["template_id"])
	}
}
