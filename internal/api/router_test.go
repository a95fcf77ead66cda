package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"olivia/dialogue/internal/config"
	"olivia/dialogue/internal/engine"
	"olivia/dialogue/internal/llm"
	"olivia/dialogue/internal/store"
)

type noopLLM struct{}

func (noopLLM) Complete(ctx context.Context, msgs []llm.Message, maxTokens int, temperature float64) (string, error) {
	return "ok", nil
}

type noopTTS struct{}

func (noopTTS) Speak(ctx context.Context, sessionID, text string) error { return nil }
func (noopTTS) Stop(ctx context.Context, sessionID string) error        { return nil }

func testHandlers(t *testing.T) (*Handlers, *engine.Engine) {
	t.Helper()
	var cfg config.Config
	cfg.Ingress.TokenSecret = "test-secret"
	cfg.Turn.PauseMedium = time.Second
	cfg.Turn.MaxSilence = time.Minute
	cfg.LLM.Timeout = time.Second
	st := store.New()
	eng := engine.New(cfg, st, noopLLM{}, noopTTS{})
	return NewHandlers(cfg, st, eng), eng
}

func TestCreateSessionMintsToken(t *testing.T) {
	h, eng := testHandlers(t)
	defer eng.Shutdown()
	srv := httptest.NewServer(NewRouter(h, func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["session_id"] == "" || body["session_id"] == nil {
		t.Error("missing session_id")
	}
	if body["ingress_token"] == "" || body["ingress_token"] == nil {
		t.Error("missing ingress_token")
	}
}

func TestEndAndTurnsUnknownSession404(t *testing.T) {
	h, eng := testHandlers(t)
	defer eng.Shutdown()
	srv := httptest.NewServer(NewRouter(h, func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/sessions/unknown/end", "application/json", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("end: expected 404, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/sessions/unknown/turns")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("turns: expected 404, got %d", resp.StatusCode)
	}
}

func TestSessionEndThenGetShowsClosed(t *testing.T) {
	h, eng := testHandlers(t)
	defer eng.Shutdown()
	srv := httptest.NewServer(NewRouter(h, func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var created struct {
		SessionID string `json:"session_id"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/sessions/"+created.SessionID+"/end", "application/json", nil)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end: expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/sessions/" + created.SessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var sess struct {
		Status string `json:"status"`
	}
	json.NewDecoder(resp.Body).Decode(&sess)
	if sess.Status != "closed" {
		t.Fatalf("status = %q, want closed", sess.Status)
	}
}

func TestHealthz(t *testing.T) {
	h, eng := testHandlers(t)
	defer eng.Shutdown()
	srv := httptest.NewServer(NewRouter(h, func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
