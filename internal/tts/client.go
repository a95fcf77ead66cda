// Package tts is the client for the speech-output collaborator. Speak
// blocks until the collaborator reports playback finished, which the engine
// relies on for turn pacing.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type Client struct {
	endpoint string
	voice    string
	rate     float64
	httpc    *http.Client
}

type Config struct {
	Endpoint     string
	Voice        string
	SpeakingRate float64
}

func NewClient(cfg Config) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		voice:    cfg.Voice,
		rate:     cfg.SpeakingRate,
		// No client timeout: long utterances play for a while. The caller's
		// ctx bounds the request.
		httpc: &http.Client{Timeout: 0},
	}
}

func (c *Client) Speak(ctx context.Context, sessionID, text string) error {
	body := map[string]any{
		"session_id":    sessionID,
		"text":          text,
		"voice":         c.voice,
		"speaking_rate": c.rate,
	}
	reqBytes, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/speak", bytes.NewReader(reqBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("tts: status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}

// Stop interrupts in-flight playback for the session.
func (c *Client) Stop(ctx context.Context, sessionID string) error {
	reqBytes, _ := json.Marshal(map[string]any{"session_id": sessionID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/stop", bytes.NewReader(reqBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("tts: stop status=%d", resp.StatusCode)
	}
	return nil
}

// Ready reports whether the collaborator answers its health endpoint.
func (c *Client) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("tts: status=%d", resp.StatusCode)
	}
	return nil
}
