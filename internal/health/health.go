// Package health probes the two external collaborators so operators can
// tell a broken deployment from a quiet one.
package health

import (
	"context"
	"fmt"
	"time"

	"olivia/dialogue/internal/config"
)

type CheckResult struct {
	Name    string        `json:"name"`
	OK      bool          `json:"ok"`
	Latency time.Duration `json:"latency_ms"`
	Error   string        `json:"error,omitempty"`
}

type HealthStatus struct {
	OK        bool          `json:"ok"`
	Checks    []CheckResult `json:"checks"`
	CheckedAt time.Time     `json:"checked_at"`
}

func (h HealthStatus) String() string {
	status := "OK"
	if !h.OK {
		status = "FAIL"
	}
	s := fmt.Sprintf("Health: %s\n", status)
	for _, c := range h.Checks {
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		s += fmt.Sprintf("  %s %s (%dms)", mark, c.Name, c.Latency.Milliseconds())
		if c.Error != "" {
			s += fmt.Sprintf(" - %s", c.Error)
		}
		s += "\n"
	}
	return s
}

// Prober is any collaborator client with a readiness probe.
type Prober interface {
	Ready(ctx context.Context) error
}

// CheckAll probes every configured collaborator and returns combined status.
func CheckAll(ctx context.Context, cfg config.Config, llm, tts Prober) HealthStatus {
	checks := []CheckResult{
		check(ctx, "llm", cfg.LLM.Endpoint, llm),
		check(ctx, "tts", cfg.TTS.Endpoint, tts),
	}

	allOK := true
	for _, c := range checks {
		if !c.OK {
			allOK = false
		}
	}
	return HealthStatus{
		OK:        allOK,
		Checks:    checks,
		CheckedAt: time.Now().UTC(),
	}
}

func check(ctx context.Context, name, endpoint string, p Prober) CheckResult {
	start := time.Now()
	result := CheckResult{Name: name}
	if endpoint == "" {
		result.Error = "endpoint not configured"
		result.Latency = time.Since(start)
		return result
	}
	if err := p.Ready(ctx); err != nil {
		result.Error = err.Error()
		result.Latency = time.Since(start)
		return result
	}
	result.OK = true
	result.Latency = time.Since(start)
	return result
}
