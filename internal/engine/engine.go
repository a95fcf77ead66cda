// Package engine drives the per-session turn lifecycle: it owns one runner
// goroutine per session, feeds it transcript fragments, and carries each
// finalized turn through classification, policy, generation, and speech.
package engine

import (
	"context"
	"log"
	"sync"

	"olivia/dialogue/internal/config"
	"olivia/dialogue/internal/llm"
	"olivia/dialogue/internal/nudge"
	"olivia/dialogue/internal/store"
	"olivia/dialogue/internal/types"
)

// Completer generates one assistant reply per call.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message, maxTokens int, temperature float64) (string, error)
}

// Speaker plays system text to the user. Speak blocks until playback
// finishes or ctx is cancelled; Stop interrupts in-flight playback.
type Speaker interface {
	Speak(ctx context.Context, sessionID, text string) error
	Stop(ctx context.Context, sessionID string) error
}

type Engine struct {
	cfg   config.Config
	store *store.Store
	llm   Completer
	tts   Speaker

	mu      sync.Mutex
	runners map[string]*runner
}

func New(cfg config.Config, st *store.Store, completer Completer, speaker Speaker) *Engine {
	return &Engine{
		cfg:     cfg,
		store:   st,
		llm:     completer,
		tts:     speaker,
		runners: make(map[string]*runner),
	}
}

// StartSession creates a session record and its runner goroutine.
func (e *Engine) StartSession() *types.Session {
	sess := e.store.CreateSession()
	r := newRunner(e, sess.ID, nudge.NewSelector(e.cfg.Nudges))

	e.mu.Lock()
	e.runners[sess.ID] = r
	e.mu.Unlock()

	e.store.SetStatus(sess.ID, "active")
	metricActiveSessions.Inc()
	go r.run()
	log.Printf("[engine] session started id=%s", sess.ID)
	return sess
}

// EndSession stops the runner and closes the session record. It reports
// whether the session was known.
func (e *Engine) EndSession(id string) bool {
	e.mu.Lock()
	r := e.runners[id]
	delete(e.runners, id)
	e.mu.Unlock()
	if r == nil {
		return e.store.GetSession(id) != nil
	}
	r.stop()
	e.store.SetStatus(id, "closed")
	metricActiveSessions.Dec()
	log.Printf("[engine] session closed id=%s", id)
	return true
}

// Ingest routes a transcript fragment to its session runner. Fragments for
// unknown or closed sessions are dropped.
func (e *Engine) Ingest(frag types.TranscriptFragment) bool {
	e.mu.Lock()
	r := e.runners[frag.SessionID]
	e.mu.Unlock()
	if r == nil {
		metricFragmentsDropped.Inc()
		return false
	}
	select {
	case r.frags <- frag:
		metricFragments.Inc()
		return true
	default:
		// Runner is far behind; dropping beats blocking the ingress.
		metricFragmentsDropped.Inc()
		return false
	}
}

// Shutdown ends every active session.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	ids := make([]string, 0, len(e.runners))
	for id := range e.runners {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	for _, id := range ids {
		e.EndSession(id)
	}
}

// sessionDone is called by a runner when policy decides to close.
func (e *Engine) sessionDone(id string) {
	e.mu.Lock()
	_, known := e.runners[id]
	delete(e.runners, id)
	e.mu.Unlock()
	if known {
		e.store.SetStatus(id, "closed")
		metricActiveSessions.Dec()
		log.Printf("[engine] session closed by policy id=%s", id)
	}
}
