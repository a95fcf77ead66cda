// Package store keeps sessions and their per-turn records in memory for the
// process lifetime.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"olivia/dialogue/internal/types"
)

// maxTurnsPerSession caps the turn log so an abandoned long-lived session
// cannot grow without bound. Old turns are dropped from the front.
const maxTurnsPerSession = 512

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*types.Session
	turns    map[string][]types.TurnSummary
}

func New() *Store {
	return &Store{
		sessions: make(map[string]*types.Session),
		turns:    make(map[string][]types.TurnSummary),
	}
}

func (s *Store) CreateSession() *types.Session {
	sess := &types.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Status:    "created",
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) GetSession(id string) *types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

func (s *Store) SetStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.Status = status
	if status == "closed" && sess.ClosedAt == nil {
		now := time.Now().UTC()
		sess.ClosedAt = &now
	}
	return true
}

func (s *Store) AppendTurn(summary types.TurnSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := append(s.turns[summary.SessionID], summary)
	if len(log) > maxTurnsPerSession {
		log = log[len(log)-maxTurnsPerSession:]
	}
	s.turns[summary.SessionID] = log
}

// Turns returns a copy of the session's turn log in order.
func (s *Store) Turns(sessionID string) []types.TurnSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.turns[sessionID]
	out := make([]types.TurnSummary, len(src))
	copy(out, src)
	return out
}
