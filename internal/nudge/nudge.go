// Package nudge picks a proactive topic prompt when the user is silent or
// stuck. Selection walks the configured repertoire in priority order and
// returns the first topic the memory still allows.
package nudge

import (
	"errors"

	"olivia/dialogue/internal/config"
	"olivia/dialogue/internal/memory"
)

// ErrExhausted is returned when no repertoire entry is available; the policy
// engine must fall back to a closing act.
var ErrExhausted = errors.New("nudge repertoire exhausted")

type Selector struct {
	repertoire []config.NudgeTopic
}

func NewSelector(repertoire []config.NudgeTopic) *Selector {
	return &Selector{repertoire: repertoire}
}

// Select returns the first available topic in priority order.
func (s *Selector) Select(mem *memory.Memory) (config.NudgeTopic, error) {
	for _, t := range s.repertoire {
		if mem.IsAvailable(t.ID) {
			return t, nil
		}
	}
	return config.NudgeTopic{}, ErrExhausted
}
