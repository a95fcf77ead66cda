// Package turntake owns end-of-turn detection. The machine is driven purely
// by events and explicit timestamps: speech arrivals, TTS lifecycle, and
// Tick calls against deadline values. No real timers live here, so reset
// and cancellation are trivial and the logic tests without wall time.
package turntake

import (
	"log"
	"time"
)

type State string

const (
	// Idle gates out user speech while the system talks or between turns.
	Idle         State = "IDLE"
	Listening    State = "LISTENING"
	GraceWait    State = "GRACE_WAIT"
	TurnComplete State = "TURN_COMPLETE"
	TimedOut     State = "TIMED_OUT"
)

type PauseTier string

const (
	TierShort  PauseTier = "SHORT"
	TierMedium PauseTier = "MEDIUM"
	TierLong   PauseTier = "LONG"
)

type Config struct {
	PauseShort  time.Duration
	PauseMedium time.Duration
	PauseLong   time.Duration

	// MinPause is the silence interval that counts as a pause at all and
	// moves LISTENING to GRACE_WAIT.
	MinPause time.Duration

	// MinListen is the shortest time a turn stays open before a grace
	// expiry may end it.
	MinListen time.Duration

	// MaxSilence is the absolute bound on silence before the turn times
	// out, independent of the per-turn tier.
	MaxSilence time.Duration

	// FluentStreak is how many consecutive FLUENT turns earn the SHORT
	// tier. Below it, fluent speakers get MEDIUM.
	FluentStreak int

	BargeIn bool
}

// Result tells the engine what a machine event caused.
type Result struct {
	TurnEnded bool
	TimedOut  bool
	StopTTS   bool // barge-in: interrupt playback now
}

type Machine struct {
	cfg   Config
	state State

	tier     PauseTier
	tierDur  time.Duration
	started  time.Time
	lastWord time.Time
	heardAny bool
	speaking bool // TTS playback in progress
}

func New(cfg Config) *Machine {
	if cfg.MinPause <= 0 {
		cfg.MinPause = 300 * time.Millisecond
	}
	return &Machine{cfg: cfg, state: Idle}
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Tier() PauseTier { return m.tier }

// TierDuration resolves a tier to its configured grace duration.
func (m *Machine) TierDuration(t PauseTier) time.Duration {
	switch t {
	case TierShort:
		return m.cfg.PauseShort
	case TierLong:
		return m.cfg.PauseLong
	default:
		return m.cfg.PauseMedium
	}
}

// TierFor selects the pause tier for the next turn from the previous turn's
// fluency label. Non-fluent speakers always get the LONG grace period;
// SHORT is earned only by a sustained fluent streak.
func (m *Machine) TierFor(prevLabel string, fluentStreak int) PauseTier {
	switch prevLabel {
	case "HESITANT", "FRAGMENTED", "SILENT":
		return TierLong
	case "FLUENT":
		if m.cfg.FluentStreak > 0 && fluentStreak >= m.cfg.FluentStreak {
			return TierShort
		}
		return TierMedium
	default:
		// First turn: no label yet.
		return TierMedium
	}
}

// StartTurn opens a new turn. The tier comes from the previous turn's label
// because the current utterance is still unknown.
func (m *Machine) StartTurn(tier PauseTier, now time.Time) {
	m.setState(Listening)
	m.tier = tier
	m.tierDur = m.TierDuration(tier)
	m.started = now
	m.lastWord = time.Time{}
	m.heardAny = false
}

// OnSpeech handles arrival of new transcript content at time now.
func (m *Machine) OnSpeech(now time.Time) Result {
	if m.speaking {
		if !m.cfg.BargeIn {
			// Ignore echo and back-channel during playback.
			return Result{}
		}
		metricBargeIns.Inc()
		m.speaking = false
		m.setState(Listening)
		m.started = now
		m.lastWord = now
		m.heardAny = true
		return Result{StopTTS: true}
	}

	switch m.state {
	case Listening:
		m.lastWord = now
		m.heardAny = true
	case GraceWait:
		// User resumed: timer reset, not cumulative.
		metricGraceResets.Inc()
		m.setState(Listening)
		m.lastWord = now
		m.heardAny = true
	}
	return Result{}
}

// Tick evaluates deadlines at time now. The engine calls it whenever its
// timer fires or any event arrives.
func (m *Machine) Tick(now time.Time) Result {
	switch m.state {
	case Listening:
		if !now.Before(m.silenceStart().Add(m.cfg.MaxSilence)) {
			return m.timeout()
		}
		if m.heardAny && now.Sub(m.lastWord) >= m.cfg.MinPause {
			m.setState(GraceWait)
			// fall through to the GraceWait check below in case the tier
			// already elapsed too
			return m.Tick(now)
		}
	case GraceWait:
		if !now.Before(m.silenceStart().Add(m.cfg.MaxSilence)) {
			return m.timeout()
		}
		if now.Sub(m.lastWord) >= m.tierDur && now.Sub(m.started) >= m.cfg.MinListen {
			m.setState(TurnComplete)
			metricTurnsCompleted.Inc()
			return Result{TurnEnded: true}
		}
	}
	return Result{}
}

// NextDeadline returns the earliest instant a Tick could change state, or
// zero when no deadline is pending.
func (m *Machine) NextDeadline() time.Time {
	switch m.state {
	case Listening:
		abs := m.silenceStart().Add(m.cfg.MaxSilence)
		if !m.heardAny {
			return abs
		}
		pause := m.lastWord.Add(m.cfg.MinPause)
		if pause.Before(abs) {
			return pause
		}
		return abs
	case GraceWait:
		grace := m.lastWord.Add(m.tierDur)
		if min := m.started.Add(m.cfg.MinListen); grace.Before(min) {
			grace = min
		}
		abs := m.silenceStart().Add(m.cfg.MaxSilence)
		if grace.Before(abs) {
			return grace
		}
		return abs
	}
	return time.Time{}
}

// OnTTSStarted gates the machine while system speech plays.
func (m *Machine) OnTTSStarted() {
	m.speaking = true
	m.setState(Idle)
}

// OnTTSFinished releases the playback gate. The engine starts the next turn
// explicitly via StartTurn.
func (m *Machine) OnTTSFinished() {
	m.speaking = false
}

// Reset returns the machine to Idle after the turn's act is emitted.
func (m *Machine) Reset() {
	m.setState(Idle)
	m.heardAny = false
	m.lastWord = time.Time{}
}

func (m *Machine) timeout() Result {
	m.setState(TimedOut)
	metricTimeouts.Inc()
	return Result{TurnEnded: true, TimedOut: true}
}

// silenceStart is the reference point for the absolute silence bound.
func (m *Machine) silenceStart() time.Time {
	if m.heardAny {
		return m.lastWord
	}
	return m.started
}

func (m *Machine) setState(to State) {
	from := m.state
	if from == to {
		return
	}
	metricStateTransitions.WithLabelValues(string(from), string(to)).Inc()
	m.state = to
	log.Printf("[turntake] %s -> %s", from, to)
}
