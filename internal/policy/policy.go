// Package policy is the single authority over what happens after a turn is
// finalized: it picks exactly one dialogue act and decides whether the LLM
// collaborator is invoked at all. Decisions are an ordered cascade, first
// match wins.
package policy

import (
	"olivia/dialogue/internal/fluency"
	"olivia/dialogue/internal/memory"
	"olivia/dialogue/internal/nudge"
	"olivia/dialogue/internal/repair"
)

type Act string

const (
	ActAsk     Act = "ASK"
	ActConfirm Act = "CONFIRM"
	ActRepair  Act = "REPAIR"
	ActNudge   Act = "NUDGE"
	ActHandoff Act = "HANDOFF_TO_LLM"
	ActClose   Act = "CLOSE"
)

// Decision is the single act emitted for a finalized turn, plus everything
// the engine needs to carry it out.
type Decision struct {
	Act Act

	// Utterance is set for canned acts (REPAIR, NUDGE, CLOSE) where no
	// generation happens.
	Utterance string

	// Handoff is set when Act is HANDOFF_TO_LLM.
	Handoff *GenerationRequest

	// Topic is the nudge topic introduced, if any.
	Topic string

	// EndSession is set on CLOSE.
	EndSession bool
}

// GenerationRequest is the constraint envelope passed to the LLM
// collaborator. The engine owns prompt assembly; the policy owns the
// constraints.
type GenerationRequest struct {
	UserText        string
	ActHint         Act // ASK or CONFIRM
	QuestionBudget  int // 0 or 1 for this generation
	DiscussedTopics []string
	BannedTopics    []string
	ChangeTopic     bool
	MaxSentences    int
}

type Config struct {
	SilentTurnsNudge int
	StuckTopicTurns  int
}

type Engine struct {
	cfg    Config
	nudges *nudge.Selector
}

func NewEngine(cfg Config, nudges *nudge.Selector) *Engine {
	return &Engine{cfg: cfg, nudges: nudges}
}

// Input is everything known about the finalized turn.
type Input struct {
	Repair     repair.Decision
	Intent     repair.RepeatIntent
	Fluency    fluency.Label
	Normalized string
}

// Canned lines for acts that never reach the LLM.
const (
	lineClose        = "Okay, I'll stop here. It was lovely talking with you."
	lineNoSpeech     = "Take your time. I'm happy to wait."
	lineVeryShort    = "I didn't quite get that. Could you tell me a little more?"
	lineAffirmation  = "Good. Shall we keep going?"
	lineRepeatFallbk = "Would you like me to rephrase what I said?"
	lineComplaint    = "I'm sorry about that. Let's talk about something else."
	lineExhausted    = "We've covered a lot today. Thank you for sharing all of it."
)

// Decide runs the cascade. It mutates mem on every branch: the turn is
// observed, topics are recorded or banned, and the question budget is
// consumed when an ASK goes out.
func (e *Engine) Decide(in Input, mem *memory.Memory) Decision {
	d := e.decide(in, mem)
	metricActs.WithLabelValues(string(d.Act)).Inc()
	metricRepairCases.WithLabelValues(string(in.Repair.Case)).Inc()
	return d
}

func (e *Engine) decide(in Input, mem *memory.Memory) Decision {
	// 1. Exit beats everything.
	if in.Repair.Case == repair.ExitRequest {
		return Decision{Act: ActClose, Utterance: lineClose, EndSession: true}
	}

	// 2. Repeat handling before other repair: the user is reacting to our
	// last utterance, not producing new content.
	switch in.Intent {
	case repair.IntentRepeatQuestion:
		if q := mem.LastSystemQuestion(); q != "" {
			return Decision{Act: ActRepair, Utterance: "Of course. " + q}
		}
		return Decision{Act: ActRepair, Utterance: lineRepeatFallbk}
	case repair.IntentClarify:
		return Decision{Act: ActRepair, Utterance: lineRepeatFallbk}
	case repair.IntentComplaint:
		mem.ForceTopicChange()
		if t, err := e.nudges.Select(mem); err == nil {
			mem.RecordTopic(t.ID)
			mem.ResetTopicCounter()
			return Decision{Act: ActNudge, Topic: t.ID, Utterance: "I'm sorry about that. " + t.Prompt}
		}
		return Decision{Act: ActRepair, Utterance: lineComplaint}
	}

	// 3. Persistent silence gets a proactive topic instead of another
	// repair line.
	if in.Repair.Case == repair.NoSpeech {
		if mem.SilentStreak()+1 >= e.cfg.SilentTurnsNudge {
			return e.nudgeOrClose(mem)
		}
		return Decision{Act: ActRepair, Utterance: lineNoSpeech}
	}

	// 4. Remaining degenerate cases are answered with canned repairs.
	switch in.Repair.Case {
	case repair.VeryShort:
		return Decision{Act: ActRepair, Utterance: lineVeryShort}
	case repair.AffirmationOnly:
		return Decision{Act: ActRepair, Utterance: lineAffirmation}
	}

	// 5. Normal content: hand off to the LLM under constraints.
	hint := ActAsk
	qb := 1
	if mem.QuestionPressure() >= 1 || fluency.NonFluent(in.Fluency) {
		// Low pressure for hesitant speakers and after recent questions.
		hint = ActConfirm
		qb = 0
	}
	if hint == ActAsk {
		if exhausted := mem.ConsumeQuestionBudget(); exhausted {
			hint = ActConfirm
			qb = 0
		}
	}

	changeTopic := mem.StuckOnTopic(e.cfg.StuckTopicTurns)
	if changeTopic {
		mem.ResetTopicCounter()
	}

	return Decision{
		Act: ActHandoff,
		Handoff: &GenerationRequest{
			UserText:        in.Normalized,
			ActHint:         hint,
			QuestionBudget:  qb,
			DiscussedTopics: mem.DiscussedTopics(),
			BannedTopics:    mem.BannedTopics(),
			ChangeTopic:     changeTopic,
			MaxSentences:    2,
		},
	}
}

// nudgeOrClose offers the next available topic, falling back to a closing
// act when the repertoire is exhausted.
func (e *Engine) nudgeOrClose(mem *memory.Memory) Decision {
	t, err := e.nudges.Select(mem)
	if err != nil {
		metricNudgeExhausted.Inc()
		return Decision{Act: ActClose, Utterance: lineExhausted, EndSession: true}
	}
	mem.RecordTopic(t.ID)
	mem.ResetTopicCounter()
	return Decision{Act: ActNudge, Topic: t.ID, Utterance: t.Prompt}
}
