// Package repair classifies degenerate turns that must be answered with a
// canned act instead of LLM generation. The cascade is a fixed priority
// list: NO_SPEECH, EXIT_REQUEST, VERY_SHORT, AFFIRMATION_ONLY, NONE.
package repair

import (
	"strings"
	"time"
)

type Case string

const (
	None            Case = "NONE"
	NoSpeech        Case = "NO_SPEECH"
	VeryShort       Case = "VERY_SHORT"
	AffirmationOnly Case = "AFFIRMATION_ONLY"
	ExitRequest     Case = "EXIT_REQUEST"
)

// Decision carries the case plus the matched reason for the turn log.
type Decision struct {
	Case   Case
	Reason string
}

type Config struct {
	ExitKeywords  []string
	ExitPhrases   []string
	Affirmations  []string
	WordFloor     int           // at or below this is VERY_SHORT unless excused
	TrustASRWords int           // at or above this many words the text stands
	MaxWait       time.Duration // silence beyond this with no words is NO_SPEECH
}

type Detector struct {
	cfg          Config
	exitKeywords map[string]bool
	affirmations map[string]bool
}

func NewDetector(cfg Config) *Detector {
	d := &Detector{
		cfg:          cfg,
		exitKeywords: toSet(cfg.ExitKeywords),
		affirmations: toSet(cfg.Affirmations),
	}
	return d
}

// Detect runs the cascade over the normalized text. elapsed is the silence
// observed by the turn machine for this turn.
func (d *Detector) Detect(normalized string, elapsed time.Duration) Decision {
	text := strings.TrimSpace(normalized)
	low := strings.ToLower(text)
	words := strings.Fields(low)

	if len(words) == 0 {
		if elapsed >= d.cfg.MaxWait {
			return Decision{Case: NoSpeech, Reason: "silence exceeded max wait"}
		}
		return Decision{Case: NoSpeech, Reason: "no words recognized"}
	}

	if d.exitKeywords[low] {
		return Decision{Case: ExitRequest, Reason: "exit keyword"}
	}
	for _, p := range d.cfg.ExitPhrases {
		if p != "" && strings.Contains(low, p) {
			return Decision{Case: ExitRequest, Reason: "exit phrase"}
		}
	}

	if d.isAffirmation(low, words) {
		return Decision{Case: AffirmationOnly, Reason: "affirmation only"}
	}

	if len(words) >= d.cfg.TrustASRWords {
		return Decision{Case: None, Reason: "enough text"}
	}
	if validShortAnswer(low, words) {
		return Decision{Case: None, Reason: "valid short answer"}
	}
	if len(words) <= d.cfg.WordFloor {
		return Decision{Case: VeryShort, Reason: "utterance too short"}
	}
	return Decision{Case: None, Reason: "sufficient input"}
}

// isAffirmation matches the configured affirmation lexicon, alone or with a
// short trailing tail ("yeah that's right").
func (d *Detector) isAffirmation(low string, words []string) bool {
	trimmed := strings.Trim(low, ".!? ")
	if d.affirmations[trimmed] {
		return true
	}
	if len(words) <= 4 {
		first := strings.Trim(words[0], ".,!?")
		if d.affirmations[first] {
			return true
		}
	}
	return false
}

// validShortAnswer excuses meaningful one- or two-word content answers
// ("Denmark", "sometimes", "tired") from the VERY_SHORT case.
func validShortAnswer(low string, words []string) bool {
	known := map[string]bool{
		"no": true, "nope": true, "maybe": true, "sometimes": true,
		"often": true, "rarely": true, "fine": true, "good": true,
		"tired": true, "happy": true, "sad": true,
	}
	trimmed := strings.Trim(low, ".!? ")
	if known[trimmed] {
		return true
	}
	if len(words) > 2 {
		return false
	}
	return isAlphaPhrase(trimmed)
}

func isAlphaPhrase(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == ' ' || r == '-' || (r >= 'a' && r <= 'z')) {
			return false
		}
	}
	return true
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		it = strings.ToLower(strings.TrimSpace(it))
		if it != "" {
			m[it] = true
		}
	}
	return m
}
