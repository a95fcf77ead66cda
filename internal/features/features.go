// Package features derives per-utterance signals from a transcript fragment.
// Extraction is a pure function of the text and word timings; an empty input
// yields all-zero features.
package features

import (
	"regexp"
	"strings"
	"time"

	"olivia/dialogue/internal/types"
)

var (
	trailingConj = regexp.MustCompile(`(?i)\b(and|because|so|but|then|or)\b[.!\s]*$`)
	hesitation   = regexp.MustCompile(`(?i)\b(i mean|sorry|no\s+wait|no,\s*wait|let me)\b`)
)

type Features struct {
	WordCount            int
	FillerCount          int
	FillerRatio          float64
	EndsWithConjunction  bool
	HesitationCount      int
	EndsWithPunctuation  bool
	RepetitionScore      float64
	Duration             time.Duration
}

// Extractor holds the filler lexicon the extractor counts against.
type Extractor struct {
	fillers map[string]bool
}

func NewExtractor(fillers []string) *Extractor {
	m := make(map[string]bool, len(fillers))
	for _, f := range fillers {
		m[strings.ToLower(strings.TrimSpace(f))] = true
	}
	return &Extractor{fillers: m}
}

// Extract computes features for one utterance. Word timings are optional;
// without them Duration stays zero.
func (e *Extractor) Extract(text string, words []types.Word) Features {
	t := strings.TrimSpace(text)
	if t == "" {
		return Features{}
	}

	tokens := strings.Fields(strings.ToLower(t))
	wc := len(tokens)

	fillerCount := 0
	for _, tok := range tokens {
		if e.fillers[strings.Trim(tok, ".,!?;:")] {
			fillerCount++
		}
	}
	ratio := 0.0
	if wc > 0 {
		ratio = float64(fillerCount) / float64(wc)
	}

	f := Features{
		WordCount:           wc,
		FillerCount:         fillerCount,
		FillerRatio:         ratio,
		EndsWithConjunction: trailingConj.MatchString(t),
		HesitationCount:     len(hesitation.FindAllString(t, -1)),
		EndsWithPunctuation: strings.HasSuffix(t, ".") || strings.HasSuffix(t, "!") || strings.HasSuffix(t, "?"),
		RepetitionScore:     repetitionScore(tokens),
	}

	if len(words) > 0 {
		first := words[0].StartMs
		last := words[len(words)-1].EndMs
		if last > first {
			f.Duration = time.Duration(last-first) * time.Millisecond
		}
	}
	return f
}

// repetitionScore measures local repetition over the trailing window:
// repeated tokens per window token, 0 when all distinct.
func repetitionScore(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	tail := tokens
	if len(tail) > 10 {
		tail = tail[len(tail)-10:]
	}
	seen := make(map[string]bool, len(tail))
	for _, w := range tail {
		seen[w] = true
	}
	return float64(len(tail)-len(seen)) / float64(len(tail))
}
