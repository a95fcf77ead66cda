// Package guards post-processes generated system text before it is spoken.
// The main hazard with a template-following LLM is parroting: opening every
// reply with a reflective stem like "it sounds like you enjoyed that", which
// elderly listeners hear as the system talking at them rather than with them.
package guards

import (
	"strings"
	"unicode"
)

// Reflective stems stripped from the front of generated replies. Matching is
// case-insensitive and longest-first.
var bannedPrefixes = []string{
	"it sounds like you said",
	"it sounds like",
	"that sounds like",
	"it seems like",
	"it seems that",
	"it must be",
	"it must have been",
	"so what you're saying is",
	"what i'm hearing is",
}

// ScrubParroting removes a banned reflective stem from the start of text and
// re-capitalizes what remains. Text without a banned stem passes through
// unchanged.
func ScrubParroting(text string) string {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	for _, p := range longestFirst {
		if !strings.HasPrefix(lower, p) {
			continue
		}
		rest := strings.TrimSpace(trimmed[len(p):])
		rest = strings.TrimLeft(rest, ",;:")
		rest = strings.TrimSpace(rest)
		if rest == "" {
			// Nothing left to say; keep the original rather than go mute.
			return trimmed
		}
		metricScrubbed.Inc()
		return capitalize(rest)
	}
	return trimmed
}

var longestFirst = func() []string {
	ps := append([]string(nil), bannedPrefixes...)
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && len(ps[j]) > len(ps[j-1]); j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}
	return ps
}()

func capitalize(s string) string {
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
