// Package normalize cleans a raw transcript before it reaches the LLM prompt
// or the turn log: filler tokens are removed and immediately repeated
// tokens or short n-grams collapse to one instance. Normalization is
// idempotent and never reorders or invents tokens.
package normalize

import (
	"strings"
)

// maxNGram bounds the repetition window: "I went I went to" collapses the
// bigram, longer flashbacks are left alone.
const maxNGram = 3

type Normalizer struct {
	fillers map[string]bool
}

func New(fillers []string) *Normalizer {
	m := make(map[string]bool, len(fillers))
	for _, f := range fillers {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			m[f] = true
		}
	}
	return &Normalizer{fillers: m}
}

// Normalize removes fillers then collapses adjacent repetitions.
func (n *Normalizer) Normalize(text string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return ""
	}
	tokens := strings.Fields(t)
	tokens = n.stripFillers(tokens)
	tokens = collapseRepeats(tokens)
	return strings.Join(tokens, " ")
}

func (n *Normalizer) stripFillers(tokens []string) []string {
	out := tokens[:0:0]
	for _, tok := range tokens {
		if n.fillers[canon(tok)] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// collapseRepeats drops a token run that exactly repeats the tail of the
// emitted output (n-grams of 1..maxNGram, largest first), so "no no no" and
// "I went I went" both collapse. A token is only emitted when it does not
// extend a repeat, which makes the collapse idempotent. Comparison is case-
// and punctuation-insensitive; the first occurrence's surface form is kept.
func collapseRepeats(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		skipped := false
		for size := maxNGram; size >= 1; size-- {
			if size > len(out) || i+size > len(tokens) {
				continue
			}
			if ngramEqual(out[len(out)-size:], tokens[i:i+size]) {
				i += size
				skipped = true
				break
			}
		}
		if !skipped {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}

func ngramEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if canon(a[i]) != canon(b[i]) {
			return false
		}
	}
	return true
}

func canon(tok string) string {
	return strings.Trim(strings.ToLower(tok), ".,!?;:")
}
