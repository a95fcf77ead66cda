package normalize

import "testing"

func newTestNormalizer() *Normalizer {
	return New([]string{"um", "uh", "erm", "hmm"})
}

func TestNormalizeRemovesFillers(t *testing.T) {
	n := newTestNormalizer()
	got := n.Normalize("um I went uh to the shop")
	if got != "I went to the shop" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeCollapsesTokenRepeats(t *testing.T) {
	n := newTestNormalizer()
	got := n.Normalize("no no no I was there")
	if got != "no I was there" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeCollapsesNGramRepeats(t *testing.T) {
	n := newTestNormalizer()
	got := n.Normalize("I went I went to the garden")
	if got != "I went to the garden" {
		t.Fatalf("got %q", got)
	}
	got = n.Normalize("in the morning in the morning we walked")
	if got != "in the morning we walked" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeKeepsInterveningContent(t *testing.T) {
	n := newTestNormalizer()
	// "no" repeats but with distinct content between; nothing collapses.
	got := n.Normalize("no milk no sugar")
	if got != "no milk no sugar" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newTestNormalizer()
	inputs := []string{
		"",
		"um uh erm",
		"no no no I was there",
		"I went I went to the shop um twice",
		"the the the end",
		"a b a b b",
		"plain sentence with nothing to do",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizeNeverReorders(t *testing.T) {
	n := newTestNormalizer()
	got := n.Normalize("first um second third")
	if got != "first second third" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	n := newTestNormalizer()
	if got := n.Normalize("   "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestNormalizeCaseInsensitiveRepeat(t *testing.T) {
	n := newTestNormalizer()
	got := n.Normalize("No no I remember")
	if got != "No I remember" {
		t.Fatalf("got %q", got)
	}
}
