package features

import (
	"testing"

	"olivia/dialogue/internal/types"
)

func newTestExtractor() *Extractor {
	return NewExtractor([]string{"um", "uh", "erm", "hmm"})
}

func TestExtractEmpty(t *testing.T) {
	e := newTestExtractor()
	f := e.Extract("", nil)
	if f.WordCount != 0 || f.FillerCount != 0 || f.FillerRatio != 0 {
		t.Fatalf("empty input must yield zero features, got %+v", f)
	}
	f = e.Extract("   ", nil)
	if f.WordCount != 0 {
		t.Fatalf("whitespace input must yield zero word count, got %d", f.WordCount)
	}
}

func TestExtractFillers(t *testing.T) {
	e := newTestExtractor()
	f := e.Extract("um I uh went to the um shop", nil)
	if f.WordCount != 8 {
		t.Fatalf("expected 8 words, got %d", f.WordCount)
	}
	if f.FillerCount != 3 {
		t.Fatalf("expected 3 fillers, got %d", f.FillerCount)
	}
	if f.FillerRatio < 0.37 || f.FillerRatio > 0.38 {
		t.Fatalf("expected filler ratio 3/8, got %f", f.FillerRatio)
	}
}

func TestExtractTrailingConjunction(t *testing.T) {
	e := newTestExtractor()
	if !e.Extract("I went there and", nil).EndsWithConjunction {
		t.Error("trailing 'and' should set EndsWithConjunction")
	}
	if !e.Extract("because it was cold so.", nil).EndsWithConjunction {
		t.Error("trailing 'so.' should set EndsWithConjunction")
	}
	if e.Extract("the sandwich was good", nil).EndsWithConjunction {
		t.Error("'and' mid-sentence must not count as trailing")
	}
}

func TestExtractHesitationMarkers(t *testing.T) {
	e := newTestExtractor()
	f := e.Extract("I mean, no wait, it was Tuesday, sorry", nil)
	if f.HesitationCount != 3 {
		t.Fatalf("expected 3 hesitation markers, got %d", f.HesitationCount)
	}
}

func TestExtractDuration(t *testing.T) {
	e := newTestExtractor()
	words := []types.Word{
		{Text: "hello", StartMs: 100, EndMs: 500},
		{Text: "there", StartMs: 700, EndMs: 1300},
	}
	f := e.Extract("hello there", words)
	if f.Duration.Milliseconds() != 1200 {
		t.Fatalf("expected 1200ms duration, got %d", f.Duration.Milliseconds())
	}
}

func TestRepetitionScore(t *testing.T) {
	e := newTestExtractor()
	if s := e.Extract("one two three four", nil).RepetitionScore; s != 0 {
		t.Fatalf("distinct words should score 0, got %f", s)
	}
	if s := e.Extract("the the the the", nil).RepetitionScore; s < 0.7 {
		t.Fatalf("heavy repetition should score high, got %f", s)
	}
}
