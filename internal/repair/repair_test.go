package repair

import (
	"testing"
	"time"
)

func newTestDetector() *Detector {
	return NewDetector(Config{
		ExitKeywords:  []string{"exit", "quit", "goodbye", "bye", "stop"},
		ExitPhrases:   []string{"that's it for today", "we can stop now"},
		Affirmations:  []string{"yes", "yeah", "okay", "ok", "sure", "right"},
		WordFloor:     2,
		TrustASRWords: 3,
		MaxWait:       4 * time.Second,
	})
}

func TestNoSpeech(t *testing.T) {
	d := newTestDetector()
	dec := d.Detect("", 5*time.Second)
	if dec.Case != NoSpeech {
		t.Fatalf("expected NO_SPEECH, got %s", dec.Case)
	}
	dec = d.Detect("   ", 10*time.Second)
	if dec.Case != NoSpeech {
		t.Fatalf("expected NO_SPEECH for whitespace, got %s", dec.Case)
	}
}

func TestExitKeyword(t *testing.T) {
	d := newTestDetector()
	if dec := d.Detect("goodbye", 0); dec.Case != ExitRequest {
		t.Fatalf("expected EXIT_REQUEST, got %s", dec.Case)
	}
	if dec := d.Detect("I think that's it for today", 0); dec.Case != ExitRequest {
		t.Fatalf("expected EXIT_REQUEST for phrase, got %s", dec.Case)
	}
}

func TestExitBeatsAffirmation(t *testing.T) {
	// "okay bye" matches both lexicons; exit must win.
	d := NewDetector(Config{
		ExitKeywords:  []string{"okay bye", "bye"},
		Affirmations:  []string{"okay", "okay bye"},
		WordFloor:     2,
		TrustASRWords: 3,
		MaxWait:       4 * time.Second,
	})
	if dec := d.Detect("okay bye", 0); dec.Case != ExitRequest {
		t.Fatalf("expected EXIT_REQUEST to outrank AFFIRMATION_ONLY, got %s", dec.Case)
	}
}

func TestAffirmationOnly(t *testing.T) {
	d := newTestDetector()
	for _, in := range []string{"yes", "Yeah.", "okay!", "yeah that's right"} {
		if dec := d.Detect(in, 0); dec.Case != AffirmationOnly {
			t.Errorf("%q: expected AFFIRMATION_ONLY, got %s", in, dec.Case)
		}
	}
}

func TestLongUtteranceIsNone(t *testing.T) {
	d := newTestDetector()
	dec := d.Detect("we used to walk by the harbour every morning", 0)
	if dec.Case != None {
		t.Fatalf("expected NONE, got %s", dec.Case)
	}
}

func TestValidShortAnswerIsNone(t *testing.T) {
	d := newTestDetector()
	for _, in := range []string{"Denmark", "sometimes", "tired", "my garden"} {
		if dec := d.Detect(in, 0); dec.Case != None {
			t.Errorf("%q: expected NONE for valid short answer, got %s", in, dec.Case)
		}
	}
}

func TestVeryShort(t *testing.T) {
	d := newTestDetector()
	// Garbled short fragments that are not content answers.
	for _, in := range []string{"42", "t7 w"} {
		if dec := d.Detect(in, 0); dec.Case != VeryShort {
			t.Errorf("%q: expected VERY_SHORT, got %s", in, dec.Case)
		}
	}
}

func TestFreshDecisionPerTurn(t *testing.T) {
	// The detector holds no turn state: repeated calls are independent.
	d := newTestDetector()
	if dec := d.Detect("goodbye", 0); dec.Case != ExitRequest {
		t.Fatal("first call")
	}
	if dec := d.Detect("we walked along the beach yesterday", 0); dec.Case != None {
		t.Fatal("second call must not carry over the first case")
	}
}
