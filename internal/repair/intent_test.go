package repair

import "testing"

func TestRepeatIntentNone(t *testing.T) {
	for _, in := range []string{"", "we went to the market", "my hearing is not what it was"} {
		if got := ClassifyRepeatIntent(in); got == IntentRepeatQuestion || got == IntentClarify {
			t.Errorf("%q: unexpected repeat intent %s", in, got)
		}
	}
}

func TestRepeatIntentQuestion(t *testing.T) {
	for _, in := range []string{
		"could you repeat the question",
		"I didn't catch the question",
		"I didn't hear the last part",
	} {
		if got := ClassifyRepeatIntent(in); got != IntentRepeatQuestion {
			t.Errorf("%q: expected REPEAT_QUESTION, got %s", in, got)
		}
	}
}

func TestRepeatIntentClarify(t *testing.T) {
	if got := ClassifyRepeatIntent("pardon?"); got != IntentClarify {
		t.Fatalf("expected CLARIFY_OR_REPHRASE, got %s", got)
	}
}

func TestComplaintCheckedFirst(t *testing.T) {
	// Contains "repeat" but is a complaint, not a request.
	for _, in := range []string{
		"please stop repeating what I say",
		"why are you repeating me again",
		"I already said that, no need to repeat",
	} {
		if got := ClassifyRepeatIntent(in); got != IntentComplaint {
			t.Errorf("%q: expected COMPLAINT_ABOUT_REPETITION, got %s", in, got)
		}
	}
}
