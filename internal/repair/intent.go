package repair

import "strings"

// RepeatIntent distinguishes a user asking for repetition from a user
// complaining that the system keeps repeating itself. Complaints are checked
// first: "stop repeating" contains repeat-like tokens but is the opposite
// request.
type RepeatIntent string

const (
	IntentNone           RepeatIntent = "NONE"
	IntentRepeatQuestion RepeatIntent = "REPEAT_QUESTION"
	IntentClarify        RepeatIntent = "CLARIFY_OR_REPHRASE"
	IntentComplaint      RepeatIntent = "COMPLAINT_ABOUT_REPETITION"
)

var repeatTriggers = []string{
	"repeat", "say again", "again please", "once more",
	"didn't hear", "did not hear", "didn't catch", "did not catch",
	"pardon", "could you repeat",
}

var complaintSignals = []string{
	"stop repeating", "don't repeat", "do not repeat", "keep repeating",
	"going in circles", "you repeating", "are repeating", "were repeating",
	"why repeat", "no need to repeat", "don't need to repeat",
	"that's what i said", "i just said", "i already said",
	"already told you", "just told you",
}

var questionHints = []string{
	"question", "last part", "end of the sentence", "end of your sentence",
	"what did you say", "what you said",
}

// ClassifyRepeatIntent is deliberately conservative: ambiguous repeat-like
// input resolves to a clarify act rather than replaying a long response.
func ClassifyRepeatIntent(text string) RepeatIntent {
	low := strings.ToLower(strings.TrimSpace(text))
	if low == "" {
		return IntentNone
	}
	for _, sig := range complaintSignals {
		if strings.Contains(low, sig) {
			return IntentComplaint
		}
	}
	matched := false
	for _, trg := range repeatTriggers {
		if strings.Contains(low, trg) {
			matched = true
			break
		}
	}
	if !matched {
		return IntentNone
	}
	for _, h := range questionHints {
		if strings.Contains(low, h) {
			return IntentRepeatQuestion
		}
	}
	return IntentClarify
}
