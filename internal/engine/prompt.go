package engine

import (
	"fmt"
	"strings"

	"olivia/dialogue/internal/llm"
	"olivia/dialogue/internal/policy"
	"olivia/dialogue/internal/types"
)

// historyTurns is how many recent turns are replayed into the prompt.
const historyTurns = 6

const personaPrompt = `You are a warm, patient companion for an elderly person.
Speak simply and slowly. Use short sentences. Never use lists or headings.
Do not begin replies by reflecting back what the person said.`

// buildMessages assembles the chat transcript for one generation: persona
// plus constraints as the system message, recent turns as history, then the
// current utterance.
func buildMessages(req *policy.GenerationRequest, history []types.TurnSummary) []llm.Message {
	var sb strings.Builder
	sb.WriteString(personaPrompt)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Reply in at most %d sentences.\n", req.MaxSentences)
	if req.QuestionBudget > 0 {
		sb.WriteString("You may ask at most one gentle follow-up question.\n")
	} else {
		sb.WriteString("Do not ask any question. Acknowledge and build on what was said.\n")
	}
	if req.ChangeTopic {
		sb.WriteString("Gently steer the conversation toward something new.\n")
	}
	if len(req.DiscussedTopics) > 0 {
		fmt.Fprintf(&sb, "Topics already discussed: %s.\n", strings.Join(req.DiscussedTopics, ", "))
	}
	if len(req.BannedTopics) > 0 {
		fmt.Fprintf(&sb, "Never bring up these topics again: %s.\n", strings.Join(req.BannedTopics, ", "))
	}

	msgs := []llm.Message{{Role: "system", Content: sb.String()}}

	start := 0
	if len(history) > historyTurns {
		start = len(history) - historyTurns
	}
	for _, t := range history[start:] {
		if t.Normalized != "" {
			msgs = append(msgs, llm.Message{Role: "user", Content: t.Normalized})
		}
		if t.SystemText != "" {
			msgs = append(msgs, llm.Message{Role: "assistant", Content: t.SystemText})
		}
	}

	msgs = append(msgs, llm.Message{Role: "user", Content: req.UserText})
	return msgs
}
