// Package memory holds the per-session conversation state the policy engine
// consults: discussed and banned topics, the question budget, and recent
// fluency history. One Memory belongs to exactly one session engine; all
// mutation goes through its methods.
package memory

import (
	"strings"
	"sync"
)

// questionWindow is the number of recent system turns the rolling question
// pressure is computed over.
const questionWindow = 3

type Memory struct {
	mu sync.Mutex

	turnIndex int

	discussed     []string // insertion order kept for the summary surface
	discussedSet  map[string]bool
	banned        map[string]bool
	currentTopic  string
	turnsOnTopic  int

	budget        int
	budgetCeiling int

	recentQuestions []int // questions per system turn, newest last
	lastFluency     string
	fluentStreak    int
	silentStreak    int

	lastSystemQuestion string
}

func New(questionBudget int) *Memory {
	if questionBudget < 0 {
		questionBudget = 0
	}
	return &Memory{
		discussedSet:  make(map[string]bool),
		banned:        make(map[string]bool),
		budget:        questionBudget,
		budgetCeiling: questionBudget,
	}
}

// RecordTopic marks a topic discussed. Idempotent; discussed topics are
// never removed within a session.
func (m *Memory) RecordTopic(topicID string) {
	if topicID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.discussedSet[topicID] {
		m.discussedSet[topicID] = true
		m.discussed = append(m.discussed, topicID)
	}
	if m.currentTopic != topicID {
		m.currentTopic = topicID
		m.turnsOnTopic = 0
	}
}

func (m *Memory) BanTopic(topicID string) {
	if topicID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banned[topicID] = true
}

// IsAvailable reports whether a topic can still be offered: not banned and
// not already discussed.
func (m *Memory) IsAvailable(topicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.banned[topicID] && !m.discussedSet[topicID]
}

// ConsumeQuestionBudget decrements the budget and reports whether it was
// already exhausted. The counter never goes below zero.
func (m *Memory) ConsumeQuestionBudget() (exhausted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.budget <= 0 {
		return true
	}
	m.budget--
	return false
}

func (m *Memory) BudgetRemaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.budget
}

// QuestionPressure is the number of questions asked across the last few
// system turns — a rolling complement to the session ceiling that keeps the
// system from interrogating even while budget remains.
func (m *Memory) QuestionPressure() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, q := range m.recentQuestions {
		sum += q
	}
	return sum
}

// ObserveTurn records the outcome of one completed turn.
func (m *Memory) ObserveTurn(fluencyLabel, systemText string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turnIndex++
	m.turnsOnTopic++

	m.lastFluency = fluencyLabel
	if fluencyLabel == "FLUENT" {
		m.fluentStreak++
	} else {
		m.fluentStreak = 0
	}
	if fluencyLabel == "SILENT" {
		m.silentStreak++
	} else {
		m.silentStreak = 0
	}

	m.noteSystemText(systemText)
}

// NoteSystemUtterance records system speech that happens outside a turn,
// such as the session greeting, so repeat handling and question pressure
// see it without advancing the turn counters.
func (m *Memory) NoteSystemUtterance(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noteSystemText(text)
}

func (m *Memory) noteSystemText(text string) {
	q := countQuestions(text)
	m.recentQuestions = append(m.recentQuestions, q)
	if len(m.recentQuestions) > questionWindow {
		m.recentQuestions = m.recentQuestions[len(m.recentQuestions)-questionWindow:]
	}
	if q > 0 {
		m.lastSystemQuestion = lastQuestionSentence(text)
	}
}

func (m *Memory) TurnIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turnIndex
}

func (m *Memory) LastFluency() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFluency
}

func (m *Memory) FluentStreak() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fluentStreak
}

func (m *Memory) SilentStreak() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.silentStreak
}

// StuckOnTopic reports whether the conversation has sat on the current
// topic for at least limit turns.
func (m *Memory) StuckOnTopic(limit int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return limit > 0 && m.turnsOnTopic >= limit
}

// ForceTopicChange marks the current topic stale so the next selection must
// move on; used when the user complains about repetition.
func (m *Memory) ForceTopicChange() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentTopic != "" {
		m.banned[m.currentTopic] = true
	}
	m.turnsOnTopic = 1 << 16
}

func (m *Memory) ResetTopicCounter() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnsOnTopic = 0
}

func (m *Memory) CurrentTopic() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTopic
}

// DiscussedTopics returns the discussed list in insertion order.
func (m *Memory) DiscussedTopics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.discussed))
	copy(out, m.discussed)
	return out
}

func (m *Memory) BannedTopics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.banned))
	for t := range m.banned {
		out = append(out, t)
	}
	return out
}

func (m *Memory) LastSystemQuestion() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSystemQuestion
}

func countQuestions(text string) int {
	n := 0
	for _, r := range text {
		if r == '?' {
			n++
		}
	}
	return n
}

// lastQuestionSentence returns the trailing question sentence of text, for
// replay on a repeat request.
func lastQuestionSentence(text string) string {
	last := ""
	start := 0
	for i, r := range text {
		switch r {
		case '?':
			last = text[start : i+1]
			start = i + 1
		case '.', '!':
			start = i + 1
		}
	}
	return strings.TrimSpace(last)
}
