package types

import "time"

// Word is one recognized token with its timing from the STT collaborator.
type Word struct {
	Text    string  `json:"text"`
	StartMs int64   `json:"start_ms"`
	EndMs   int64   `json:"end_ms"`
	Conf    float64 `json:"confidence,omitempty"`
}

// TranscriptFragment is one incremental STT result. Interim fragments may be
// superseded; a fragment with IsFinal=true is immutable.
type TranscriptFragment struct {
	SessionID string    `json:"session_id"`
	Seq       int64     `json:"seq"`
	Text      string    `json:"text"`
	Words     []Word    `json:"words,omitempty"`
	IsFinal   bool      `json:"is_final"`
	Ts        time.Time `json:"timestamp"`
}

// TurnSummary is the read-only per-turn record exposed for session logging.
type TurnSummary struct {
	SessionID  string    `json:"session_id"`
	TurnIndex  int       `json:"turn_index"`
	RawText    string    `json:"raw_text"`
	Normalized string    `json:"normalized_text"`
	Fluency    string    `json:"fluency_label"`
	RepairCase string    `json:"repair_case"`
	Act        string    `json:"dialogue_act"`
	Topic      string    `json:"topic,omitempty"`
	SystemText string    `json:"system_text"`
	ListenMs   int64     `json:"listen_ms"`
	DecideMs   int64     `json:"decide_ms"`
	SpeakMs    int64     `json:"speak_ms"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// Session is the per-conversation record kept for the process lifetime.
type Session struct {
	ID        string     `json:"session_id"`
	CreatedAt time.Time  `json:"created_at"`
	Status    string     `json:"status"` // created, active, closed
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}
