package nudge

import (
	"errors"
	"testing"

	"olivia/dialogue/internal/config"
	"olivia/dialogue/internal/memory"
)

func testRepertoire() []config.NudgeTopic {
	return []config.NudgeTopic{
		{ID: "family", Prompt: "Tell me about your family."},
		{ID: "work", Prompt: "What kind of work did you do?"},
		{ID: "places", Prompt: "Is there a place that's special to you?"},
	}
}

func TestSelectFirstAvailable(t *testing.T) {
	s := NewSelector(testRepertoire())
	mem := memory.New(5)
	got, err := s.Select(mem)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got.ID != "family" {
		t.Fatalf("expected priority order to pick family, got %s", got.ID)
	}
}

func TestSelectSkipsDiscussedAndBanned(t *testing.T) {
	s := NewSelector(testRepertoire())
	mem := memory.New(5)
	mem.RecordTopic("family")
	mem.BanTopic("work")
	got, err := s.Select(mem)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got.ID != "places" {
		t.Fatalf("expected places, got %s", got.ID)
	}
}

func TestSelectExhausted(t *testing.T) {
	s := NewSelector(testRepertoire())
	mem := memory.New(5)
	mem.RecordTopic("family")
	mem.RecordTopic("places")
	mem.BanTopic("work")
	_, err := s.Select(mem)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}
