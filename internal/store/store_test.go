package store

import (
	"testing"

	"olivia/dialogue/internal/types"
)

func TestSessionLifecycle(t *testing.T) {
	s := New()
	sess := s.CreateSession()
	if sess.ID == "" || sess.Status != "created" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if got := s.GetSession(sess.ID); got == nil || got.ID != sess.ID {
		t.Fatalf("Get did not return the created session")
	}
	if !s.SetStatus(sess.ID, "closed") {
		t.Fatal("SetStatus on known session returned false")
	}
	got := s.GetSession(sess.ID)
	if got.Status != "closed" || got.ClosedAt == nil {
		t.Fatalf("close not recorded: %+v", got)
	}
	if s.SetStatus("nope", "active") {
		t.Error("SetStatus on unknown session returned true")
	}
}

func TestTurnLogOrderAndCopy(t *testing.T) {
	s := New()
	sess := s.CreateSession()
	for i := 0; i < 3; i++ {
		s.AppendTurn(types.TurnSummary{SessionID: sess.ID, TurnIndex: i + 1})
	}
	turns := s.Turns(sess.ID)
	if len(turns) != 3 {
		t.Fatalf("got %d turns, want 3", len(turns))
	}
	for i, ts := range turns {
		if ts.TurnIndex != i+1 {
			t.Errorf("turn %d out of order: %+v", i, ts)
		}
	}
	turns[0].RawText = "mutated"
	if s.Turns(sess.ID)[0].RawText == "mutated" {
		t.Error("Turns returned shared backing storage")
	}
}

func TestTurnLogCap(t *testing.T) {
	s := New()
	sess := s.CreateSession()
	for i := 0; i < maxTurnsPerSession+10; i++ {
		s.AppendTurn(types.TurnSummary{SessionID: sess.ID, TurnIndex: i})
	}
	turns := s.Turns(sess.ID)
	if len(turns) != maxTurnsPerSession {
		t.Fatalf("got %d turns, want cap %d", len(turns), maxTurnsPerSession)
	}
	if turns[0].TurnIndex != 10 {
		t.Errorf("oldest retained turn is %d, want 10", turns[0].TurnIndex)
	}
}
