package session

import (
	"testing"
	"time"

	"github.com/dgallion1/lessonscript/internal/editor"
	"github.com/dgallion1/lessonscript/internal/script"
)

func TestSession_TextTracksMutations(t *testing.T) {
	s := New("Ann: one", script.Options{})
	if s.Text() != "Ann: one" {
		t.Fatalf("expected initial text, got %q", s.Text())
	}

	s.Do(func(c *editor.Controller) {
		id := c.Document().Blocks[0].ID
		content := "two"
		c.EditBlock(id, editor.Patch{Content: &content})
	})
	if s.Text() != "Ann: two" {
		t.Errorf("expected text updated by mutation, got %q", s.Text())
	}
}

func TestSession_DoAdvancesUpdatedAt(t *testing.T) {
	s := New("Ann: one", script.Options{})
	before := s.UpdatedAt()
	time.Sleep(time.Millisecond)
	s.Do(func(c *editor.Controller) {})
	if !s.UpdatedAt().After(before) {
		t.Error("expected UpdatedAt to advance after Do")
	}
}

func TestStore_PutGetDelete(t *testing.T) {
	st := NewStore(time.Hour)
	s := New("Ann: one", script.Options{})
	st.Put(s)

	if got := st.Get(s.ID); got == nil || got.ID != s.ID {
		t.Fatalf("expected to get session back, got %v", got)
	}
	if st.Len() != 1 {
		t.Errorf("expected len 1, got %d", st.Len())
	}

	st.Delete(s.ID)
	if st.Get(s.ID) != nil {
		t.Error("expected session gone after delete")
	}
}

func TestStore_GetMissing(t *testing.T) {
	st := NewStore(time.Hour)
	if st.Get("nonexistent") != nil {
		t.Error("expected nil for missing session")
	}
}

func TestStore_TTLCleanup(t *testing.T) {
	st := NewStore(50 * time.Millisecond)

	stale := New("Ann: old", script.Options{})
	st.Put(stale)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := New("Ann: new", script.Options{})
	st.Put(fresh)

	st.Cleanup()

	if st.Get(stale.ID) != nil {
		t.Error("expected stale session to be evicted")
	}
	if st.Get(fresh.ID) == nil {
		t.Error("expected fresh session to survive cleanup")
	}
}

func TestStore_CleanupEmpty(t *testing.T) {
	st := NewStore(time.Hour)
	// Should not panic on empty store.
	st.Cleanup()
}

func TestOpStats_Snapshot(t *testing.T) {
	s := NewOpStats(time.Hour)
	for _, d := range []time.Duration{
		100 * time.Microsecond,
		200 * time.Microsecond,
		300 * time.Microsecond,
		400 * time.Microsecond,
	} {
		s.Record(d)
	}

	snap := s.Snapshot()
	if snap.Count != 4 {
		t.Fatalf("expected 4 samples, got %d", snap.Count)
	}
	if snap.MinUs != 100 {
		t.Errorf("expected min 100us, got %d", snap.MinUs)
	}
	if snap.MaxUs != 400 {
		t.Errorf("expected max 400us, got %d", snap.MaxUs)
	}
	if snap.AvgUs != 250 {
		t.Errorf("expected avg 250us, got %f", snap.AvgUs)
	}
	if snap.P50Us != 250 {
		t.Errorf("expected p50 250us, got %f", snap.P50Us)
	}
}

func TestOpStats_Empty(t *testing.T) {
	s := NewOpStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestOpStats_PrunesOldSamples(t *testing.T) {
	s := NewOpStats(50 * time.Millisecond)
	s.Record(100 * time.Microsecond)
	time.Sleep(100 * time.Millisecond)
	s.Record(200 * time.Microsecond)

	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected 1 surviving sample, got %d", snap.Count)
	}
	if snap.MinUs != 200 {
		t.Errorf("expected only the recent sample, got min %d", snap.MinUs)
	}
}
