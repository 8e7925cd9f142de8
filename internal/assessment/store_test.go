package assessment

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fms-backend/internal/shared/util"
)

// stores under test share one contract, so each behavior test runs against
// both the memory and file implementations.
func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("file", func(t *testing.T) {
		fn(t, NewFileStore(t.TempDir()))
	})
}

func TestStoreLoadMissingReturnsDefaultDraft(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		d, err := s.Load(context.Background(), "student-1")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if d.UseManualScores {
			t.Fatal("default draft has manual scores on")
		}
		if _, ok := d.Movements["squat"]; !ok {
			t.Fatal("default draft missing squat movement")
		}
	})
}

func TestStoreSaveThenLoadRoundTrips(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		d := NewDraft()
		d.UseManualScores = true
		squat := d.Movements["squat"]
		squat.Score = 2
		squat.Sections["feet"]["heels_lift"] = 1
		d.Movements["squat"] = squat

		if err := s.Save(ctx, "student-1", d); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := s.Load(ctx, "student-1")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !got.UseManualScores {
			t.Fatal("use_manual_scores lost in round trip")
		}
		if got.Movements["squat"].Score != 2 {
			t.Fatalf("squat score = %d, want 2", got.Movements["squat"].Score)
		}
		raw := got.Movements["squat"].Sections["feet"]["heels_lift"]
		if CoerceScore(raw, 0, 1) != 1 {
			t.Fatalf("heels_lift = %v, want 1", raw)
		}
	})
}

func TestStoreDraftsAreScopedPerStudent(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		d := NewDraft()
		d.UseManualScores = true
		if err := s.Save(ctx, "student-1", d); err != nil {
			t.Fatalf("Save: %v", err)
		}

		other, err := s.Load(ctx, "student-2")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if other.UseManualScores {
			t.Fatal("student-2 saw student-1's draft")
		}
	})
}

func TestStoreDiscardRemovesDraft(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		d := NewDraft()
		d.UseManualScores = true
		if err := s.Save(ctx, "student-1", d); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := s.Discard(ctx, "student-1"); err != nil {
			t.Fatalf("Discard: %v", err)
		}
		got, err := s.Load(ctx, "student-1")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got.UseManualScores {
			t.Fatal("draft survived discard")
		}
		// Discarding an absent draft is not an error.
		if err := s.Discard(ctx, "student-1"); err != nil {
			t.Fatalf("second Discard: %v", err)
		}
	})
}

func TestFileStoreCorruptDraftFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	path := filepath.Join(dir, util.HashStudentKey(DraftKey("student-1"))+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	d, err := s.Load(context.Background(), "student-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.UseManualScores || len(d.Movements) == 0 {
		t.Fatal("corrupt draft did not fall back to the default draft")
	}
}

func TestMemoryStoreCorruptDraftFallsBackToDefault(t *testing.T) {
	s := NewMemoryStore()
	s.drafts[DraftKey("student-1")] = []byte("{not json")

	d, err := s.Load(context.Background(), "student-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.Movements) == 0 {
		t.Fatal("corrupt draft did not fall back to the default draft")
	}
}

func TestStoreHonorsContextCancellation(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := s.Load(ctx, "student-1"); err == nil {
			t.Fatal("Load ignored cancelled context")
		}
		if err := s.Save(ctx, "student-1", NewDraft()); err == nil {
			t.Fatal("Save ignored cancelled context")
		}
	})
}
