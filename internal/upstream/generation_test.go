package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFromScoresDecodesWorkout(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-workout-from-scores" {
			t.Errorf("path = %q, want /generate-workout-from-scores", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.Write([]byte(`{
			"session_title": "Level 5 Ankle and Squat Patterning",
			"coach_summary": "Focus on ankle mobility first.",
			"estimated_duration": "20-30 min",
			"difficulty_color": "Green",
			"exercises": [
				{"name": "Goblet Squat", "tag": "KNEE TRACKING", "sets_reps": "3 x 10-12", "tempo": "3-1-3-0", "coach_tip": "Push the knees out."}
			]
		}`))
	}))
	t.Cleanup(srv.Close)

	g := NewGeneration(srv.URL, time.Second, nil)
	metadata := json.RawMessage(`{"session_date": "2026-08-31"}`)
	w, err := g.FromScores(context.Background(), map[string]any{"overhead_squat": 2}, metadata)
	if err != nil {
		t.Fatalf("FromScores: %v", err)
	}
	if w.SessionTitle != "Level 5 Ankle and Squat Patterning" {
		t.Fatalf("session title = %q", w.SessionTitle)
	}
	if len(w.Exercises) != 1 || w.Exercises[0].SetsReps != "3 x 10-12" {
		t.Fatalf("exercises = %+v", w.Exercises)
	}

	scores, ok := received["calculated_scores"].(map[string]any)
	if !ok {
		t.Fatal("request body missing calculated_scores")
	}
	if scores["overhead_squat"] != float64(2) {
		t.Fatalf("calculated_scores = %v", scores)
	}
	meta, ok := received["metadata"].(map[string]any)
	if !ok {
		t.Fatal("request body missing metadata")
	}
	if meta["session_date"] != "2026-08-31" {
		t.Fatalf("metadata = %v", meta)
	}
}

func TestFromScoresOmitsEmptyMetadata(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.Write([]byte(`{"session_title": "t", "coach_summary": "s", "exercises": []}`))
	}))
	t.Cleanup(srv.Close)

	g := NewGeneration(srv.URL, time.Second, nil)
	if _, err := g.FromScores(context.Background(), map[string]any{"overhead_squat": 2}, nil); err != nil {
		t.Fatalf("FromScores: %v", err)
	}
	if _, ok := received["metadata"]; ok {
		t.Fatalf("metadata should be omitted when absent, body = %v", received)
	}
}

func TestExerciseAcceptsLegacyRXField(t *testing.T) {
	var e Exercise
	if err := json.Unmarshal([]byte(`{"name": "Plank", "rx": "3 x 30s hold"}`), &e); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if e.SetsReps != "3 x 30s hold" {
		t.Fatalf("SetsReps = %q, want rx fallback", e.SetsReps)
	}

	// sets_reps wins when both appear.
	e = Exercise{}
	if err := json.Unmarshal([]byte(`{"name": "Plank", "sets_reps": "3 x 45s", "rx": "3 x 30s hold"}`), &e); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if e.SetsReps != "3 x 45s" {
		t.Fatalf("SetsReps = %q, want sets_reps to win", e.SetsReps)
	}
}
