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

func newScoringServer(t *testing.T, response string) (*Scoring, *map[string]any) {
	t.Helper()
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-workout" {
			t.Errorf("path = %q, want /generate-workout", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return NewScoring(srv.URL, time.Second, nil), &received
}

func TestScorePrefersCalculatedScores(t *testing.T) {
	s, _ := newScoringServer(t, `{
		"calculated_scores": {"overhead_squat": 2},
		"scores": {"overhead_squat": 99}
	}`)

	result, err := s.Score(context.Background(), map[string]any{"use_manual_scores": false})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got := result.Scores["overhead_squat"]; got != float64(2) {
		t.Fatalf("overhead_squat = %v, want calculated_scores value 2", got)
	}
}

func TestScoreFallsBackToScoresField(t *testing.T) {
	s, _ := newScoringServer(t, `{"scores": {"hurdle_step": 1}}`)

	result, err := s.Score(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got := result.Scores["hurdle_step"]; got != float64(1) {
		t.Fatalf("hurdle_step = %v, want 1", got)
	}
}

func TestScoreRejectsResponseWithoutScores(t *testing.T) {
	s, _ := newScoringServer(t, `{"metadata": {"engine": "v2"}}`)

	_, err := s.Score(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("expected error for score-free response")
	}
	if upErr, ok := err.(*Error); !ok || upErr.Service != "scoring" {
		t.Fatalf("error = %v, want scoring *Error", err)
	}
}

func TestScoreForwardsAdaptedDocument(t *testing.T) {
	s, received := newScoringServer(t, `{"calculated_scores": {}}`)

	doc := map[string]any{"squat": map[string]any{"score": 0}, "use_manual_scores": false}
	if _, err := s.Score(context.Background(), doc); err != nil {
		t.Fatalf("Score: %v", err)
	}
	if _, ok := (*received)["squat"]; !ok {
		t.Fatal("submitted document missing squat entry")
	}
	if (*received)["use_manual_scores"] != false {
		t.Fatal("submitted document missing use_manual_scores")
	}
}
