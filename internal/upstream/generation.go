package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Generation talks to the workout generator.
type Generation struct {
	client
}

func NewGeneration(baseURL string, timeout time.Duration, tokens oauth2.TokenSource) *Generation {
	return &Generation{client: newClient("generation", baseURL, timeout, tokens)}
}

// Workout is the generated session card shown to the coach.
type Workout struct {
	SessionTitle      string     `json:"session_title"`
	CoachSummary      string     `json:"coach_summary"`
	EstimatedDuration string     `json:"estimated_duration,omitempty"`
	DifficultyColor   string     `json:"difficulty_color,omitempty"`
	Exercises         []Exercise `json:"exercises"`
}

// Exercise is one prescription line in a workout.
type Exercise struct {
	Name     string `json:"name"`
	Tag      string `json:"tag,omitempty"`
	SetsReps string `json:"sets_reps,omitempty"`
	Tempo    string `json:"tempo,omitempty"`
	CoachTip string `json:"coach_tip,omitempty"`
}

// UnmarshalJSON accepts the generator's legacy rx field as a fallback for
// sets_reps.
func (e *Exercise) UnmarshalJSON(data []byte) error {
	type alias Exercise
	aux := struct {
		*alias
		RX string `json:"rx"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if e.SetsReps == "" {
		e.SetsReps = aux.RX
	}
	return nil
}

// FromScores generates a workout from reviewed calculated scores. The
// scoring session's metadata rides along so the generator sees the same
// context the scoring engine produced.
func (g *Generation) FromScores(ctx context.Context, scores map[string]any, metadata json.RawMessage) (Workout, error) {
	body := map[string]any{"calculated_scores": scores}
	if len(metadata) > 0 {
		body["metadata"] = metadata
	}
	raw, err := g.do(ctx, http.MethodPost, "/generate-workout-from-scores", body)
	if err != nil {
		return Workout{}, err
	}
	var w Workout
	if err := json.Unmarshal(raw, &w); err != nil {
		return Workout{}, &Error{Service: g.service, Err: err}
	}
	return w, nil
}
