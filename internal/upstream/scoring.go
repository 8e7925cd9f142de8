package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Scoring talks to the scoring engine that turns raw movement observations
// into calculated screen scores.
type Scoring struct {
	client
}

func NewScoring(baseURL string, timeout time.Duration, tokens oauth2.TokenSource) *Scoring {
	return &Scoring{client: newClient("scoring", baseURL, timeout, tokens)}
}

// ScoreResult carries the calculated scores keyed by the scoring engine's
// movement ids, plus whatever session metadata the engine attached.
type ScoreResult struct {
	Scores   map[string]any
	Metadata json.RawMessage
}

// Score submits an adapted assessment document and returns the calculated
// scores. Scoring engines differ in the field they answer on: newer ones
// reply with calculated_scores, older ones with scores. calculated_scores
// wins when both are present.
func (s *Scoring) Score(ctx context.Context, doc map[string]any) (ScoreResult, error) {
	raw, err := s.do(ctx, http.MethodPost, "/generate-workout", doc)
	if err != nil {
		return ScoreResult{}, err
	}

	var body struct {
		CalculatedScores map[string]any  `json:"calculated_scores"`
		Scores           map[string]any  `json:"scores"`
		Metadata         json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ScoreResult{}, &Error{Service: s.service, Err: err}
	}

	result := ScoreResult{Metadata: body.Metadata}
	switch {
	case body.CalculatedScores != nil:
		result.Scores = body.CalculatedScores
	case body.Scores != nil:
		result.Scores = body.Scores
	default:
		return ScoreResult{}, &Error{
			Service: s.service,
			Status:  http.StatusOK,
			Body:    "response carried neither calculated_scores nor scores",
		}
	}
	return result, nil
}
