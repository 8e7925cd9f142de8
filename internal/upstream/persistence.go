package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// Persistence talks to the student-records service that owns saved
// assessments and workouts.
type Persistence struct {
	client
}

func NewPersistence(baseURL string, timeout time.Duration, tokens oauth2.TokenSource) *Persistence {
	return &Persistence{client: newClient("persistence", baseURL, timeout, tokens)}
}

// AssessmentRecord is the document persisted after a submission: the raw
// adapted inputs plus the scores the scoring engine calculated from them.
type AssessmentRecord struct {
	RawFMSInputs     map[string]any  `json:"raw_fms_inputs"`
	CalculatedScores map[string]any  `json:"calculated_scores"`
	SessionMetadata  json.RawMessage `json:"session_metadata,omitempty"`
}

// WorkoutRecord is the document persisted after generation. AssessmentID
// links the workout back to the assessment it was generated from; CreatedAt
// is stamped at persist time.
type WorkoutRecord struct {
	AssessmentID      string     `json:"assessment_id"`
	SessionTitle      string     `json:"session_title"`
	CoachSummary      string     `json:"coach_summary"`
	EstimatedDuration string     `json:"estimated_duration,omitempty"`
	DifficultyColor   string     `json:"difficulty_color,omitempty"`
	Exercises         []Exercise `json:"exercises"`
	CreatedAt         time.Time  `json:"created_at"`
}

// SaveAssessment persists an assessment and returns the raw response body,
// from which the caller extracts the new record's identifier.
func (p *Persistence) SaveAssessment(ctx context.Context, studentID string, rec AssessmentRecord) (json.RawMessage, error) {
	return p.do(ctx, http.MethodPost, "/students/"+url.PathEscape(studentID)+"/assessments", rec)
}

// SaveWorkout persists a generated workout under its assessment.
func (p *Persistence) SaveWorkout(ctx context.Context, studentID string, rec WorkoutRecord) (json.RawMessage, error) {
	return p.do(ctx, http.MethodPost, "/students/"+url.PathEscape(studentID)+"/workouts", rec)
}

// Assessments returns a student's saved assessments verbatim.
func (p *Persistence) Assessments(ctx context.Context, studentID string) (json.RawMessage, error) {
	return p.do(ctx, http.MethodGet, "/students/"+url.PathEscape(studentID)+"/assessments", nil)
}

// Workouts returns a student's saved workouts verbatim.
func (p *Persistence) Workouts(ctx context.Context, studentID string) (json.RawMessage, error) {
	return p.do(ctx, http.MethodGet, "/students/"+url.PathEscape(studentID)+"/workouts", nil)
}

// Student returns a student's profile verbatim.
func (p *Persistence) Student(ctx context.Context, studentID string) (json.RawMessage, error) {
	return p.do(ctx, http.MethodGet, "/students/"+url.PathEscape(studentID), nil)
}
