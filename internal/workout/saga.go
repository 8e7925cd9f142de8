package workout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"fms-backend/internal/assessment"
	"fms-backend/internal/shared/metrics"
	"fms-backend/internal/shared/telemetry"
	"fms-backend/internal/upstream"
)

// Stage names one step of the submission and generation workflow.
type Stage string

const (
	StageEditing              Stage = "editing"
	StageSubmitting           Stage = "submitting"
	StageAwaitingScores       Stage = "awaiting_scores"
	StageReviewingScores      Stage = "reviewing_scores"
	StageGenerating           Stage = "generating"
	StagePersistingAssessment Stage = "persisting_assessment"
	StagePersistingWorkout    Stage = "persisting_workout"
	StagePresenting           Stage = "presenting"
)

// ErrBusy means a run is already in flight for the student. One student,
// one active run.
var ErrBusy = errors.New("a run is already in flight for this student")

// ErrNoScores means Generate was called before a submission produced
// reviewable scores.
var ErrNoScores = errors.New("no reviewed scores for this student; submit the assessment first")

// StageError pins a failure to the stage it happened in. ReturnTo is the
// stage the client should resume from; Hint, when set, is coach-facing
// recovery advice.
type StageError struct {
	Stage    Stage
	ReturnTo Stage
	Hint     string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// OrphanedGenerationError means a workout was generated but could not be
// linked to a persisted assessment, either because the save failed or
// because the save succeeded and the response carried no identifier. The
// workout is carried so it is not lost; the run can be retried from review.
type OrphanedGenerationError struct {
	Workout upstream.Workout
	Err     error
}

func (e *OrphanedGenerationError) Error() string {
	return fmt.Sprintf("workout generated but not linked to a persisted assessment: %v", e.Err)
}

func (e *OrphanedGenerationError) Unwrap() error { return e.Err }

// Scorer, Generator, and Persister are the upstream surfaces the
// coordinator drives.
type Scorer interface {
	Score(ctx context.Context, doc map[string]any) (upstream.ScoreResult, error)
}

type Generator interface {
	FromScores(ctx context.Context, scores map[string]any, metadata json.RawMessage) (upstream.Workout, error)
}

type Persister interface {
	SaveAssessment(ctx context.Context, studentID string, rec upstream.AssessmentRecord) (json.RawMessage, error)
	SaveWorkout(ctx context.Context, studentID string, rec upstream.WorkoutRecord) (json.RawMessage, error)
}

// session is one student's run state between the submit and generate calls.
type session struct {
	runID        string
	stage        Stage
	busy         bool
	startedAtMs  float64
	rawInputs    map[string]any
	scores       map[string]any
	metadata     json.RawMessage
	painReported bool
}

// Coordinator runs the workflow. It owns the per-student sessions and the
// strict stage order: scores are reviewed before generation, the assessment
// is persisted and its identifier extracted before the workout is persisted.
type Coordinator struct {
	Drafts      assessment.Store
	Scoring     Scorer
	Generation  Generator
	Persistence Persister

	mu       sync.Mutex
	sessions map[string]*session
}

func NewCoordinator(drafts assessment.Store, scoring Scorer, generation Generator, persistence Persister) *Coordinator {
	return &Coordinator{
		Drafts:      drafts,
		Scoring:     scoring,
		Generation:  generation,
		Persistence: persistence,
		sessions:    make(map[string]*session),
	}
}

// SubmitResult is what the coach reviews after submission: the calculated
// scores keyed by short movement id, plus flags that shape the review.
type SubmitResult struct {
	RunID        string          `json:"run_id"`
	Stage        Stage           `json:"stage"`
	Scores       map[string]any  `json:"calculated_scores"`
	PainReported bool            `json:"pain_reported"`
	Metadata     json.RawMessage `json:"session_metadata,omitempty"`
}

// Submit runs the first half of the workflow: adapt the student's draft,
// send it to scoring, and hold the calculated scores for review. The draft
// is discarded once scoring confirms success, and only then.
func (c *Coordinator) Submit(ctx context.Context, studentID string) (SubmitResult, error) {
	sess, err := c.acquire(studentID, true)
	if err != nil {
		return SubmitResult{}, err
	}
	defer c.release(studentID)

	metrics.IncSagaStarted()
	c.setStage(studentID, sess, StageSubmitting)

	draft, err := c.Drafts.Load(ctx, studentID)
	if err != nil {
		return SubmitResult{}, c.fail(studentID, sess, StageSubmitting, StageEditing, "", err)
	}
	doc := assessment.Adapt(draft)
	doc["student_id"] = studentID

	c.setStage(studentID, sess, StageAwaitingScores)
	result, err := c.Scoring.Score(ctx, doc)
	if err != nil {
		hint := ""
		var upErr *upstream.Error
		if errors.As(err, &upErr) && upErr.ServerFault() {
			hint = "scoring is unavailable; enter scores manually and resubmit"
		}
		return SubmitResult{}, c.fail(studentID, sess, StageAwaitingScores, StageEditing, hint, err)
	}

	if err := c.Drafts.Discard(ctx, studentID); err != nil {
		// The run succeeded; a stale draft is recoverable, a lost run is not.
		telemetry.Warn("draft.discard_failed", map[string]any{
			"student_id": studentID,
			"error":      err.Error(),
		})
	}

	sess.rawInputs = doc
	sess.scores = DecodeScores(result.Scores)
	sess.metadata = result.Metadata
	sess.painReported = assessment.PainReported(doc)
	c.setStage(studentID, sess, StageReviewingScores)

	return SubmitResult{
		RunID:        sess.runID,
		Stage:        sess.stage,
		Scores:       sess.scores,
		PainReported: sess.painReported,
		Metadata:     sess.metadata,
	}, nil
}

// GenerateResult is the completed run: the persisted assessment's
// identifier and the generated workout.
type GenerateResult struct {
	RunID        string           `json:"run_id"`
	Stage        Stage            `json:"stage"`
	AssessmentID string           `json:"assessment_id"`
	Workout      upstream.Workout `json:"workout"`
}

// Generate runs the second half of the workflow from reviewed scores:
// generate the workout, persist the assessment, extract its identifier, and
// persist the workout under it. Edited scores, when given, replace the
// calculated ones movement by movement.
func (c *Coordinator) Generate(ctx context.Context, studentID string, edited map[string]any) (GenerateResult, error) {
	sess, err := c.acquire(studentID, false)
	if err != nil {
		return GenerateResult{}, err
	}
	defer c.release(studentID)

	scores := sess.scores
	for id, score := range edited {
		scores[UIID(id)] = score
	}

	c.setStage(studentID, sess, StageGenerating)
	workout, err := c.Generation.FromScores(ctx, EncodeScores(scores), sess.metadata)
	if err != nil {
		return GenerateResult{}, c.fail(studentID, sess, StageGenerating, StageReviewingScores, "", err)
	}

	c.setStage(studentID, sess, StagePersistingAssessment)
	saved, err := c.Persistence.SaveAssessment(ctx, studentID, upstream.AssessmentRecord{
		RawFMSInputs:     sess.rawInputs,
		CalculatedScores: EncodeScores(scores),
		SessionMetadata:  sess.metadata,
	})
	if err != nil {
		stageErr := c.fail(studentID, sess, StagePersistingAssessment, StageReviewingScores, "", err)
		return GenerateResult{}, &OrphanedGenerationError{Workout: workout, Err: stageErr}
	}

	assessmentID, err := ExtractAssessmentID(saved)
	if err != nil {
		stageErr := c.fail(studentID, sess, StagePersistingAssessment, StageReviewingScores, "", err)
		return GenerateResult{}, &OrphanedGenerationError{Workout: workout, Err: stageErr}
	}

	c.setStage(studentID, sess, StagePersistingWorkout)
	_, err = c.Persistence.SaveWorkout(ctx, studentID, upstream.WorkoutRecord{
		AssessmentID:      assessmentID,
		SessionTitle:      workout.SessionTitle,
		CoachSummary:      workout.CoachSummary,
		EstimatedDuration: workout.EstimatedDuration,
		DifficultyColor:   workout.DifficultyColor,
		Exercises:         workout.Exercises,
		CreatedAt:         time.Now().UTC(),
	})
	if err != nil {
		return GenerateResult{}, c.fail(studentID, sess, StagePersistingWorkout, StageReviewingScores, "", err)
	}

	c.setStage(studentID, sess, StagePresenting)
	metrics.IncSagaCompleted()
	metrics.ObserveSagaDurationMs(metrics.NowMillis() - sess.startedAtMs)

	c.mu.Lock()
	delete(c.sessions, studentID)
	c.mu.Unlock()

	return GenerateResult{
		RunID:        sess.runID,
		Stage:        StagePresenting,
		AssessmentID: assessmentID,
		Workout:      workout,
	}, nil
}

// Stage reports the student's current run stage; StageEditing when no run
// exists.
func (c *Coordinator) Stage(studentID string) Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sess, ok := c.sessions[studentID]; ok {
		return sess.stage
	}
	return StageEditing
}

// acquire claims the student's session for one call. fresh starts a new run
// and replaces any stale session; otherwise the existing session must hold
// reviewed scores.
func (c *Coordinator) acquire(studentID string, fresh bool) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[studentID]
	if ok && sess.busy {
		return nil, ErrBusy
	}
	if fresh {
		sess = &session{
			runID:       uuid.NewString(),
			stage:       StageEditing,
			startedAtMs: metrics.NowMillis(),
		}
		c.sessions[studentID] = sess
	} else if !ok || sess.scores == nil {
		return nil, ErrNoScores
	}
	sess.busy = true
	return sess, nil
}

func (c *Coordinator) release(studentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sess, ok := c.sessions[studentID]; ok {
		sess.busy = false
	}
}

func (c *Coordinator) setStage(studentID string, sess *session, stage Stage) {
	c.mu.Lock()
	sess.stage = stage
	c.mu.Unlock()
	telemetry.Info("saga.stage", map[string]any{
		"student_id": studentID,
		"run_id":     sess.runID,
		"saga_stage": string(stage),
	})
}

func (c *Coordinator) fail(studentID string, sess *session, stage, returnTo Stage, hint string, err error) *StageError {
	c.mu.Lock()
	sess.stage = returnTo
	c.mu.Unlock()
	metrics.IncSagaFailed(string(stage))
	telemetry.Error("saga.stage_failed", map[string]any{
		"student_id": studentID,
		"run_id":     sess.runID,
		"saga_stage": string(stage),
		"error":      err.Error(),
	})
	return &StageError{Stage: stage, ReturnTo: returnTo, Hint: hint, Err: err}
}
