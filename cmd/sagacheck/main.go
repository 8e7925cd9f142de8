package main

// Exercise the full submission and generation workflow against stub
// upstreams:
//   go run ./cmd/sagacheck
// Point it at live services instead with -scoring/-generation/-persistence.

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"fms-backend/internal/assessment"
	"fms-backend/internal/upstream"
	"fms-backend/internal/workout"
)

func main() {
	studentID := flag.String("student", "sagacheck-student", "Student id to run the workflow for")
	scoringURL := flag.String("scoring", "", "Scoring service URL (empty starts a stub)")
	generationURL := flag.String("generation", "", "Generation service URL (empty starts a stub)")
	persistenceURL := flag.String("persistence", "", "Persistence service URL (empty starts a stub)")
	timeout := flag.Duration("timeout", 30*time.Second, "Upstream request timeout")
	flag.Parse()

	if *scoringURL == "" || *generationURL == "" || *persistenceURL == "" {
		stub := startStub()
		defer stub.Close()
		for _, target := range []*string{scoringURL, generationURL, persistenceURL} {
			if *target == "" {
				*target = stub.URL
			}
		}
		fmt.Printf("stub upstreams on %s\n", stub.URL)
	}

	drafts := assessment.NewMemoryStore()
	coord := workout.NewCoordinator(
		drafts,
		upstream.NewScoring(*scoringURL, *timeout, nil),
		upstream.NewGeneration(*generationURL, *timeout, nil),
		upstream.NewPersistence(*persistenceURL, *timeout, nil),
	)
	ctx := context.Background()

	draft := assessment.NewDraft()
	squat := draft.Movements["squat"]
	squat.Sections["feet"]["heels_lift"] = 1
	draft.Movements["squat"] = squat
	if err := drafts.Save(ctx, *studentID, draft); err != nil {
		exitErr(fmt.Sprintf("save draft: %v", err))
	}

	submitted, err := coord.Submit(ctx, *studentID)
	if err != nil {
		exitErr(fmt.Sprintf("submit: %v", err))
	}
	fmt.Printf("run %s reached %s\n", submitted.RunID, submitted.Stage)
	printJSON("calculated_scores", submitted.Scores)

	generated, err := coord.Generate(ctx, *studentID, nil)
	if err != nil {
		exitErr(fmt.Sprintf("generate: %v", err))
	}
	fmt.Printf("run %s reached %s, assessment %s\n", generated.RunID, generated.Stage, generated.AssessmentID)
	printJSON("workout", generated.Workout)
}

// startStub serves minimal scoring, generation, and persistence responses
// from one listener.
func startStub() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate-workout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"calculated_scores": map[string]any{
				"overhead_squat":            2,
				"hurdle_step":               2,
				"inline_lunge":              2,
				"shoulder_mobility":         3,
				"active_straight_leg_raise": 2,
				"trunk_stability_pushup":    1,
				"rotary_stability":          2,
			},
		})
	})
	mux.HandleFunc("/generate-workout-from-scores", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"session_title":      "Trunk Stability Foundations",
			"coach_summary":      "Prioritize core control before loading the press pattern.",
			"estimated_duration": "20-30 min",
			"difficulty_color":   "Yellow",
			"exercises": []map[string]any{
				{"name": "Dead Bug", "tag": "CORE CONTROL", "sets_reps": "3 x 8/side", "tempo": "Controlled", "coach_tip": "Keep the low back pressed down."},
			},
		})
	})
	mux.HandleFunc("/students/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/assessments"):
			writeJSON(w, map[string]any{"assessment_id": "stub-assessment-1"})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/workouts"):
			writeJSON(w, map[string]any{"id": "stub-workout-1"})
		default:
			writeJSON(w, map[string]any{"id": "stub"})
		}
	})
	return httptest.NewServer(mux)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func printJSON(label string, payload any) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("encode %s: %v", label, err))
	}
	fmt.Printf("%s:\n%s\n", label, raw)
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
