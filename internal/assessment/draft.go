// Package assessment owns the in-progress assessment draft: its shape, its
// durable storage, and the adapter that turns a draft into the exact
// submission document the scoring service expects.
package assessment

import (
	"strconv"
	"strings"

	"fms-backend/internal/schema"
)

// Draft is the coach's in-progress assessment input for one student. It is
// structure-complete: every movement in the registry has an entry, every
// observation has a value. Observation values are kept as raw JSON scalars
// and only coerced at adaptation time.
type Draft struct {
	UseManualScores bool                     `json:"use_manual_scores"`
	Movements       map[string]MovementDraft `json:"movements"`
}

// MovementDraft holds one movement's draft state.
type MovementDraft struct {
	Score        int                       `json:"score"`
	LScore       int                       `json:"l_score"`
	RScore       int                       `json:"r_score"`
	ClearingPain bool                      `json:"clearing_pain"`
	Sections     map[string]map[string]any `json:"sections"`
}

// NewDraft returns a schema-default draft: every registry movement with
// zeroed scores and observations.
func NewDraft() Draft {
	d := Draft{Movements: make(map[string]MovementDraft, len(schema.Movements()))}
	for _, m := range schema.Movements() {
		md := MovementDraft{Sections: make(map[string]map[string]any, len(m.Sections))}
		for _, s := range m.Sections {
			obs := make(map[string]any, len(s.Observations))
			for _, o := range s.Observations {
				obs[o.Key] = 0
			}
			md.Sections[s.ID] = obs
		}
		d.Movements[m.ID] = md
	}
	return d
}

// Normalize merges a client-provided draft onto the schema-default shape so
// stored drafts are always structure-complete. Unknown movements and
// sections are dropped; unknown observation keys within a known section are
// kept so newer clients do not lose data against an older registry.
func Normalize(in Draft) Draft {
	out := NewDraft()
	out.UseManualScores = in.UseManualScores
	for _, m := range schema.Movements() {
		src, ok := in.Movements[m.ID]
		if !ok {
			continue
		}
		dst := out.Movements[m.ID]
		dst.Score = src.Score
		dst.LScore = src.LScore
		dst.RScore = src.RScore
		dst.ClearingPain = src.ClearingPain
		for _, s := range m.Sections {
			srcObs, ok := src.Sections[s.ID]
			if !ok {
				continue
			}
			for key, val := range srcObs {
				dst.Sections[s.ID][key] = val
			}
		}
		out.Movements[m.ID] = dst
	}
	return out
}

// CoerceScore converts a raw JSON scalar to an integer clamped to [lo, hi].
// Absent or non-numeric input coerces to zero; an incomplete assessment must
// still adapt to a structurally valid submission.
func CoerceScore(raw any, lo, hi int) int {
	val := 0
	switch v := raw.(type) {
	case nil:
	case int:
		val = v
	case int64:
		val = int(v)
	case float64:
		val = int(v)
	case bool:
		if v {
			val = 1
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			val = parsed
		}
	}
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
