package assessment

import "fms-backend/internal/schema"

// Top-level score bounds for a movement screen.
const (
	movementScoreMin = 0
	movementScoreMax = 3
)

// Adapt builds the scoring-service submission document from a draft.
//
// The document contains exactly one entry per registry movement, in registry
// shape: top-level score fields, a clearing_pain flag when the movement has
// a clearing test, and one nested map per section with one coerced integer
// per observation. When manual scores are off, all score fields are forced
// to zero; the scoring service is the sole score authority and only the
// clearing flags and observations carry signal. Adapt never fails: missing
// or malformed input falls back to zero/false.
func Adapt(d Draft) map[string]any {
	doc := make(map[string]any, len(schema.Movements())+1)
	for _, m := range schema.Movements() {
		md := d.Movements[m.ID]

		entry := make(map[string]any, len(m.Sections)+4)
		entry["score"] = manualScore(d, md.Score)
		if m.Asymmetrical() {
			entry["l_score"] = manualScore(d, md.LScore)
			entry["r_score"] = manualScore(d, md.RScore)
		}
		if m.HasClearingTest() {
			entry["clearing_pain"] = md.ClearingPain
		}

		for _, s := range m.Sections {
			obs := make(map[string]int, len(s.Observations))
			for _, o := range s.Observations {
				lo, hi := o.Range()
				var raw any
				if sec, ok := md.Sections[s.ID]; ok {
					raw = sec[o.Key]
				}
				obs[o.Key] = CoerceScore(raw, lo, hi)
			}
			entry[s.ID] = obs
		}

		doc[m.ID] = entry
	}
	doc["use_manual_scores"] = d.UseManualScores
	return doc
}

// PainReported reports whether any clearing test in the adapted document is
// flagged positive. Used to annotate the review step; scoring still decides
// the scores.
func PainReported(doc map[string]any) bool {
	for _, m := range schema.Movements() {
		entry, ok := doc[m.ID].(map[string]any)
		if !ok {
			continue
		}
		if pain, ok := entry["clearing_pain"].(bool); ok && pain {
			return true
		}
	}
	return false
}

func manualScore(d Draft, score int) int {
	if !d.UseManualScores {
		return 0
	}
	if score < movementScoreMin {
		return movementScoreMin
	}
	if score > movementScoreMax {
		return movementScoreMax
	}
	return score
}
