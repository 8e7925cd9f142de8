// Package workout drives the submission and generation workflow: it takes a
// finished draft through scoring, review, workout generation, and
// persistence, keeping the stages in strict order.
package workout

// The web client and the upstream services speak different movement
// vocabularies. The client uses short ids; scoring and generation use the
// full screen names. Both tables pass unknown ids through untouched so a
// vocabulary mismatch degrades to a no-op instead of dropping scores.
var uiToCanonical = map[string]string{
	"squat":     "overhead_squat",
	"hurdle":    "hurdle_step",
	"lunge":     "inline_lunge",
	"shoulder":  "shoulder_mobility",
	"leg_raise": "active_straight_leg_raise",
	"pushup":    "trunk_stability_pushup",
	"rotary":    "rotary_stability",
}

var canonicalToUI = invert(uiToCanonical)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// CanonicalID maps a short movement id to the upstream screen name. Unknown
// ids pass through.
func CanonicalID(id string) string {
	if canonical, ok := uiToCanonical[id]; ok {
		return canonical
	}
	return id
}

// UIID maps an upstream screen name back to the short movement id. Unknown
// ids pass through.
func UIID(id string) string {
	if ui, ok := canonicalToUI[id]; ok {
		return ui
	}
	return id
}

// EncodeScores rewrites a score map from short ids to upstream screen names.
func EncodeScores(scores map[string]any) map[string]any {
	return rekey(scores, CanonicalID)
}

// DecodeScores rewrites a score map from upstream screen names to short ids.
func DecodeScores(scores map[string]any) map[string]any {
	return rekey(scores, UIID)
}

func rekey(scores map[string]any, translate func(string) string) map[string]any {
	if scores == nil {
		return nil
	}
	out := make(map[string]any, len(scores))
	for id, score := range scores {
		out[translate(id)] = score
	}
	return out
}
