// Package schema is the static, versioned catalog of movement screens. It is
// the single source of truth for what a valid assessment submission looks
// like: the payload adapter and the draft store both iterate it in registry
// order.
package schema

// Version identifies the movement catalog revision.
const Version = "v1"

// ScoreConfig describes how a movement is scored at the top level.
type ScoreConfig struct {
	Type          string `json:"type"` // "symmetrical" or "asymmetrical"
	ClearingTest  bool   `json:"clearing_test"`
	ClearingLabel string `json:"clearing_label,omitempty"`
}

// Observation is one graded sub-measurement within a section.
type Observation struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	ScoreRange []int  `json:"score_range,omitempty"` // nil means [0,1]
}

// Range returns the inclusive bounds for the observation's value.
func (o Observation) Range() (int, int) {
	if len(o.ScoreRange) == 2 && o.ScoreRange[0] <= o.ScoreRange[1] {
		return o.ScoreRange[0], o.ScoreRange[1]
	}
	return 0, 1
}

// Section groups related observations of a movement.
type Section struct {
	ID           string        `json:"id"`
	Label        string        `json:"label"`
	Observations []Observation `json:"observations"`
}

// Movement is one standardized screen with its scoring rubric shape.
type Movement struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Sections    []Section    `json:"sections"`
	ScoreConfig *ScoreConfig `json:"score_config,omitempty"`
}

// Asymmetrical reports whether the movement is scored per side.
func (m Movement) Asymmetrical() bool {
	return m.ScoreConfig != nil && m.ScoreConfig.Type == "asymmetrical"
}

// HasClearingTest reports whether the movement carries a pain clearing test.
func (m Movement) HasClearingTest() bool {
	return m.ScoreConfig != nil && m.ScoreConfig.ClearingTest
}

// Movements returns the full catalog in fixed registry order. Callers must
// not mutate the returned slice.
func Movements() []Movement {
	return movements
}

// MovementByID looks up a movement by its short id.
func MovementByID(id string) (Movement, bool) {
	for _, m := range movements {
		if m.ID == id {
			return m, true
		}
	}
	return Movement{}, false
}

var movements = []Movement{
	{
		ID:    "squat",
		Label: "Deep Squat",
		Sections: []Section{
			{
				ID:    "feet",
				Label: "Feet",
				Observations: []Observation{
					{Key: "heels_lift", Label: "Heels lift off the floor"},
				},
			},
			{
				ID:    "trunk_torso",
				Label: "Trunk & Torso",
				Observations: []Observation{
					{Key: "excessive_forward_lean", Label: "Excessive forward lean"},
					{Key: "lumbar_flexion", Label: "Lumbar flexion under load"},
					{Key: "upright_torso", Label: "Torso stays upright"},
				},
			},
			{
				ID:    "lower_limb",
				Label: "Lower Limb",
				Observations: []Observation{
					{Key: "knee_valgus", Label: "Knee valgus present"},
				},
			},
			{
				ID:    "upper_body_bar_position",
				Label: "Upper Body & Bar Position",
				Observations: []Observation{
					{Key: "bar_drifts_forward", Label: "Dowel drifts forward"},
				},
			},
		},
		ScoreConfig: &ScoreConfig{Type: "symmetrical"},
	},
	{
		ID:    "hurdle",
		Label: "Hurdle Step",
		Sections: []Section{
			{
				ID:    "pelvis_core_control",
				Label: "Pelvis & Core Control",
				Observations: []Observation{
					{Key: "loss_of_balance", Label: "Loss of balance"},
					{Key: "excessive_rotation", Label: "Excessive pelvic rotation"},
				},
			},
			{
				ID:    "stepping_leg",
				Label: "Stepping Leg",
				Observations: []Observation{
					{Key: "toe_drag", Label: "Toe drags the hurdle"},
				},
			},
			{
				ID:    "stance_leg",
				Label: "Stance Leg",
				Observations: []Observation{
					{Key: "knee_valgus", Label: "Knee valgus present"},
					{Key: "knee_varus", Label: "Knee varus present"},
					{Key: "knee_stable", Label: "Knee stays stable"},
				},
			},
		},
		ScoreConfig: &ScoreConfig{Type: "asymmetrical"},
	},
	{
		ID:    "lunge",
		Label: "Inline Lunge",
		Sections: []Section{
			{
				ID:    "alignment",
				Label: "Alignment",
				Observations: []Observation{
					{Key: "excessive_forward_lean", Label: "Excessive forward lean"},
					{Key: "lateral_shift", Label: "Lateral shift"},
				},
			},
			{
				ID:    "lower_body_control",
				Label: "Lower Body Control",
				Observations: []Observation{
					{Key: "knee_valgus", Label: "Knee valgus present"},
					{Key: "heel_lift", Label: "Front heel lifts"},
					{Key: "knee_tracks_over_foot", Label: "Knee tracks over foot"},
				},
			},
			{
				ID:    "balance_stability",
				Label: "Balance & Stability",
				Observations: []Observation{
					{Key: "loss_of_balance", Label: "Loss of balance"},
				},
			},
		},
		ScoreConfig: &ScoreConfig{Type: "asymmetrical"},
	},
	{
		ID:    "shoulder",
		Label: "Shoulder Mobility",
		Sections: []Section{
			{
				ID:    "reach_quality",
				Label: "Reach Quality",
				Observations: []Observation{
					{Key: "excessive_gap", Label: "Fists more than a hand length apart"},
					{Key: "asymmetry_present", Label: "Side-to-side asymmetry"},
					{Key: "hands_within_fist_distance", Label: "Fists within one fist distance"},
				},
			},
			{
				ID:    "compensation",
				Label: "Compensation",
				Observations: []Observation{
					{Key: "rib_flare", Label: "Rib flare"},
					{Key: "scapular_winging", Label: "Scapular winging"},
				},
			},
		},
		ScoreConfig: &ScoreConfig{
			Type:          "asymmetrical",
			ClearingTest:  true,
			ClearingLabel: "Shoulder impingement clearing test",
		},
	},
	{
		ID:    "leg_raise",
		Label: "Active Straight Leg Raise",
		Sections: []Section{
			{
				ID:    "non_moving_leg",
				Label: "Non-Moving Leg",
				Observations: []Observation{
					{Key: "foot_lifts_off_floor", Label: "Down foot lifts off the floor"},
				},
			},
			{
				ID:    "moving_leg",
				Label: "Moving Leg",
				Observations: []Observation{
					{Key: "lt_60_hip_flexion", Label: "Less than 60 degrees hip flexion"},
					{Key: "gt_80_hip_flexion", Label: "More than 80 degrees hip flexion"},
					{Key: "hamstring_restriction", Label: "Hamstring restriction"},
				},
			},
			{
				ID:    "pelvic_control",
				Label: "Pelvic Control",
				Observations: []Observation{
					{Key: "anterior_tilt", Label: "Anterior pelvic tilt"},
					{Key: "pelvis_stable", Label: "Pelvis stays stable"},
				},
			},
		},
		ScoreConfig: &ScoreConfig{Type: "asymmetrical"},
	},
	{
		ID:    "pushup",
		Label: "Trunk Stability Pushup",
		Sections: []Section{
			{
				ID:    "core_control",
				Label: "Core Control",
				Observations: []Observation{
					{Key: "hips_lag", Label: "Hips lag behind shoulders"},
				},
			},
			{
				ID:    "body_alignment",
				Label: "Body Alignment",
				Observations: []Observation{
					{Key: "sagging_hips", Label: "Hips sag through the press"},
				},
			},
			{
				ID:    "upper_body",
				Label: "Upper Body",
				Observations: []Observation{
					{Key: "uneven_arm_push", Label: "Uneven arm push"},
					{Key: "shoulder_instability", Label: "Shoulder instability"},
				},
			},
		},
		ScoreConfig: &ScoreConfig{
			Type:          "symmetrical",
			ClearingTest:  true,
			ClearingLabel: "Spinal extension clearing test",
		},
	},
	{
		ID:    "rotary",
		Label: "Rotary Stability",
		Sections: []Section{
			{
				ID:    "diagonal_pattern",
				Label: "Diagonal Pattern",
				Observations: []Observation{
					{Key: "unable_to_complete", Label: "Unable to complete pattern"},
					{Key: "loss_of_balance", Label: "Loss of balance"},
					{Key: "smooth_controlled", Label: "Smooth controlled repetition"},
				},
			},
			{
				ID:    "spinal_control",
				Label: "Spinal Control",
				Observations: []Observation{
					{Key: "excessive_rotation", Label: "Excessive spinal rotation"},
				},
			},
		},
		ScoreConfig: &ScoreConfig{
			Type:          "asymmetrical",
			ClearingTest:  true,
			ClearingLabel: "Spinal flexion clearing test",
		},
	},
}
