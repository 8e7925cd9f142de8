package schema

import "testing"

func TestMovementsOrderIsStable(t *testing.T) {
	want := []string{"squat", "hurdle", "lunge", "shoulder", "leg_raise", "pushup", "rotary"}
	got := Movements()
	if len(got) != len(want) {
		t.Fatalf("expected %d movements, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("movement %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestMovementByID(t *testing.T) {
	m, ok := MovementByID("shoulder")
	if !ok {
		t.Fatalf("expected shoulder to exist")
	}
	if !m.Asymmetrical() {
		t.Fatalf("expected shoulder to be asymmetrical")
	}
	if !m.HasClearingTest() {
		t.Fatalf("expected shoulder to carry a clearing test")
	}

	if _, ok := MovementByID("nope"); ok {
		t.Fatalf("expected unknown id to miss")
	}
}

func TestEveryMovementHasSectionsAndObservations(t *testing.T) {
	for _, m := range Movements() {
		if len(m.Sections) == 0 {
			t.Fatalf("movement %s has no sections", m.ID)
		}
		for _, s := range m.Sections {
			if len(s.Observations) == 0 {
				t.Fatalf("movement %s section %s has no observations", m.ID, s.ID)
			}
			for _, o := range s.Observations {
				lo, hi := o.Range()
				if lo > hi {
					t.Fatalf("movement %s observation %s has inverted range", m.ID, o.Key)
				}
			}
		}
	}
}
