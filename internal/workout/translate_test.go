package workout

import "testing"

func TestCanonicalAndUIIDsRoundTrip(t *testing.T) {
	for ui, canonical := range uiToCanonical {
		if got := CanonicalID(ui); got != canonical {
			t.Fatalf("CanonicalID(%q) = %q, want %q", ui, got, canonical)
		}
		if got := UIID(canonical); got != ui {
			t.Fatalf("UIID(%q) = %q, want %q", canonical, got, ui)
		}
	}
}

func TestUnknownIDsPassThrough(t *testing.T) {
	if got := CanonicalID("ankle_clearance"); got != "ankle_clearance" {
		t.Fatalf("CanonicalID passthrough = %q", got)
	}
	if got := UIID("ankle_clearance"); got != "ankle_clearance" {
		t.Fatalf("UIID passthrough = %q", got)
	}
}

func TestEncodeDecodeScores(t *testing.T) {
	ui := map[string]any{"squat": 2, "shoulder": 1, "mystery_screen": 3}

	encoded := EncodeScores(ui)
	if encoded["overhead_squat"] != 2 || encoded["shoulder_mobility"] != 1 {
		t.Fatalf("encoded = %v", encoded)
	}
	if encoded["mystery_screen"] != 3 {
		t.Fatal("unknown id dropped during encode")
	}

	decoded := DecodeScores(encoded)
	for id, score := range ui {
		if decoded[id] != score {
			t.Fatalf("decoded[%q] = %v, want %v", id, decoded[id], score)
		}
	}
}

func TestRekeyNilIsNil(t *testing.T) {
	if EncodeScores(nil) != nil {
		t.Fatal("EncodeScores(nil) allocated a map")
	}
}
