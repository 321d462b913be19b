package species

import (
	"testing"

	"github.com/pocketpet/server/internal/domain/outfit"
)

func TestParseMixedShiftForms(t *testing.T) {
	doc := []byte(`{
		"hat": {"pet-neutral.png": {"x": 2, "y": -10, "r": 15}},
		"glasses": {"pet-dead.png": -19, "pet-strong.png": 0}
	}`)

	cfg, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	hat := cfg.Lookup(outfit.CategoryHat, "pet-neutral.png")
	if hat != (Shift{X: 2, Y: -10, R: 15}) {
		t.Errorf("Unexpected hat shift: %+v", hat)
	}

	glasses := cfg.Lookup(outfit.CategoryGlasses, "pet-dead.png")
	if glasses != (Shift{Y: -19}) {
		t.Errorf("Scalar entry should map to vertical shift, got %+v", glasses)
	}
}

func TestLookupDefaultsToZero(t *testing.T) {
	cfg, err := Parse([]byte(`{"hat": {"pet-fat.png": {"y": 3}}}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s := cfg.Lookup(outfit.CategoryHat, "pet-sad.png"); !s.IsZero() {
		t.Errorf("Missing label should be zero, got %+v", s)
	}
	if s := cfg.Lookup(outfit.CategoryCape, "pet-fat.png"); !s.IsZero() {
		t.Errorf("Missing category should be zero, got %+v", s)
	}

	var unloaded Configuration
	if s := unloaded.Lookup(outfit.CategoryGlasses, "pet-fat.png"); !s.IsZero() {
		t.Errorf("Nil configuration should be zero, got %+v", s)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte(`{"hat": {"pet-fat.png": "up"}}`)); err == nil {
		t.Errorf("Expected error for string shift")
	}
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Errorf("Expected error for invalid JSON")
	}
}

func TestShiftTransform(t *testing.T) {
	got := Shift{X: 1.5, Y: -6, R: 0}.Transform()
	want := "translate(1.5%, -6%) rotate(0deg)"
	if got != want {
		t.Errorf("Transform = %q, want %q", got, want)
	}
}
