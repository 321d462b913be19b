package outfit

import "testing"

func TestCategoryFor(t *testing.T) {
	cases := map[string]Category{
		"hat-1":     CategoryHat,
		"cape-3":    CategoryCape,
		"glasses-2": CategoryGlasses,
	}
	for id, want := range cases {
		got, ok := CategoryFor(id)
		if !ok || got != want {
			t.Errorf("CategoryFor(%q) = %q,%v want %q", id, got, ok, want)
		}
	}

	if _, ok := CategoryFor("scarf-1"); ok {
		t.Errorf("Expected unknown outfit prefix to be rejected")
	}
}

func TestSlotKeys(t *testing.T) {
	if CategoryGlasses.StorageKey() != "petGlasses" {
		t.Errorf("Unexpected storage key %q", CategoryGlasses.StorageKey())
	}
	if CategoryCape.ElementID() != "cape-overlay" {
		t.Errorf("Unexpected element id %q", CategoryCape.ElementID())
	}
	if ImagePath("hat-1") != "images/outfit-hat-1.png" {
		t.Errorf("Unexpected image path %q", ImagePath("hat-1"))
	}
}
