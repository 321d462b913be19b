// Package outfit defines the accessory slots a pet can wear.
// This package is PURE and must NOT import any infrastructure packages.
package outfit

import (
	"fmt"
	"strings"
)

// Category is one of the independent overlay slots.
type Category string

const (
	CategoryHat     Category = "hat"
	CategoryCape    Category = "cape"
	CategoryGlasses Category = "glasses"
)

// Categories lists every slot in render order.
var Categories = []Category{CategoryHat, CategoryCape, CategoryGlasses}

// SpeciesKey is the preference key holding the selected species.
const SpeciesKey = "selectedPet"

// slotDefinition ties a category to its storage key and overlay element.
type slotDefinition struct {
	StorageKey string
	ElementID  string
}

// Registry contains all known slots.
var Registry = map[Category]slotDefinition{
	CategoryHat:     {StorageKey: "petHat", ElementID: "hat-overlay"},
	CategoryCape:    {StorageKey: "petCape", ElementID: "cape-overlay"},
	CategoryGlasses: {StorageKey: "petGlasses", ElementID: "glasses-overlay"},
}

// StorageKey returns the preference key for the category, or "" if unknown.
func (c Category) StorageKey() string {
	return Registry[c].StorageKey
}

// ElementID returns the overlay element for the category, or "" if unknown.
func (c Category) ElementID() string {
	return Registry[c].ElementID
}

// Valid reports whether c is a known slot.
func (c Category) Valid() bool {
	_, ok := Registry[c]
	return ok
}

// CategoryFor derives the slot from an outfit id such as "hat-1".
func CategoryFor(outfitID string) (Category, bool) {
	for _, c := range Categories {
		if strings.HasPrefix(outfitID, string(c)) {
			return c, true
		}
	}
	return "", false
}

// ImagePath is the image reference stored for an equipped outfit.
func ImagePath(outfitID string) string {
	return fmt.Sprintf("images/outfit-%s.png", outfitID)
}
