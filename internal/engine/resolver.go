package engine

import (
	"github.com/pocketpet/server/internal/domain/outfit"
	"github.com/pocketpet/server/internal/domain/pet"
	"github.com/pocketpet/server/internal/domain/species"
	"github.com/pocketpet/server/internal/render"
)

// Resolver maps a visual state to per-accessory transforms using the
// species configuration. It holds no simulation logic.
//
// The configuration moves from nil to a value at most once; the engine loop is
// the only writer.
type Resolver struct {
	config species.Configuration
}

// NewResolver creates a resolver with no configuration loaded.
func NewResolver() *Resolver {
	return &Resolver{}
}

// SetConfiguration stores cfg if none is loaded yet. Returns false when the
// call was ignored.
func (r *Resolver) SetConfiguration(cfg species.Configuration) bool {
	if r.config != nil || cfg == nil {
		return false
	}
	r.config = cfg
	return true
}

// Loaded reports whether a configuration has been stored.
func (r *Resolver) Loaded() bool {
	return r.config != nil
}

// ShiftFor returns the shift for one category in the given state, zero on any miss.
func (r *Resolver) ShiftFor(category outfit.Category, state pet.VisualState) species.Shift {
	return r.config.Lookup(category, state.Filename())
}

// ApplyShifts writes the transform of every equipped accessory onto surface.
// equipped maps category to image reference; empty or missing entries are skipped.
// The applied shifts are returned keyed by category.
func (r *Resolver) ApplyShifts(surface render.Surface, state pet.VisualState, equipped map[outfit.Category]string) map[outfit.Category]species.Shift {
	applied := make(map[outfit.Category]species.Shift, len(equipped))
	for _, category := range outfit.Categories {
		if equipped[category] == "" {
			continue
		}
		shift := r.ShiftFor(category, state)
		surface.SetTransform(render.ElementID(category.ElementID()), shift.Transform())
		applied[category] = shift
	}
	return applied
}
