// Package pet defines the core domain entity for the simulated pet.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package pet

import "fmt"

// VisualState is the discrete label used to pick the sprite and accessory shifts.
type VisualState string

const (
	StateNeutral VisualState = "neutral"
	StateHungry  VisualState = "hungry"
	StateSad     VisualState = "sad"
	StateFat     VisualState = "fat"
	StateStrong  VisualState = "strong"
	StateDead    VisualState = "dead"

	// Transient frames shown right after an action, never produced by classification.
	StateEating VisualState = "eating"
	StatePlay   VisualState = "play"
)

// DefaultSpecies is used when no species has been selected yet.
const DefaultSpecies = "kitty"

// Starting stats.
const (
	StartHunger      = 100
	StartHappiness   = 100
	BaselineWeight   = 50
	BaselineStrength = 50
)

// Filename returns the sprite filename for the state, e.g. "pet-neutral.png".
// Species configurations are keyed by this name.
func (s VisualState) Filename() string {
	return "pet-" + string(s) + ".png"
}

// IsTransient reports whether the state only exists for the post-action window.
func (s VisualState) IsTransient() bool {
	return s == StateEating || s == StatePlay
}

// SpritePath builds the base sprite path for a species and state.
func SpritePath(species string, state VisualState) string {
	return fmt.Sprintf("images/animals/%s/%s", species, state.Filename())
}

// ConfigPath is the conventional location of a species' accessory configuration.
func ConfigPath(species string) string {
	return fmt.Sprintf("images/animals/%s/config.json", species)
}

// Vitals is the single mutable record describing the pet's condition.
type Vitals struct {
	Hunger    int  `json:"hunger"`    // 0 = starved
	Happiness int  `json:"happiness"` // 0 = dead of sadness
	Weight    int  `json:"weight"`    // >= 100 is fatal
	Strength  int  `json:"strength"`
	Age       int  `json:"age"`
	IsDead    bool `json:"is_dead"` // terminal, never reset
}

// NewVitals creates a freshly hatched pet.
func NewVitals() *Vitals {
	return &Vitals{
		Hunger:    StartHunger,
		Happiness: StartHappiness,
		Weight:    BaselineWeight,
		Strength:  BaselineStrength,
		Age:       0,
		IsDead:    false,
	}
}
