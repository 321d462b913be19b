package engine

import (
	"github.com/pocketpet/server/internal/domain/pet"
	"github.com/pocketpet/server/internal/domain/rules"
)

// Outcome describes what a simulator step did.
type Outcome struct {
	Applied bool // false when the pet was already dead
	Died    bool // true only on the step that killed the pet
}

// Simulator owns the vital state record and applies the tick/action rules.
// It holds no transform logic and knows nothing about rendering.
type Simulator struct {
	vitals        *pet.Vitals
	moodThreshold int
}

// NewSimulator wraps v. A nil v starts a fresh pet.
func NewSimulator(v *pet.Vitals, moodThreshold int) *Simulator {
	if v == nil {
		v = pet.NewVitals()
	}
	return &Simulator{vitals: v, moodThreshold: moodThreshold}
}

// Tick applies one unit of passive decay followed by the death check.
func (s *Simulator) Tick() Outcome {
	if s.vitals.IsDead {
		return Outcome{}
	}
	rules.Decay(s.vitals)
	return Outcome{Applied: true, Died: rules.CheckDeath(s.vitals)}
}

// Feed applies the feed action followed by the death check.
func (s *Simulator) Feed() Outcome {
	if !rules.Feed(s.vitals) {
		return Outcome{}
	}
	return Outcome{Applied: true, Died: rules.CheckDeath(s.vitals)}
}

// Play applies the play action followed by the death check.
func (s *Simulator) Play() Outcome {
	if !rules.Play(s.vitals) {
		return Outcome{}
	}
	return Outcome{Applied: true, Died: rules.CheckDeath(s.vitals)}
}

// State classifies the current vitals into a steady-state visual label.
func (s *Simulator) State() pet.VisualState {
	return rules.Classify(*s.vitals, s.moodThreshold)
}

// Vitals returns a copy of the current record.
func (s *Simulator) Vitals() pet.Vitals {
	return *s.vitals
}

// IsDead reports the terminal flag.
func (s *Simulator) IsDead() bool {
	return s.vitals.IsDead
}
