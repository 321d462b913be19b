// Package rules contains the pure calculation logic for pet mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "github.com/pocketpet/server/internal/domain/pet"

const (
	MaxStat      = 100
	FeedAmount   = 10
	PlayAmount   = 10
	OverflowGain = 5 // weight/strength gained when feeding/playing a full pet

	FatWeight      = 75
	StrongStrength = 75
	DeathWeight    = 100

	AgeCycle = 60

	// DefaultMoodThreshold is the hunger/happiness level at or below which the
	// pet shows as hungry/sad. Some builds used 50.
	DefaultMoodThreshold = 30
)

// Decay applies one tick of passive decay. Dead pets are left untouched.
func Decay(v *pet.Vitals) {
	if v.IsDead {
		return
	}

	v.Hunger--
	v.Happiness--

	// Excess above the baseline bleeds off, never below it.
	if v.Weight > pet.BaselineWeight {
		v.Weight--
	}
	if v.Strength > pet.BaselineStrength {
		v.Strength--
	}

	// Only advances while age is a multiple of AgeCycle: a fresh pet goes 0 -> 1 and stays there.
	if v.Age%AgeCycle == 0 {
		v.Age++
	}
}

// Feed applies a feeding. Returns false if the pet is dead and nothing changed.
func Feed(v *pet.Vitals) bool {
	if v.IsDead {
		return false
	}
	v.Hunger, v.Weight = refill(v.Hunger, v.Weight, FeedAmount)
	return true
}

// Play applies a play session. Returns false if the pet is dead and nothing changed.
func Play(v *pet.Vitals) bool {
	if v.IsDead {
		return false
	}
	v.Happiness, v.Strength = refill(v.Happiness, v.Strength, PlayAmount)
	return true
}

// refill raises a need by amount, capped at MaxStat. A need that is already
// full converts the action into body growth instead.
func refill(need, body, amount int) (int, int) {
	if need >= MaxStat {
		return MaxStat, body + OverflowGain
	}
	return min(need+amount, MaxStat), body
}

// IsFatal reports whether the vitals meet a death condition.
func IsFatal(v pet.Vitals) bool {
	return v.Hunger <= 0 || v.Happiness <= 0 || v.Weight >= DeathWeight
}

// CheckDeath marks the pet dead if a death condition holds.
// Returns true only on the alive -> dead transition.
func CheckDeath(v *pet.Vitals) bool {
	if v.IsDead || !IsFatal(*v) {
		return false
	}
	v.IsDead = true
	return true
}

// Classify picks the steady-state visual label. First match wins.
func Classify(v pet.Vitals, moodThreshold int) pet.VisualState {
	switch {
	case v.IsDead:
		return pet.StateDead
	case v.Weight > FatWeight:
		return pet.StateFat
	case v.Strength > StrongStrength:
		return pet.StateStrong
	case v.Hunger <= moodThreshold:
		return pet.StateHungry
	case v.Happiness <= moodThreshold:
		return pet.StateSad
	default:
		return pet.StateNeutral
	}
}
