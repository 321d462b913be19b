package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pocketpet/server/internal/domain/outfit"
	"github.com/pocketpet/server/internal/domain/pet"
	"github.com/pocketpet/server/internal/domain/species"
	"github.com/pocketpet/server/internal/platform/logger"
	"github.com/pocketpet/server/internal/render"
)

func TestSimulatorStarvation(t *testing.T) {
	v := pet.NewVitals()
	v.Hunger = 1
	sim := NewSimulator(v, 30)

	out := sim.Tick()
	if !out.Applied || !out.Died {
		t.Fatalf("Expected death by starvation, got %+v", out)
	}
	if sim.State() != pet.StateDead {
		t.Errorf("Expected dead state, got %s", sim.State())
	}

	frozen := sim.Vitals()
	for _, step := range []func() Outcome{sim.Tick, sim.Feed, sim.Play} {
		if out := step(); out.Applied || out.Died {
			t.Errorf("Step after death must be a no-op, got %+v", out)
		}
	}
	if sim.Vitals() != frozen {
		t.Errorf("Vitals changed after death: %+v -> %+v", frozen, sim.Vitals())
	}
}

func TestSimulatorMoodThreshold(t *testing.T) {
	v := pet.NewVitals()
	v.Hunger = 40
	if got := NewSimulator(v, 30).State(); got != pet.StateNeutral {
		t.Errorf("Threshold 30: expected neutral, got %s", got)
	}
	if got := NewSimulator(v, 50).State(); got != pet.StateHungry {
		t.Errorf("Threshold 50: expected hungry, got %s", got)
	}
}

func TestResolverUnloadedYieldsZero(t *testing.T) {
	r := NewResolver()
	for _, c := range outfit.Categories {
		if got := r.ShiftFor(c, pet.StateFat); !got.IsZero() {
			t.Errorf("%s: expected zero shift, got %+v", c, got)
		}
	}
}

func TestResolverLoadsOnce(t *testing.T) {
	r := NewResolver()
	if r.SetConfiguration(nil) {
		t.Errorf("nil configuration must be ignored")
	}
	first := species.Configuration{outfit.CategoryHat: {"pet-fat.png": {Y: 1}}}
	second := species.Configuration{outfit.CategoryHat: {"pet-fat.png": {Y: 9}}}
	if !r.SetConfiguration(first) {
		t.Fatalf("First configuration should be stored")
	}
	if r.SetConfiguration(second) {
		t.Errorf("Second configuration should be ignored")
	}
	if got := r.ShiftFor(outfit.CategoryHat, pet.StateFat); got.Y != 1 {
		t.Errorf("Expected first configuration to win, got %+v", got)
	}
}

func TestApplyShiftsSkipsUnequipped(t *testing.T) {
	r := NewResolver()
	r.SetConfiguration(species.Configuration{
		outfit.CategoryHat:     {"pet-strong.png": {X: 1, Y: 2, R: 3}},
		outfit.CategoryGlasses: {"pet-strong.png": {Y: 4}},
	})
	surface := render.NewRecorder(false)

	applied := r.ApplyShifts(surface, pet.StateStrong, map[outfit.Category]string{
		outfit.CategoryHat:  "hat-crown",
		outfit.CategoryCape: "",
	})

	if len(applied) != 1 {
		t.Fatalf("Expected one applied shift, got %v", applied)
	}
	frame := surface.Frame()
	if got := frame.Transforms[render.ElementHat]; got != "translate(1%, 2%) rotate(3deg)" {
		t.Errorf("Hat transform = %q", got)
	}
	if _, ok := frame.Transforms[render.ElementGlasses]; ok {
		t.Errorf("Glasses are not equipped and must not be touched")
	}
}

func TestTickerStopsOnce(t *testing.T) {
	var ticks atomic.Int64
	tk := NewTicker(5*time.Millisecond, logger.Discard(), func(context.Context) error {
		ticks.Add(1)
		return nil
	})

	done := make(chan struct{})
	go func() {
		tk.Start(context.Background())
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	tk.Stop()
	tk.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Ticker did not stop")
	}
	if !tk.Stopped() {
		t.Errorf("Stopped should report true")
	}
	if tk.TickNumber() < 2 {
		t.Errorf("Expected at least 2 ticks, got %d", tk.TickNumber())
	}
}
