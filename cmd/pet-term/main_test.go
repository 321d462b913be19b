package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pocketpet/server/internal/domain/pet"
	"github.com/pocketpet/server/internal/engine"
	"github.com/pocketpet/server/internal/platform/logger"
)

type stubPet struct {
	err    error
	actors []string
}

func (s *stubPet) Feed(_ context.Context, actor string) (engine.ActionResult, error) {
	s.actors = append(s.actors, actor)
	return engine.ActionResult{Applied: true, State: pet.StateEating}, s.err
}

func (s *stubPet) Play(_ context.Context, actor string) (engine.ActionResult, error) {
	s.actors = append(s.actors, actor)
	return engine.ActionResult{Applied: true, State: pet.StatePlay}, s.err
}

func TestActLogsEngineErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	log := logger.NewWithWriters(&out, &errOut)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	act(ctx, &stubPet{err: context.Canceled}, log, "FEED")

	if !strings.Contains(errOut.String(), "FEED failed: context canceled") {
		t.Errorf("Expected the feed error to be logged, got %q", errOut.String())
	}
	if strings.Contains(out.String(), "PLAYER_ACTION") {
		t.Errorf("A failed action must not be logged as applied: %q", out.String())
	}
}

func TestActLogsAppliedAction(t *testing.T) {
	var out bytes.Buffer
	log := logger.NewWithWriters(&out, &out)
	p := &stubPet{}

	act(context.Background(), p, log, "PLAY")

	if len(p.actors) != 1 || p.actors[0] != actor {
		t.Errorf("Expected one play from %q, got %v", actor, p.actors)
	}
	if !strings.Contains(out.String(), "[EVENT:PLAYER_ACTION_PLAY] Actor:terminal | pet-play.png") {
		t.Errorf("Unexpected log %q", out.String())
	}
}
