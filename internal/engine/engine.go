package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pocketpet/server/internal/domain/outfit"
	"github.com/pocketpet/server/internal/domain/pet"
	"github.com/pocketpet/server/internal/domain/rules"
	"github.com/pocketpet/server/internal/domain/species"
	"github.com/pocketpet/server/internal/events"
	"github.com/pocketpet/server/internal/platform/logger"
	"github.com/pocketpet/server/internal/platform/metrics"
	"github.com/pocketpet/server/internal/render"
)

// DeathNotice is shown once when the pet dies.
const DeathNotice = "Your pet has passed away!"

// ErrAlreadyRunning is returned when Run is called twice.
var ErrAlreadyRunning = errors.New("engine: already running")

// PreferenceReader reads persisted user choices (species and outfits).
type PreferenceReader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// ConfigLoader fetches the accessory configuration for a species.
type ConfigLoader interface {
	Fetch(ctx context.Context, speciesID string) (species.Configuration, error)
}

// TaskKind names a unit of work for the engine loop.
type TaskKind string

const (
	TaskTick         TaskKind = "TICK"
	TaskFeed         TaskKind = "FEED"
	TaskPlay         TaskKind = "PLAY"
	TaskSettle       TaskKind = "SETTLE"
	TaskConfigLoaded TaskKind = "CONFIG_LOADED"
)

type task struct {
	kind   TaskKind
	actor  string
	config species.Configuration
	done   chan ActionResult
}

// ActionResult is reported back to the submitter of a feed or play.
type ActionResult struct {
	Applied bool            `json:"applied"`
	Died    bool            `json:"died"`
	Vitals  pet.Vitals      `json:"vitals"`
	State   pet.VisualState `json:"state"`
}

// Snapshot is the externally visible state of the pet.
type Snapshot struct {
	Species      string            `json:"species"`
	Vitals       pet.Vitals        `json:"vitals"`
	State        pet.VisualState   `json:"state"`
	ConfigLoaded bool              `json:"config_loaded"`
	Equipped     map[string]string `json:"equipped"`
}

// Options tunes an Engine. Zero values fall back to defaults.
type Options struct {
	TickInterval  time.Duration
	SettleDelay   time.Duration
	FetchTimeout  time.Duration
	MoodThreshold int
	QueueSize     int
	Metrics       *metrics.Collector
}

// Engine is the central orchestrator. It owns the simulator and the
// resolver, drives the surface, and records every mutation in the event log.
type Engine struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector
	ticker   *Ticker

	sim      *Simulator
	resolver *Resolver
	prefs    PreferenceReader
	loader   ConfigLoader
	surface  render.Surface

	settleDelay  time.Duration
	fetchTimeout time.Duration
	tasks        chan task
	running      atomic.Bool

	// Loop-owned state.
	species   string
	displayed pet.VisualState

	snapMu   sync.RWMutex
	snapshot Snapshot
}

// NewEngine wires the simulator, resolver and ticker together.
// loader may be nil, in which case every shift stays zero.
func NewEngine(surface render.Surface, prefs PreferenceReader, loader ConfigLoader, eventLog *events.EventLog, log *logger.Logger, opts Options) *Engine {
	if opts.MoodThreshold <= 0 {
		opts.MoodThreshold = rules.DefaultMoodThreshold
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = time.Second
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 5 * time.Second
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if eventLog == nil {
		eventLog = events.NewEventLog(nil)
	}

	e := &Engine{
		eventLog:     eventLog,
		logger:       log,
		metrics:      opts.Metrics,
		sim:          NewSimulator(nil, opts.MoodThreshold),
		resolver:     NewResolver(),
		prefs:        prefs,
		loader:       loader,
		surface:      surface,
		settleDelay:  opts.SettleDelay,
		fetchTimeout: opts.FetchTimeout,
		tasks:        make(chan task, opts.QueueSize),
		species:      pet.DefaultSpecies,
	}
	e.ticker = NewTicker(opts.TickInterval, log, func(ctx context.Context) error {
		return e.enqueue(ctx, task{kind: TaskTick, actor: events.ActorSystem})
	})
	return e
}

// Start runs the engine loop in a goroutine.
func (e *Engine) Start(ctx context.Context) {
	go func() {
		if err := e.Run(ctx); err != nil {
			e.logger.Error("Engine stopped: " + err.Error())
		}
	}()
}

// Run reads the species preference, draws the first frame, starts the
// ticker and the configuration fetch, then drains tasks until ctx ends.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	e.logger.Info("Starting pet engine...")

	e.species = e.readPreference(ctx, outfit.SpeciesKey)
	if e.species == "" {
		e.species = pet.DefaultSpecies
	}
	e.render(ctx, e.sim.State())

	go e.ticker.Start(ctx)
	go e.loadConfiguration(ctx)

	for {
		select {
		case <-ctx.Done():
			e.ticker.Stop()
			e.logger.Info("Pet engine stopped.")
			return nil
		case t := <-e.tasks:
			e.handle(ctx, t)
		}
	}
}

// Feed submits a feed action and waits for the loop to apply it.
func (e *Engine) Feed(ctx context.Context, actor string) (ActionResult, error) {
	return e.submit(ctx, TaskFeed, actor)
}

// Play submits a play action and waits for the loop to apply it.
func (e *Engine) Play(ctx context.Context, actor string) (ActionResult, error) {
	return e.submit(ctx, TaskPlay, actor)
}

// Advance runs one tick through the loop immediately, outside the timer.
func (e *Engine) Advance(ctx context.Context) (ActionResult, error) {
	return e.submit(ctx, TaskTick, events.ActorSystem)
}

// Snapshot returns the state as of the last rendered frame.
func (e *Engine) Snapshot() Snapshot {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	s := e.snapshot
	s.Equipped = make(map[string]string, len(e.snapshot.Equipped))
	for k, v := range e.snapshot.Equipped {
		s.Equipped[k] = v
	}
	return s
}

// EventLog exposes the log for read-side handlers.
func (e *Engine) EventLog() *events.EventLog {
	return e.eventLog
}

// TickerStopped reports whether the periodic timer has been cancelled.
func (e *Engine) TickerStopped() bool {
	return e.ticker.Stopped()
}

func (e *Engine) submit(ctx context.Context, kind TaskKind, actor string) (ActionResult, error) {
	done := make(chan ActionResult, 1)
	if err := e.enqueue(ctx, task{kind: kind, actor: actor, done: done}); err != nil {
		return ActionResult{}, err
	}
	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return ActionResult{}, ctx.Err()
	}
}

func (e *Engine) enqueue(ctx context.Context, t task) error {
	select {
	case e.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) handle(ctx context.Context, t task) {
	var res ActionResult
	switch t.kind {
	case TaskTick:
		res = e.handleTick(ctx)
	case TaskFeed:
		res = e.handleAction(ctx, t, e.sim.Feed, events.EventTypeFeed, pet.StateEating)
	case TaskPlay:
		res = e.handleAction(ctx, t, e.sim.Play, events.EventTypePlay, pet.StatePlay)
	case TaskSettle:
		e.render(ctx, e.sim.State())
		e.record(events.EventTypeSettle, events.ActorSystem, map[string]string{"state": string(e.displayed)})
	case TaskConfigLoaded:
		if e.resolver.SetConfiguration(t.config) {
			e.record(events.EventTypeConfigLoaded, events.ActorSystem, map[string]int{"categories": len(t.config)})
			e.render(ctx, e.displayed)
		}
	default:
		e.logger.Warn("Unknown task kind: " + string(t.kind))
	}
	if t.done != nil {
		t.done <- res
	}
}

func (e *Engine) handleTick(ctx context.Context) ActionResult {
	start := time.Now()
	out := e.sim.Tick()
	if !out.Applied {
		return e.result(out)
	}

	e.render(ctx, e.sim.State())
	e.record(events.EventTypeTick, events.ActorSystem, e.sim.Vitals())
	if out.Died {
		e.die(ctx)
	}
	e.metrics.RecordTick(time.Since(start))
	return e.result(out)
}

// handleAction applies a feed or play. A live pet shows the transient state
// right away and settles back to its classified state after the settle delay.
func (e *Engine) handleAction(ctx context.Context, t task, apply func() Outcome, eventType events.EventType, transient pet.VisualState) ActionResult {
	out := apply()
	e.metrics.RecordAction(string(eventType), out.Applied)
	if !out.Applied {
		e.logger.Warn(fmt.Sprintf("%s ignored: pet is dead", eventType))
		return e.result(out)
	}

	e.record(eventType, t.actor, e.sim.Vitals())
	if out.Died {
		e.render(ctx, e.sim.State())
		e.die(ctx)
		return e.result(out)
	}

	e.render(ctx, transient)
	time.AfterFunc(e.settleDelay, func() {
		if err := e.enqueue(ctx, task{kind: TaskSettle, actor: events.ActorSystem}); err != nil {
			e.logger.Warn("Settle dropped: " + err.Error())
		}
	})
	return e.result(out)
}

func (e *Engine) die(ctx context.Context) {
	e.ticker.Stop()
	e.surface.DisableActions()
	e.surface.Notify(DeathNotice)
	e.flush()
	e.metrics.RecordDeath()
	e.record(events.EventTypeDeath, events.ActorSystem, e.sim.Vitals())
	e.logger.Warn(fmt.Sprintf("Pet %s died at age %d", e.species, e.sim.Vitals().Age))
}

func (e *Engine) result(out Outcome) ActionResult {
	return ActionResult{
		Applied: out.Applied,
		Died:    out.Died,
		Vitals:  e.sim.Vitals(),
		State:   e.displayed,
	}
}

// render pushes stat texts, the sprite and the accessory overlays for state.
func (e *Engine) render(ctx context.Context, state pet.VisualState) {
	v := e.sim.Vitals()
	e.surface.SetText(render.DisplayHunger, fmt.Sprintf("%d%%", v.Hunger))
	e.surface.SetText(render.DisplayHappiness, fmt.Sprintf("%d%%", v.Happiness))
	e.surface.SetText(render.DisplayAge, fmt.Sprintf("%d", v.Age))
	e.surface.SetText(render.DisplayWeight, fmt.Sprintf("%d lbs", v.Weight))
	e.surface.SetText(render.DisplayStrength, fmt.Sprintf("%d strength", v.Strength))
	e.surface.SetImage(render.ElementPet, pet.SpritePath(e.species, state))

	equipped := e.equipped(ctx)
	for _, category := range outfit.Categories {
		e.surface.SetImage(render.ElementID(category.ElementID()), equipped[category])
	}
	e.resolver.ApplyShifts(e.surface, state, equipped)
	e.flush()

	e.displayed = state
	worn := make(map[string]string, len(equipped))
	for category, src := range equipped {
		worn[string(category)] = src
	}
	e.snapMu.Lock()
	e.snapshot = Snapshot{
		Species:      e.species,
		Vitals:       v,
		State:        state,
		ConfigLoaded: e.resolver.Loaded(),
		Equipped:     worn,
	}
	e.snapMu.Unlock()
}

func (e *Engine) flush() {
	if f, ok := e.surface.(render.Flusher); ok {
		f.Flush()
	}
}

// equipped reads the stored image reference of every worn accessory.
func (e *Engine) equipped(ctx context.Context) map[outfit.Category]string {
	out := make(map[outfit.Category]string, len(outfit.Categories))
	for _, category := range outfit.Categories {
		if src := e.readPreference(ctx, category.StorageKey()); src != "" {
			out[category] = src
		}
	}
	return out
}

func (e *Engine) readPreference(ctx context.Context, key string) string {
	if e.prefs == nil {
		return ""
	}
	v, ok, err := e.prefs.Get(ctx, key)
	if err != nil {
		e.logger.Warn(fmt.Sprintf("Preference %s unreadable: %v", key, err))
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// loadConfiguration fetches the species document once. Failure leaves the
// resolver empty so every shift stays zero.
func (e *Engine) loadConfiguration(ctx context.Context) {
	if e.loader == nil {
		return
	}
	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	cfg, err := e.loader.Fetch(fetchCtx, e.species)
	e.metrics.RecordConfigLoad(err)
	if err != nil {
		e.logger.Errorf("Error loading config for %s: %v", e.species, err)
		e.eventLog.Append(events.PetEvent{
			Type:    events.EventTypeConfigFailed,
			ActorID: events.ActorSystem,
			Species: e.species,
			Age:     e.Snapshot().Vitals.Age,
			Payload: map[string]string{"error": err.Error()},
		})
		return
	}
	e.logger.Info("Loaded accessory configuration for " + e.species)

	if err := e.enqueue(ctx, task{kind: TaskConfigLoaded, actor: events.ActorSystem, config: cfg}); err != nil {
		e.logger.Warn("Configuration dropped: " + err.Error())
	}
}

// record appends an event from the loop goroutine.
func (e *Engine) record(t events.EventType, actor string, payload interface{}) {
	e.eventLog.Append(events.PetEvent{
		Type:    t,
		ActorID: actor,
		Species: e.species,
		Age:     e.sim.Vitals().Age,
		Payload: payload,
	})
}
