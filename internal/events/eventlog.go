// Package events provides the append-only history of everything that happened to the pet.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a pet event.
type EventType string

const (
	EventTypeTick         EventType = "TICK"
	EventTypeFeed         EventType = "FEED"
	EventTypePlay         EventType = "PLAY"
	EventTypeSettle       EventType = "SETTLE"
	EventTypeDeath        EventType = "DEATH"
	EventTypeConfigLoaded EventType = "CONFIG_LOADED"
	EventTypeConfigFailed EventType = "CONFIG_FAILED"
)

// ActorSystem is the actor for timer-driven and internal events.
const ActorSystem = "SYSTEM"

// PetEvent represents an immutable record of something that happened.
type PetEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Species   string      `json:"species"`
	Age       int         `json:"age"`
	Payload   interface{} `json:"payload,omitempty"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event PetEvent) error
}

// DefaultCapacity is how many recent events an EventLog keeps in memory.
const DefaultCapacity = 10000

// EventLog is the in-memory append-only log of pet events. Only the most
// recent events are retained; offsets keep counting across evictions, so an
// offset always names the same event. The persister sees every event.
type EventLog struct {
	mu        sync.RWMutex
	events    []PetEvent
	head      int // first retained index into events
	dropped   int // events evicted so far, the offset of events[head]
	capacity  int
	persister EventPersister
	onError   func(error)
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return NewBoundedEventLog(persister, DefaultCapacity)
}

// NewBoundedEventLog creates an event log retaining at most capacity events.
// A capacity <= 0 falls back to DefaultCapacity.
func NewBoundedEventLog(persister EventPersister, capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &EventLog{
		events:    make([]PetEvent, 0),
		capacity:  capacity,
		persister: persister,
	}
}

// OnPersistError registers a callback for persister failures.
func (el *EventLog) OnPersistError(fn func(error)) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.onError = fn
}

// Append adds a new event to the log, filling ID and Timestamp when empty.
func (el *EventLog) Append(event PetEvent) PetEvent {
	if event.ID == "" {
		event.ID = NewEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ActorID == "" {
		event.ActorID = ActorSystem
	}

	el.mu.Lock()
	el.events = append(el.events, event)
	if len(el.events)-el.head > el.capacity {
		el.head++
		el.dropped++
	}
	// Compact once the evicted prefix is as large as the window.
	if el.head >= el.capacity {
		el.events = append([]PetEvent(nil), el.events[el.head:]...)
		el.head = 0
	}
	persister, onError := el.persister, el.onError
	el.mu.Unlock()

	if persister != nil {
		// Write through; archive writers serialise internally.
		if err := persister.Append(event); err != nil && onError != nil {
			onError(err)
		}
	}
	return event
}

// GetByType returns all events of the given type.
func (el *EventLog) GetByType(t EventType) []PetEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []PetEvent
	for _, e := range el.events[el.head:] {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Since returns the retained events at offset >= offset and the next offset.
// Offsets older than the retained window start at the oldest retained event.
func (el *EventLog) Since(offset int) ([]PetEvent, int) {
	el.mu.RLock()
	defer el.mu.RUnlock()

	retained := el.events[el.head:]
	next := el.dropped + len(retained)
	if offset < el.dropped {
		offset = el.dropped
	}
	if offset >= next {
		return nil, next
	}
	out := make([]PetEvent, next-offset)
	copy(out, retained[offset-el.dropped:])
	return out, next
}

// Dropped returns how many events have been evicted from memory.
func (el *EventLog) Dropped() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.dropped
}

// Replay returns a copy of the retained history.
func (el *EventLog) Replay() []PetEvent {
	events, _ := el.Since(0)
	return events
}

// Len returns the number of retained events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events) - el.head
}

// NewEventID creates a unique event identifier.
func NewEventID() string {
	return time.Now().UTC().Format("20060102150405") + "-" + uuid.NewString()[:8]
}
