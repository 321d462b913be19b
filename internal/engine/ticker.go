package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pocketpet/server/internal/platform/logger"
)

// DefaultTickRate is how often the pet's life advances.
const DefaultTickRate = 1 * time.Second

// Ticker manages the life-loop heartbeat.
// It does NOT know about vitals, only time progression.
type Ticker struct {
	interval   time.Duration
	logger     *logger.Logger
	emit       func(ctx context.Context) error
	tickNumber atomic.Int64
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// NewTicker creates a ticker that calls emit every interval.
func NewTicker(interval time.Duration, log *logger.Logger, emit func(ctx context.Context) error) *Ticker {
	if interval <= 0 {
		interval = DefaultTickRate
	}
	return &Ticker{
		interval: interval,
		logger:   log,
		emit:     emit,
		stopChan: make(chan struct{}),
	}
}

// Start begins the loop. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("Life ticker started.")

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Life ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Life ticker stopped permanently.")
			return
		case <-ticker.C:
			t.tickNumber.Add(1)
			if err := t.emit(ctx); err != nil {
				return
			}
		}
	}
}

// Stop permanently stops the ticker. Safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopChan) })
}

// Stopped reports whether Stop has been called.
func (t *Ticker) Stopped() bool {
	select {
	case <-t.stopChan:
		return true
	default:
		return false
	}
}

// TickNumber returns how many timer ticks have fired.
func (t *Ticker) TickNumber() int64 {
	return t.tickNumber.Load()
}
