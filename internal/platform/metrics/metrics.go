// Package metrics provides observability for the pet server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers runtime counters.
type Collector struct {
	// Simulation
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	LastTickTime   time.Time
	Feeds          int64
	Plays          int64
	IgnoredActions int64 // actions received after death
	Deaths         int64

	// Species configuration
	ConfigLoads    int64
	ConfigFailures int64

	// Events
	EventsArchived int64
	ArchiveErrors  int64

	// WebSocket
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = New()

// New creates an empty collector. Tests use their own instance.
func New() *Collector {
	return &Collector{StartTime: time.Now()}
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordAction records a feed or play request. applied is false for a dead pet.
func (c *Collector) RecordAction(kind string, applied bool) {
	if !applied {
		atomic.AddInt64(&c.IgnoredActions, 1)
		return
	}
	switch kind {
	case "FEED":
		atomic.AddInt64(&c.Feeds, 1)
	case "PLAY":
		atomic.AddInt64(&c.Plays, 1)
	}
}

// RecordDeath records the terminal transition.
func (c *Collector) RecordDeath() {
	atomic.AddInt64(&c.Deaths, 1)
}

// RecordConfigLoad records the outcome of a species configuration fetch.
func (c *Collector) RecordConfigLoad(err error) {
	if err != nil {
		atomic.AddInt64(&c.ConfigFailures, 1)
		return
	}
	atomic.AddInt64(&c.ConfigLoads, 1)
}

// RecordArchiveWrite records an event archive write.
func (c *Collector) RecordArchiveWrite(err error) {
	if err != nil {
		atomic.AddInt64(&c.ArchiveErrors, 1)
		return
	}
	atomic.AddInt64(&c.EventsArchived, 1)
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)

	var tickAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"last_tick":      c.LastTickTime.Format(time.RFC3339),
		},

		"actions": map[string]interface{}{
			"feeds":   atomic.LoadInt64(&c.Feeds),
			"plays":   atomic.LoadInt64(&c.Plays),
			"ignored": atomic.LoadInt64(&c.IgnoredActions),
			"deaths":  atomic.LoadInt64(&c.Deaths),
		},

		"species_config": map[string]interface{}{
			"loads":    atomic.LoadInt64(&c.ConfigLoads),
			"failures": atomic.LoadInt64(&c.ConfigFailures),
		},

		"events": map[string]interface{}{
			"archived": atomic.LoadInt64(&c.EventsArchived),
			"errors":   atomic.LoadInt64(&c.ArchiveErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		counter := func(name, help string, v int64) {
			fmt.Fprintf(w, "# HELP %s %s\n", name, help)
			fmt.Fprintf(w, "# TYPE %s counter\n", name)
			fmt.Fprintf(w, "%s %d\n\n", name, v)
		}

		counter("vpet_tick_count", "Total tick cycles", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP vpet_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE vpet_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "vpet_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		fmt.Fprintf(w, "# HELP vpet_actions_total Feed and play actions\n")
		fmt.Fprintf(w, "# TYPE vpet_actions_total counter\n")
		fmt.Fprintf(w, "vpet_actions_total{kind=\"feed\"} %d\n", atomic.LoadInt64(&c.Feeds))
		fmt.Fprintf(w, "vpet_actions_total{kind=\"play\"} %d\n", atomic.LoadInt64(&c.Plays))
		fmt.Fprintf(w, "vpet_actions_total{kind=\"ignored\"} %d\n\n", atomic.LoadInt64(&c.IgnoredActions))

		counter("vpet_deaths_total", "Pet deaths", atomic.LoadInt64(&c.Deaths))
		counter("vpet_species_config_failures_total", "Failed species configuration loads", atomic.LoadInt64(&c.ConfigFailures))
		counter("vpet_events_archived_total", "Events written to the archive", atomic.LoadInt64(&c.EventsArchived))

		fmt.Fprintf(w, "# HELP vpet_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE vpet_ws_connections gauge\n")
		fmt.Fprintf(w, "vpet_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP vpet_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE vpet_ws_messages_total counter\n")
		fmt.Fprintf(w, "vpet_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "vpet_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
