package network

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pocketpet/server/internal/events"
	"github.com/pocketpet/server/internal/platform/logger"
)

// ReplayHandler exposes the pet's event history.
type ReplayHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(el *events.EventLog, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{
		eventLog: el,
		logger:   log,
	}
}

// ReplayEvent is an event formatted for viewing.
type ReplayEvent struct {
	ID        string      `json:"id"`
	Timestamp string      `json:"timestamp"`
	Age       int         `json:"age"`
	Type      string      `json:"type"`
	ActorID   string      `json:"actor_id"`
	Species   string      `json:"species"`
	Summary   string      `json:"summary"`
	Impact    string      `json:"impact"`
	Details   interface{} `json:"details,omitempty"`
}

// ReplayResponse is the API response for a replay.
type ReplayResponse struct {
	TotalEvents   int           `json:"total_events"`
	FilteredBy    string        `json:"filtered_by,omitempty"`
	NextOffset    int           `json:"next_offset"`
	DroppedEvents int           `json:"dropped_events"` // evicted from memory, still in the archive
	GeneratedAt   string        `json:"generated_at"`
	Events        []ReplayEvent `json:"events"`
}

// HandleReplay returns the event history.
// GET /api/events?type=FEED&since=N
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	since := 0
	if s := r.URL.Query().Get("since"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			jsonError(w, "Invalid since offset", http.StatusBadRequest)
			return
		}
		since = n
	}
	eventType := r.URL.Query().Get("type")

	all, next := rh.eventLog.Since(since)

	replayEvents := make([]ReplayEvent, 0, len(all))
	for _, e := range all {
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		replayEvents = append(replayEvents, convertToReplayEvent(e))
	}

	filterDesc := ""
	if eventType != "" {
		filterDesc = "type " + eventType
	}

	rh.logger.Event("REPLAY", "VIEWER", "Events:"+strconv.Itoa(len(replayEvents)))

	jsonSuccess(w, ReplayResponse{
		TotalEvents:   len(replayEvents),
		FilteredBy:    filterDesc,
		NextOffset:    next,
		DroppedEvents: rh.eventLog.Dropped(),
		GeneratedAt:   time.Now().Format(time.RFC3339),
		Events:        replayEvents,
	})
}

// HandleStats returns per-type event counts.
// GET /api/events/stats
func (rh *ReplayHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := rh.eventLog.Replay()
	stats := map[string]int{"total_events": len(all)}
	for _, e := range all {
		stats[string(e.Type)]++
	}

	jsonSuccess(w, map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"stats":        stats,
	})
}

// RegisterRoutes sets up the replay API routes.
func (rh *ReplayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/events", rh.HandleReplay)
	mux.HandleFunc("/api/events/stats", rh.HandleStats)
}

func convertToReplayEvent(e events.PetEvent) ReplayEvent {
	return ReplayEvent{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format("15:04:05"),
		Age:       e.Age,
		Type:      string(e.Type),
		ActorID:   e.ActorID,
		Species:   e.Species,
		Summary:   summarizeEvent(e),
		Impact:    determineImpact(e),
		Details:   e.Payload,
	}
}

func summarizeEvent(e events.PetEvent) string {
	switch e.Type {
	case events.EventTypeTick:
		return "Time passed."
	case events.EventTypeFeed:
		return "The pet was fed."
	case events.EventTypePlay:
		return "Someone played with the pet."
	case events.EventTypeSettle:
		return "The pet calmed down."
	case events.EventTypeDeath:
		return "The pet passed away."
	case events.EventTypeConfigLoaded:
		return "Accessory layout loaded."
	case events.EventTypeConfigFailed:
		return "Accessory layout unavailable."
	default:
		return "Something happened..."
	}
}

func determineImpact(e events.PetEvent) string {
	switch e.Type {
	case events.EventTypeFeed, events.EventTypePlay:
		return "POSITIVE"
	case events.EventTypeDeath, events.EventTypeConfigFailed:
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}
