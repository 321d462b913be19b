package network

import (
	"encoding/json"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/pocketpet/server/internal/engine"
)

// StateSource exposes the pet's latest snapshot.
type StateSource interface {
	Snapshot() engine.Snapshot
}

// StateHandler returns the pet snapshot together with the latest frame.
// GET /api/state
func StateHandler(source StateSource, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		resp := map[string]interface{}{"pet": source.Snapshot()}
		if latest := hub.Latest(); latest != nil {
			resp["frame"] = json.RawMessage(latest)
		}
		jsonSuccess(w, resp)
	}
}

// AssetHandler serves sprites, outfit images and species documents from dir
// with gzip negotiation.
func AssetHandler(dir string) http.Handler {
	return gzhttp.GzipHandler(http.FileServer(http.Dir(dir)))
}

// jsonError sends an error response.
func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
