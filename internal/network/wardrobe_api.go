package network

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pocketpet/server/internal/platform/logger"
	"github.com/pocketpet/server/internal/wardrobe"
)

// WardrobeAPI handles the dress-up page.
type WardrobeAPI struct {
	wardrobe *wardrobe.Wardrobe
	logger   *logger.Logger
}

// NewWardrobeAPI creates the dress-up handlers.
func NewWardrobeAPI(w *wardrobe.Wardrobe, log *logger.Logger) *WardrobeAPI {
	return &WardrobeAPI{wardrobe: w, logger: log}
}

// EquipRequest is the payload for putting an accessory on.
type EquipRequest struct {
	OutfitID string `json:"outfit_id"` // e.g. "hat-1"
}

// SpeciesRequest is the payload for choosing a species.
type SpeciesRequest struct {
	Species string `json:"species"`
}

// HandleOutfit lists, equips or removes accessories.
// GET|POST|DELETE /api/outfit
func (wa *WardrobeAPI) HandleOutfit(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		outfits, err := wa.wardrobe.Outfits(r.Context())
		if err != nil {
			wa.logger.Error("Failed to read outfits: " + err.Error())
			jsonError(w, "Storage unavailable", http.StatusInternalServerError)
			return
		}
		jsonSuccess(w, map[string]interface{}{"outfits": outfits})

	case http.MethodPost:
		var req EquipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		category, src, err := wa.wardrobe.Equip(r.Context(), req.OutfitID)
		if errors.Is(err, wardrobe.ErrUnknownOutfit) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			wa.logger.Error("Failed to equip outfit: " + err.Error())
			jsonError(w, "Storage unavailable", http.StatusInternalServerError)
			return
		}
		jsonSuccess(w, map[string]interface{}{
			"success":  true,
			"category": category,
			"src":      src,
		})

	case http.MethodDelete:
		if err := wa.wardrobe.RemoveAll(r.Context()); err != nil {
			wa.logger.Error("Failed to remove outfits: " + err.Error())
			jsonError(w, "Storage unavailable", http.StatusInternalServerError)
			return
		}
		jsonSuccess(w, map[string]interface{}{"success": true})

	default:
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSpecies reads or selects the species.
// GET|POST /api/species
func (wa *WardrobeAPI) HandleSpecies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sp, err := wa.wardrobe.Species(r.Context())
		if err != nil {
			jsonError(w, "Storage unavailable", http.StatusInternalServerError)
			return
		}
		jsonSuccess(w, map[string]string{"species": sp})

	case http.MethodPost:
		var req SpeciesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		err := wa.wardrobe.SelectSpecies(r.Context(), req.Species)
		if errors.Is(err, wardrobe.ErrInvalidSpecies) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			wa.logger.Error("Failed to select species: " + err.Error())
			jsonError(w, "Storage unavailable", http.StatusInternalServerError)
			return
		}
		// The engine reads the species at startup only.
		jsonSuccess(w, map[string]interface{}{
			"success":          true,
			"species":          req.Species,
			"requires_restart": true,
		})

	default:
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// RegisterRoutes sets up the wardrobe API routes.
func (wa *WardrobeAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/outfit", wa.HandleOutfit)
	mux.HandleFunc("/api/species", wa.HandleSpecies)
}
