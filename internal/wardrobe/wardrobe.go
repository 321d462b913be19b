// Package wardrobe writes the user's outfit and species choices that the
// engine reads back on every render.
package wardrobe

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/pocketpet/server/internal/domain/outfit"
	"github.com/pocketpet/server/internal/domain/pet"
	"github.com/pocketpet/server/internal/infra/storage"
	"github.com/pocketpet/server/internal/platform/logger"
)

var (
	ErrUnknownOutfit  = errors.New("wardrobe: unknown outfit")
	ErrInvalidSpecies = errors.New("wardrobe: invalid species")
)

var identPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Wardrobe manages the persisted outfit and species preferences.
type Wardrobe struct {
	store  storage.KeyValueStore
	logger *logger.Logger
}

// New creates a wardrobe over store.
func New(store storage.KeyValueStore, log *logger.Logger) *Wardrobe {
	return &Wardrobe{store: store, logger: log}
}

// Equip stores the image of outfitID in the slot derived from its prefix.
// Equipping replaces whatever the slot held.
func (w *Wardrobe) Equip(ctx context.Context, outfitID string) (outfit.Category, string, error) {
	if !identPattern.MatchString(outfitID) {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownOutfit, outfitID)
	}
	category, ok := outfit.CategoryFor(outfitID)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownOutfit, outfitID)
	}

	src := outfit.ImagePath(outfitID)
	if err := w.store.Set(ctx, category.StorageKey(), src); err != nil {
		return "", "", fmt.Errorf("equip %s: %w", outfitID, err)
	}
	w.logger.Event("EQUIP", string(category), src)
	return category, src, nil
}

// RemoveAll clears every accessory slot.
func (w *Wardrobe) RemoveAll(ctx context.Context) error {
	keys := make([]string, 0, len(outfit.Categories))
	for _, c := range outfit.Categories {
		keys = append(keys, c.StorageKey())
	}
	if err := w.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("remove outfits: %w", err)
	}
	w.logger.Event("UNDRESS", "ALL", "all accessory slots cleared")
	return nil
}

// Outfits returns the stored image of every occupied slot.
func (w *Wardrobe) Outfits(ctx context.Context) (map[outfit.Category]string, error) {
	out := make(map[outfit.Category]string, len(outfit.Categories))
	for _, c := range outfit.Categories {
		src, ok, err := w.store.Get(ctx, c.StorageKey())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c, err)
		}
		if ok && src != "" {
			out[c] = src
		}
	}
	return out, nil
}

// SelectSpecies stores the species shown from the next engine start.
func (w *Wardrobe) SelectSpecies(ctx context.Context, speciesID string) error {
	if !identPattern.MatchString(speciesID) {
		return fmt.Errorf("%w: %q", ErrInvalidSpecies, speciesID)
	}
	if err := w.store.Set(ctx, outfit.SpeciesKey, speciesID); err != nil {
		return fmt.Errorf("select species: %w", err)
	}
	w.logger.Event("SPECIES", speciesID, "species selected")
	return nil
}

// Species returns the selected species, defaulting to pet.DefaultSpecies.
func (w *Wardrobe) Species(ctx context.Context) (string, error) {
	v, ok, err := w.store.Get(ctx, outfit.SpeciesKey)
	if err != nil {
		return "", fmt.Errorf("read species: %w", err)
	}
	if !ok || v == "" {
		return pet.DefaultSpecies, nil
	}
	return v, nil
}
