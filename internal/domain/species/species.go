// Package species defines the per-species accessory configuration document.
// This package is PURE and must NOT import any infrastructure packages.
package species

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pocketpet/server/internal/domain/outfit"
)

// Shift is a 2D offset for one accessory: percent translation and degrees rotation.
type Shift struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// UnmarshalJSON accepts either {"x":..,"y":..,"r":..} or a bare number,
// which older documents used as a vertical-only offset.
func (s *Shift) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Shift{}
		return nil
	}

	if data[0] != '{' {
		var y float64
		if err := json.Unmarshal(data, &y); err != nil {
			return fmt.Errorf("shift: %w", err)
		}
		*s = Shift{Y: y}
		return nil
	}

	type plain Shift
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("shift: %w", err)
	}
	*s = Shift(p)
	return nil
}

// IsZero reports whether the shift leaves the overlay untouched.
func (s Shift) IsZero() bool {
	return s == Shift{}
}

// Transform renders the shift as a CSS transform value.
func (s Shift) Transform() string {
	return fmt.Sprintf("translate(%s%%, %s%%) rotate(%sdeg)",
		formatNumber(s.X), formatNumber(s.Y), formatNumber(s.R))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Configuration maps category -> sprite filename -> shift.
// A nil Configuration means "not loaded" and yields zero shifts everywhere.
type Configuration map[outfit.Category]map[string]Shift

// Lookup returns the shift for a category and sprite filename, zero on any miss.
func (c Configuration) Lookup(category outfit.Category, filename string) Shift {
	if c == nil {
		return Shift{}
	}
	byState, ok := c[category]
	if !ok {
		return Shift{}
	}
	return byState[filename]
}

// Parse decodes a species configuration document.
func Parse(data []byte) (Configuration, error) {
	cfg := make(Configuration)
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse species configuration: %w", err)
	}
	return cfg, nil
}
