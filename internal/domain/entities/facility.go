package entities

import (
	"fmt"
	"strings"

	apperrors "github.com/yurift/drift/pkg/errors"
)

// Facility is a hot-spring facility record as held by the candidate store
type Facility struct {
	ID       int64    `json:"id" db:"id"`
	Name     string   `json:"name" db:"name"`
	Address  string   `json:"address" db:"address"`
	Lat      float64  `json:"lat" db:"lat"`
	Lng      float64  `json:"lng" db:"lng"`
	Price    int      `json:"price" db:"price"`
	Keywords []string `json:"keywords" db:"keywords"`
}

// Validate checks the record at the store boundary. Rows that fail are
// skipped by the adapters instead of failing the whole fetch.
func (f *Facility) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return apperrors.NewValidationError(fmt.Sprintf("facility %d has no name", f.ID))
	}
	if f.Price < 0 {
		return apperrors.NewValidationError(fmt.Sprintf("facility %d has negative price %d", f.ID, f.Price))
	}
	return f.Location().Validate()
}

// Location returns the facility coordinates
func (f *Facility) Location() GeoPoint {
	return GeoPoint{Lat: f.Lat, Lng: f.Lng}
}

// HasKeyword reports whether the facility carries the keyword (exact match)
func (f *Facility) HasKeyword(keyword string) bool {
	for _, k := range f.Keywords {
		if k == keyword {
			return true
		}
	}
	return false
}

// ScoredFacility is a facility with its distance from the search origin and
// its match score, both rounded to two decimals.
type ScoredFacility struct {
	Facility   Facility
	DistanceKm float64
	Score      float64
}
