package entities

import (
	"fmt"
	"math"

	apperrors "github.com/yurift/drift/pkg/errors"
	"github.com/yurift/drift/pkg/geo"
)

// BoundingBox is the rectangle handed to candidate sources
type BoundingBox = geo.BoundingBox

// GeoPoint is a WGS84 coordinate in decimal degrees
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks that the point lies within the valid coordinate ranges
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return apperrors.NewValidationError(fmt.Sprintf("latitude out of range: %v", p.Lat))
	}
	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		return apperrors.NewValidationError(fmt.Sprintf("longitude out of range: %v", p.Lng))
	}
	return nil
}

// Point converts to the geo package representation
func (p GeoPoint) Point() geo.Point {
	return geo.Point{Lat: p.Lat, Lng: p.Lng}
}
