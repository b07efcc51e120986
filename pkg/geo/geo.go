// Package geo provides great-circle distance helpers in kilometres.
package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used by Distance
	EarthRadiusKm = 6371.0

	// kmPerDegreeLat matches the sphere Distance measures on
	kmPerDegreeLat = EarthRadiusKm * math.Pi / 180
	// boxMargin widens both box deltas so points at exactly the radius stay
	// inside after rounding and great-circle bulge in longitude
	boxMargin = 1.01
	// longitude degrees shrink towards the poles; below this cosine the box
	// spans every longitude
	minCosLat = 0.01
)

// Point is a coordinate in decimal degrees
type Point struct {
	Lat float64
	Lng float64
}

// BoundingBox is an axis-aligned latitude/longitude rectangle
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether p lies inside the box, edges included
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Distance returns the haversine distance between a and b in km, rounded to
// two decimals.
func Distance(a, b Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(a.Lat))*math.Cos(degreesToRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return Round2(EarthRadiusKm * c)
}

// WithinRange reports whether the rounded distance between a and b is at most maxKm
func WithinRange(a, b Point, maxKm float64) bool {
	return Distance(a, b) <= maxKm
}

// BoundingBoxAround returns a box that contains every point within radiusKm
// of center. It is a coarse pre-filter; callers still check Distance.
// Longitude is clamped to [-180, 180], not wrapped, so a circle crossing the
// antimeridian loses its far side.
func BoundingBoxAround(center Point, radiusKm float64) BoundingBox {
	latDelta := radiusKm * boxMargin / kmPerDegreeLat

	lngDelta := 180.0
	if cosLat := math.Cos(degreesToRadians(center.Lat)); cosLat > minCosLat {
		lngDelta = math.Min(radiusKm*boxMargin/(kmPerDegreeLat*cosLat), 180)
	}

	return BoundingBox{
		MinLat: math.Max(center.Lat-latDelta, -90),
		MaxLat: math.Min(center.Lat+latDelta, 90),
		MinLng: math.Max(center.Lng-lngDelta, -180),
		MaxLng: math.Min(center.Lng+lngDelta, 180),
	}
}

// Round2 rounds x to two decimal places, half away from zero. Negative zero
// is returned as zero.
func Round2(x float64) float64 {
	r := math.Round(x*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
