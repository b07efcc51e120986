package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var tokyoStation = Point{Lat: 35.6812, Lng: 139.7671}

func TestDistance_IdenticalPointsIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Distance(tokyoStation, tokyoStation))
}

func TestDistance_Symmetric(t *testing.T) {
	hakone := Point{Lat: 35.2324, Lng: 139.1069}
	kusatsu := Point{Lat: 36.6206, Lng: 138.5962}

	assert.Equal(t, Distance(tokyoStation, hakone), Distance(hakone, tokyoStation))
	assert.Equal(t, Distance(kusatsu, hakone), Distance(hakone, kusatsu))
}

func TestDistance_KnownValue(t *testing.T) {
	// one degree of latitude on a 6371 km sphere
	d := Distance(Point{Lat: 0, Lng: 0}, Point{Lat: 1, Lng: 0})
	assert.Equal(t, 111.19, d)
}

func TestDistance_RoundedToTwoDecimals(t *testing.T) {
	d := Distance(tokyoStation, Point{Lat: 35.7, Lng: 139.8})
	assert.Equal(t, Round2(d), d)
}

func TestWithinRange(t *testing.T) {
	north := Point{Lat: 1, Lng: 0}
	origin := Point{Lat: 0, Lng: 0}

	assert.True(t, WithinRange(origin, north, 111.19))
	assert.False(t, WithinRange(origin, north, 111.18))
}

func TestBoundingBoxAround_ContainsRadius(t *testing.T) {
	box := BoundingBoxAround(tokyoStation, 50)

	// points roughly 49 km away in each cardinal direction
	assert.True(t, box.Contains(Point{Lat: tokyoStation.Lat + 0.44, Lng: tokyoStation.Lng}))
	assert.True(t, box.Contains(Point{Lat: tokyoStation.Lat - 0.44, Lng: tokyoStation.Lng}))
	assert.True(t, box.Contains(Point{Lat: tokyoStation.Lat, Lng: tokyoStation.Lng + 0.54}))
	assert.True(t, box.Contains(Point{Lat: tokyoStation.Lat, Lng: tokyoStation.Lng - 0.54}))

	assert.False(t, box.Contains(Point{Lat: tokyoStation.Lat + 0.5, Lng: tokyoStation.Lng}))
}

// destination returns the point km away from p along the initial bearing
func destination(p Point, km, bearingDeg float64) Point {
	delta := km / EarthRadiusKm
	theta := degreesToRadians(bearingDeg)
	phi1 := degreesToRadians(p.Lat)
	lambda1 := degreesToRadians(p.Lng)

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2),
	)
	return Point{Lat: phi2 * 180 / math.Pi, Lng: lambda2 * 180 / math.Pi}
}

func TestBoundingBoxAround_ContainsPointsAtExactRadius(t *testing.T) {
	centers := map[string]Point{
		"tokyo":    tokyoStation,
		"sapporo":  {Lat: 43.0621, Lng: 141.3544},
		"equator":  {Lat: 0, Lng: 0},
		"southern": {Lat: -45, Lng: 170},
	}

	for name, center := range centers {
		t.Run(name, func(t *testing.T) {
			box := BoundingBoxAround(center, 50)

			for _, bearing := range []float64{0, 90, 180, 270} {
				p := destination(center, 50, bearing)
				assert.InDelta(t, 50.0, Distance(center, p), 0.01, "bearing %v", bearing)
				assert.True(t, box.Contains(p), "point at bearing %v excluded by %+v", bearing, box)
			}

			// the circle reaches its widest longitude off the east-west line
			widest := math.Asin(math.Sin(50/EarthRadiusKm)/math.Cos(degreesToRadians(center.Lat))) * 180 / math.Pi
			assert.LessOrEqual(t, center.Lng+widest, box.MaxLng)
			assert.GreaterOrEqual(t, center.Lng-widest, box.MinLng)
		})
	}
}

func TestBoundingBoxAround_ClampsNearPoles(t *testing.T) {
	box := BoundingBoxAround(Point{Lat: 89.9, Lng: 0}, 50)

	assert.Equal(t, 90.0, box.MaxLat)
	assert.Equal(t, -180.0, box.MinLng)
	assert.Equal(t, 180.0, box.MaxLng)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 35.68, Round2(35.6812))
	assert.Equal(t, 35.69, Round2(35.6862))
	assert.Equal(t, 0.0, Round2(-0.001))
	assert.Equal(t, -1.23, Round2(-1.234))
}

func TestBoundingBoxAround_ClampsAtAntimeridian(t *testing.T) {
	box := BoundingBoxAround(Point{Lat: -17.7, Lng: 179.9}, 50)

	assert.Equal(t, 180.0, box.MaxLng)
	assert.Less(t, box.MinLng, 179.9)
	assert.False(t, box.Contains(Point{Lat: -17.7, Lng: -179.9}))
}
