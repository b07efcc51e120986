package services

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurift/drift/internal/domain/entities"
)

func TestDeriveCacheKey_Format(t *testing.T) {
	key, _ := DeriveCacheKey(forestTaste(), tokyoStation)

	require.Len(t, key, 64)
	_, err := hex.DecodeString(key)
	assert.NoError(t, err)
}

func TestDeriveCacheKey_OrderInsensitive(t *testing.T) {
	a := entities.MustTasteVector([]string{"forest", "snow", "hinoki"}, []string{"トロトロ", "シュワシュワ"})
	b := entities.MustTasteVector([]string{"hinoki", "forest", "snow"}, []string{"シュワシュワ", "トロトロ"})

	keyA, paramsA := DeriveCacheKey(a, tokyoStation)
	keyB, paramsB := DeriveCacheKey(b, tokyoStation)

	assert.Equal(t, keyA, keyB)
	assert.Equal(t, paramsA, paramsB)
	assert.Equal(t, []string{"forest", "hinoki", "snow"}, paramsA.Vibes)
}

func TestDeriveCacheKey_SameGridCell(t *testing.T) {
	keyA, _ := DeriveCacheKey(forestTaste(), entities.GeoPoint{Lat: 35.681, Lng: 139.7671})
	keyB, _ := DeriveCacheKey(forestTaste(), entities.GeoPoint{Lat: 35.684, Lng: 139.7749})

	assert.Equal(t, keyA, keyB)
}

func TestDeriveCacheKey_DiffersOnSingleTag(t *testing.T) {
	base, _ := DeriveCacheKey(forestTaste(), tokyoStation)

	otherVibe, _ := DeriveCacheKey(
		entities.MustTasteVector([]string{"forest", "snow", "cave"}, []string{"トロトロ"}), tokyoStation)
	otherSensation, _ := DeriveCacheKey(
		entities.MustTasteVector([]string{"forest", "snow", "hinoki"}, []string{"ドロドロ"}), tokyoStation)
	extraSensation, _ := DeriveCacheKey(
		entities.MustTasteVector([]string{"forest", "snow", "hinoki"}, []string{"トロトロ", "ドロドロ"}), tokyoStation)

	assert.NotEqual(t, base, otherVibe)
	assert.NotEqual(t, base, otherSensation)
	assert.NotEqual(t, base, extraSensation)
}

func TestDeriveCacheKey_DiffersAcrossGridCells(t *testing.T) {
	keyA, _ := DeriveCacheKey(forestTaste(), entities.GeoPoint{Lat: 35.68, Lng: 139.77})
	keyB, _ := DeriveCacheKey(forestTaste(), entities.GeoPoint{Lat: 35.69, Lng: 139.77})

	assert.NotEqual(t, keyA, keyB)
}

func TestDeriveCacheKey_NegativeZeroNormalized(t *testing.T) {
	keyA, params := DeriveCacheKey(forestTaste(), entities.GeoPoint{Lat: -0.001, Lng: 0.001})
	keyB, _ := DeriveCacheKey(forestTaste(), entities.GeoPoint{Lat: 0, Lng: 0})

	assert.Equal(t, keyA, keyB)
	assert.Equal(t, entities.GeoPoint{Lat: 0, Lng: 0}, params.Location)
}

func TestCanonicalEncoding(t *testing.T) {
	params := NormalizeSearchParams(forestTaste(), entities.GeoPoint{Lat: 35.7, Lng: 139.7671})

	assert.Equal(t,
		`v1:{"location":{"lat":35.70,"lng":139.77},"sensations":["トロトロ"],"vibes":["forest","hinoki","snow"]}`,
		string(canonicalEncoding(params)))
}
