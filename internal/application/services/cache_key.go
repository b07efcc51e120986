package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/pkg/geo"
)

// cacheKeyVersion is folded into every digest. Bump it whenever the
// normalization or the encoding below changes; all stored entries become
// unreachable.
const cacheKeyVersion = "v1"

// NormalizeSearchParams sorts the tags and rounds the coordinates to two
// decimals (~1.1 km grid cells).
func NormalizeSearchParams(taste entities.TasteVector, point entities.GeoPoint) entities.SearchParams {
	vibes := taste.VibeStrings()
	sort.Strings(vibes)

	sensations := taste.SensationStrings()
	sort.Strings(sensations)

	return entities.SearchParams{
		Location: entities.GeoPoint{
			Lat: geo.Round2(point.Lat),
			Lng: geo.Round2(point.Lng),
		},
		Sensations: sensations,
		Vibes:      vibes,
	}
}

// DeriveCacheKey returns the 64 hex character cache key for a request along
// with the normalized parameters it was derived from.
func DeriveCacheKey(taste entities.TasteVector, point entities.GeoPoint) (string, entities.SearchParams) {
	params := NormalizeSearchParams(taste, point)

	sum := sha256.Sum256(canonicalEncoding(params))
	return hex.EncodeToString(sum[:]), params
}

// canonicalEncoding writes params as compact JSON with a fixed key order and
// coordinates printed with exactly two decimals.
func canonicalEncoding(params entities.SearchParams) []byte {
	var buf bytes.Buffer
	buf.WriteString(cacheKeyVersion)
	buf.WriteByte(':')
	buf.WriteString(`{"location":{"lat":`)
	buf.WriteString(strconv.FormatFloat(params.Location.Lat, 'f', 2, 64))
	buf.WriteString(`,"lng":`)
	buf.WriteString(strconv.FormatFloat(params.Location.Lng, 'f', 2, 64))
	buf.WriteString(`},"sensations":`)
	writeStringArray(&buf, params.Sensations)
	buf.WriteString(`,"vibes":`)
	writeStringArray(&buf, params.Vibes)
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeStringArray(buf *bytes.Buffer, items []string) {
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		// marshalling a plain string cannot fail
		encoded, _ := json.Marshal(item)
		buf.Write(encoded)
	}
	buf.WriteByte(']')
}
