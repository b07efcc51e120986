package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/yurift/drift/pkg/errors"
)

func TestNewTasteVector_Valid(t *testing.T) {
	tv, err := NewTasteVector([]string{"snow", "forest", "hinoki"}, []string{"トロトロ", "おまかせ"})
	require.NoError(t, err)

	assert.Equal(t, []string{"snow", "forest", "hinoki"}, tv.VibeStrings())
	assert.Len(t, tv.Sensations(), 2)
}

func TestNewTasteVector_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		vibes      []string
		sensations []string
	}{
		{"two vibes", []string{"forest", "snow"}, []string{"トロトロ"}},
		{"four vibes", []string{"forest", "snow", "city", "cave"}, []string{"トロトロ"}},
		{"duplicate vibe", []string{"forest", "forest", "snow"}, []string{"トロトロ"}},
		{"unknown vibe", []string{"forest", "snow", "desert"}, []string{"トロトロ"}},
		{"no sensations", []string{"forest", "snow", "city"}, nil},
		{"five sensations", []string{"forest", "snow", "city"}, []string{"トロトロ", "ビリビリ", "シャキッ", "プンプン", "スースー"}},
		{"duplicate sensation", []string{"forest", "snow", "city"}, []string{"トロトロ", "トロトロ"}},
		{"unknown sensation", []string{"forest", "snow", "city"}, []string{"ぬるぬる"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTasteVector(tt.vibes, tt.sensations)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation), "expected VALIDATION error, got %v", err)
		})
	}
}

func TestTasteVector_AccessorsReturnCopies(t *testing.T) {
	tv := MustTasteVector([]string{"forest", "snow", "hinoki"}, []string{"トロトロ"})
	vibes := tv.Vibes()
	vibes[0] = VibeParty

	assert.Equal(t, VibeForest, tv.Vibes()[0])
}

func TestVibe_Label(t *testing.T) {
	for _, v := range AllVibes {
		assert.NotEqual(t, string(v), v.Label(), "vibe %s has no label", v)
	}
	assert.Equal(t, "グループ", VibeParty.Label())
	assert.Equal(t, "desert", Vibe("desert").Label())
}

func TestGeoPoint_Validate(t *testing.T) {
	for _, p := range []GeoPoint{{35.6812, 139.7671}, {-90, -180}, {90, 180}, {0, 0}} {
		assert.NoError(t, p.Validate(), "%v", p)
	}
	for _, p := range []GeoPoint{{90.01, 0}, {-91, 0}, {0, 180.5}, {0, -181}} {
		assert.Error(t, p.Validate(), "%v", p)
	}
}

func TestFacility_Validate(t *testing.T) {
	f := Facility{ID: 1, Name: "草津温泉", Lat: 36.62, Lng: 138.59, Price: 800}
	assert.NoError(t, f.Validate())

	f.Price = -1
	assert.Error(t, f.Validate())

	f.Price = 0
	f.Name = "  "
	assert.Error(t, f.Validate())
}

func TestFacility_HasKeyword(t *testing.T) {
	f := Facility{Keywords: []string{"森", "露天風呂"}}

	assert.True(t, f.HasKeyword("森"))
	assert.False(t, f.HasKeyword("海"))
}

func TestCacheEntry_IsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := CacheEntry{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, e.IsExpired(now))
	assert.True(t, e.IsExpired(now.Add(time.Minute)))
}
