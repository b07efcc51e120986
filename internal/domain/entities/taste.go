package entities

import (
	"fmt"

	apperrors "github.com/yurift/drift/pkg/errors"
)

// Vibe is a mood/environment tag chosen by the user
type Vibe string

const (
	VibeForest   Vibe = "forest"
	VibeCity     Vibe = "city"
	VibeSnow     Vibe = "snow"
	VibeBonfire  Vibe = "bonfire"
	VibeHinoki   Vibe = "hinoki"
	VibeConcrete Vibe = "concrete"
	VibeOcean    Vibe = "ocean"
	VibeCave     Vibe = "cave"
	VibeMorning  Vibe = "morning"
	VibeSunset   Vibe = "sunset"
	VibeSolo     Vibe = "solo"
	VibeParty    Vibe = "party"
)

// Sensation is a tactile hot-spring sensation tag chosen by the user
type Sensation string

const (
	SensationToroToro   Sensation = "トロトロ"
	SensationBiriBiri   Sensation = "ビリビリ"
	SensationShakit     Sensation = "シャキッ"
	SensationPunPun     Sensation = "プンプン"
	SensationShuwaShuwa Sensation = "シュワシュワ"
	SensationDoroDoro   Sensation = "ドロドロ"
	SensationSuuSuu     Sensation = "スースー"
	SensationOmakase    Sensation = "おまかせ"
)

const (
	// VibeCount is the exact number of vibes a taste vector carries
	VibeCount = 3
	// MinSensations is the minimum number of sensations in a taste vector
	MinSensations = 1
	// MaxSensations is the maximum number of sensations in a taste vector
	MaxSensations = 4
)

// AllVibes lists the closed vibe enumeration
var AllVibes = []Vibe{
	VibeForest, VibeCity, VibeSnow, VibeBonfire, VibeHinoki, VibeConcrete,
	VibeOcean, VibeCave, VibeMorning, VibeSunset, VibeSolo, VibeParty,
}

// AllSensations lists the closed sensation enumeration
var AllSensations = []Sensation{
	SensationToroToro, SensationBiriBiri, SensationShakit, SensationPunPun,
	SensationShuwaShuwa, SensationDoroDoro, SensationSuuSuu, SensationOmakase,
}

var vibeLabels = map[Vibe]string{
	VibeForest:   "森",
	VibeCity:     "都会",
	VibeSnow:     "雪",
	VibeBonfire:  "焚き火",
	VibeHinoki:   "檜",
	VibeConcrete: "コンクリート",
	VibeOcean:    "海",
	VibeCave:     "洞窟",
	VibeMorning:  "朝",
	VibeSunset:   "夕日",
	VibeSolo:     "一人",
	VibeParty:    "グループ",
}

// Label returns the Japanese label used in generated copy
func (v Vibe) Label() string {
	if label, ok := vibeLabels[v]; ok {
		return label
	}
	return string(v)
}

// IsValid reports whether v belongs to the vibe enumeration
func (v Vibe) IsValid() bool {
	for _, known := range AllVibes {
		if v == known {
			return true
		}
	}
	return false
}

// IsValid reports whether s belongs to the sensation enumeration
func (s Sensation) IsValid() bool {
	for _, known := range AllSensations {
		if s == known {
			return true
		}
	}
	return false
}

// TasteVector is a validated combination of vibes and sensations.
// Build it with NewTasteVector; the zero value is not a valid vector.
type TasteVector struct {
	vibes      []Vibe
	sensations []Sensation
}

// NewTasteVector validates the tags and returns an immutable taste vector.
// Input order is preserved.
func NewTasteVector(vibes []string, sensations []string) (TasteVector, error) {
	if len(vibes) != VibeCount {
		return TasteVector{}, apperrors.NewValidationError(
			fmt.Sprintf("exactly %d vibes are required, got %d", VibeCount, len(vibes)))
	}
	if len(sensations) < MinSensations || len(sensations) > MaxSensations {
		return TasteVector{}, apperrors.NewValidationError(
			fmt.Sprintf("between %d and %d sensations are required, got %d", MinSensations, MaxSensations, len(sensations)))
	}

	tv := TasteVector{
		vibes:      make([]Vibe, 0, len(vibes)),
		sensations: make([]Sensation, 0, len(sensations)),
	}

	seenVibes := make(map[Vibe]struct{}, len(vibes))
	for _, raw := range vibes {
		v := Vibe(raw)
		if !v.IsValid() {
			return TasteVector{}, apperrors.NewValidationError(fmt.Sprintf("unknown vibe: %q", raw))
		}
		if _, dup := seenVibes[v]; dup {
			return TasteVector{}, apperrors.NewValidationError(fmt.Sprintf("duplicate vibe: %q", raw))
		}
		seenVibes[v] = struct{}{}
		tv.vibes = append(tv.vibes, v)
	}

	seenSensations := make(map[Sensation]struct{}, len(sensations))
	for _, raw := range sensations {
		s := Sensation(raw)
		if !s.IsValid() {
			return TasteVector{}, apperrors.NewValidationError(fmt.Sprintf("unknown sensation: %q", raw))
		}
		if _, dup := seenSensations[s]; dup {
			return TasteVector{}, apperrors.NewValidationError(fmt.Sprintf("duplicate sensation: %q", raw))
		}
		seenSensations[s] = struct{}{}
		tv.sensations = append(tv.sensations, s)
	}

	return tv, nil
}

// MustTasteVector is NewTasteVector for static inputs; it panics on invalid tags
func MustTasteVector(vibes []string, sensations []string) TasteVector {
	tv, err := NewTasteVector(vibes, sensations)
	if err != nil {
		panic(err)
	}
	return tv
}

// Vibes returns a copy of the vibes in input order
func (t TasteVector) Vibes() []Vibe {
	out := make([]Vibe, len(t.vibes))
	copy(out, t.vibes)
	return out
}

// Sensations returns a copy of the sensations in input order
func (t TasteVector) Sensations() []Sensation {
	out := make([]Sensation, len(t.sensations))
	copy(out, t.sensations)
	return out
}

// VibeStrings returns the vibes as plain strings
func (t TasteVector) VibeStrings() []string {
	out := make([]string, len(t.vibes))
	for i, v := range t.vibes {
		out[i] = string(v)
	}
	return out
}

// SensationStrings returns the sensations as plain strings
func (t TasteVector) SensationStrings() []string {
	out := make([]string, len(t.sensations))
	for i, s := range t.sensations {
		out[i] = string(s)
	}
	return out
}
