package services

import (
	"sort"

	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/pkg/geo"
)

const (
	maxVibeScore      = 30.0
	maxSensationScore = 20.0
)

// ScoringService ranks candidate facilities by distance and keyword overlap
type ScoringService struct {
	shortlistSize int
}

// NewScoringService creates a scoring service that keeps at most
// shortlistSize results.
func NewScoringService(shortlistSize int) *ScoringService {
	return &ScoringService{shortlistSize: shortlistSize}
}

// Rank scores every candidate within maxDistanceKm of origin and returns
// them ordered by score descending, then facility ID ascending.
func (s *ScoringService) Rank(candidates []entities.Facility, taste entities.TasteVector, origin entities.GeoPoint, maxDistanceKm float64) []entities.ScoredFacility {
	if len(candidates) == 0 {
		return nil
	}

	vibeKws := KeywordsForVibes(taste.Vibes())
	sensationKws := KeywordsForSensations(taste.Sensations())

	scored := make([]entities.ScoredFacility, 0, len(candidates))
	for _, f := range candidates {
		d := geo.Distance(origin.Point(), f.Location().Point())
		if d > maxDistanceKm {
			continue
		}

		score := DistanceScore(d) + KeywordScore(&f, vibeKws, sensationKws)
		scored = append(scored, entities.ScoredFacility{
			Facility:   f,
			DistanceKm: d,
			Score:      geo.Round2(score),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Facility.ID < scored[j].Facility.ID
	})

	if s.shortlistSize > 0 && len(scored) > s.shortlistSize {
		scored = scored[:s.shortlistSize]
	}
	return scored
}

// DistanceScore maps a distance in km onto 0..50. Full marks up to 10 km,
// then one point lost per km until 50 km, where it drops to zero.
func DistanceScore(d float64) float64 {
	var score float64
	switch {
	case d <= 10:
		score = 50
	case d <= 30:
		score = 50 - (d-10)/20*20
	case d <= 50:
		score = 30 - (d-30)/20*20
	default:
		score = 0
	}
	if score < 0 {
		return 0
	}
	return score
}

// KeywordScore returns 0..50 for the share of vibe and sensation keywords the
// facility carries. An empty keyword set contributes zero.
func KeywordScore(f *entities.Facility, vibeKws, sensationKws []string) float64 {
	return matchRatio(f, vibeKws)*maxVibeScore + matchRatio(f, sensationKws)*maxSensationScore
}

func matchRatio(f *entities.Facility, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for _, k := range keywords {
		if f.HasKeyword(k) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}
