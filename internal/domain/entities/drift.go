package entities

// DefaultCatchphrase is used whenever text generation cannot supply a phrase
const DefaultCatchphrase = "温泉を楽しむ"

// SearchParams is the normalized form of a search request. It is the input
// of cache key derivation and is echoed back in every response.
type SearchParams struct {
	Location   GeoPoint `json:"location"`
	Sensations []string `json:"sensations"`
	Vibes      []string `json:"vibes"`
}

// DriftFacility is one recommended facility in a drift response
type DriftFacility struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Price       int     `json:"price"`
	DistanceKm  float64 `json:"distance_km"`
	Catchphrase string  `json:"catchphrase"`
	Score       float64 `json:"score"`
}

// DriftResult is the payload returned by a drift search
type DriftResult struct {
	Facilities   []DriftFacility `json:"facilities"`
	Cached       bool            `json:"cached"`
	SearchParams SearchParams    `json:"search_params"`
}

// NewDriftFacility combines a scored facility with its catchphrase
func NewDriftFacility(sf ScoredFacility, catchphrase string) DriftFacility {
	return DriftFacility{
		ID:          sf.Facility.ID,
		Name:        sf.Facility.Name,
		Address:     sf.Facility.Address,
		Lat:         sf.Facility.Lat,
		Lng:         sf.Facility.Lng,
		Price:       sf.Facility.Price,
		DistanceKm:  sf.DistanceKm,
		Catchphrase: catchphrase,
		Score:       sf.Score,
	}
}
