package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/repositories"
	tsclient "github.com/yurift/drift/internal/infrastructure/clients/typesense"
	"github.com/yurift/drift/internal/infrastructure/observability"
)

// Typesense caps per_page at 250
const maxPerPage = 250

// TypesenseAdapter implements OnsenSearchRepository on a Typesense collection
type TypesenseAdapter struct {
	client  *tsclient.Client
	metrics *observability.Metrics
}

var _ repositories.OnsenSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client, metrics *observability.Metrics) *TypesenseAdapter {
	return &TypesenseAdapter{client: client, metrics: metrics}
}

// FindInBoundingBox returns up to limit facilities whose location lies in box
func (a *TypesenseAdapter) FindInBoundingBox(ctx context.Context, box entities.BoundingBox, limit int) ([]entities.Facility, error) {
	if limit <= 0 || limit > maxPerPage {
		limit = maxPerPage
	}

	params := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String("name"),
		FilterBy: pointer.String(boundingBoxFilter(box)),
		SortBy:   pointer.String("onsen_id:asc"),
		PerPage:  pointer.Int(limit),
	}

	start := time.Now()
	result, err := a.client.Client().Collection(tsclient.OnsenCollection).Documents().Search(ctx, params)
	observability.RecordDBMetric(ctx, a.metrics, "typesense.find_in_bbox", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to search onsen index: %w", err)
	}
	if result.Hits == nil {
		return nil, nil
	}

	logger := observability.LoggerFromContext(ctx)
	facilities := make([]entities.Facility, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		f, err := parseOnsenDocument(*hit.Document)
		if err != nil {
			logger.Debug().Err(err).Msg("skipping malformed onsen document")
			continue
		}
		if err := f.Validate(); err != nil {
			logger.Debug().Err(err).Int64("facility_id", f.ID).Msg("skipping invalid onsen document")
			continue
		}
		facilities = append(facilities, f)
	}

	return facilities, nil
}

// Index upserts a facility document
func (a *TypesenseAdapter) Index(ctx context.Context, facility *entities.Facility) error {
	_, err := a.client.Client().Collection(tsclient.OnsenCollection).Documents().Upsert(ctx, buildOnsenDocument(facility))
	if err != nil {
		return fmt.Errorf("failed to index facility %d: %w", facility.ID, err)
	}
	return nil
}

// BulkIndex upserts every facility and reports all failures together
func (a *TypesenseAdapter) BulkIndex(ctx context.Context, facilities []*entities.Facility) error {
	var errs []error
	for _, f := range facilities {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.Index(ctx, f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Delete removes a facility from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id int64) error {
	_, err := a.client.Client().Collection(tsclient.OnsenCollection).Document(strconv.FormatInt(id, 10)).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete facility from index: %w", err)
	}
	return nil
}

// boundingBoxFilter renders the box as a closed polygon geo filter
func boundingBoxFilter(box entities.BoundingBox) string {
	return fmt.Sprintf("location:(%f, %f, %f, %f, %f, %f, %f, %f)",
		box.MinLat, box.MinLng,
		box.MaxLat, box.MinLng,
		box.MaxLat, box.MaxLng,
		box.MinLat, box.MaxLng,
	)
}

func buildOnsenDocument(f *entities.Facility) map[string]interface{} {
	keywords := f.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return map[string]interface{}{
		"id":       strconv.FormatInt(f.ID, 10),
		"onsen_id": f.ID,
		"name":     f.Name,
		"address":  f.Address,
		"location": []float64{f.Lat, f.Lng},
		"price":    f.Price,
		"keywords": keywords,
	}
}

// parseOnsenDocument converts a search hit back into a facility. Typesense
// returns decoded JSON, so numbers arrive as float64.
func parseOnsenDocument(doc map[string]interface{}) (entities.Facility, error) {
	var f entities.Facility

	switch id := doc["onsen_id"].(type) {
	case float64:
		f.ID = int64(id)
	default:
		raw, _ := doc["id"].(string)
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, fmt.Errorf("document has no usable id: %v", doc["id"])
		}
		f.ID = parsed
	}

	name, ok := doc["name"].(string)
	if !ok {
		return f, fmt.Errorf("document %d has no name", f.ID)
	}
	f.Name = name
	f.Address, _ = doc["address"].(string)

	loc, ok := doc["location"].([]interface{})
	if !ok || len(loc) != 2 {
		return f, fmt.Errorf("document %d has no location", f.ID)
	}
	lat, latOK := loc[0].(float64)
	lng, lngOK := loc[1].(float64)
	if !latOK || !lngOK {
		return f, fmt.Errorf("document %d has a malformed location", f.ID)
	}
	f.Lat, f.Lng = lat, lng

	price, ok := doc["price"].(float64)
	if !ok {
		return f, fmt.Errorf("document %d has no price", f.ID)
	}
	f.Price = int(price)

	if raw, ok := doc["keywords"].([]interface{}); ok {
		f.Keywords = make([]string, 0, len(raw))
		for _, k := range raw {
			if s, ok := k.(string); ok {
				f.Keywords = append(f.Keywords, s)
			}
		}
	}

	return f, nil
}
