package repositories

import (
	"context"

	"github.com/yurift/drift/internal/domain/entities"
)

// CandidateSource returns raw facility records inside a bounding box.
// It applies no ranking or distance logic; invalid records are skipped.
type CandidateSource interface {
	FindInBoundingBox(ctx context.Context, box entities.BoundingBox, limit int) ([]entities.Facility, error)
}

// OnsenRepository defines the interface for facility master data operations
type OnsenRepository interface {
	CandidateSource

	// Create inserts a facility and sets its ID
	Create(ctx context.Context, facility *entities.Facility) error

	// GetByID retrieves a facility by ID
	GetByID(ctx context.Context, id int64) (*entities.Facility, error)

	// List retrieves facilities page by page, ordered by ID
	List(ctx context.Context, filter OnsenFilter) ([]*entities.Facility, error)
}

// OnsenSearchRepository defines the interface for the search index (Typesense)
type OnsenSearchRepository interface {
	CandidateSource

	// Index upserts a facility document
	Index(ctx context.Context, facility *entities.Facility) error

	// BulkIndex upserts many facility documents
	BulkIndex(ctx context.Context, facilities []*entities.Facility) error

	// Delete removes a facility from the index
	Delete(ctx context.Context, id int64) error
}

// OnsenFilter pages through the facility master table
type OnsenFilter struct {
	AfterID int64
	Limit   int
}
