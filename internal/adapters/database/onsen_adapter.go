package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/repositories"
	"github.com/yurift/drift/internal/infrastructure/clients/postgres"
	"github.com/yurift/drift/internal/infrastructure/observability"
	apperrors "github.com/yurift/drift/pkg/errors"
)

const onsenTable = "onsen_master"

var onsenColumns = []interface{}{"id", "name", "address", "lat", "lng", "price", "keywords"}

// OnsenAdapter implements OnsenRepository on the onsen_master table
type OnsenAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewOnsenAdapter creates a new onsen adapter
func NewOnsenAdapter(client *postgres.Client, metrics *observability.Metrics) *OnsenAdapter {
	return &OnsenAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

var _ repositories.OnsenRepository = (*OnsenAdapter)(nil)

// FindInBoundingBox returns up to limit facilities inside box, ordered by id.
// Rows that fail validation are skipped.
func (a *OnsenAdapter) FindInBoundingBox(ctx context.Context, box entities.BoundingBox, limit int) ([]entities.Facility, error) {
	ds := a.db.Select(onsenColumns...).
		From(onsenTable).
		Where(
			goqu.C("lat").Between(goqu.Range(box.MinLat, box.MaxLat)),
			goqu.C("lng").Between(goqu.Range(box.MinLng, box.MaxLng)),
		).
		Order(goqu.C("id").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build candidate query", err)
	}

	start := time.Now()
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	observability.RecordDBMetric(ctx, a.metrics, "onsen.find_in_bbox", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	logger := observability.LoggerFromContext(ctx)
	var facilities []entities.Facility
	for rows.Next() {
		f, err := scanOnsen(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if err := f.Validate(); err != nil {
			logger.Debug().Err(err).Int64("facility_id", f.ID).Msg("skipping invalid facility row")
			continue
		}
		facilities = append(facilities, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}

	return facilities, nil
}

// Create inserts a facility and stores the generated id on it
func (a *OnsenAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	if err := facility.Validate(); err != nil {
		return err
	}

	record := goqu.Record{
		"name":     facility.Name,
		"address":  facility.Address,
		"lat":      facility.Lat,
		"lng":      facility.Lng,
		"price":    facility.Price,
		"keywords": pq.Array(facility.Keywords),
	}

	query, args, err := a.db.Insert(onsenTable).Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&facility.ID); err != nil {
		return apperrors.NewInternalError("failed to create facility", err)
	}
	return nil
}

// GetByID retrieves a facility by ID
func (a *OnsenAdapter) GetByID(ctx context.Context, id int64) (*entities.Facility, error) {
	query, args, err := a.db.Select(onsenColumns...).
		From(onsenTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	f, err := scanOnsen(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get facility", err)
	}
	return f, nil
}

// List pages through facilities by ascending id
func (a *OnsenAdapter) List(ctx context.Context, filter repositories.OnsenFilter) ([]*entities.Facility, error) {
	ds := a.db.Select(onsenColumns...).
		From(onsenTable).
		Where(goqu.C("id").Gt(filter.AfterID)).
		Order(goqu.C("id").Asc())
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	var facilities []*entities.Facility
	for rows.Next() {
		f, err := scanOnsen(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate facilities", err)
	}
	return facilities, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOnsen(row rowScanner) (*entities.Facility, error) {
	f := &entities.Facility{}
	var address sql.NullString
	var price sql.NullInt64

	if err := row.Scan(
		&f.ID,
		&f.Name,
		&address,
		&f.Lat,
		&f.Lng,
		&price,
		pq.Array(&f.Keywords),
	); err != nil {
		return nil, err
	}

	f.Address = address.String
	f.Price = int(price.Int64)
	return f, nil
}
