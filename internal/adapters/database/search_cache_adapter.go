package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/repositories"
	"github.com/yurift/drift/internal/infrastructure/clients/postgres"
)

const searchCacheTable = "search_cache"

// SearchCacheAdapter stores memoized results in the search_cache table:
//
//	cache_key text primary key, search_params jsonb, result jsonb, expires_at timestamptz
type SearchCacheAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchCacheAdapter creates a new search cache adapter
func NewSearchCacheAdapter(client *postgres.Client) *SearchCacheAdapter {
	return &SearchCacheAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.SearchCacheRepository = (*SearchCacheAdapter)(nil)

// Get returns the entry for key or nil when absent. Expiry is checked by the caller.
func (a *SearchCacheAdapter) Get(ctx context.Context, key string) (*entities.CacheEntry, error) {
	query, args, err := a.db.Select("search_params", "result", "expires_at").
		From(searchCacheTable).
		Where(goqu.Ex{"cache_key": key}).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build cache query: %w", err)
	}

	var params, result []byte
	entry := &entities.CacheEntry{Key: key}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&params, &result, &entry.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if err := json.Unmarshal(params, &entry.SearchParams); err != nil {
		return nil, fmt.Errorf("failed to decode cached search params: %w", err)
	}
	if err := json.Unmarshal(result, &entry.Result); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return entry, nil
}

// Upsert inserts the entry or replaces the existing row for the same key
func (a *SearchCacheAdapter) Upsert(ctx context.Context, entry *entities.CacheEntry) error {
	params, err := json.Marshal(entry.SearchParams)
	if err != nil {
		return fmt.Errorf("failed to encode search params: %w", err)
	}
	result, err := json.Marshal(entry.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	query, args, err := a.db.Insert(searchCacheTable).
		Rows(goqu.Record{
			"cache_key":     entry.Key,
			"search_params": string(params),
			"result":        string(result),
			"expires_at":    entry.ExpiresAt.UTC(),
		}).
		OnConflict(goqu.DoUpdate("cache_key", goqu.Record{
			"search_params": goqu.L("EXCLUDED.search_params"),
			"result":        goqu.L("EXCLUDED.result"),
			"expires_at":    goqu.L("EXCLUDED.expires_at"),
		})).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}

// DeleteExpired removes rows whose expiry is at or before now
func (a *SearchCacheAdapter) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := a.db.Delete(searchCacheTable).
		Where(goqu.C("expires_at").Lte(now.UTC())).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build purge query: %w", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes a single entry
func (a *SearchCacheAdapter) Delete(ctx context.Context, key string) error {
	query, args, err := a.db.Delete(searchCacheTable).
		Where(goqu.Ex{"cache_key": key}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}
