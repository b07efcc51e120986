// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/repositories"
)

var (
	_ repositories.SearchCacheRepository = (*SearchCacheRepository)(nil)
	_ repositories.CandidateSource       = (*CandidateSource)(nil)
)

// SearchCacheRepository is a mock of repositories.SearchCacheRepository
type SearchCacheRepository struct {
	mock.Mock
}

// NewSearchCacheRepository creates a mock and registers expectation checks on t
func NewSearchCacheRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *SearchCacheRepository {
	m := &SearchCacheRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SearchCacheRepository) Get(ctx context.Context, key string) (*entities.CacheEntry, error) {
	args := m.Called(ctx, key)
	entry, _ := args.Get(0).(*entities.CacheEntry)
	return entry, args.Error(1)
}

func (m *SearchCacheRepository) Upsert(ctx context.Context, entry *entities.CacheEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *SearchCacheRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SearchCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// CandidateSource is a mock of repositories.CandidateSource
type CandidateSource struct {
	mock.Mock
}

// NewCandidateSource creates a mock and registers expectation checks on t
func NewCandidateSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *CandidateSource {
	m := &CandidateSource{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CandidateSource) FindInBoundingBox(ctx context.Context, box entities.BoundingBox, limit int) ([]entities.Facility, error) {
	args := m.Called(ctx, box, limit)
	facilities, _ := args.Get(0).([]entities.Facility)
	return facilities, args.Error(1)
}
