package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/domain/providers"
)

var (
	_ providers.RateCounterStore    = (*RateCounterStore)(nil)
	_ providers.CatchphraseProvider = (*CatchphraseProvider)(nil)
	_ providers.KVStore             = (*KVStore)(nil)
)

// RateCounterStore is a mock of providers.RateCounterStore
type RateCounterStore struct {
	mock.Mock
}

// NewRateCounterStore creates a mock and registers expectation checks on t
func NewRateCounterStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *RateCounterStore {
	m := &RateCounterStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RateCounterStore) Admit(ctx context.Context, identifier string, now time.Time, window time.Duration, limit int, expiry time.Duration) (providers.WindowSnapshot, error) {
	args := m.Called(ctx, identifier, now, window, limit, expiry)
	return args.Get(0).(providers.WindowSnapshot), args.Error(1)
}

func (m *RateCounterStore) Delete(ctx context.Context, identifier string) error {
	return m.Called(ctx, identifier).Error(0)
}

// CatchphraseProvider is a mock of providers.CatchphraseProvider
type CatchphraseProvider struct {
	mock.Mock
}

// NewCatchphraseProvider creates a mock and registers expectation checks on t
func NewCatchphraseProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatchphraseProvider {
	m := &CatchphraseProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CatchphraseProvider) GenerateCatchphrases(ctx context.Context, facilities []entities.ScoredFacility, taste entities.TasteVector) ([]string, error) {
	args := m.Called(ctx, facilities, taste)
	phrases, _ := args.Get(0).([]string)
	return phrases, args.Error(1)
}

// KVStore is a mock of providers.KVStore
type KVStore struct {
	mock.Mock
}

// NewKVStore creates a mock and registers expectation checks on t
func NewKVStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *KVStore {
	m := &KVStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Error(1)
}

func (m *KVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *KVStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
