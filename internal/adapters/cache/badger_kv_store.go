package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/yurift/drift/internal/domain/providers"
	badgerclient "github.com/yurift/drift/internal/infrastructure/clients/badger"
)

// BadgerKVStore keeps cache entries in an embedded Badger database, for
// single-node deployments without Redis. Expiry uses Badger's entry TTL.
type BadgerKVStore struct {
	db *badger.DB
}

var _ providers.KVStore = (*BadgerKVStore)(nil)

// NewBadgerKVStore creates a KVStore on an open Badger client
func NewBadgerKVStore(client *badgerclient.Client) *BadgerKVStore {
	return &BadgerKVStore{db: client.DB()}
}

func (s *BadgerKVStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, providers.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get %s: %w", key, err)
	}
	return value, nil
}

func (s *BadgerKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

func (s *BadgerKVStore) Delete(_ context.Context, key string) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	}); err != nil {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}
	return nil
}
