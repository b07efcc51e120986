package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client wraps an embedded Badger database
type Client struct {
	db *badger.DB
}

// NewClient opens (or creates) a Badger database at path. An empty path
// opens an in-memory database.
func NewClient(path string) (*Client, error) {
	opts := badger.DefaultOptions(path).WithLogger(zerologAdapter{logger: log.Logger.With().Str("component", "badger").Logger()})
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return &Client{db: db}, nil
}

// DB returns the underlying database
func (c *Client) DB() *badger.DB {
	return c.db
}

// Close closes the database
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping reports whether the database is open
func (c *Client) Ping(context.Context) error {
	if c.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

// StartValueLogGC periodically reclaims value log space until ctx is done
func (c *Client) StartValueLogGC(ctx context.Context, interval time.Duration) {
	if c.db.Opts().InMemory {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for c.db.RunValueLogGC(0.5) == nil {
				}
			}
		}
	}()
}

// zerologAdapter routes Badger's internal logging through zerolog
type zerologAdapter struct {
	logger zerolog.Logger
}

func (a zerologAdapter) Errorf(format string, args ...interface{}) {
	a.logger.Error().Msgf(format, args...)
}

func (a zerologAdapter) Warningf(format string, args ...interface{}) {
	a.logger.Warn().Msgf(format, args...)
}

func (a zerologAdapter) Infof(format string, args ...interface{}) {
	a.logger.Debug().Msgf(format, args...)
}

func (a zerologAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Trace().Msgf(format, args...)
}
