package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/yurift/drift/pkg/config"
	"github.com/yurift/drift/pkg/retry"
)

const (
	OnsenCollection = "onsen"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Typesense connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// OnsenSchema is the collection layout for onsen documents
func OnsenSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: OnsenCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "onsen_id", Type: "int64"},
			{Name: "name", Type: "string"},
			{Name: "address", Type: "string", Optional: pointer.True()},
			{Name: "location", Type: "geopoint"},
			{Name: "price", Type: "int32", Facet: pointer.True()},
			{Name: "keywords", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
		},
		DefaultSortingField: pointer.String("onsen_id"),
	}
}

// InitSchema ensures the onsen collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == OnsenCollection {
			log.Debug().Str("collection", OnsenCollection).Msg("Typesense collection already exists")
			return nil
		}
	}

	if _, err := c.client.Collections().Create(ctx, OnsenSchema()); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", OnsenCollection).Msg("created Typesense collection")
	return nil
}

// ResetSchema drops and recreates the onsen collection
func (c *Client) ResetSchema(ctx context.Context) error {
	if _, err := c.client.Collection(OnsenCollection).Delete(ctx); err != nil {
		log.Debug().Err(err).Str("collection", OnsenCollection).Msg("collection drop skipped")
	}
	return c.InitSchema(ctx)
}

// Ping checks that the Typesense node is healthy
func (c *Client) Ping(ctx context.Context) error {
	healthy, err := c.client.Health(ctx, 2*time.Second)
	if err != nil {
		return err
	}
	if !healthy {
		return fmt.Errorf("typesense reports unhealthy")
	}
	return nil
}
