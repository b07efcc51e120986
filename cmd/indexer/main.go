package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yurift/drift/internal/adapters/database"
	"github.com/yurift/drift/internal/adapters/search"
	"github.com/yurift/drift/internal/domain/repositories"
	"github.com/yurift/drift/internal/infrastructure/clients/postgres"
	"github.com/yurift/drift/internal/infrastructure/clients/typesense"
	"github.com/yurift/drift/internal/infrastructure/observability"
	"github.com/yurift/drift/pkg/config"
)

const pageSize = 500

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("yurift-indexer", cfg.Env)

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Typesense client")
	}

	source := database.NewOnsenAdapter(pgClient, nil)
	index := search.NewTypesenseAdapter(tsClient, nil)

	for {
		if reset || os.Getenv("RESET_TYPESENSE") == "true" {
			log.Info().Msg("resetting onsen collection")
			if err := tsClient.ResetSchema(ctx); err != nil {
				log.Error().Err(err).Msg("failed to reset collection")
			}
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Error().Err(err).Msg("failed to init collection")
		}

		start := time.Now()
		indexed, err := indexOnce(ctx, source, index)
		if err != nil {
			log.Error().Err(err).Int("indexed", indexed).Msg("reindex failed")
		} else {
			log.Info().Int("indexed", indexed).Dur("took", time.Since(start)).Msg("reindex complete")
		}

		if interval <= 0 {
			return
		}
		reset = false

		select {
		case <-ctx.Done():
			log.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

// indexOnce pages through onsen_master by id and upserts every page
func indexOnce(ctx context.Context, source repositories.OnsenRepository, index repositories.OnsenSearchRepository) (int, error) {
	var (
		afterID int64
		total   int
	)
	for {
		page, err := source.List(ctx, repositories.OnsenFilter{AfterID: afterID, Limit: pageSize})
		if err != nil {
			return total, err
		}
		if len(page) == 0 {
			return total, nil
		}

		if err := index.BulkIndex(ctx, page); err != nil {
			return total, err
		}
		total += len(page)
		afterID = page[len(page)-1].ID

		if len(page) < pageSize {
			return total, nil
		}
	}
}
