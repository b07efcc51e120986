package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yurift/drift/internal/adapters/database"
	"github.com/yurift/drift/internal/domain/entities"
	"github.com/yurift/drift/internal/infrastructure/clients/postgres"
	"github.com/yurift/drift/internal/infrastructure/observability"
	"github.com/yurift/drift/pkg/config"
)

var requiredColumns = []string{"name", "address", "lat", "lng", "price", "keywords"}

// skippedRow records why a CSV line was not imported
type skippedRow struct {
	Line   int
	Reason string
}

func main() {
	var (
		file   string
		dryRun bool
	)
	flag.StringVar(&file, "file", "data/output.csv", "geocoded onsen CSV (name,address,lat,lng,price,keywords)")
	flag.BoolVar(&dryRun, "dry-run", false, "parse and validate without writing to the database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("yurift-importer", cfg.Env)

	f, err := os.Open(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("failed to open CSV")
	}
	defer f.Close()

	facilities, skipped, err := parseFacilities(f)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse CSV")
	}
	for _, s := range skipped {
		log.Warn().Int("line", s.Line).Str("reason", s.Reason).Msg("skipping row")
	}
	log.Info().Int("rows", len(facilities)).Int("skipped", len(skipped)).Msg("parsed CSV")

	if dryRun {
		return
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	repo := database.NewOnsenAdapter(pgClient, nil)
	ctx := context.Background()

	var imported, failed int
	for i := range facilities {
		if err := repo.Create(ctx, &facilities[i]); err != nil {
			log.Error().Err(err).Str("name", facilities[i].Name).Msg("failed to import facility")
			failed++
			continue
		}
		imported++
	}

	log.Info().Int("imported", imported).Int("failed", failed).Msg("import complete")
}

// parseFacilities reads a header-led CSV. Rows without coordinates (failed
// geocoding) or with unparsable values are skipped, not fatal.
func parseFacilities(r io.Reader) ([]entities.Facility, []skippedRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "﻿")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var (
		facilities []entities.Facility
		skipped    []skippedRow
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		f, err := parseRow(record, columns)
		if err != nil {
			skipped = append(skipped, skippedRow{Line: line, Reason: err.Error()})
			continue
		}
		facilities = append(facilities, f)
	}
	return facilities, skipped, nil
}

func parseRow(record []string, columns map[string]int) (entities.Facility, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	latRaw, lngRaw := field("lat"), field("lng")
	if latRaw == "" || lngRaw == "" {
		return entities.Facility{}, errors.New("missing coordinates")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return entities.Facility{}, fmt.Errorf("invalid lat %q", latRaw)
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return entities.Facility{}, fmt.Errorf("invalid lng %q", lngRaw)
	}

	priceRaw := field("price")
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil {
		return entities.Facility{}, fmt.Errorf("invalid price %q", priceRaw)
	}

	f := entities.Facility{
		Name:     field("name"),
		Address:  field("address"),
		Lat:      lat,
		Lng:      lng,
		Price:    int(price),
		Keywords: splitKeywords(field("keywords")),
	}
	if err := f.Validate(); err != nil {
		return entities.Facility{}, err
	}
	return f, nil
}

func splitKeywords(raw string) []string {
	keywords := []string{}
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}
