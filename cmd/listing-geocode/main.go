package main

import (
	"context"
	"time"

	"house_marketplace_backend/internal/geocode"
	"house_marketplace_backend/platform/config"
	"house_marketplace_backend/platform/db"
	"house_marketplace_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type listingAddress struct {
	id       uuid.UUID
	location string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting listing geocode backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	geocodeService := geocode.NewService(cfg, log)

	const batchSize = 25
	for {
		stale, err := listListingsMissingCoordinates(ctx, pool, batchSize)
		if err != nil {
			log.Error("failed to list listings", "error", err)
			return
		}
		if len(stale) == 0 {
			log.Info("no listings left to geocode")
			return
		}

		progress := false

		for _, listing := range stale {
			if listing.location == "" {
				log.Info("skipping listing without location", "listingId", listing.id)
				continue
			}

			result, err := geocodeService.Resolve(ctx, listing.location)
			if err != nil {
				log.Error("geocode failed", "listingId", listing.id, "error", err)
				time.Sleep(time.Second)
				continue
			}

			if err := updateListingCoordinates(ctx, pool, listing.id, result.Lat, result.Lng); err != nil {
				log.Error("failed to update listing", "listingId", listing.id, "error", err)
				time.Sleep(time.Second)
				continue
			}

			log.Info("listing geocoded", "listingId", listing.id, "lat", result.Lat, "lng", result.Lng)
			progress = true
			time.Sleep(time.Second)
		}

		if !progress {
			log.Info("no geocode progress in batch, stopping")
			return
		}
	}
}

func listListingsMissingCoordinates(ctx context.Context, pool *pgxpool.Pool, limit int) ([]listingAddress, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, location
		FROM listings
		WHERE latitude = 0 AND longitude = 0
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]listingAddress, 0)
	for rows.Next() {
		var listing listingAddress
		if err := rows.Scan(&listing.id, &listing.location); err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return listings, nil
}

func updateListingCoordinates(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID, lat float64, lng float64) error {
	_, err := pool.Exec(ctx, `
		UPDATE listings
		SET latitude = $2, longitude = $3, updated_at = now()
		WHERE id = $1
	`, id, lat, lng)
	return err
}
