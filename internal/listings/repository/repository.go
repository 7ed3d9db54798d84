// Package repository persists listing documents in the listings table.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"house_marketplace_backend/internal/listings/domain"
	"house_marketplace_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const listingColumns = `
	id, owner_id, type, name, bedrooms, bathrooms, parking, furnished, offer,
	regular_price, discounted_price, location, latitude, longitude, image_urls,
	created_at, updated_at`

// Create inserts a new listing document. Timestamps are assigned server-side
// by the database defaults.
func (r *PostgresRepository) Create(ctx context.Context, doc *domain.ListingDocument) error {
	imageURLs, err := json.Marshal(doc.ImageURLs)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to encode image urls", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO listings (
			id, owner_id, type, name, bedrooms, bathrooms, parking, furnished,
			offer, regular_price, discounted_price, location, latitude,
			longitude, image_urls
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, doc.ID, doc.OwnerID, doc.Type, doc.Name, doc.Bedrooms, doc.Bathrooms,
		doc.Parking, doc.Furnished, doc.Offer, doc.RegularPrice,
		doc.DiscountedPrice, doc.Location, doc.Geolocation.Lat,
		doc.Geolocation.Lng, imageURLs)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "failed to save listing", err)
	}

	return nil
}

// GetOne fetches a listing by id.
func (r *PostgresRepository) GetOne(ctx context.Context, id uuid.UUID) (*domain.ListingDocument, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE id = $1
	`, id)

	doc, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("listing does not exist")
		}
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to load listing", err)
	}

	return doc, nil
}

// Update overwrites the document for an existing listing id. Last writer
// wins: there is no concurrency token guarding concurrent edits.
func (r *PostgresRepository) Update(ctx context.Context, doc *domain.ListingDocument) error {
	imageURLs, err := json.Marshal(doc.ImageURLs)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to encode image urls", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE listings SET
			type = $2, name = $3, bedrooms = $4, bathrooms = $5, parking = $6,
			furnished = $7, offer = $8, regular_price = $9,
			discounted_price = $10, location = $11, latitude = $12,
			longitude = $13, image_urls = $14, updated_at = now()
		WHERE id = $1
	`, doc.ID, doc.Type, doc.Name, doc.Bedrooms, doc.Bathrooms, doc.Parking,
		doc.Furnished, doc.Offer, doc.RegularPrice, doc.DiscountedPrice,
		doc.Location, doc.Geolocation.Lat, doc.Geolocation.Lng, imageURLs)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "failed to save listing", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("listing does not exist")
	}

	return nil
}

// Delete removes a listing by id.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "failed to delete listing", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("listing does not exist")
	}
	return nil
}

// List returns listings matching the filter, newest first, with cursor
// pagination on created_at.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]domain.ListingDocument, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.OfferOnly {
		query += " AND offer"
	}
	if filter.Before != nil {
		args = append(args, *filter.Before)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}

	args = append(args, filter.EffectiveLimit())
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to list listings", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

// ListByOwner returns all listings belonging to one owner, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ListingDocument, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to list listings", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func collectListings(rows pgx.Rows) ([]domain.ListingDocument, error) {
	listings := make([]domain.ListingDocument, 0)
	for rows.Next() {
		doc, err := scanListing(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindUnavailable, "failed to scan listing", err)
		}
		listings = append(listings, *doc)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to list listings", rows.Err())
	}
	return listings, nil
}

func scanListing(row pgx.Row) (*domain.ListingDocument, error) {
	var doc domain.ListingDocument
	var imageURLs []byte

	err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.Type, &doc.Name, &doc.Bedrooms,
		&doc.Bathrooms, &doc.Parking, &doc.Furnished, &doc.Offer,
		&doc.RegularPrice, &doc.DiscountedPrice, &doc.Location,
		&doc.Geolocation.Lat, &doc.Geolocation.Lng, &imageURLs,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(imageURLs, &doc.ImageURLs); err != nil {
		return nil, fmt.Errorf("failed to decode image urls: %w", err)
	}

	return &doc, nil
}

var _ ListingsRepository = (*PostgresRepository)(nil)
