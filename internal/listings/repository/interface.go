package repository

import (
	"context"
	"time"

	"house_marketplace_backend/internal/listings/domain"

	"github.com/google/uuid"
)

const defaultListLimit = 8
const maxListLimit = 50

// Filter narrows browse queries. Zero values mean "no constraint".
type Filter struct {
	Type      domain.ListingType
	OfferOnly bool
	// Before is a created_at cursor: only listings older than it are returned.
	Before *time.Time
	Limit  int
}

// EffectiveLimit resolves the page size actually used for the query: the
// default when no limit is given, capped at the maximum otherwise. Callers
// deriving a next-page cursor must compare against this value, not Limit.
func (f Filter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	if f.Limit > maxListLimit {
		return maxListLimit
	}
	return f.Limit
}

// ListingsRepository is the keyed document store for listings.
type ListingsRepository interface {
	Create(ctx context.Context, doc *domain.ListingDocument) error
	GetOne(ctx context.Context, id uuid.UUID) (*domain.ListingDocument, error)
	Update(ctx context.Context, doc *domain.ListingDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter) ([]domain.ListingDocument, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ListingDocument, error)
}
