package service

import (
	"house_marketplace_backend/internal/listings/domain"
	"house_marketplace_backend/platform/events"

	"github.com/google/uuid"
)

// ListingCreatedEvent is published after a new listing document is persisted.
type ListingCreatedEvent struct {
	events.BaseEvent
	ListingID uuid.UUID          `json:"listingId"`
	OwnerID   uuid.UUID          `json:"ownerId"`
	Type      domain.ListingType `json:"type"`
}

func (ListingCreatedEvent) EventName() string { return "listing.created" }

// ListingUpdatedEvent is published after an existing listing is overwritten.
type ListingUpdatedEvent struct {
	events.BaseEvent
	ListingID uuid.UUID          `json:"listingId"`
	OwnerID   uuid.UUID          `json:"ownerId"`
	Type      domain.ListingType `json:"type"`
}

func (ListingUpdatedEvent) EventName() string { return "listing.updated" }
