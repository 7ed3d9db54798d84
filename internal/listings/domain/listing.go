// Package domain holds the listing types and the pure draft validation rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxImages is the maximum number of photos a single listing may carry.
const MaxImages = 6

// ListingType distinguishes sale and rental listings.
type ListingType string

const (
	TypeSale ListingType = "sale"
	TypeRent ListingType = "rent"
)

// Valid reports whether the type is one of the known values.
func (t ListingType) Valid() bool {
	return t == TypeSale || t == TypeRent
}

// ImageFile is a raw photo selected by the user, held in memory until the
// upload batch runs.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ListingDraft is the mutable, user-edited form state for one submission
// attempt. It is owned exclusively by the submission and discarded once the
// pipeline resolves. The field set is closed: updates go through typed struct
// fields, never through dynamic field names.
type ListingDraft struct {
	Type            ListingType `validate:"oneof=sale rent"`
	Name            string      `validate:"required,min=10,max=32"`
	Bedrooms        int         `validate:"min=1,max=50"`
	Bathrooms       int         `validate:"min=1,max=50"`
	Parking         bool
	Furnished       bool
	Offer           bool
	Address         string  `validate:"required"`
	RegularPrice    float64 `validate:"min=50,max=750000000"`
	DiscountedPrice float64 `validate:"required_if=Offer true,omitempty,min=50,max=750000000"`
	Images          []ImageFile

	// Manual coordinates, used only when geocode resolution is disabled.
	GeocodeDisabled bool
	Latitude        float64
	Longitude       float64
}

// Geolocation is a resolved coordinate pair.
type Geolocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ListingDocument is the unit persisted to the listings collection: the draft
// fields minus raw images and the staging address, plus the resolved location,
// the ordered image URLs, the owner reference, and server-assigned timestamps.
// DiscountedPrice is present if and only if the listing carries an offer.
type ListingDocument struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	Type            ListingType
	Name            string
	Bedrooms        int
	Bathrooms       int
	Parking         bool
	Furnished       bool
	Offer           bool
	RegularPrice    float64
	DiscountedPrice *float64
	Location        string
	Geolocation     Geolocation
	ImageURLs       []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
