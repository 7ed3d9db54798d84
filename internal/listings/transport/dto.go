// Package transport defines the HTTP request and response shapes for the
// listings module.
package transport

import (
	"time"

	"house_marketplace_backend/internal/listings/domain"

	"github.com/google/uuid"
)

// SubmitListingRequest carries the listing form fields for create and edit.
// Images travel alongside as multipart file parts. The field set is closed:
// unknown form keys are simply never read.
type SubmitListingRequest struct {
	Type            string  `form:"type" binding:"required,oneof=sale rent"`
	Name            string  `form:"name" binding:"required,min=10,max=32"`
	Bedrooms        int     `form:"bedrooms" binding:"required,min=1,max=50"`
	Bathrooms       int     `form:"bathrooms" binding:"required,min=1,max=50"`
	Parking         bool    `form:"parking"`
	Furnished       bool    `form:"furnished"`
	Offer           bool    `form:"offer"`
	Address         string  `form:"address" binding:"required"`
	RegularPrice    float64 `form:"regularPrice" binding:"required,min=50,max=750000000"`
	DiscountedPrice float64 `form:"discountedPrice" binding:"required_if=Offer true,omitempty,min=50,max=750000000"`

	// Manual coordinates, honored only when geocodeDisabled is set.
	GeocodeDisabled bool    `form:"geocodeDisabled"`
	Latitude        float64 `form:"latitude"`
	Longitude       float64 `form:"longitude"`
}

// ToDraft builds the submission draft from the bound form fields and the
// parsed image parts.
func (r *SubmitListingRequest) ToDraft(images []domain.ImageFile) *domain.ListingDraft {
	return &domain.ListingDraft{
		Type:            domain.ListingType(r.Type),
		Name:            r.Name,
		Bedrooms:        r.Bedrooms,
		Bathrooms:       r.Bathrooms,
		Parking:         r.Parking,
		Furnished:       r.Furnished,
		Offer:           r.Offer,
		Address:         r.Address,
		RegularPrice:    r.RegularPrice,
		DiscountedPrice: r.DiscountedPrice,
		Images:          images,
		GeocodeDisabled: r.GeocodeDisabled,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
}

// BrowseRequest narrows the public listings feed.
type BrowseRequest struct {
	Type   string `form:"type" binding:"omitempty,oneof=sale rent"`
	Offer  bool   `form:"offer"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=50"`
	Before string `form:"before"`
}

// SubmitListingResponse returns the persisted listing id.
type SubmitListingResponse struct {
	ID uuid.UUID `json:"id"`
}

// ListingResponse is the public document shape. DiscountedPrice is omitted
// when the listing has no offer.
type ListingResponse struct {
	ID              uuid.UUID          `json:"id"`
	OwnerID         uuid.UUID          `json:"ownerId"`
	Type            string             `json:"type"`
	Name            string             `json:"name"`
	Bedrooms        int                `json:"bedrooms"`
	Bathrooms       int                `json:"bathrooms"`
	Parking         bool               `json:"parking"`
	Furnished       bool               `json:"furnished"`
	Offer           bool               `json:"offer"`
	RegularPrice    float64            `json:"regularPrice"`
	DiscountedPrice *float64           `json:"discountedPrice,omitempty"`
	Location        string             `json:"location"`
	Geolocation     domain.Geolocation `json:"geolocation"`
	ImageURLs       []string           `json:"imageUrls"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// FromDocument maps a stored document to its response shape.
func FromDocument(doc *domain.ListingDocument) ListingResponse {
	return ListingResponse{
		ID:              doc.ID,
		OwnerID:         doc.OwnerID,
		Type:            string(doc.Type),
		Name:            doc.Name,
		Bedrooms:        doc.Bedrooms,
		Bathrooms:       doc.Bathrooms,
		Parking:         doc.Parking,
		Furnished:       doc.Furnished,
		Offer:           doc.Offer,
		RegularPrice:    doc.RegularPrice,
		DiscountedPrice: doc.DiscountedPrice,
		Location:        doc.Location,
		Geolocation:     doc.Geolocation,
		ImageURLs:       doc.ImageURLs,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

// ListingPage is a browse result with an opaque created_at cursor for the
// next page. NextCursor is empty on the last page.
type ListingPage struct {
	Listings   []ListingResponse `json:"listings"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// NewListingPage maps documents to responses and derives the next cursor
// when the page came back full.
func NewListingPage(docs []domain.ListingDocument, limit int) ListingPage {
	page := ListingPage{Listings: make([]ListingResponse, 0, len(docs))}
	for i := range docs {
		page.Listings = append(page.Listings, FromDocument(&docs[i]))
	}
	if limit > 0 && len(docs) == limit {
		page.NextCursor = docs[len(docs)-1].CreatedAt.Format(time.RFC3339Nano)
	}
	return page
}
