// Package service orchestrates the listing submission pipeline:
// validate → resolve geolocation → upload images → assemble → persist.
// Every stage runs only if the previous one succeeded; any failure aborts the
// rest of the pipeline and no document is ever written (all-or-nothing).
package service

import (
	"context"
	"errors"

	"house_marketplace_backend/internal/geocode"
	"house_marketplace_backend/internal/listings/domain"
	"house_marketplace_backend/internal/listings/repository"
	"house_marketplace_backend/platform/apperr"
	"house_marketplace_backend/platform/events"
	"house_marketplace_backend/platform/logger"
	"house_marketplace_backend/platform/validator"

	"github.com/google/uuid"
)

// Stage names a step of the submission pipeline. The value is used as the
// operation tag on failure so callers can see which stage aborted.
type Stage string

const (
	StageValidating   Stage = "validation"
	StageResolvingGeo Stage = "geocode"
	StageUploading    Stage = "upload"
	StagePersisting   Stage = "persist"
)

// GeoResolver resolves a free-text address to coordinates and a canonical
// formatted address.
type GeoResolver interface {
	Resolve(ctx context.Context, address string) (geocode.Result, error)
}

// ImageUploader uploads an ordered image batch and returns download URLs in
// the same order.
type ImageUploader interface {
	UploadAll(ctx context.Context, ownerID uuid.UUID, images []domain.ImageFile) ([]string, error)
}

// Service is the listing submission pipeline plus the read/delete operations
// around the listings collection.
type Service struct {
	repo    repository.ListingsRepository
	geo     GeoResolver
	uploads ImageUploader
	bus     events.Bus
	val     *validator.Validator
	log     *logger.Logger
}

func New(repo repository.ListingsRepository, geo GeoResolver, uploads ImageUploader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		geo:     geo,
		uploads: uploads,
		bus:     bus,
		val:     val,
		log:     log,
	}
}

// Create runs the full pipeline for a new listing and returns its id.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, draft *domain.ListingDraft) (uuid.UUID, error) {
	doc, err := s.submit(ctx, ownerID, uuid.New(), draft)
	if err != nil {
		return uuid.Nil, err
	}

	s.log.SubmissionStage(string(StagePersisting), ownerID.String())
	if err := s.repo.Create(ctx, doc); err != nil {
		return uuid.Nil, stageErr(StagePersisting, err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, ListingCreatedEvent{
			BaseEvent: events.NewBaseEvent(),
			ListingID: doc.ID,
			OwnerID:   ownerID,
			Type:      doc.Type,
		})
	}

	return doc.ID, nil
}

// Update re-runs the full pipeline for an existing listing. The requesting
// principal must be the listing's original owner; a mismatch aborts before any
// other stage. Concurrent edits to the same listing are last-writer-wins.
func (s *Service) Update(ctx context.Context, ownerID, listingID uuid.UUID, draft *domain.ListingDraft) (uuid.UUID, error) {
	existing, err := s.repo.GetOne(ctx, listingID)
	if err != nil {
		return uuid.Nil, err
	}
	if existing.OwnerID != ownerID {
		return uuid.Nil, apperr.Forbidden("you cannot edit that listing")
	}

	doc, err := s.submit(ctx, ownerID, listingID, draft)
	if err != nil {
		return uuid.Nil, err
	}

	s.log.SubmissionStage(string(StagePersisting), ownerID.String())
	if err := s.repo.Update(ctx, doc); err != nil {
		return uuid.Nil, stageErr(StagePersisting, err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, ListingUpdatedEvent{
			BaseEvent: events.NewBaseEvent(),
			ListingID: doc.ID,
			OwnerID:   ownerID,
			Type:      doc.Type,
		})
	}

	return doc.ID, nil
}

// submit runs the stages shared by create and edit, up to (not including)
// persistence, and returns the assembled document.
func (s *Service) submit(ctx context.Context, ownerID, listingID uuid.UUID, draft *domain.ListingDraft) (*domain.ListingDocument, error) {
	// Field constraints first, then the ordered cross-field rules.
	s.log.SubmissionStage(string(StageValidating), ownerID.String())
	if err := s.val.Struct(draft); err != nil {
		return nil, stageErr(StageValidating, apperr.Wrap(apperr.KindValidation, "listing fields are invalid", err))
	}
	if err := domain.ValidateDraft(draft); err != nil {
		return nil, stageErr(StageValidating, err)
	}

	s.log.SubmissionStage(string(StageResolvingGeo), ownerID.String())
	geo, err := s.resolveGeolocation(ctx, draft)
	if err != nil {
		return nil, stageErr(StageResolvingGeo, err)
	}

	// Nothing has touched storage up to here; a geocode failure is free.
	s.log.SubmissionStage(string(StageUploading), ownerID.String())
	urls, err := s.uploads.UploadAll(ctx, ownerID, draft.Images)
	if err != nil {
		return nil, stageErr(StageUploading, err)
	}

	return assembleDocument(listingID, ownerID, draft, geo, urls), nil
}

// resolveGeolocation returns manual coordinates verbatim when resolution is
// disabled; the external service is never called on that path.
func (s *Service) resolveGeolocation(ctx context.Context, draft *domain.ListingDraft) (geocode.Result, error) {
	if draft.GeocodeDisabled {
		return geocode.Result{
			Lat:     draft.Latitude,
			Lng:     draft.Longitude,
			Address: draft.Address,
		}, nil
	}
	return s.geo.Resolve(ctx, draft.Address)
}

// assembleDocument merges the draft with the resolved geolocation and the
// ordered upload URLs. The discounted price is carried only when the listing
// has an offer; timestamps are assigned by the store.
func assembleDocument(id, ownerID uuid.UUID, draft *domain.ListingDraft, geo geocode.Result, urls []string) *domain.ListingDocument {
	doc := &domain.ListingDocument{
		ID:           id,
		OwnerID:      ownerID,
		Type:         draft.Type,
		Name:         draft.Name,
		Bedrooms:     draft.Bedrooms,
		Bathrooms:    draft.Bathrooms,
		Parking:      draft.Parking,
		Furnished:    draft.Furnished,
		Offer:        draft.Offer,
		RegularPrice: draft.RegularPrice,
		Location:     geo.Address,
		Geolocation:  domain.Geolocation{Lat: geo.Lat, Lng: geo.Lng},
		ImageURLs:    urls,
	}

	if draft.Offer {
		discounted := draft.DiscountedPrice
		doc.DiscountedPrice = &discounted
	}

	return doc
}

// Get fetches a single listing.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.ListingDocument, error) {
	return s.repo.GetOne(ctx, id)
}

// Browse returns listings matching the filter, newest first.
func (s *Service) Browse(ctx context.Context, filter repository.Filter) ([]domain.ListingDocument, error) {
	return s.repo.List(ctx, filter)
}

// OwnerListings returns the principal's own listings.
func (s *Service) OwnerListings(ctx context.Context, ownerID uuid.UUID) ([]domain.ListingDocument, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Delete removes a listing owned by the principal.
func (s *Service) Delete(ctx context.Context, ownerID, listingID uuid.UUID) error {
	existing, err := s.repo.GetOne(ctx, listingID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return apperr.Forbidden("you cannot delete that listing")
	}
	return s.repo.Delete(ctx, listingID)
}

// stageErr tags a pipeline failure with the stage it aborted in.
func stageErr(stage Stage, err error) error {
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return typed.WithOp(string(stage))
	}
	return apperr.Wrap(apperr.KindInternal, "submission failed", err).WithOp(string(stage))
}
