package service

import (
	"context"
	"testing"

	"house_marketplace_backend/internal/geocode"
	"house_marketplace_backend/internal/listings/domain"
	"house_marketplace_backend/internal/listings/repository"
	"house_marketplace_backend/platform/apperr"
	"house_marketplace_backend/platform/logger"
	"house_marketplace_backend/platform/validator"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory ListingsRepository that records which operations ran.
type fakeRepo struct {
	docs      map[uuid.UUID]*domain.ListingDocument
	created   int
	updated   int
	createErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: map[uuid.UUID]*domain.ListingDocument{}}
}

func (r *fakeRepo) Create(_ context.Context, doc *domain.ListingDocument) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created++
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeRepo) GetOne(_ context.Context, id uuid.UUID) (*domain.ListingDocument, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, apperr.NotFound("listing does not exist")
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, doc *domain.ListingDocument) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated++
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.docs, id)
	return nil
}

func (r *fakeRepo) List(context.Context, repository.Filter) ([]domain.ListingDocument, error) {
	return nil, nil
}

func (r *fakeRepo) ListByOwner(context.Context, uuid.UUID) ([]domain.ListingDocument, error) {
	return nil, nil
}

type fakeGeo struct {
	calls  int
	result geocode.Result
	err    error
}

func (g *fakeGeo) Resolve(context.Context, string) (geocode.Result, error) {
	g.calls++
	return g.result, g.err
}

type fakeUploader struct {
	calls int
	urls  []string
	err   error
}

func (u *fakeUploader) UploadAll(_ context.Context, _ uuid.UUID, images []domain.ImageFile) ([]string, error) {
	u.calls++
	if u.err != nil {
		return nil, u.err
	}
	if u.urls != nil {
		return u.urls, nil
	}
	return make([]string, len(images)), nil
}

func rentDraft() *domain.ListingDraft {
	return &domain.ListingDraft{
		Type:         domain.TypeRent,
		Name:         "Cozy Loft Downtown",
		Bedrooms:     2,
		Bathrooms:    1,
		Address:      "1 Main St, Springfield",
		RegularPrice: 1500,
		Images: []domain.ImageFile{
			{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
			{Name: "b.jpg", ContentType: "image/jpeg", Data: []byte("b")},
		},
	}
}

func newTestService(repo *fakeRepo, geo *fakeGeo, up *fakeUploader) *Service {
	return New(repo, geo, up, nil, validator.New(), logger.New("development"))
}

func TestCreate_EndToEnd(t *testing.T) {
	repo := newFakeRepo()
	geo := &fakeGeo{result: geocode.Result{Lat: 42.1, Lng: -71.0, Address: "1 Main St, Springfield, USA"}}
	up := &fakeUploader{urls: []string{"https://storage.test/urlA", "https://storage.test/urlB"}}
	svc := newTestService(repo, geo, up)
	ownerID := uuid.New()

	id, err := svc.Create(context.Background(), ownerID, rentDraft())
	if err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}

	doc, ok := repo.docs[id]
	if !ok {
		t.Fatal("document was not persisted")
	}
	if doc.OwnerID != ownerID {
		t.Fatalf("expected owner %s, got %s", ownerID, doc.OwnerID)
	}
	if len(doc.ImageURLs) != 2 || doc.ImageURLs[0] != "https://storage.test/urlA" || doc.ImageURLs[1] != "https://storage.test/urlB" {
		t.Fatalf("image urls out of order: %v", doc.ImageURLs)
	}
	if doc.DiscountedPrice != nil {
		t.Fatalf("discounted price must be absent without an offer, got %v", *doc.DiscountedPrice)
	}
	if doc.Geolocation.Lat != 42.1 || doc.Geolocation.Lng != -71.0 {
		t.Fatalf("unexpected geolocation: %+v", doc.Geolocation)
	}
	if doc.Location != "1 Main St, Springfield, USA" {
		t.Fatalf("expected resolved address as location, got %q", doc.Location)
	}
}

func TestCreate_OfferKeepsDiscountedPrice(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGeo{result: geocode.Result{Address: "ok"}}, &fakeUploader{})

	draft := rentDraft()
	draft.Offer = true
	draft.DiscountedPrice = 1200

	id, err := svc.Create(context.Background(), uuid.New(), draft)
	if err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}
	doc := repo.docs[id]
	if doc.DiscountedPrice == nil || *doc.DiscountedPrice != 1200 {
		t.Fatalf("expected discounted price 1200, got %v", doc.DiscountedPrice)
	}
}

func TestCreate_ValidationFailureStopsPipeline(t *testing.T) {
	repo := newFakeRepo()
	geo := &fakeGeo{}
	up := &fakeUploader{}
	svc := newTestService(repo, geo, up)

	draft := rentDraft()
	draft.Offer = true
	draft.DiscountedPrice = 1500 // not strictly below regular

	_, err := svc.Create(context.Background(), uuid.New(), draft)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if geo.calls != 0 || up.calls != 0 || repo.created != 0 {
		t.Fatalf("no downstream stage may run after validation failure (geo=%d up=%d created=%d)", geo.calls, up.calls, repo.created)
	}
}

func TestCreate_TooManyImagesFailsBeforeAnyNetworkCall(t *testing.T) {
	repo := newFakeRepo()
	geo := &fakeGeo{}
	up := &fakeUploader{}
	svc := newTestService(repo, geo, up)

	draft := rentDraft()
	for len(draft.Images) <= domain.MaxImages {
		draft.Images = append(draft.Images, domain.ImageFile{Name: "x.jpg"})
	}

	_, err := svc.Create(context.Background(), uuid.New(), draft)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if geo.calls != 0 || up.calls != 0 {
		t.Fatalf("geocode/upload must not be reached (geo=%d up=%d)", geo.calls, up.calls)
	}
}

func TestCreate_GeocodeFailureStopsBeforeUpload(t *testing.T) {
	repo := newFakeRepo()
	geo := &fakeGeo{err: apperr.Validation("invalid address")}
	up := &fakeUploader{}
	svc := newTestService(repo, geo, up)

	_, err := svc.Create(context.Background(), uuid.New(), rentDraft())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected geocode validation error, got %v", err)
	}
	if up.calls != 0 || repo.created != 0 {
		t.Fatalf("upload/persist must not run after geocode failure (up=%d created=%d)", up.calls, repo.created)
	}
}

func TestCreate_ManualCoordinatesSkipResolver(t *testing.T) {
	repo := newFakeRepo()
	geo := &fakeGeo{}
	svc := newTestService(repo, geo, &fakeUploader{})

	draft := rentDraft()
	draft.GeocodeDisabled = true
	draft.Latitude = 52.37
	draft.Longitude = 4.89

	id, err := svc.Create(context.Background(), uuid.New(), draft)
	if err != nil {
		t.Fatalf("expected submission to succeed, got %v", err)
	}
	if geo.calls != 0 {
		t.Fatalf("resolver must not be called with manual coordinates, got %d calls", geo.calls)
	}

	doc := repo.docs[id]
	if doc.Geolocation.Lat != 52.37 || doc.Geolocation.Lng != 4.89 {
		t.Fatalf("manual coordinates must pass through verbatim, got %+v", doc.Geolocation)
	}
	if doc.Location != draft.Address {
		t.Fatalf("manual path must keep the raw address, got %q", doc.Location)
	}
}

func TestCreate_UploadFailureNeverPersists(t *testing.T) {
	repo := newFakeRepo()
	up := &fakeUploader{err: apperr.Unavailable("images not uploaded")}
	svc := newTestService(repo, &fakeGeo{result: geocode.Result{Address: "ok"}}, up)

	_, err := svc.Create(context.Background(), uuid.New(), rentDraft())
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected upload batch error, got %v", err)
	}
	if repo.created != 0 {
		t.Fatal("document must never be written after an upload failure")
	}
}

func TestCreate_PersistFailureSurfaces(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = apperr.Unavailable("failed to save listing")
	svc := newTestService(repo, &fakeGeo{result: geocode.Result{Address: "ok"}}, &fakeUploader{})

	_, err := svc.Create(context.Background(), uuid.New(), rentDraft())
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected persist error, got %v", err)
	}
}

func TestUpdate_ForbiddenBeforeAnyStage(t *testing.T) {
	repo := newFakeRepo()
	geo := &fakeGeo{}
	up := &fakeUploader{}
	svc := newTestService(repo, geo, up)

	listingID := uuid.New()
	repo.docs[listingID] = &domain.ListingDocument{ID: listingID, OwnerID: uuid.New()}

	_, err := svc.Update(context.Background(), uuid.New(), listingID, rentDraft())
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if geo.calls != 0 || up.calls != 0 || repo.updated != 0 {
		t.Fatalf("no stage may run for a foreign listing (geo=%d up=%d updated=%d)", geo.calls, up.calls, repo.updated)
	}
}

func TestUpdate_OwnerOverwritesDocument(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGeo{result: geocode.Result{Address: "ok"}}, &fakeUploader{urls: []string{"https://storage.test/new"}})

	ownerID := uuid.New()
	listingID := uuid.New()
	repo.docs[listingID] = &domain.ListingDocument{ID: listingID, OwnerID: ownerID, Name: "Old Name For Listing"}

	draft := rentDraft()
	draft.Images = draft.Images[:1]

	id, err := svc.Update(context.Background(), ownerID, listingID, draft)
	if err != nil {
		t.Fatalf("expected edit to succeed, got %v", err)
	}
	if id != listingID {
		t.Fatalf("edit must keep the listing id, got %s", id)
	}
	if repo.updated != 1 || repo.created != 0 {
		t.Fatalf("edit must update, not create (updated=%d created=%d)", repo.updated, repo.created)
	}
	if got := repo.docs[listingID].Name; got != "Cozy Loft Downtown" {
		t.Fatalf("document not overwritten, name is %q", got)
	}
}

func TestUpdate_MissingListing(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGeo{}, &fakeUploader{})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), rentDraft())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete_OwnerOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGeo{}, &fakeUploader{})

	ownerID := uuid.New()
	listingID := uuid.New()
	repo.docs[listingID] = &domain.ListingDocument{ID: listingID, OwnerID: ownerID}

	if err := svc.Delete(context.Background(), uuid.New(), listingID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for foreign listing, got %v", err)
	}
	if err := svc.Delete(context.Background(), ownerID, listingID); err != nil {
		t.Fatalf("owner delete should succeed, got %v", err)
	}
	if _, ok := repo.docs[listingID]; ok {
		t.Fatal("listing should be gone")
	}
}

func TestStageTagging(t *testing.T) {
	repo := newFakeRepo()
	up := &fakeUploader{err: apperr.Unavailable("images not uploaded")}
	svc := newTestService(repo, &fakeGeo{result: geocode.Result{Address: "ok"}}, up)

	_, err := svc.Create(context.Background(), uuid.New(), rentDraft())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "upload: images not uploaded" {
		t.Fatalf("expected stage-tagged error, got %q", got)
	}
}
