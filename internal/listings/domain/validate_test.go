package domain

import (
	"testing"

	"house_marketplace_backend/platform/apperr"
)

func validDraft() *ListingDraft {
	return &ListingDraft{
		Type:         TypeRent,
		Name:         "Cozy Loft Downtown",
		Bedrooms:     2,
		Bathrooms:    1,
		Address:      "1 Main St, Springfield",
		RegularPrice: 1500,
	}
}

func TestValidateDraft_OK(t *testing.T) {
	if err := ValidateDraft(validDraft()); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
}

func TestValidateDraft_DiscountNotBelowRegular(t *testing.T) {
	cases := []struct {
		name       string
		discounted float64
		wantErr    bool
	}{
		{"equal to regular", 1500, true},
		{"above regular", 1600, true},
		{"below regular", 1400, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := validDraft()
			draft.Offer = true
			draft.DiscountedPrice = tc.discounted

			err := ValidateDraft(draft)
			if tc.wantErr {
				if !apperr.Is(err, apperr.KindValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateDraft_OfferRequiresDiscountedPrice(t *testing.T) {
	draft := validDraft()
	draft.Offer = true

	err := ValidateDraft(draft)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("an offer without a discounted price must be rejected, got %v", err)
	}
	if got := err.Error(); got != "discounted price is required when the listing has an offer" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestValidateDraft_DiscountIgnoredWithoutOffer(t *testing.T) {
	draft := validDraft()
	draft.Offer = false
	draft.DiscountedPrice = 9000

	if err := ValidateDraft(draft); err != nil {
		t.Fatalf("discount check must only apply when offer is set, got %v", err)
	}
}

func TestValidateDraft_TooManyImages(t *testing.T) {
	draft := validDraft()
	for i := 0; i < MaxImages+1; i++ {
		draft.Images = append(draft.Images, ImageFile{Name: "a.jpg", ContentType: "image/jpeg"})
	}

	if err := ValidateDraft(draft); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for 7 images, got %v", err)
	}

	draft.Images = draft.Images[:MaxImages]
	if err := ValidateDraft(draft); err != nil {
		t.Fatalf("6 images must be accepted, got %v", err)
	}
}

func TestValidateDraft_DiscountCheckedBeforeImageCount(t *testing.T) {
	draft := validDraft()
	draft.Offer = true
	draft.DiscountedPrice = 2000
	for i := 0; i < MaxImages+1; i++ {
		draft.Images = append(draft.Images, ImageFile{Name: "a.jpg"})
	}

	err := ValidateDraft(draft)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := err.Error(); got != "discounted price must be less than regular price" {
		t.Fatalf("expected discount failure to win, got %q", got)
	}
}
