package domain

import "house_marketplace_backend/platform/apperr"

// ValidateDraft runs the cross-field draft checks in a fixed order and returns
// the first failure. It is a pure function of the draft: no side effects, same
// answer on every submission attempt.
func ValidateDraft(draft *ListingDraft) error {
	if draft.Offer {
		if draft.DiscountedPrice == 0 {
			return apperr.Validation("discounted price is required when the listing has an offer")
		}
		if draft.DiscountedPrice >= draft.RegularPrice {
			return apperr.Validation("discounted price must be less than regular price")
		}
	}

	if len(draft.Images) > MaxImages {
		return apperr.Validation("a maximum of 6 images is allowed")
	}

	return nil
}
