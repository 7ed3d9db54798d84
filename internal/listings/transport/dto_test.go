package transport

import (
	"testing"
	"time"

	"house_marketplace_backend/internal/listings/domain"
	"house_marketplace_backend/internal/listings/repository"
)

func browseDocs(n int) []domain.ListingDocument {
	docs := make([]domain.ListingDocument, 0, n)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		docs = append(docs, domain.ListingDocument{
			Name:      "Cozy Loft Downtown",
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return docs
}

func TestNewListingPage_DefaultLimitStillPaginates(t *testing.T) {
	// With "limit" omitted the query runs with the default page size; a full
	// default page must still carry a cursor for the next one.
	limit := repository.Filter{}.EffectiveLimit()
	docs := browseDocs(limit)

	page := NewListingPage(docs, limit)
	if page.NextCursor == "" {
		t.Fatal("full default page must expose a next cursor")
	}

	want := docs[len(docs)-1].CreatedAt.Format(time.RFC3339Nano)
	if page.NextCursor != want {
		t.Fatalf("cursor must be the oldest row's created_at, got %q want %q", page.NextCursor, want)
	}
}

func TestNewListingPage_PartialPageIsLast(t *testing.T) {
	limit := repository.Filter{Limit: 10}.EffectiveLimit()
	page := NewListingPage(browseDocs(3), limit)

	if page.NextCursor != "" {
		t.Fatalf("partial page must not expose a cursor, got %q", page.NextCursor)
	}
	if len(page.Listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(page.Listings))
	}
}

func TestFilterEffectiveLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"omitted", 0, 8},
		{"explicit", 20, 20},
		{"above cap", 200, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := (repository.Filter{Limit: tc.limit}).EffectiveLimit(); got != tc.want {
				t.Fatalf("limit %d resolved to %d, want %d", tc.limit, got, tc.want)
			}
		})
	}
}
