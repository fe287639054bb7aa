// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search crawls an academic search provider: it determines the
// total hit count for a query, pages through result listings to collect
// identifiers, and scrapes per-paper detail pages concurrently while
// preserving the provider's rank order.
package search

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// Stage error taxonomy. ErrNoResults is distinct from a timeout so callers
// can short-circuit the rest of the pipeline.
var ErrNoResults = errors.New("no papers found")

// Provider scrapes a single search source. Each provider (PubMed, ACS)
// implements this interface per the Strategy pattern: the pipeline is
// provider-agnostic and adding a source means implementing only this
// contract.
//
// Parsing is selector-driven and total where the contract says so:
// ParseDetailPage never fails, substituting sentinels for any field it
// cannot extract.
type Provider interface {
	Name() string

	// BuildQuery derives the provider-specific request payload from the
	// user's search parameters.
	BuildQuery(q types.SearchQuery) url.Values

	// CountURL is the results-page URL used to read the total hit count.
	CountURL(q types.SearchQuery) string

	// ListingURL is the URL of one listing page of identifiers.
	ListingURL(q types.SearchQuery, page, size int) string

	// DetailURL is the detail-page URL for one identifier.
	DetailURL(id string) string

	// ParseTotalCount extracts the total hit count from a results page.
	// A "single result" redirect page is normalized to count 1; a page
	// reporting no matches yields 0.
	ParseTotalCount(html string) (int, error)

	// ParseListingPage extracts the ordered identifiers from one listing
	// page. done reports an explicit end-of-results marker (the fetcher
	// additionally treats a short page as exhaustion).
	ParseListingPage(html string) (ids []string, done bool)

	// ParseDetailPage extracts a PaperRecord from a detail page. It never
	// fails; unparseable fields hold their sentinel values.
	ParseDetailPage(html, pageURL string) types.PaperRecord
}

// NewProvider returns the provider registered under name. Selecting a
// provider is a configuration-time choice.
func NewProvider(cfg types.SearchConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "pubmed":
		return &PubMed{APIKey: cfg.APIKey}, nil
	case "acs":
		return &ACS{}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: pubmed, acs)", cfg.Provider)
	}
}
