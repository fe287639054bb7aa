// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the getpaper pipeline:
// the search query, the scraped paper record, rank-ordered results, and
// per-item download outcomes.
package types

// MaxAuthors caps the number of authors kept from a detail page.
const MaxAuthors = 5

// Sentinel values substituted when a detail-page field cannot be parsed.
// A record whose fetch failed entirely uses SentinelError in every field.
const (
	SentinelTitle    = "No Title"
	SentinelDate     = "No date"
	SentinelVenue    = "No publication"
	SentinelAbstract = "No Abstract"
	SentinelError    = "Error"
)

// SortMode selects the provider-side ordering of search results.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortDate      SortMode = "date"
	// SortDateAsc is oldest-first date ordering.
	SortDateAsc SortMode = "date_asc"
)

// SearchQuery holds the user's search parameters. It is immutable once
// constructed; one query belongs to exactly one pipeline run.
type SearchQuery struct {
	// Keyword is the free-text search term. Required.
	Keyword string `json:"keyword" yaml:"keyword"`

	// StartYear and EndYear bound the publication date range. Both must be
	// set for the range to apply.
	StartYear string `json:"start_year,omitempty" yaml:"start_year,omitempty"`
	EndYear   string `json:"end_year,omitempty" yaml:"end_year,omitempty"`

	// Author filters by author name.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// Journal filters by journal name.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Sort selects the result ordering (default: provider relevance).
	Sort SortMode `json:"sort,omitempty" yaml:"sort,omitempty"`
}

// IsEmpty reports whether the query contains no searchable terms.
func (q SearchQuery) IsEmpty() bool {
	return q.Keyword == "" && q.Author == "" && q.Journal == ""
}

// PaperRecord holds the metadata scraped from one detail page. Parsing is
// total: a field that cannot be extracted holds its sentinel value rather
// than being absent.
type PaperRecord struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors is a "; "-joined list of at most MaxAuthors author names.
	Authors string `json:"authors" yaml:"authors"`

	// Date is the citation date text as shown on the detail page.
	Date string `json:"date" yaml:"date"`

	// Venue is the journal or publication name.
	Venue string `json:"venue" yaml:"venue"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// DOI is the paper DOI, or empty when the page carries none.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// FulltextURL is the full-text link when the page offers one, otherwise
	// the detail page URL itself.
	FulltextURL string `json:"fulltext_url,omitempty" yaml:"fulltext_url,omitempty"`
}

// ErrorRecord returns a PaperRecord with every field set to SentinelError.
// It stands in for a detail page whose fetch failed, so the ordered result
// list keeps its full length. The page URL is preserved as the full-text
// link so the caller can retry by hand.
func ErrorRecord(pageURL string) PaperRecord {
	return PaperRecord{
		Title:       SentinelError,
		Authors:     SentinelError,
		Date:        SentinelError,
		Venue:       SentinelError,
		Abstract:    SentinelError,
		DOI:         SentinelError,
		FulltextURL: pageURL,
	}
}

// RankedResult pairs a PaperRecord with its zero-based rank in the
// provider's ordering at request time. Rank is the reassembly key: detail
// fetches complete out of order, but results are always delivered sorted
// ascending by Rank.
type RankedResult struct {
	Rank   int         `json:"rank" yaml:"rank"`
	Record PaperRecord `json:"record" yaml:"record"`
}

// DownloadOutcome reports the terminal state of one download item. Exactly
// one outcome is published per item, success or failure, and each is
// consumed once by the progress monitor.
type DownloadOutcome struct {
	// Rank is the item's position in the download batch.
	Rank int

	// DOI identifies the item.
	DOI string

	// Path is the written file path on success, empty on failure.
	Path string

	// Err is the failure reason, nil on success.
	Err error
}

// Failed reports whether the item ended in the Failed state.
func (o DownloadOutcome) Failed() bool { return o.Err != nil }
