// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"testing"

	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

func TestPubMedBuildQueryTerm(t *testing.T) {
	tests := []struct {
		name     string
		query    types.SearchQuery
		wantTerm string
	}{
		{
			name:     "keyword only",
			query:    types.SearchQuery{Keyword: "crispr"},
			wantTerm: "crispr",
		},
		{
			name: "all clauses in fixed order",
			query: types.SearchQuery{
				Keyword:   "crispr",
				StartYear: "2010",
				EndYear:   "2020",
				Author:    "Martin",
				Journal:   "nature",
			},
			wantTerm: "crispr AND 2010:2020[dp] AND Martin[author] AND nature[journal]",
		},
		{
			name:     "date range needs both years",
			query:    types.SearchQuery{Keyword: "crispr", StartYear: "2010"},
			wantTerm: "crispr",
		},
		{
			name:     "author without dates",
			query:    types.SearchQuery{Keyword: "crispr", Author: "Martin"},
			wantTerm: "crispr AND Martin[author]",
		},
		{
			name:     "journal only clause",
			query:    types.SearchQuery{Keyword: "crispr", Journal: "cell"},
			wantTerm: "crispr AND cell[journal]",
		},
	}
	p := &PubMed{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.BuildQuery(tt.query).Get("term")
			if got != tt.wantTerm {
				t.Errorf("term = %q, want %q", got, tt.wantTerm)
			}
		})
	}
}

func TestPubMedBuildQuerySort(t *testing.T) {
	p := &PubMed{}

	v := p.BuildQuery(types.SearchQuery{Keyword: "x", Sort: types.SortRelevance})
	if v.Has("sort") || v.Has("sort_order") {
		t.Errorf("relevance sort should not set sort params, got %v", v)
	}

	v = p.BuildQuery(types.SearchQuery{Keyword: "x", Sort: types.SortDate})
	if v.Get("sort") != "date" || v.Has("sort_order") {
		t.Errorf("date sort params = %v", v)
	}

	v = p.BuildQuery(types.SearchQuery{Keyword: "x", Sort: types.SortDateAsc})
	if v.Get("sort") != "date" || v.Get("sort_order") != "asc" {
		t.Errorf("date_asc sort params = %v", v)
	}
}

func TestPubMedBuildQueryAPIKey(t *testing.T) {
	p := &PubMed{APIKey: "nk_123"}
	if got := p.BuildQuery(types.SearchQuery{Keyword: "x"}).Get("api_key"); got != "nk_123" {
		t.Errorf("api_key = %q", got)
	}
	p = &PubMed{}
	if p.BuildQuery(types.SearchQuery{Keyword: "x"}).Has("api_key") {
		t.Error("api_key set without a key")
	}
}

func TestPubMedParseTotalCount(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{
			name: "results amount with comma",
			html: `<html><body><div class="results-amount"><span>12,345</span> results</div></body></html>`,
			want: 12345,
		},
		{
			name: "single result redirect",
			html: `<html><body><span class="single-result-redirect-message">redirected</span></body></html>`,
			want: 1,
		},
		{
			name: "no results banner",
			html: `<html><body><p>Your search yielded nothing.</p></body></html>`,
			want: 0,
		},
	}
	p := &PubMed{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseTotalCount(tt.html)
			if err != nil {
				t.Fatalf("ParseTotalCount: %v", err)
			}
			if got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPubMedParseListingPage(t *testing.T) {
	html := `<html><body><pre class="search-results-chunk">
		11111111
		22222222
		33333333
	</pre></body></html>`

	p := &PubMed{}
	ids, done := p.ParseListingPage(html)
	if done {
		t.Error("done = true for a populated page")
	}
	want := []string{"11111111", "22222222", "33333333"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	ids, done = p.ParseListingPage(`<html><body><p>not found</p></body></html>`)
	if !done || len(ids) != 0 {
		t.Errorf("missing chunk: ids = %v, done = %v, want none/true", ids, done)
	}
}

const pubmedDetailHTML = `<html><body>
<main class="article-details">
  <h1 class="heading-title">
    CRISPR screens in cancer</h1>
  <span class="cit">2020 Mar 12;580(7801):100-105.</span>
  <button id="full-view-journal-trigger"> Nature </button>
  <div class="authors-list">
    <span class="authors-list-item"><a>Alice Smith</a></span>
    <span class="authors-list-item"><a>Bob Jones</a></span>
    <span class="authors-list-item"><a>Alice Smith</a></span>
    <span class="authors-list-item"><a>Carol White</a></span>
    <span class="authors-list-item"><a>Dan Black</a></span>
    <span class="authors-list-item"><a>Eve Green</a></span>
    <span class="authors-list-item"><a>Frank Grey</a></span>
  </div>
  <div class="abstract-content selected">Genome-wide screens reveal dependencies.</div>
  <a data-ga-action="DOI"> 10.1038/s41586-020-0001-x </a>
  <div class="full-text-links-list"><a href="https://doi.org/10.1038/s41586-020-0001-x">Full text</a></div>
</main>
</body></html>`

func TestPubMedParseDetailPage(t *testing.T) {
	p := &PubMed{}
	rec := p.ParseDetailPage(pubmedDetailHTML, "https://pubmed.ncbi.nlm.nih.gov/12345678")

	if rec.Title != "CRISPR screens in cancer" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.Abstract != "Genome-wide screens reveal dependencies." {
		t.Errorf("abstract = %q", rec.Abstract)
	}
	if rec.Date != "2020 Mar 12;580(7801):100-105." {
		t.Errorf("date = %q", rec.Date)
	}
	if rec.Venue != "Nature" {
		t.Errorf("venue = %q", rec.Venue)
	}
	// Duplicate dropped, list capped at MaxAuthors.
	if rec.Authors != "Alice Smith; Bob Jones; Carol White; Dan Black; Eve Green" {
		t.Errorf("authors = %q", rec.Authors)
	}
	if rec.DOI != "10.1038/s41586-020-0001-x" {
		t.Errorf("doi = %q", rec.DOI)
	}
	if rec.FulltextURL != "https://doi.org/10.1038/s41586-020-0001-x" {
		t.Errorf("fulltext = %q", rec.FulltextURL)
	}
}

func TestPubMedParseDetailPageSentinels(t *testing.T) {
	p := &PubMed{}
	pageURL := "https://pubmed.ncbi.nlm.nih.gov/99999999"
	rec := p.ParseDetailPage(`<html><body><main class="article-details"></main></body></html>`, pageURL)

	if rec.Title != types.SentinelTitle {
		t.Errorf("title = %q, want sentinel", rec.Title)
	}
	if rec.Date != types.SentinelDate {
		t.Errorf("date = %q, want sentinel", rec.Date)
	}
	if rec.Venue != types.SentinelVenue {
		t.Errorf("venue = %q, want sentinel", rec.Venue)
	}
	if rec.Abstract != types.SentinelAbstract {
		t.Errorf("abstract = %q, want sentinel", rec.Abstract)
	}
	if rec.Authors != "" {
		t.Errorf("authors = %q, want empty", rec.Authors)
	}
	if rec.DOI != "" {
		t.Errorf("doi = %q, want empty", rec.DOI)
	}
	if rec.FulltextURL != pageURL {
		t.Errorf("fulltext = %q, want page url", rec.FulltextURL)
	}
}
