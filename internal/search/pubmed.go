// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// pubmedBase is the PubMed search endpoint. Declared as a var so tests can
// substitute an httptest server.
var pubmedBase = "https://pubmed.ncbi.nlm.nih.gov/"

var (
	multiSpace = regexp.MustCompile(`\s{2,}`)
	allSpace   = regexp.MustCompile(`\s+`)
)

// PubMed scrapes pubmed.ncbi.nlm.nih.gov.
type PubMed struct {
	// APIKey is an optional NCBI API key sent with every request.
	APIKey string
}

// Name returns the provider identifier.
func (p *PubMed) Name() string { return "pubmed" }

// BuildQuery assembles the PubMed term expression. Clauses appear in a
// fixed order (keyword, date range, author, journal), each included only
// when its source parameter is set, joined with " AND ".
func (p *PubMed) BuildQuery(q types.SearchQuery) url.Values {
	term := []string{q.Keyword}
	if q.StartYear != "" && q.EndYear != "" {
		term = append(term, q.StartYear+":"+q.EndYear+"[dp]")
	}
	if q.Author != "" {
		term = append(term, q.Author+"[author]")
	}
	if q.Journal != "" {
		term = append(term, q.Journal+"[journal]")
	}

	data := url.Values{"term": {strings.Join(term, " AND ")}}
	switch q.Sort {
	case types.SortDate:
		data.Set("sort", "date")
	case types.SortDateAsc:
		data.Set("sort", "date")
		data.Set("sort_order", "asc")
	}
	if p.APIKey != "" {
		data.Set("api_key", p.APIKey)
	}
	return data
}

func (p *PubMed) CountURL(q types.SearchQuery) string {
	data := p.BuildQuery(q)
	data.Set("format", "summary")
	return pubmedBase + "?" + data.Encode()
}

func (p *PubMed) ListingURL(q types.SearchQuery, page, size int) string {
	data := p.BuildQuery(q)
	data.Set("format", "pmid")
	data.Set("size", strconv.Itoa(size))
	data.Set("page", strconv.Itoa(page))
	return pubmedBase + "?" + data.Encode()
}

func (p *PubMed) DetailURL(id string) string { return pubmedBase + id }

// ParseTotalCount reads the hit count from a results page. PubMed serves a
// redirect page instead of a listing when a query matches exactly one
// paper; that page is normalized to count 1.
func (p *PubMed) ParseTotalCount(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, err
	}

	if doc.Find("span.single-result-redirect-message").Length() > 0 {
		return 1, nil
	}

	text := doc.Find("div.results-amount span").First().Text()
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0, nil
	}
	return strconv.Atoi(text)
}

// ParseListingPage reads the PMID tokens from a format=pmid listing page.
// A page without the results chunk is PubMed's "not found" marker.
func (p *PubMed) ParseListingPage(html string) ([]string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, true
	}

	chunk := doc.Find("pre.search-results-chunk")
	if chunk.Length() == 0 {
		return nil, true
	}
	return strings.Fields(chunk.Text()), false
}

// ParseDetailPage scrapes one paper's detail page. Parsing is total: a
// missing field holds its sentinel and never fails the record.
func (p *PubMed) ParseDetailPage(html, pageURL string) types.PaperRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return types.ErrorRecord(pageURL)
	}

	content := doc.Find("main.article-details")
	if content.Length() == 0 {
		content = doc.Selection
	}

	rec := types.PaperRecord{
		Title:       types.SentinelTitle,
		Authors:     "",
		Date:        types.SentinelDate,
		Venue:       types.SentinelVenue,
		Abstract:    types.SentinelAbstract,
		FulltextURL: pageURL,
	}

	if s := content.Find("h1.heading-title").First(); s.Length() > 0 {
		rec.Title = multiSpace.ReplaceAllString(strings.TrimSpace(s.Text()), "")
	}
	if s := content.Find("span.cit").First(); s.Length() > 0 {
		rec.Date = strings.TrimSpace(s.Text())
	}
	if s := content.Find("button#full-view-journal-trigger").First(); s.Length() > 0 {
		rec.Venue = allSpace.ReplaceAllString(s.Text(), "")
	}

	var authors []string
	seen := map[string]bool{}
	content.Find("span.authors-list-item").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name := strings.TrimSpace(s.Find("a").First().Text())
		if name != "" && !seen[name] {
			seen[name] = true
			authors = append(authors, name)
		}
		return len(authors) < types.MaxAuthors
	})
	rec.Authors = strings.Join(authors, "; ")

	if s := content.Find(".abstract-content.selected").First(); s.Length() > 0 {
		rec.Abstract = multiSpace.ReplaceAllString(strings.TrimSpace(s.Text()), "")
	}
	if s := content.Find(`a[data-ga-action="DOI"]`).First(); s.Length() > 0 {
		rec.DOI = allSpace.ReplaceAllString(s.Text(), "")
	}
	if href, ok := content.Find(".full-text-links-list a").First().Attr("href"); ok && href != "" {
		rec.FulltextURL = href
	}
	return rec
}
