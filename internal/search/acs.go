// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// ACS endpoints. Declared as vars so tests can substitute httptest servers.
var (
	acsSearchBase = "https://pubs.acs.org/action/doSearch"
	acsDetailBase = "https://pubs.acs.org/doi/"
)

// ACS scrapes pubs.acs.org. Identifiers are DOIs taken from listing-page
// article links.
type ACS struct{}

// Name returns the provider identifier.
func (a *ACS) Name() string { return "acs" }

// BuildQuery maps the search parameters onto the ACS doSearch form. ACS
// takes a single free-text field; date range and sort are separate params.
func (a *ACS) BuildQuery(q types.SearchQuery) url.Values {
	data := url.Values{"AllField": {q.Keyword}}
	if q.Author != "" {
		data.Set("Contrib", q.Author)
	}
	if q.StartYear != "" && q.EndYear != "" {
		data.Set("AfterYear", q.StartYear)
		data.Set("BeforeYear", q.EndYear)
	}
	if q.Sort == types.SortDate || q.Sort == types.SortDateAsc {
		data.Set("sortBy", "Earliest")
	}
	return data
}

func (a *ACS) CountURL(q types.SearchQuery) string {
	return acsSearchBase + "?" + a.BuildQuery(q).Encode()
}

func (a *ACS) ListingURL(q types.SearchQuery, page, size int) string {
	data := a.BuildQuery(q)
	data.Set("pageSize", strconv.Itoa(size))
	// ACS pages are zero-indexed.
	data.Set("startPage", strconv.Itoa(page-1))
	return acsSearchBase + "?" + data.Encode()
}

func (a *ACS) DetailURL(id string) string { return acsDetailBase + id }

// ParseTotalCount reads the result count banner from a search page.
func (a *ACS) ParseTotalCount(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, err
	}
	text := doc.Find("span.result__count").First().Text()
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0, nil
	}
	return strconv.Atoi(text)
}

// ParseListingPage extracts DOIs from the issue-item article links of one
// search page.
func (a *ACS) ParseListingPage(html string) ([]string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, true
	}

	var ids []string
	doc.Find(".issue-item a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if i := strings.Index(href, "/doi/"); i >= 0 {
			doi := strings.TrimPrefix(href[i+len("/doi/"):], "full/")
			if doi != "" {
				ids = append(ids, doi)
			}
		}
	})
	if len(ids) == 0 {
		return nil, true
	}
	return dedupe(ids), false
}

// ParseDetailPage scrapes one article page. Missing fields hold sentinels.
func (a *ACS) ParseDetailPage(html, pageURL string) types.PaperRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return types.ErrorRecord(pageURL)
	}

	rec := types.PaperRecord{
		Title:       types.SentinelTitle,
		Date:        types.SentinelDate,
		Venue:       types.SentinelVenue,
		Abstract:    types.SentinelAbstract,
		FulltextURL: pageURL,
	}

	if s := doc.Find("h1.article_header-title").First(); s.Length() > 0 {
		rec.Title = multiSpace.ReplaceAllString(strings.TrimSpace(s.Text()), "")
	}
	if s := doc.Find("span.pub-date-value").First(); s.Length() > 0 {
		rec.Date = strings.TrimSpace(s.Text())
	}
	if s := doc.Find(".cit-title").First(); s.Length() > 0 {
		rec.Venue = strings.TrimSpace(s.Text())
	}

	var authors []string
	doc.Find("span.hlFld-ContribAuthor").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if name := strings.TrimSpace(s.Text()); name != "" {
			authors = append(authors, name)
		}
		return len(authors) < types.MaxAuthors
	})
	rec.Authors = strings.Join(dedupe(authors), "; ")

	if s := doc.Find(".articleBody_abstractText").First(); s.Length() > 0 {
		rec.Abstract = multiSpace.ReplaceAllString(strings.TrimSpace(s.Text()), "")
	}
	if i := strings.Index(pageURL, "/doi/"); i >= 0 {
		rec.DOI = strings.TrimPrefix(pageURL[i+len("/doi/"):], "full/")
	}
	return rec
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
