// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Dragon-GCS/GetPeper/internal/httputil"
	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

const (
	defaultPageSize   = 200
	defaultMaxResults = 20
)

// TotalCount fetches the results page for query and returns the provider's
// total hit count. It returns ErrNoResults when the provider reports zero
// matches, and httputil.ErrTimeout when the request exceeds its deadline.
func TotalCount(ctx context.Context, query types.SearchQuery, cfg types.SearchConfig) (int, error) {
	p, err := NewProvider(cfg)
	if err != nil {
		return 0, err
	}

	client := httputil.NewClient(cfg.Timeout)
	defer client.CloseIdleConnections()

	return fetchTotal(ctx, client, p, query, cfg)
}

// fetchTotal retrieves and parses the provider's total hit count.
func fetchTotal(ctx context.Context, client *http.Client, p Provider, query types.SearchQuery, cfg types.SearchConfig) (int, error) {
	html, err := httputil.Get(ctx, client, p.CountURL(query), cfg.UserAgent)
	if err != nil {
		return 0, fmt.Errorf("fetching result count: %w", err)
	}
	total, err := p.ParseTotalCount(html)
	if err != nil {
		return 0, fmt.Errorf("parsing result count: %w", err)
	}
	if total == 0 {
		return 0, ErrNoResults
	}
	return total, nil
}

// Search runs the full crawl pipeline: total count, paginated identifier
// collection, then the ordered concurrent detail fetch. The returned slice
// is sorted ascending by rank with no gaps or duplicates and has length
// min(cfg.MaxResults, total). Per-item fetch failures appear as
// all-sentinel records; only batch-level conditions (zero matches, a
// timeout before any data arrived) are returned as errors.
//
// Each run owns its HTTP client: connections are reusable across the run's
// concurrent fetches and released when the run completes. Progress lines
// are written to w.
func Search(ctx context.Context, query types.SearchQuery, cfg types.SearchConfig, w io.Writer) ([]types.RankedResult, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("query is empty: provide a keyword, author, or journal")
	}

	p, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	client := httputil.NewClient(cfg.Timeout)
	defer client.CloseIdleConnections()

	total, err := fetchTotal(ctx, client, p, query, cfg)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "%s: %d papers match\n", p.Name(), total)

	n := cfg.MaxResults
	if n <= 0 {
		n = defaultMaxResults
	}
	if n > total {
		n = total
	}

	ids, err := fetchIDs(ctx, client, p, query, n, cfg, w)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "fetching %d detail pages\n", len(ids))

	return fetchDetails(ctx, client, p, ids, cfg), nil
}

// FormatTable writes ranked results as a human-readable table to w.
func FormatTable(results []types.RankedResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-24s  %-16s  %s\n", "Rank", "Title", "Authors", "Date", "DOI")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, r := range results {
		fmt.Fprintf(w, "%-4d  %-60s  %-24s  %-16s  %s\n",
			r.Rank+1,
			truncate(r.Record.Title, 60),
			truncate(r.Record.Authors, 24),
			truncate(r.Record.Date, 16),
			r.Record.DOI)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
