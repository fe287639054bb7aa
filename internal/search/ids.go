// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Dragon-GCS/GetPeper/internal/httputil"
	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// pageCursor is the pagination state threaded through fetchIDs. It is a
// plain value owned by one fetch loop, never shared with the concurrent
// detail stage.
type pageCursor struct {
	page int
	size int
}

func (c pageCursor) advance() pageCursor {
	c.page++
	return c
}

// fetchIDs pages through listing requests until it has collected n
// identifiers or the provider signals exhaustion (an explicit not-found
// marker, or a page shorter than the page size). A timeout after the first
// page stops pagination and returns the identifiers accumulated so far
// rather than discarding partial progress. The result is truncated to the
// first n identifiers.
//
// An empty first page fails fast with ErrNoResults so the caller can
// short-circuit the detail stage.
func fetchIDs(ctx context.Context, client *http.Client, p Provider, q types.SearchQuery, n int, cfg types.SearchConfig, w io.Writer) ([]string, error) {
	cur := pageCursor{page: 1, size: cfg.PageSize}
	if cur.size <= 0 {
		cur.size = defaultPageSize
	}

	var ids []string
	for len(ids) < n {
		html, err := httputil.Get(ctx, client, p.ListingURL(q, cur.page, cur.size), cfg.UserAgent)
		if err != nil {
			if errors.Is(err, httputil.ErrTimeout) && len(ids) > 0 {
				// Keep what we have; the caller still gets a correctly
				// ordered, shorter batch.
				fmt.Fprintf(w, "warning: listing page %d timed out, continuing with %d identifiers\n", cur.page, len(ids))
				break
			}
			return nil, fmt.Errorf("listing page %d: %w", cur.page, err)
		}

		pageIDs, done := p.ParseListingPage(html)
		if len(pageIDs) == 0 {
			if len(ids) == 0 {
				return nil, ErrNoResults
			}
			break
		}
		ids = append(ids, pageIDs...)

		if done || len(pageIDs) < cur.size {
			break
		}
		cur = cur.advance()
	}

	if len(ids) > n {
		ids = ids[:n]
	}
	return ids, nil
}
