// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Dragon-GCS/GetPeper/internal/httputil"
	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// fetchDetails fetches and parses every detail page concurrently and
// reassembles the records in rank order. The task at rank i sleeps
// i x StaggerDelay before issuing its request, so issue times stay
// monotonic in rank and the peak request rate is bounded without
// serializing the batch.
//
// Each task writes into its own slot of a pre-sized arena, so writers
// never contend and no ordered structure is needed: the slice index is
// the rank. A task whose fetch fails stores an all-sentinel record at its
// rank, preserving the batch length.
func fetchDetails(ctx context.Context, client *http.Client, p Provider, ids []string, cfg types.SearchConfig) []types.RankedResult {
	records := make([]types.PaperRecord, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(rank int, id string) {
			defer wg.Done()
			pageURL := p.DetailURL(id)

			if d := time.Duration(rank) * cfg.StaggerDelay; d > 0 {
				select {
				case <-time.After(d):
				case <-ctx.Done():
					records[rank] = types.ErrorRecord(pageURL)
					return
				}
			}

			html, err := httputil.Get(ctx, client, pageURL, cfg.UserAgent)
			if err != nil {
				records[rank] = types.ErrorRecord(pageURL)
				return
			}
			records[rank] = p.ParseDetailPage(html, pageURL)
		}(i, id)
	}
	wg.Wait()

	results := make([]types.RankedResult, len(records))
	for i, rec := range records {
		results[i] = types.RankedResult{Rank: i, Record: rec}
	}
	return results
}
