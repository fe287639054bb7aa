// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// pubmedMock routes count, listing, and detail requests the way the real
// site does: format=summary is the results page, format=pmid a listing
// page, and any other path a detail page.
func pubmedMock(total int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("format") {
		case "summary":
			if total == 0 {
				fmt.Fprint(w, `<html><body><p>nothing</p></body></html>`)
				return
			}
			fmt.Fprintf(w, `<html><body><div class="results-amount"><span>%d</span></div></body></html>`, total)
		case "pmid":
			var ids []string
			for i := 0; i < total; i++ {
				ids = append(ids, fmt.Sprintf("%08d", i+1))
			}
			fmt.Fprintf(w, `<html><body><pre class="search-results-chunk">%s</pre></body></html>`,
				strings.Join(ids, " "))
		default:
			detailHandler(w, r)
		}
	}
}

func TestSearchEndToEnd(t *testing.T) {
	ts := httptest.NewServer(pubmedMock(4))
	defer ts.Close()

	orig := pubmedBase
	pubmedBase = ts.URL + "/"
	defer func() { pubmedBase = orig }()

	cfg := types.SearchConfig{
		HTTPConfig:   types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "getpaper-test"},
		MaxResults:   3,
		StaggerDelay: time.Millisecond,
	}

	var progress bytes.Buffer
	results, err := Search(context.Background(), types.SearchQuery{Keyword: "crispr"}, cfg, &progress)
	require.NoError(t, err)

	// min(requested, available) = 3, in rank order.
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Rank)
		assert.Equal(t, fmt.Sprintf("Paper %08d", i+1), r.Record.Title)
	}
	assert.Contains(t, progress.String(), "4 papers match")
}

func TestSearchNoResults(t *testing.T) {
	ts := httptest.NewServer(pubmedMock(0))
	defer ts.Close()

	orig := pubmedBase
	pubmedBase = ts.URL + "/"
	defer func() { pubmedBase = orig }()

	cfg := types.SearchConfig{HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second}}
	_, err := Search(context.Background(), types.SearchQuery{Keyword: "zzz"}, cfg, io.Discard)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestSearchEmptyQuery(t *testing.T) {
	_, err := Search(context.Background(), types.SearchQuery{}, types.SearchConfig{}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestTotalCountSingleResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><span class="single-result-redirect-message">one</span></body></html>`)
	}))
	defer ts.Close()

	orig := pubmedBase
	pubmedBase = ts.URL + "/"
	defer func() { pubmedBase = orig }()

	cfg := types.SearchConfig{HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second}}
	total, err := TotalCount(context.Background(), types.SearchQuery{Keyword: "x"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(types.SearchConfig{Provider: "jstor"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jstor")
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable([]types.RankedResult{
		{Rank: 0, Record: types.PaperRecord{Title: "A paper", Authors: "A; B", Date: "2020", DOI: "10.1/x"}},
	}, &buf)
	out := buf.String()
	assert.Contains(t, out, "A paper")
	assert.Contains(t, out, "10.1/x")
	assert.Contains(t, out, "1 results")

	buf.Reset()
	FormatTable(nil, &buf)
	assert.Contains(t, buf.String(), "No results")
}
