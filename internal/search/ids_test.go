// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dragon-GCS/GetPeper/internal/httputil"
	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// listingServer serves format=pmid listing pages backed by a fixed pool of
// identifiers, honoring the page and size parameters the way PubMed does.
// It counts listing requests.
func listingServer(t *testing.T, available int, requests *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		require.Greater(t, page, 0)
		require.Greater(t, size, 0)

		start := (page - 1) * size
		if start >= available {
			// PubMed serves a page without the results chunk past the end.
			fmt.Fprint(w, `<html><body><p>no more results</p></body></html>`)
			return
		}
		end := start + size
		if end > available {
			end = available
		}
		var ids []string
		for i := start; i < end; i++ {
			ids = append(ids, fmt.Sprintf("%08d", i+1))
		}
		fmt.Fprintf(w, `<html><body><pre class="search-results-chunk">%s</pre></body></html>`,
			strings.Join(ids, "\n"))
	}))
}

func idsConfig(pageSize int) types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		PageSize:   pageSize,
	}
}

func TestFetchIDsExactCount(t *testing.T) {
	var requests int32
	ts := listingServer(t, 10, &requests)
	defer ts.Close()

	orig := pubmedBase
	pubmedBase = ts.URL + "/"
	defer func() { pubmedBase = orig }()

	p := &PubMed{}
	ids, err := fetchIDs(context.Background(), ts.Client(), p, types.SearchQuery{Keyword: "x"}, 6, idsConfig(3), io.Discard)
	require.NoError(t, err)

	require.Len(t, ids, 6)
	for i, id := range ids {
		assert.Equal(t, fmt.Sprintf("%08d", i+1), id, "provider order preserved")
	}
	// ceil(6/3) pages, no extra requests.
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestFetchIDsPartialLastPage(t *testing.T) {
	var requests int32
	ts := listingServer(t, 10, &requests)
	defer ts.Close()

	orig := pubmedBase
	pubmedBase = ts.URL + "/"
	defer func() { pubmedBase = orig }()

	p := &PubMed{}
	ids, err := fetchIDs(context.Background(), ts.Client(), p, types.SearchQuery{Keyword: "x"}, 7, idsConfig(3), io.Discard)
	require.NoError(t, err)

	require.Len(t, ids, 7)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestFetchIDsShortPageStopsPagination(t *testing.T) {
	// Only 5 identifiers exist; page 2 comes back short, so no third
	// request may be issued even though 10 were asked for.
	var requests int32
	ts := listingServer(t, 5, &requests)
	defer ts.Close()

	orig := pubmedBase
	pubmedBase = ts.URL + "/"
	defer func() { pubmedBase = orig }()

	p := &PubMed{}
	ids, err := fetchIDs(context.Background(), ts.Client(), p, types.SearchQuery{Keyword: "x"}, 10, idsConfig(3), io.Discard)
	require.NoError(t, err)

	assert.Len(t, ids, 5)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestFetchIDsNoResults(t *testing.T) {
	var requests int32
	ts := listingServer(t, 0, &requests)
	defer ts.Close()

	orig := pubmedBase
	pubmedBase = ts.URL + "/"
	defer func() { pubmedBase = orig }()

	p := &PubMed{}
	_, err := fetchIDs(context.Background(), ts.Client(), p, types.SearchQuery{Keyword: "x"}, 10, idsConfig(3), io.Discard)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestFetchIDsTimeoutKeepsPartialProgress(t *testing.T) {
	// Page 1 answers normally, page 2 stalls past the client timeout. The
	// fetcher must return the first page rather than discarding it.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			time.Sleep(500 * time.Millisecond)
		}
		fmt.Fprint(w, `<html><body><pre class="search-results-chunk">00000001 00000002 00000003</pre></body></html>`)
	}))
	defer ts.Close()

	orig := pubmedBase
	pubmedBase = ts.URL + "/"
	defer func() { pubmedBase = orig }()

	client := httputil.NewClient(100 * time.Millisecond)
	p := &PubMed{}
	var log strings.Builder
	ids, err := fetchIDs(context.Background(), client, p, types.SearchQuery{Keyword: "x"}, 6, idsConfig(3), &log)
	require.NoError(t, err)

	assert.Len(t, ids, 3)
	assert.Contains(t, log.String(), "timed out")
}

func TestFetchIDsFirstPageTimeoutPropagates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	orig := pubmedBase
	pubmedBase = ts.URL + "/"
	defer func() { pubmedBase = orig }()

	client := httputil.NewClient(100 * time.Millisecond)
	p := &PubMed{}
	_, err := fetchIDs(context.Background(), client, p, types.SearchQuery{Keyword: "x"}, 6, idsConfig(3), io.Discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httputil.ErrTimeout), "err = %v", err)
}
