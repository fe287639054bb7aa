// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download bulk-fetches one PDF per paper with per-item failure
// isolation, reporting exactly one outcome per item through a bounded
// channel sized to the batch.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// Descriptor is the minimal information needed to download one paper.
type Descriptor struct {
	// Title becomes the output filename; when empty the DOI is used.
	Title string

	// DOI is resolved to a PDF URL via the mirror.
	DOI string
}

// BatchResult summarizes a completed download batch.
type BatchResult struct {
	Written int
	Failed  int
}

// DescriptorsFromResults converts ranked search results into download
// descriptors, skipping records without a usable DOI (missing or
// error-sentinel). It returns the descriptors and the number skipped.
func DescriptorsFromResults(results []types.RankedResult) ([]Descriptor, int) {
	var items []Descriptor
	skipped := 0
	for _, r := range results {
		doi := r.Record.DOI
		if doi == "" || doi == types.SentinelError {
			skipped++
			continue
		}
		items = append(items, Descriptor{Title: r.Record.Title, DOI: doi})
	}
	return items, skipped
}

// Batch downloads every item, publishing exactly one DownloadOutcome per
// item into outcomes, success or failure. A failure on one item never
// aborts the batch. The caller must size outcomes to len(items) so no send
// can block on a stalled consumer; Batch closes the channel when the batch
// ends so the monitor never waits for an event that will not come.
//
// Fetches are paced by cfg.RequestsPerSecond (default 1/s). Cancelling ctx
// marks the remaining items as failed without issuing further requests.
func Batch(ctx context.Context, client *http.Client, items []Descriptor, cfg types.DownloadConfig, outcomes chan<- types.DownloadOutcome) BatchResult {
	defer close(outcomes)

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	var result BatchResult
	for i, item := range items {
		outcome := types.DownloadOutcome{Rank: i, DOI: item.DOI}

		if err := limiter.Wait(ctx); err != nil {
			outcome.Err = fmt.Errorf("batch abandoned: %w", err)
			result.Failed++
			outcomes <- outcome
			continue
		}

		path, err := downloadOne(ctx, client, item, cfg)
		if err != nil {
			outcome.Err = err
			result.Failed++
		} else {
			outcome.Path = path
			result.Written++
		}
		outcomes <- outcome
	}
	return result
}

// downloadOne resolves, fetches, and writes a single paper's PDF. The
// write goes through a temp file renamed into place so a failed fetch
// never leaves a partial PDF in the target directory.
func downloadOne(ctx context.Context, client *http.Client, item Descriptor, cfg types.DownloadConfig) (string, error) {
	pdfURL, err := Resolve(ctx, client, cfg.MirrorURL, item.DOI)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(cfg.TargetDir, 0o755); err != nil {
		return "", fmt.Errorf("creating target directory: %w", err)
	}

	name := Sanitize(item.Title)
	if name == "" {
		name = doiSlug(item.DOI)
	}
	destPath := filepath.Join(cfg.TargetDir, name+".pdf")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching pdf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, pdfURL)
	}

	tmpFile, err := os.CreateTemp(cfg.TargetDir, ".getpaper-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing pdf: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return destPath, nil
}

// invalidFilename strips characters that are unsafe in filenames on any
// supported platform.
var invalidFilename = strings.NewReplacer(
	"/", " ", "\\", " ", ":", " ", "*", " ", "?", " ",
	`"`, " ", "<", " ", ">", " ", "|", " ",
)

const maxFilenameLen = 120

// Sanitize turns a paper title into a filesystem-safe filename stem.
func Sanitize(title string) string {
	s := invalidFilename.Replace(title)
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxFilenameLen {
		s = strings.TrimSpace(s[:maxFilenameLen])
	}
	return strings.Trim(s, ". ")
}

// doiSlug returns a filesystem-safe stem for a DOI.
func doiSlug(doi string) string {
	return strings.NewReplacer("/", "-", ":", "-").Replace(doi)
}
