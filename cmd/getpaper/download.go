// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dragon-GCS/GetPeper/internal/download"
	"github.com/Dragon-GCS/GetPeper/internal/httputil"
	"github.com/Dragon-GCS/GetPeper/internal/search"
	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

const defaultMirror = "https://sci-hub.se"

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Bulk-download PDFs for a saved run or a DOI list",
	Long: `Download fetches one PDF per paper into the target directory. Input is
either a saved search run (--results) or a text file of DOIs (--doi-file),
one per line; lines not starting with "10." are ignored. Failures are
isolated per item and reported in the final summary.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().String("results", "", "YAML run file saved by search --save")
	downloadCmd.Flags().String("doi-file", "", "text file with one DOI per line")
	downloadCmd.Flags().String("dir", "papers", "target directory for PDFs")
	downloadCmd.Flags().String("mirror", "", "PDF resolution mirror base URL")
	downloadCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	downloadCmd.Flags().Float64("rate", 1, "artifact fetches per second")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	items, err := downloadItems(cmd)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("nothing to download")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	mirror, _ := cmd.Flags().GetString("mirror")
	if mirror == "" {
		mirror = secretDefault("scihub-mirror", "")
	}
	if mirror == "" {
		mirror = defaultMirror
	}
	targetDir, _ := cmd.Flags().GetString("dir")
	rps, _ := cmd.Flags().GetFloat64("rate")

	cfg := types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		MirrorURL:         mirror,
		TargetDir:         targetDir,
		RequestsPerSecond: rps,
	}

	client := httputil.NewClient(cfg.Timeout)
	defer client.CloseIdleConnections()

	// Sized to the batch so no publish can ever block; the batch runs on
	// its own goroutine and the monitor drains in the foreground.
	outcomes := make(chan types.DownloadOutcome, len(items))
	go download.Batch(cmd.Context(), client, items, cfg, outcomes)

	result := download.Monitor(outcomes, len(items), os.Stdout)
	if result.Failed > 0 {
		return fmt.Errorf("%d download(s) failed", result.Failed)
	}
	return nil
}

// downloadItems builds the descriptor list from whichever input flag is set.
func downloadItems(cmd *cobra.Command) ([]download.Descriptor, error) {
	resultsPath, _ := cmd.Flags().GetString("results")
	doiPath, _ := cmd.Flags().GetString("doi-file")

	switch {
	case resultsPath != "" && doiPath != "":
		return nil, fmt.Errorf("--results and --doi-file are mutually exclusive")

	case resultsPath != "":
		qf, err := search.ReadQueryFile(resultsPath)
		if err != nil {
			return nil, err
		}
		items, skipped := download.DescriptorsFromResults(qf.Results)
		if skipped > 0 {
			fmt.Fprintf(os.Stderr, "skipping %d paper(s) without a DOI\n", skipped)
		}
		return items, nil

	case doiPath != "":
		f, err := os.Open(doiPath)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", doiPath, err)
		}
		defer f.Close()
		return download.ReadDOIFile(f)

	default:
		return nil, fmt.Errorf("provide --results or --doi-file")
	}
}
