// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dragon-GCS/GetPeper/internal/httputil"
	"github.com/Dragon-GCS/GetPeper/internal/search"
	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "getpaper/0.1"
	defaultStagger   = 100 * time.Millisecond
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Crawl a provider for papers matching a query",
	Long: `Search reports the provider's total hit count for a query, collects the
requested number of result identifiers across listing pages, and scrapes
each paper's detail page concurrently. Results are printed as a table in
the provider's rank order and can be saved to CSV or a YAML run file.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "search keyword")
	searchCmd.Flags().String("author", "", "filter by author name")
	searchCmd.Flags().String("journal", "", "filter by journal name")
	searchCmd.Flags().String("from", "", "publication year range start (YYYY)")
	searchCmd.Flags().String("to", "", "publication year range end (YYYY)")
	searchCmd.Flags().String("sort", "relevance", "result ordering: relevance, date, date_asc")
	searchCmd.Flags().Int("num", 20, "number of papers to fetch")
	searchCmd.Flags().String("provider", "pubmed", "search provider: pubmed or acs")
	searchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	searchCmd.Flags().Duration("stagger", 0, "per-rank delay before detail fetches (default 100ms)")
	searchCmd.Flags().Bool("count-only", false, "print the total hit count and exit")
	searchCmd.Flags().String("csv", "", "write results to a CSV file")
	searchCmd.Flags().String("save", "", "save the run to a YAML file for later download")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := types.SearchQuery{}
	query.Keyword, _ = cmd.Flags().GetString("query")
	query.Author, _ = cmd.Flags().GetString("author")
	query.Journal, _ = cmd.Flags().GetString("journal")
	query.StartYear, _ = cmd.Flags().GetString("from")
	query.EndYear, _ = cmd.Flags().GetString("to")

	sortFlag, _ := cmd.Flags().GetString("sort")
	switch sortFlag {
	case "", "relevance":
		query.Sort = types.SortRelevance
	case "date":
		query.Sort = types.SortDate
	case "date_asc":
		query.Sort = types.SortDateAsc
	default:
		return fmt.Errorf("unknown sort mode %q", sortFlag)
	}

	if query.IsEmpty() {
		return fmt.Errorf("provide at least one of --query, --author, --journal")
	}

	cfg := searchConfig(cmd)
	ctx := cmd.Context()

	if countOnly, _ := cmd.Flags().GetBool("count-only"); countOnly {
		total, err := search.TotalCount(ctx, query, cfg)
		if err != nil {
			return searchError(err)
		}
		fmt.Fprintf(os.Stdout, "%d papers match\n", total)
		return nil
	}

	results, err := search.Search(ctx, query, cfg, os.Stderr)
	if err != nil {
		return searchError(err)
	}

	search.FormatTable(results, os.Stdout)

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", csvPath, err)
		}
		defer f.Close()
		if err := search.WriteCSV(results, f); err != nil {
			return fmt.Errorf("writing %s: %w", csvPath, err)
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", csvPath)
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := search.WriteQueryFile(savePath, query, cfg, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Run saved to %s\n", savePath)
	}
	return nil
}

func searchConfig(cmd *cobra.Command) types.SearchConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	stagger, _ := cmd.Flags().GetDuration("stagger")
	if stagger == 0 {
		stagger = defaultStagger
	}
	num, _ := cmd.Flags().GetInt("num")
	provider, _ := cmd.Flags().GetString("provider")

	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Provider:     provider,
		MaxResults:   num,
		StaggerDelay: stagger,
		APIKey:       secretDefault("ncbi-api-key", ""),
	}
}

// searchError maps the pipeline's batch-level conditions to user-facing
// messages.
func searchError(err error) error {
	switch {
	case errors.Is(err, search.ErrNoResults):
		return fmt.Errorf("no papers found for this query")
	case errors.Is(err, httputil.ErrTimeout):
		return fmt.Errorf("the provider did not respond in time; try again or raise --timeout")
	default:
		return err
	}
}
