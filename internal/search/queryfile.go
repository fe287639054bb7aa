// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/Dragon-GCS/GetPeper/pkg/types"
)

// QueryFile is the on-disk representation of a completed search run. A run
// can be saved to a file and its results reloaded later (for example, to
// feed the download stage) without re-crawling the provider.
type QueryFile struct {
	Query   types.SearchQuery    `yaml:"query"`
	Config  QueryFileConfig      `yaml:"config"`
	Results []types.RankedResult `yaml:"results"`
	Summary QuerySummary         `yaml:"summary"`
}

// QueryFileConfig stores the search configuration that produced the results.
type QueryFileConfig struct {
	Provider   string `yaml:"provider"`
	MaxResults int    `yaml:"max_results"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves the query and its ranked results to a YAML file.
func WriteQueryFile(path string, query types.SearchQuery, cfg types.SearchConfig, results []types.RankedResult) error {
	qf := QueryFile{
		Query: query,
		Config: QueryFileConfig{
			Provider:   cfg.Provider,
			MaxResults: cfg.MaxResults,
		},
		Results: results,
		Summary: QuerySummary{
			Total:     len(results),
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
