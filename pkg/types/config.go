package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "getpaper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the search source: "pubmed" or "acs".
	Provider string `json:"provider" yaml:"provider"`

	// MaxResults is the number of papers to fetch (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PageSize is the number of identifiers requested per listing page
	// (default 200).
	PageSize int `json:"page_size" yaml:"page_size"`

	// StaggerDelay is the per-rank wait before a detail fetch is issued:
	// the task at rank i sleeps i x StaggerDelay. Bounds the request rate
	// against the provider (default 100ms).
	StaggerDelay time.Duration `json:"stagger_delay" yaml:"stagger_delay"`

	// APIKey is an optional provider API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// DownloadConfig holds settings for the bulk download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// MirrorURL is the base URL of the PDF resolution mirror.
	MirrorURL string `json:"mirror_url" yaml:"mirror_url"`

	// TargetDir is the directory PDFs are written into.
	TargetDir string `json:"target_dir" yaml:"target_dir"`

	// RequestsPerSecond paces artifact fetches (default 1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search   SearchConfig   `json:"search" yaml:"search"`
	Download DownloadConfig `json:"download" yaml:"download"`
}
