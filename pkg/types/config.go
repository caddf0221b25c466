package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litmap/0.1"). DBLP asks polite clients to identify themselves.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CrawlConfig holds settings for the crawl stage.
type CrawlConfig struct {
	HTTPConfig `yaml:",inline"`

	// PageSize is the number of hits requested per page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// Concurrency caps the number of page fetches in flight (default 8).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// MaxAttempts is the per-page attempt budget, retries included
	// (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// AnalyticsConfig holds settings for the analytics stage.
type AnalyticsConfig struct {
	// TopKeywords is the default keyword ranking size (default 25).
	TopKeywords int `json:"top_keywords" yaml:"top_keywords"`

	// TopAuthors is the collaboration graph size (default 20).
	TopAuthors int `json:"top_authors" yaml:"top_authors"`

	// SimilarLimit is the default number of similarity hits (default 10).
	SimilarLimit int `json:"similar_limit" yaml:"similar_limit"`
}

// StoreConfig holds settings for the session store.
type StoreConfig struct {
	// DataDir is the directory holding the sqlite database (default ".").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Crawl     CrawlConfig     `json:"crawl" yaml:"crawl"`
	Analytics AnalyticsConfig `json:"analytics" yaml:"analytics"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
