package types

import "time"

// Default configuration values.
const (
	DefaultIndexDir        = "index"
	DefaultDataDir         = "data"
	DefaultTitleWeight     = 4.0
	DefaultOperatorOr      = "or"
	DefaultOperatorAnd     = "and"
	DefaultZoteroLibrary   = "group"
	DefaultSimilarityLimit = 0.9
)

// HTTPConfig holds shared HTTP settings used by commands that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litindex/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LibraryConfig locates one collection: its source files and its index.
// It is threaded explicitly into every entry point; nothing reads it from
// the environment after startup.
type LibraryConfig struct {
	// IndexDir is the directory holding the index database.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// DataDir is the directory holding the human-authored .bib/.yaml sources.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// TitleWeight boosts title matches over other fields when ordering
	// matches that share a year (default 4).
	TitleWeight float64 `json:"title_weight" yaml:"title_weight"`

	// DefaultOperator joins adjacent query clauses: "or" (default) or "and".
	DefaultOperator string `json:"default_operator" yaml:"default_operator"`
}

// WithDefaults fills zero fields with their default values.
func (c LibraryConfig) WithDefaults() LibraryConfig {
	if c.IndexDir == "" {
		c.IndexDir = DefaultIndexDir
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.TitleWeight <= 0 {
		c.TitleWeight = DefaultTitleWeight
	}
	if c.DefaultOperator == "" {
		c.DefaultOperator = DefaultOperatorOr
	}
	return c
}

// ZoteroConfig holds settings for downloading a Zotero library into the
// data directory.
type ZoteroConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the Zotero web API root (default https://api.zotero.org).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// LibraryType is "group" or "user".
	LibraryType string `json:"library_type" yaml:"library_type"`

	// LibraryID is the numeric group or user ID.
	LibraryID string `json:"library_id" yaml:"library_id"`

	// APIKey authenticates against the Zotero API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// PageSize is the number of items requested per page (max 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxRetries is the retry budget for rate-limited requests (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}
