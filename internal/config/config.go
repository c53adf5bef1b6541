package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/wikirefs/wikirefs/internal/model"
)

// Default configuration values.
// These values are chosen based on typical MediaWiki API characteristics
// and sensible behavior for batch reference downloads.
const (
	// DefaultTerm is the search term used when the user provides none,
	// or when the provided term is too short to be meaningful.
	DefaultTerm = "generative artificial intelligence"

	// MinTermLength is the minimum number of characters a search term
	// must have before it is used as-is. Shorter terms (including the
	// empty string) silently fall back to DefaultTerm rather than
	// producing a noisy one-letter search.
	MinTermLength = 4

	// DefaultMaxResults is the maximum number of page titles taken from
	// a search. 10 keeps a default run quick while still producing a
	// useful spread of pages. Users can raise it via the --max CLI flag.
	DefaultMaxResults = 10

	// DefaultMaxWorkers is the pool size for the threaded and process
	// execution modes. 4 concurrent fetches is polite to the Wikipedia
	// API while still giving a clear speedup over sequential mode.
	DefaultMaxWorkers = 4

	// DefaultOutputDir is the directory where reference files are written.
	// It is relative to the current working directory so a default run
	// leaves its results next to where the user invoked the tool.
	DefaultOutputDir = "wiki_dl"

	// DefaultTimeout is the per-request timeout for MediaWiki API calls.
	// 30 seconds is generous for a public API; a slow mirror or proxy
	// route can be accommodated via the --timeout CLI flag.
	DefaultTimeout = 30 * time.Second

	// DefaultLanguage is the Wikipedia language edition to query.
	// The language code becomes the subdomain of the API endpoint.
	DefaultLanguage = "en"

	// DefaultAPIURLFormat is the MediaWiki API endpoint pattern.
	// The %s placeholder is replaced with the language code (e.g. "en").
	// A full endpoint for a private wiki can be supplied via --api-url,
	// which bypasses this pattern entirely.
	DefaultAPIURLFormat = "https://%s.wikipedia.org/w/api.php"

	// AppName is the application name used for XDG directory paths.
	AppName = "wikirefs"

	// DefaultUserAgent identifies wikirefs in HTTP requests.
	// The Wikimedia API etiquette asks clients to send a descriptive
	// User-Agent with a contact URL so operators can identify traffic.
	DefaultUserAgent = "wikirefs/1.0 (+https://github.com/wikirefs/wikirefs)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is far beyond any normal API response while preventing memory
	// exhaustion from a misbehaving endpoint.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds all configuration options for wikirefs.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Term is the search term used to find related page titles.
	// Terms shorter than MinTermLength are replaced with DefaultTerm
	// before a run starts; see CoerceTerm.
	Term string

	// Mode selects how titles are processed: one at a time, in a
	// bounded pool of goroutines, or in separate worker processes.
	Mode model.ExecutionMode

	// MaxResults is the maximum number of page titles taken from the
	// search step. The actual count may be lower if the search returns
	// fewer pages.
	MaxResults int

	// MaxWorkers is the pool size for the threaded and process modes.
	// Sequential mode ignores it. The effective pool never exceeds the
	// number of titles, so a large value wastes nothing on small runs.
	MaxWorkers int

	// OutputDir is the directory where one reference file per page
	// title is written. It is created on demand, including parents.
	OutputDir string

	// Timeout is the timeout for each MediaWiki API request.
	// This applies to individual HTTP calls, not the overall run.
	Timeout time.Duration

	// Language is the Wikipedia language edition to query (e.g. "en",
	// "de", "ja"). It is interpolated into DefaultAPIURLFormat unless
	// APIBaseURL overrides the endpoint entirely.
	Language string

	// APIBaseURL is an explicit MediaWiki API endpoint. When set it
	// takes precedence over Language, which allows pointing wikirefs
	// at mirrors or private MediaWiki installations.
	APIBaseURL string

	// UserAgent is the User-Agent header sent with API requests.
	// A descriptive User-Agent is required by Wikimedia API etiquette.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	// When set, all API traffic is routed through the proxy.
	ProxyAddress string

	// Headers are additional HTTP headers sent with every API request.
	// These come from preset files and allow access to private wikis
	// that require authentication headers. Values may contain
	// credentials, so they are masked in verbose log output.
	Headers map[string]string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable format.
	// When true, outputs the full run summary as JSON.
	// When false, outputs a human-readable simple report (default).
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable format.
	// When true, outputs GitHub Flavored Markdown with tables and a pie chart.
	// When false, outputs a human-readable simple report (default).
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .wikirefs in the current directory,
	// then the XDG config directory, and finally the user's home directory.
	ConfigFilePath string

	// Presets holds per-term presets loaded from the config file.
	// This is populated by LoadConfigFile and consulted before a run.
	Presets *File

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, worker count).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Term:        DefaultTerm,
		Mode:        model.ModeSequential,
		MaxResults:  DefaultMaxResults,
		MaxWorkers:  DefaultMaxWorkers,
		OutputDir:   DefaultOutputDir,
		Timeout:     DefaultTimeout,
		Language:    DefaultLanguage,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// CoerceTerm returns the search term to use for a run.
// Leading and trailing whitespace is trimmed, and terms shorter than
// MinTermLength characters fall back to DefaultTerm. This mirrors the
// interactive prompt behavior: pressing enter or typing a stray couple
// of characters gets a sensible default instead of an error.
func CoerceTerm(term string) string {
	trimmed := strings.TrimSpace(term)
	if utf8.RuneCountInString(trimmed) < MinTermLength {
		return DefaultTerm
	}
	return trimmed
}

// ResolveAPIURL returns the MediaWiki API endpoint to query.
// An explicit APIBaseURL takes precedence; otherwise the endpoint is
// derived from the language code using DefaultAPIURLFormat.
func (c *Config) ResolveAPIURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return fmt.Sprintf(DefaultAPIURLFormat, c.Language)
}

// XDGDataDir returns the XDG data directory for wikirefs.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/wikirefs
// On macOS: ~/Library/Application Support/wikirefs
// On Windows: %LOCALAPPDATA%\wikirefs
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wikirefs.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/wikirefs
// On macOS: ~/Library/Application Support/wikirefs
// On Windows: %APPDATA%\wikirefs
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for wikirefs.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/wikirefs
// On macOS: ~/Library/Caches/wikirefs
// On Windows: %LOCALAPPDATA%\wikirefs\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing and term coercion, before any
// network traffic starts.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// The term is coerced before validation, so an empty term here means
	// the caller skipped CoerceTerm
	if c.Term == "" {
		return ErrNoTerm
	}

	// The mode must be one of the three known execution strategies
	if !c.Mode.IsValid() {
		return ErrInvalidMode
	}

	// MaxResults must be positive; zero would mean an empty run
	if c.MaxResults <= 0 {
		return ErrInvalidMaxResults
	}

	// MaxWorkers must be positive; zero would deadlock the pooled modes
	if c.MaxWorkers <= 0 {
		return ErrInvalidMaxWorkers
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Every run writes files, so it needs somewhere to put them
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	// Without a language the endpoint pattern cannot be filled in,
	// unless an explicit endpoint was supplied
	if c.Language == "" && c.APIBaseURL == "" {
		return ErrNoLanguage
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
