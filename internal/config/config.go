package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/whynotcrybot/web-crawler/internal/crawler"
	"github.com/whynotcrybot/web-crawler/internal/fetcher"
)

// Default configuration values.
const (
	// DefaultDepthLimit of 1 fetches the origin and the pages it links to,
	// without following links any further.
	DefaultDepthLimit = 1

	// DefaultTimeout bounds each HTTP request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages of 0 means the crawl is bounded by depth only.
	DefaultMaxPages = 0

	// DefaultBatchSize is the number of origins crawled concurrently when
	// several are given. Each crawl is still sequential on its own.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "webcrawler"

	// DefaultUserAgent identifies the crawler in HTTP requests.
	DefaultUserAgent = "webcrawler/1.0 (+https://github.com/whynotcrybot/web-crawler)"

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB is enough for HTML while keeping memory bounded.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds all configuration options for a crawl invocation.
// It is populated from CLI flags and the configuration file and passed
// down explicitly; there is no global configuration state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is small, and per-origin values live in SiteConfig.
type Config struct {
	// Targets are the origin URLs to crawl, one independent crawl each.
	Targets []string

	// Keyword is the token searched for in page text, case-insensitively.
	// A site or default entry in the configuration file may override it.
	Keyword string

	// DepthLimit is the deepest level whose outbound links are followed.
	// 0 means only the origin page is fetched.
	DepthLimit int

	// MaxPages caps the number of fetched pages per origin. 0 means no cap.
	MaxPages int

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// BatchSize is the number of origins crawled concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config file.
	SiteConfigs *File

	// JSONReport enables JSON report output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ProxyAddress is an optional SOCKS5 proxy, "host:port" or
	// "user:password@host:port".
	ProxyAddress string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// DBDir is the directory holding the run history database.
	// Defaults to the XDG data directory (~/.local/share/webcrawler on Linux).
	DBDir string

	// SaveToDB indicates whether finished runs are saved to the database.
	SaveToDB bool

	// MetricsAddr, when set, serves Prometheus metrics on this address
	// while crawling.
	MetricsAddr string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (depth, timeout,
// batch size). This also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		DepthLimit:  DefaultDepthLimit,
		MaxPages:    DefaultMaxPages,
		Timeout:     DefaultTimeout,
		BatchSize:   DefaultBatchSize,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for webcrawler.
// On Linux: ~/.local/share/webcrawler
// On macOS: ~/Library/Application Support/webcrawler
// On Windows: %LOCALAPPDATA%\webcrawler
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for webcrawler.
// On Linux: ~/.config/webcrawler
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// NormalizeOrigin trims surrounding whitespace and trailing slashes from raw
// and checks that it is an absolute http or https URL with a host.
// Links are resolved by appending to the origin, so a trailing slash would
// produce "https://example.com//about".
func NormalizeOrigin(raw string) (string, error) {
	origin := strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidOrigin, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidOrigin, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q: missing host", ErrInvalidOrigin, raw)
	}
	return origin, nil
}

// CrawlSettings are the options of one crawl after merging the command line
// with the configuration file.
type CrawlSettings struct {
	Origin         string
	Keyword        string
	DepthLimit     int
	MaxPages       int
	UserAgent      string
	IgnorePatterns []string
	FollowPatterns []string
}

// SettingsFor resolves the crawl settings for origin.
// Values from the configuration file (site entry merged over defaults)
// override the command line values, as per-site tuning is more specific.
func (c *Config) SettingsFor(origin string) CrawlSettings {
	s := CrawlSettings{
		Origin:     origin,
		Keyword:    c.Keyword,
		DepthLimit: c.DepthLimit,
		MaxPages:   c.MaxPages,
		UserAgent:  c.UserAgent,
	}
	if c.SiteConfigs == nil {
		return s
	}

	site := c.SiteConfigs.GetSiteConfig(origin)
	if site.Keyword != "" {
		s.Keyword = site.Keyword
	}
	if site.Depth != nil {
		s.DepthLimit = *site.Depth
	}
	if site.MaxPages > 0 {
		s.MaxPages = site.MaxPages
	}
	if site.UserAgent != "" {
		s.UserAgent = site.UserAgent
	}
	s.IgnorePatterns = site.IgnorePatterns
	s.FollowPatterns = site.FollowPatterns
	return s
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before anything is fetched.
// The first error found is returned.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.ProxyAddress != "" {
		if err := fetcher.ValidateProxyAddress(c.ProxyAddress); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProxyAddress, err)
		}
	}

	for _, target := range c.Targets {
		origin, err := NormalizeOrigin(target)
		if err != nil {
			return err
		}
		s := c.SettingsFor(origin)
		if !crawler.IsMatchableKeyword(s.Keyword) {
			return fmt.Errorf("%w (origin %s, keyword %q)", ErrEmptyKeyword, origin, s.Keyword)
		}
		if s.DepthLimit < 0 {
			return fmt.Errorf("%w (origin %s)", ErrInvalidDepth, origin)
		}
	}

	return nil
}
