package config

import (
	"net/url"
	"strings"
)

// SiteConfig holds crawl settings for one origin.
// Zero values mean "not set" and fall back to the defaults entry and then
// to the command line.
type SiteConfig struct {
	// Keyword overrides the keyword searched on this site.
	Keyword string `yaml:"keyword,omitempty"`

	// Depth overrides the depth limit. A pointer because 0 is a valid limit.
	Depth *int `yaml:"depth,omitempty"`

	// MaxPages overrides the page cap when positive.
	MaxPages int `yaml:"maxPages,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// IgnorePatterns are URL path patterns never followed.
	// Patterns are matched against the URL path using glob syntax.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns restrict following to matching URL paths.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// File represents the structure of the .webcrawler configuration file.
type File struct {
	// Sites maps origin hosts (e.g. "example.com") to their configuration.
	// A full origin ("https://example.com") is accepted as a key too.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every origin unless overridden by its site entry.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for origin, merging its site
// entry over the defaults. Lookup tries the origin as given, then its host.
func (cf *File) GetSiteConfig(origin string) SiteConfig {
	if cf == nil {
		return SiteConfig{}
	}
	if site, ok := cf.lookup(origin); ok {
		return mergeSiteConfig(cf.Defaults, site)
	}
	return cf.Defaults
}

func (cf *File) lookup(origin string) (SiteConfig, bool) {
	if site, ok := cf.Sites[origin]; ok {
		return site, true
	}
	if site, ok := cf.Sites[strings.TrimRight(origin, "/")]; ok {
		return site, true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return SiteConfig{}, false
	}
	for key, site := range cf.Sites {
		if strings.EqualFold(key, u.Host) {
			return site, true
		}
	}
	return SiteConfig{}, false
}

// mergeSiteConfig overlays the set fields of override onto defaults.
func mergeSiteConfig(defaults, override SiteConfig) SiteConfig {
	result := defaults

	if override.Keyword != "" {
		result.Keyword = override.Keyword
	}
	if override.Depth != nil {
		result.Depth = override.Depth
	}
	if override.MaxPages > 0 {
		result.MaxPages = override.MaxPages
	}
	if override.UserAgent != "" {
		result.UserAgent = override.UserAgent
	}
	if len(override.IgnorePatterns) > 0 {
		result.IgnorePatterns = override.IgnorePatterns
	}
	if len(override.FollowPatterns) > 0 {
		result.FollowPatterns = override.FollowPatterns
	}

	return result
}
