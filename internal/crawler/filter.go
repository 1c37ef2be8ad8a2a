package crawler

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

// LinkFilter decides which anchors lead to pages worth crawling and turns
// them into absolute URLs.
//
// Only relative links are accepted. A link is rejected when:
//   - it has no href, or the href is empty
//   - the href starts with "http" or with any other URI scheme ("mailto:", "javascript:", ...)
//   - the href contains a fragment marker '#'
//   - origin+href is not a valid URI
//
// Accepted links resolve to origin+href by plain concatenation.
//
// Design decision: Absolute links are dropped even when they point at the
// origin host. The crawl stays inside the origin because it never leaves
// relative space, not because it compares hosts. Same-origin absolute
// links such as "https://example.com/x" are therefore not followed.
//
// A LinkFilter holds only immutable configuration and is safe for
// concurrent use.
type LinkFilter struct {
	origin    string
	validator URIValidator

	// ignorePatterns are glob patterns for URL paths that are never followed.
	ignorePatterns []string

	// followPatterns, when set, restrict following to matching URL paths.
	followPatterns []string
}

// LinkFilterOption configures a LinkFilter.
type LinkFilterOption func(*LinkFilter)

// WithFilterIgnorePatterns sets URL path patterns that are never followed.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf").
func WithFilterIgnorePatterns(patterns []string) LinkFilterOption {
	return func(f *LinkFilter) {
		f.ignorePatterns = patterns
	}
}

// WithFilterFollowPatterns restricts following to URL paths matching at
// least one pattern. An empty list allows every path.
func WithFilterFollowPatterns(patterns []string) LinkFilterOption {
	return func(f *LinkFilter) {
		f.followPatterns = patterns
	}
}

// NewLinkFilter creates a filter resolving links against origin.
// A nil validator selects DefaultValidator.
func NewLinkFilter(origin string, validator URIValidator, opts ...LinkFilterOption) *LinkFilter {
	if validator == nil {
		validator = DefaultValidator{}
	}
	f := &LinkFilter{
		origin:    origin,
		validator: validator,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Accept returns the resolved URL for anchor and whether it is eligible
// for crawling.
func (f *LinkFilter) Accept(anchor *model.Node) (string, bool) {
	href, ok := anchor.Attr("href")
	if !ok || href == "" {
		return "", false
	}
	if strings.HasPrefix(href, "http") || uriScheme.MatchString(href) {
		return "", false
	}
	if strings.Contains(href, "#") {
		return "", false
	}

	resolved := f.origin + href
	if !f.validator.IsValidURI(resolved) {
		return "", false
	}
	if !f.allowedPath(resolved) {
		return "", false
	}
	return resolved, true
}

// Filter applies Accept to every anchor and returns the accepted URLs in
// anchor order. Duplicates are kept; the frontier removes them.
func (f *LinkFilter) Filter(anchors []*model.Node) []string {
	links := make([]string, 0, len(anchors))
	for _, a := range anchors {
		if link, ok := f.Accept(a); ok {
			links = append(links, link)
		}
	}
	return links
}

// allowedPath applies the ignore and follow patterns to the path of target.
//
// Logic:
//  1. If the path matches any ignore pattern, reject it
//  2. If follow patterns are set and the path matches none, reject it
//  3. Otherwise accept it
func (f *LinkFilter) allowedPath(target string) bool {
	if len(f.ignorePatterns) == 0 && len(f.followPatterns) == 0 {
		return true
	}

	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range f.ignorePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}

	if len(f.followPatterns) == 0 {
		return true
	}
	for _, pattern := range f.followPatterns {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchPattern reports whether path matches a glob pattern.
//
// Besides filepath.Match syntax it understands two shorthands:
//   - "/dir/*" matches "/dir" and everything below it
//   - "*.ext" matches any path ending in ".ext"
//
// A pattern without '/' is also tried against the last path element.
func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	if ext, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(ext, ".") {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}

	return false
}
