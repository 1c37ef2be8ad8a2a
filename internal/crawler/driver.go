package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

// DefaultDepthLimit is the depth limit used when WithDepthLimit is not given.
// With 1, the seed and the pages it links to are fetched, and nothing deeper.
const DefaultDepthLimit = 1

// Fetcher retrieves the HTML body of a URL.
// Any transport failure or non-success status must be returned as an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Observer receives progress notifications from a running Driver.
// Calls are made synchronously from the crawl loop, so implementations
// should return quickly.
type Observer interface {
	// OnProgress is called after each successfully processed page.
	OnProgress(p model.Progress)

	// OnMatches is called when a page produced matches. all holds every
	// match of the run so far, including the new ones.
	OnMatches(url string, all []model.MatchResult)

	// OnFailure is called when a page could not be fetched.
	OnFailure(f model.PageFailure)
}

// Driver runs a bounded-depth breadth-first crawl from an origin and
// collects the text snippets that contain a keyword.
//
// Design decision: All crawl state (frontier, visited set, results) is
// created inside Run and dropped when it returns. Two Drivers never share
// anything, so independent crawls can run side by side, and calling Run
// twice on one Driver crawls from scratch twice.
type Driver struct {
	origin  string
	keyword string
	fetcher Fetcher

	// depthLimit is the deepest level whose links are expanded.
	// Pages at depthLimit are still fetched and scanned.
	depthLimit int

	// maxPages caps the number of successfully fetched pages. 0 means no cap.
	maxPages int

	parser    Parser
	validator URIValidator
	logger    *slog.Logger
	observers []Observer

	ignorePatterns []string
	followPatterns []string

	// mu guards the last-run fields below.
	mu          sync.Mutex
	lastResults []model.MatchResult
	lastSummary model.CrawlSummary
	lastErr     error
	startedAt   time.Time
	finishedAt  time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithDepthLimit sets the deepest level whose outbound links are followed.
// 0 = only the origin page, 1 = the origin and the pages it links to, etc.
func WithDepthLimit(depth int) Option {
	return func(d *Driver) {
		d.depthLimit = depth
	}
}

// WithMaxPages stops the crawl after n successfully fetched pages.
// 0 means no limit.
func WithMaxPages(n int) Option {
	return func(d *Driver) {
		d.maxPages = n
	}
}

// WithParser replaces the HTML parser.
func WithParser(p Parser) Option {
	return func(d *Driver) {
		d.parser = p
	}
}

// WithValidator replaces the URI validator used by the link filter.
func WithValidator(v URIValidator) Option {
	return func(d *Driver) {
		d.validator = v
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithObserver registers an observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(d *Driver) {
		d.observers = append(d.observers, o)
	}
}

// WithIgnorePatterns sets URL path patterns that are never followed.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
func WithIgnorePatterns(patterns []string) Option {
	return func(d *Driver) {
		d.ignorePatterns = patterns
	}
}

// WithFollowPatterns restricts following to URL paths matching at least one
// pattern. Empty means all paths are allowed (subject to ignore patterns).
func WithFollowPatterns(patterns []string) Option {
	return func(d *Driver) {
		d.followPatterns = patterns
	}
}

// New creates a Driver crawling from origin for keyword.
// The configuration is validated here so that a bad origin, keyword or
// depth fails before anything is fetched.
func New(origin, keyword string, fetcher Fetcher, opts ...Option) (*Driver, error) {
	if err := validateOrigin(origin); err != nil {
		return nil, err
	}
	if !IsMatchableKeyword(keyword) {
		return nil, fmt.Errorf("%w: %q", ErrEmptyKeyword, keyword)
	}
	if fetcher == nil {
		return nil, ErrNilFetcher
	}

	d := &Driver{
		origin:     origin,
		keyword:    keyword,
		fetcher:    fetcher,
		depthLimit: DefaultDepthLimit,
		parser:     NewHTMLParser(),
		validator:  DefaultValidator{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.depthLimit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, d.depthLimit)
	}
	if d.maxPages < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxPages, d.maxPages)
	}
	if d.parser == nil {
		d.parser = NewHTMLParser()
	}
	if d.validator == nil {
		d.validator = DefaultValidator{}
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d, nil
}

// validateOrigin checks that origin is an absolute http(s) URL with a host.
func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOrigin, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidOrigin, origin)
	}
	return nil
}

// Origin returns the seed URL.
func (d *Driver) Origin() string {
	return d.origin
}

// Keyword returns the target keyword.
func (d *Driver) Keyword() string {
	return d.keyword
}

// DepthLimit returns the configured depth limit.
func (d *Driver) DepthLimit() int {
	return d.depthLimit
}

// Run crawls from the origin until the frontier is exhausted, the page cap
// is reached or ctx is cancelled, and returns the matches in discovery
// order.
//
// Per-page fetch failures are logged, reported to observers and skipped;
// they never end the run. On cancellation Run returns the matches gathered
// so far together with ctx.Err().
func (d *Driver) Run(ctx context.Context) ([]model.MatchResult, error) {
	frontier := NewFrontier()
	filter := NewLinkFilter(d.origin, d.validator,
		WithFilterIgnorePatterns(d.ignorePatterns),
		WithFilterFollowPatterns(d.followPatterns),
	)
	matcher := NewMatcher(d.keyword)

	results := make([]model.MatchResult, 0)
	summary := model.CrawlSummary{
		Pages:    make([]model.PageRecord, 0),
		Failures: make([]model.PageFailure, 0),
	}
	started := time.Now()

	finish := func(err error) ([]model.MatchResult, error) {
		summary.Visited = frontier.VisitedCount()
		d.mu.Lock()
		d.lastResults = results
		d.lastSummary = summary
		d.lastErr = err
		d.startedAt = started
		d.finishedAt = time.Now()
		d.mu.Unlock()
		return results, err
	}

	frontier.Enqueue(d.origin, nil)
	fetched := 0

	for {
		if err := ctx.Err(); err != nil {
			summary.Cancelled = true
			d.logger.Warn("crawl cancelled", "origin", d.origin, "visited", frontier.VisitedCount(), "error", err)
			return finish(err)
		}

		if d.maxPages > 0 && fetched >= d.maxPages {
			d.logger.Info("page limit reached", "origin", d.origin, "max_pages", d.maxPages)
			break
		}

		entry, err := frontier.Dequeue()
		if errors.Is(err, ErrEmptyFrontier) {
			break
		}

		if frontier.IsVisited(entry.URL) {
			continue
		}
		frontier.MarkVisited(entry.URL)

		body, err := d.fetcher.Fetch(ctx, entry.URL)
		if err != nil {
			if ctx.Err() != nil {
				// The loop head reports the cancellation.
				continue
			}
			failure := model.PageFailure{URL: entry.URL, Depth: entry.Depth, Error: err.Error()}
			summary.Failures = append(summary.Failures, failure)
			d.logger.Warn("fetch failed", "url", entry.URL, "depth", entry.Depth, "error", err)
			for _, o := range d.observers {
				o.OnFailure(failure)
			}
			continue
		}
		fetched++

		extraction := Extract(d.parser.Parse(body))
		links := filter.Filter(extraction.Anchors)
		texts := matcher.Select(extraction.Texts)

		for _, text := range texts {
			results = append(results, model.MatchResult{URL: entry.URL, Text: text})
		}

		if entry.Depth < d.depthLimit {
			for _, link := range links {
				frontier.Enqueue(link, &entry)
			}
		}

		summary.Pages = append(summary.Pages, model.PageRecord{
			URL:         entry.URL,
			Depth:       entry.Depth,
			Fingerprint: model.PageFingerprint(body),
			Links:       len(links),
			Matches:     len(texts),
		})

		progress := model.Progress{
			URL:         entry.URL,
			Depth:       entry.Depth,
			Visited:     frontier.VisitedCount(),
			FrontierLen: frontier.Len(),
		}
		d.logger.Info("visited",
			"url", progress.URL,
			"depth", progress.Depth,
			"visited", progress.Visited,
			"queue", progress.FrontierLen,
		)
		for _, o := range d.observers {
			o.OnProgress(progress)
		}

		if len(texts) > 0 {
			d.logger.Info("found", "url", entry.URL, "matches", len(texts), "total", len(results))
			for _, o := range d.observers {
				o.OnMatches(entry.URL, slices.Clone(results))
			}
		}
	}

	return finish(nil)
}

// Summary returns the bookkeeping of the last run.
func (d *Driver) Summary() model.CrawlSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSummary
}

// Report assembles the report of the last run.
// Calling it before Run returns a report with no pages and no matches.
func (d *Driver) Report() *model.CrawlReport {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := model.NewCrawlReport(d.origin, d.keyword, d.depthLimit)
	if !d.startedAt.IsZero() {
		r.StartedAt = d.startedAt
		r.FinishedAt = d.finishedAt
	}
	r.PagesVisited = d.lastSummary.Visited
	r.Pages = d.lastSummary.Pages
	r.Failures = d.lastSummary.Failures
	r.Cancelled = d.lastSummary.Cancelled
	if d.lastResults != nil {
		r.Matches = d.lastResults
	}
	if d.lastErr != nil {
		r.Error = d.lastErr.Error()
	}
	return r
}
