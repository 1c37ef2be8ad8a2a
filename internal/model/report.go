package model

import (
	"time"

	"github.com/google/uuid"
)

// CrawlReport is the outcome of one crawl run.
// It is the unit written by the report writers and saved by the run store.
type CrawlReport struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// Origin is the seed URL and the base every accepted link is resolved against.
	Origin string `json:"origin"`

	// Keyword is the target token searched for in page text.
	Keyword string `json:"keyword"`

	// DepthLimit is the deepest level whose outbound links were expanded.
	DepthLimit int `json:"depth_limit"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// PagesVisited counts URLs marked visited, including failed ones.
	PagesVisited int `json:"pages_visited"`

	// Pages lists the successfully processed pages in processing order.
	Pages []PageRecord `json:"pages,omitempty"`

	// Failures lists pages whose fetch failed. A failure never aborts a run.
	Failures []PageFailure `json:"failures,omitempty"`

	// Matches is the ordered, append-only result sequence.
	Matches []MatchResult `json:"matches"`

	// Cancelled is true when the run stopped early on context cancellation.
	// Matches then holds the partial results.
	Cancelled bool `json:"cancelled"`

	// Error holds the error that ended the run, if any.
	Error string `json:"error,omitempty"`
}

// NewCrawlReport creates a report for a run that starts now.
func NewCrawlReport(origin, keyword string, depthLimit int) *CrawlReport {
	return &CrawlReport{
		ID:         uuid.NewString(),
		Origin:     origin,
		Keyword:    keyword,
		DepthLimit: depthLimit,
		StartedAt:  time.Now(),
		Matches:    make([]MatchResult, 0),
	}
}

// Duration returns how long the run took.
// Zero if the run has not finished.
func (r *CrawlReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// HasMatches reports whether the keyword was found at least once.
func (r *CrawlReport) HasMatches() bool {
	return len(r.Matches) > 0
}

// MatchedURLs returns the distinct URLs with matches, in first-seen order.
func (r *CrawlReport) MatchedURLs() []string {
	seen := make(map[string]bool)
	urls := make([]string, 0)
	for _, m := range r.Matches {
		if seen[m.URL] {
			continue
		}
		seen[m.URL] = true
		urls = append(urls, m.URL)
	}
	return urls
}

// MatchesFor returns the matches found on url.
func (r *CrawlReport) MatchesFor(url string) []MatchResult {
	var out []MatchResult
	for _, m := range r.Matches {
		if m.URL == url {
			out = append(out, m)
		}
	}
	return out
}

// CrawlSummary holds the bookkeeping of a finished run that is not part of
// the match results.
type CrawlSummary struct {
	Visited   int
	Pages     []PageRecord
	Failures  []PageFailure
	Cancelled bool
}
