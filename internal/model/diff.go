package model

import "time"

// RunSnapshot is the part of a run shown side by side in a comparison.
type RunSnapshot struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	PagesVisited int       `json:"pages_visited"`
	MatchCount   int       `json:"match_count"`
	FailureCount int       `json:"failure_count"`
}

// RunComparison is the difference between two runs of the same origin.
type RunComparison struct {
	Origin   string      `json:"origin"`
	Previous RunSnapshot `json:"previous"`
	Current  RunSnapshot `json:"current"`

	// NewMatches are in the current run only, GoneMatches in the previous
	// run only. Both keep the order of the run they come from.
	NewMatches  []MatchResult `json:"new_matches,omitempty"`
	GoneMatches []MatchResult `json:"gone_matches,omitempty"`

	// UnchangedMatches counts matches present in both runs.
	UnchangedMatches int `json:"unchanged_matches"`

	// NewPages and GonePages list fetched URLs present in one run only.
	NewPages  []string `json:"new_pages,omitempty"`
	GonePages []string `json:"gone_pages,omitempty"`

	// ChangedPages lists URLs fetched in both runs whose content
	// fingerprint differs.
	ChangedPages []string `json:"changed_pages,omitempty"`
}

// HasChanges reports whether the two runs differ in matches or pages.
func (c *RunComparison) HasChanges() bool {
	return len(c.NewMatches) > 0 || len(c.GoneMatches) > 0 ||
		len(c.NewPages) > 0 || len(c.GonePages) > 0 || len(c.ChangedPages) > 0
}

// CompareReports diffs previous against current.
// A match is identified by its URL and text.
func CompareReports(previous, current *CrawlReport) *RunComparison {
	result := &RunComparison{
		Origin:   current.Origin,
		Previous: snapshotOf(previous),
		Current:  snapshotOf(current),
	}

	prevMatches := make(map[MatchResult]bool, len(previous.Matches))
	for _, m := range previous.Matches {
		prevMatches[m] = true
	}
	currMatches := make(map[MatchResult]bool, len(current.Matches))
	for _, m := range current.Matches {
		currMatches[m] = true
		if !prevMatches[m] {
			result.NewMatches = append(result.NewMatches, m)
		}
	}
	for _, m := range previous.Matches {
		if currMatches[m] {
			result.UnchangedMatches++
		} else {
			result.GoneMatches = append(result.GoneMatches, m)
		}
	}

	prevPages := make(map[string]string, len(previous.Pages))
	for _, p := range previous.Pages {
		prevPages[p.URL] = p.Fingerprint
	}
	currPages := make(map[string]bool, len(current.Pages))
	for _, p := range current.Pages {
		currPages[p.URL] = true
		fp, ok := prevPages[p.URL]
		switch {
		case !ok:
			result.NewPages = append(result.NewPages, p.URL)
		case fp != p.Fingerprint:
			result.ChangedPages = append(result.ChangedPages, p.URL)
		}
	}
	for _, p := range previous.Pages {
		if !currPages[p.URL] {
			result.GonePages = append(result.GonePages, p.URL)
		}
	}

	return result
}

func snapshotOf(r *CrawlReport) RunSnapshot {
	return RunSnapshot{
		ID:           r.ID,
		StartedAt:    r.StartedAt,
		PagesVisited: r.PagesVisited,
		MatchCount:   len(r.Matches),
		FailureCount: len(r.Failures),
	}
}
