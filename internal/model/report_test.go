package model

import (
	"testing"
	"time"
)

func TestNewCrawlReport(t *testing.T) {
	t.Parallel()

	a := NewCrawlReport("https://example.com", "reimagined", 1)
	b := NewCrawlReport("https://example.com", "reimagined", 1)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("run IDs should be unique and non-empty: %q, %q", a.ID, b.ID)
	}
	if a.Matches == nil {
		t.Error("Matches should be an empty slice, not nil")
	}
	if a.StartedAt.IsZero() {
		t.Error("StartedAt should be set")
	}
	if a.Duration() != 0 {
		t.Errorf("unfinished run Duration() = %v, want 0", a.Duration())
	}

	a.FinishedAt = a.StartedAt.Add(3 * time.Second)
	if a.Duration() != 3*time.Second {
		t.Errorf("Duration() = %v, want 3s", a.Duration())
	}
}

func TestCrawlReportMatches(t *testing.T) {
	t.Parallel()

	r := NewCrawlReport("https://example.com", "reimagined", 1)
	if r.HasMatches() {
		t.Error("new report should have no matches")
	}

	r.Matches = []MatchResult{
		{URL: "https://example.com/b", Text: "reimagined one"},
		{URL: "https://example.com/a", Text: "reimagined two"},
		{URL: "https://example.com/b", Text: "reimagined three"},
	}

	if !r.HasMatches() {
		t.Error("HasMatches() = false, want true")
	}

	urls := r.MatchedURLs()
	if len(urls) != 2 || urls[0] != "https://example.com/b" || urls[1] != "https://example.com/a" {
		t.Errorf("MatchedURLs() = %v", urls)
	}

	forB := r.MatchesFor("https://example.com/b")
	if len(forB) != 2 || forB[1].Text != "reimagined three" {
		t.Errorf("MatchesFor(b) = %+v", forB)
	}
	if got := r.MatchesFor("https://example.com/none"); len(got) != 0 {
		t.Errorf("MatchesFor(none) = %+v", got)
	}
}

func TestPageFingerprint(t *testing.T) {
	t.Parallel()

	if PageFingerprint("") != "" {
		t.Error("empty body should have an empty fingerprint")
	}

	a := PageFingerprint("<p>hello</p>")
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(a))
	}
	if a != PageFingerprint("<p>hello</p>") {
		t.Error("fingerprint should be deterministic")
	}
	if a == PageFingerprint("<p>hello!</p>") {
		t.Error("different bodies should have different fingerprints")
	}
}
