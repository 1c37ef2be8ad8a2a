package model

import (
	"slices"
	"testing"
)

func TestCompareReports(t *testing.T) {
	t.Parallel()

	previous := NewCrawlReport("https://example.com", "reimagined", 1)
	previous.Matches = []MatchResult{
		{URL: "https://example.com", Text: "Design, reimagined."},
		{URL: "https://example.com/old", Text: "reimagined before"},
	}
	previous.Pages = []PageRecord{
		{URL: "https://example.com", Fingerprint: "aaaa"},
		{URL: "https://example.com/old", Fingerprint: "bbbb"},
		{URL: "https://example.com/about", Fingerprint: "cccc"},
	}

	current := NewCrawlReport("https://example.com", "reimagined", 1)
	current.Matches = []MatchResult{
		{URL: "https://example.com", Text: "Design, reimagined."},
		{URL: "https://example.com/about", Text: "reimagined now"},
	}
	current.Pages = []PageRecord{
		{URL: "https://example.com", Fingerprint: "aaaa"},
		{URL: "https://example.com/about", Fingerprint: "dddd"},
		{URL: "https://example.com/new", Fingerprint: "eeee"},
	}

	c := CompareReports(previous, current)

	if c.Origin != "https://example.com" {
		t.Errorf("Origin = %q", c.Origin)
	}
	if c.Previous.ID != previous.ID || c.Current.ID != current.ID {
		t.Error("snapshots should carry run IDs")
	}
	if c.Previous.MatchCount != 2 || c.Current.MatchCount != 2 {
		t.Errorf("match counts = %d, %d", c.Previous.MatchCount, c.Current.MatchCount)
	}
	if len(c.NewMatches) != 1 || c.NewMatches[0].Text != "reimagined now" {
		t.Errorf("NewMatches = %+v", c.NewMatches)
	}
	if len(c.GoneMatches) != 1 || c.GoneMatches[0].Text != "reimagined before" {
		t.Errorf("GoneMatches = %+v", c.GoneMatches)
	}
	if c.UnchangedMatches != 1 {
		t.Errorf("UnchangedMatches = %d, want 1", c.UnchangedMatches)
	}
	if !slices.Equal(c.NewPages, []string{"https://example.com/new"}) {
		t.Errorf("NewPages = %v", c.NewPages)
	}
	if !slices.Equal(c.GonePages, []string{"https://example.com/old"}) {
		t.Errorf("GonePages = %v", c.GonePages)
	}
	if !slices.Equal(c.ChangedPages, []string{"https://example.com/about"}) {
		t.Errorf("ChangedPages = %v", c.ChangedPages)
	}
	if !c.HasChanges() {
		t.Error("HasChanges() = false, want true")
	}
}

func TestCompareReportsIdentical(t *testing.T) {
	t.Parallel()

	r := NewCrawlReport("https://example.com", "reimagined", 1)
	r.Matches = []MatchResult{{URL: "https://example.com", Text: "reimagined"}}
	r.Pages = []PageRecord{{URL: "https://example.com", Fingerprint: "aaaa"}}

	c := CompareReports(r, r)
	if c.HasChanges() {
		t.Errorf("identical runs should have no changes: %+v", c)
	}
	if c.UnchangedMatches != 1 {
		t.Errorf("UnchangedMatches = %d, want 1", c.UnchangedMatches)
	}
}
