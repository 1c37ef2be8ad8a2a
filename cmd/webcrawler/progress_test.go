package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

func TestProgressPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := newProgressPrinter(&buf)

	p.OnProgress(model.Progress{URL: "https://example.com", Depth: 0, Visited: 1, FrontierLen: 4})
	p.OnMatches("https://example.com/about", []model.MatchResult{
		{URL: "https://example.com", Text: "a"},
		{URL: "https://example.com/about", Text: "b"},
		{URL: "https://example.com/about", Text: "c"},
	})
	p.OnFailure(model.PageFailure{URL: "https://example.com/x", Error: "boom"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "visited 1") || !strings.Contains(lines[0], "queue 4") {
		t.Errorf("progress line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "found   2 match(es) on https://example.com/about (3 total)") {
		t.Errorf("match line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "failed  https://example.com/x: boom") {
		t.Errorf("failure line = %q", lines[2])
	}
}
