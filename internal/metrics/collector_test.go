package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

func TestCollectorObserver(t *testing.T) {
	t.Parallel()

	c := NewCollector()

	c.OnProgress(model.Progress{URL: "https://example.com", Depth: 0, Visited: 1, FrontierLen: 3})
	c.OnProgress(model.Progress{URL: "https://example.com/about", Depth: 1, Visited: 2, FrontierLen: 2})
	c.OnProgress(model.Progress{URL: "https://other.example/", Depth: 0, Visited: 1, FrontierLen: 0})
	c.OnFailure(model.PageFailure{URL: "https://example.com/broken", Depth: 1, Error: "status 500"})

	all := []model.MatchResult{
		{URL: "https://example.com", Text: "Design, reimagined."},
		{URL: "https://example.com/about", Text: "reimagined a"},
		{URL: "https://example.com/about", Text: "reimagined b"},
	}
	c.OnMatches("https://example.com/about", all)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"pages fetched example.com", testutil.ToFloat64(c.pagesFetched.WithLabelValues("example.com")), 2},
		{"pages fetched other.example", testutil.ToFloat64(c.pagesFetched.WithLabelValues("other.example")), 1},
		{"failures", testutil.ToFloat64(c.fetchFailures.WithLabelValues("example.com")), 1},
		{"matches counts only the reported page", testutil.ToFloat64(c.matches.WithLabelValues("example.com")), 2},
		{"frontier holds last value", testutil.ToFloat64(c.frontierSize.WithLabelValues("example.com")), 2},
		{"visited holds last value", testutil.ToFloat64(c.visited.WithLabelValues("example.com")), 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(c.pageDepth); n != 2 {
		t.Errorf("page depth series = %d, want 2", n)
	}
}

func TestCollectorHandler(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	c.OnProgress(model.Progress{URL: "https://example.com", Visited: 1})

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL) //nolint:noctx // test server
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(body), `webcrawler_pages_fetched_total{host="example.com"} 1`) {
		t.Errorf("metrics output missing pages counter:\n%s", body)
	}
}

func TestCollectorServe(t *testing.T) {
	t.Parallel()

	t.Run("bad address fails fast", func(t *testing.T) {
		t.Parallel()

		c := NewCollector()
		if err := c.Serve(context.Background(), "not-an-address", nil); err == nil {
			t.Error("expected error for invalid address")
		}
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		c := NewCollector()
		if err := c.Serve(ctx, "127.0.0.1:0", nil); err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
		cancel()
	})
}

func TestHostOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/a?b=c", "example.com"},
		{"http://localhost:8080", "localhost:8080"},
		{"/relative", "unknown"},
		{"://bad", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := hostOf(tt.in); got != tt.want {
				t.Errorf("hostOf(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
