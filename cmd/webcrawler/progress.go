package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

// progressPrinter writes one line per crawl event to the terminal.
// It is shared by concurrent crawls, so writes are serialized.
type progressPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

func (p *progressPrinter) OnProgress(pr model.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "visited %-4d queue %-4d depth %d  %s\n", pr.Visited, pr.FrontierLen, pr.Depth, pr.URL)
}

func (p *progressPrinter) OnMatches(url string, all []model.MatchResult) {
	n := 0
	for _, m := range all {
		if m.URL == url {
			n++
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "found   %d match(es) on %s (%d total)\n", n, url, len(all))
}

func (p *progressPrinter) OnFailure(f model.PageFailure) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "failed  %s: %s\n", f.URL, f.Error)
}
