package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so the output can be piped to files or other tools unchanged.
type SimpleWriter struct {
	baseWriter

	// verbose adds the per-page table and failure details.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeMatches(&sb, report)
	w.writeFailures(&sb, report)
	if w.verbose {
		w.writePages(&sb, report)
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         WEBCRAWLER REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Origin:         %s\n", report.Origin)
	fmt.Fprintf(sb, "Keyword:        %s\n", report.Keyword)
	fmt.Fprintf(sb, "Depth Limit:    %d\n", report.DepthLimit)
	fmt.Fprintf(sb, "Started:        %s\n", report.StartedAt.Format(timeLayout))
	fmt.Fprintf(sb, "Duration:       %s\n", report.Duration().Round(time.Millisecond))
	fmt.Fprintf(sb, "Pages Visited:  %d\n", report.PagesVisited)
	fmt.Fprintf(sb, "Status:         %s\n", statusText(report))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeMatches(sb *strings.Builder, report *model.CrawlReport) {
	writeSection(sb, fmt.Sprintf("MATCHES (%d)", len(report.Matches)))

	if !report.HasMatches() {
		fmt.Fprintf(sb, "  No text containing %q was found.\n\n", report.Keyword)
		return
	}

	for _, url := range report.MatchedURLs() {
		fmt.Fprintf(sb, "  %s\n", url)
		for _, m := range report.MatchesFor(url) {
			fmt.Fprintf(sb, "    - %s\n", strings.TrimSpace(m.Text))
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.CrawlReport) {
	if len(report.Failures) == 0 {
		return
	}

	writeSection(sb, fmt.Sprintf("FAILED PAGES (%d)", len(report.Failures)))
	for _, f := range report.Failures {
		if w.verbose {
			fmt.Fprintf(sb, "  [depth %d] %s\n      %s\n", f.Depth, f.URL, f.Error)
		} else {
			fmt.Fprintf(sb, "  %s\n", f.URL)
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writePages(sb *strings.Builder, report *model.CrawlReport) {
	if len(report.Pages) == 0 {
		return
	}

	writeSection(sb, fmt.Sprintf("PAGES (%d)", len(report.Pages)))
	fmt.Fprintf(sb, "  %-5s  %-5s  %-7s  %s\n", "Depth", "Links", "Matches", "URL")
	for _, p := range report.Pages {
		fmt.Fprintf(sb, "  %-5d  %-5d  %-7d  %s\n", p.Depth, p.Links, p.Matches, p.URL)
	}
	sb.WriteString("\n")
}

// WriteComparison outputs the comparison in human-readable format.
func (w *SimpleWriter) WriteComparison(c *model.RunComparison) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Run Comparison: %s\n", c.Origin)
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Previous run: %s  (%s)\n", c.Previous.StartedAt.Format(timeLayout), c.Previous.ID)
	fmt.Fprintf(&sb, "Current run:  %s  (%s)\n\n", c.Current.StartedAt.Format(timeLayout), c.Current.ID)

	fmt.Fprintf(&sb, "  %-10s  %-10s  %-10s  %s\n", "", "Previous", "Current", "Change")
	sb.WriteString("  " + strings.Repeat("-", 45) + "\n")
	writeDeltaRow(&sb, "Pages", c.Previous.PagesVisited, c.Current.PagesVisited)
	writeDeltaRow(&sb, "Matches", c.Previous.MatchCount, c.Current.MatchCount)
	writeDeltaRow(&sb, "Failures", c.Previous.FailureCount, c.Current.FailureCount)

	if !c.HasChanges() {
		sb.WriteString("\nNo changes between runs.\n")
		return w.output.Write([]byte(sb.String()))
	}

	if len(c.NewMatches) > 0 {
		fmt.Fprintf(&sb, "\nNew Matches (%d):\n", len(c.NewMatches))
		for _, m := range c.NewMatches {
			fmt.Fprintf(&sb, "  [+] %s: %s\n", m.URL, strings.TrimSpace(m.Text))
		}
	}
	if len(c.GoneMatches) > 0 {
		fmt.Fprintf(&sb, "\nGone Matches (%d):\n", len(c.GoneMatches))
		for _, m := range c.GoneMatches {
			fmt.Fprintf(&sb, "  [-] %s: %s\n", m.URL, strings.TrimSpace(m.Text))
		}
	}
	writeURLList(&sb, "New Pages", "[+]", c.NewPages)
	writeURLList(&sb, "Gone Pages", "[-]", c.GonePages)
	writeURLList(&sb, "Changed Pages", "[~]", c.ChangedPages)

	if c.UnchangedMatches > 0 {
		fmt.Fprintf(&sb, "\nUnchanged: %d matches\n", c.UnchangedMatches)
	}

	return w.output.Write([]byte(sb.String()))
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

func writeDeltaRow(sb *strings.Builder, label string, previous, current int) {
	fmt.Fprintf(sb, "  %-10s  %-10d  %-10d  %s\n", label, previous, current, formatDelta(current-previous))
}

func writeURLList(sb *strings.Builder, title, marker string, urls []string) {
	if len(urls) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s (%d):\n", title, len(urls))
	for _, u := range urls {
		fmt.Fprintf(sb, "  %s %s\n", marker, u)
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%d", delta)
	}
	return fmt.Sprintf("%d", delta)
}
