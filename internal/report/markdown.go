package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

// maxPieSlices caps the pages shown in the match distribution chart.
const maxPieSlices = 8

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides type-safe tables, lists and GitHub-flavored
// alerts, plus mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeMatches(md, report)
	w.writeFailures(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Webcrawler Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Origin", "`" + report.Origin + "`"},
			{"Keyword", "`" + report.Keyword + "`"},
			{"Depth Limit", strconv.Itoa(report.DepthLimit)},
			{"Started", report.StartedAt.Format(timeLayout)},
			{"Pages Visited", strconv.Itoa(report.PagesVisited)},
			{"Matches", strconv.Itoa(len(report.Matches))},
			{"Status", statusText(report)},
		},
	})
	md.PlainText("")

	switch {
	case report.Cancelled:
		md.Warningf("The crawl was cancelled after %d page(s). Results are partial.", report.PagesVisited)
	case report.Error != "":
		md.Cautionf("The crawl failed: %s", report.Error)
	case !report.HasMatches():
		md.Note("The keyword was not found on any visited page.")
	default:
		md.Tip("The keyword was found on " + strconv.Itoa(len(report.MatchedURLs())) + " page(s).")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeMatches(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Matches")
	md.PlainText("")

	if !report.HasMatches() {
		md.PlainText("No matches.")
		md.PlainText("")
		return
	}

	urls := report.MatchedURLs()
	if len(urls) > 1 {
		w.writePieChart(md, report, urls)
	}

	rows := make([][]string, 0, len(report.Matches))
	for _, m := range report.Matches {
		rows = append(rows, []string{
			"`" + m.URL + "`",
			escapeCell(truncateString(strings.TrimSpace(m.Text), 80)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Text"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of matches per page.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.CrawlReport, urls []string) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Matches per page"),
		piechart.WithShowData(true),
	)

	other := 0
	for i, url := range urls {
		n := len(report.MatchesFor(url))
		if i < maxPieSlices {
			chart.LabelAndIntValue(url, uint64(n)) //nolint:gosec // n is a non-negative count
		} else {
			other += n
		}
	}
	if other > 0 {
		chart.LabelAndIntValue("other", uint64(other)) //nolint:gosec // non-negative count
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.CrawlReport) {
	if len(report.Failures) == 0 {
		return
	}

	md.H2("Failed Pages")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		rows = append(rows, []string{
			"`" + f.URL + "`",
			strconv.Itoa(f.Depth),
			escapeCell(truncateString(f.Error, 60)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Depth", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by webcrawler*")
}

// WriteComparison outputs the comparison in Markdown format.
func (w *MarkdownWriter) WriteComparison(c *model.RunComparison) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run Comparison: " + c.Origin)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Started", c.Previous.StartedAt.Format(timeLayout), c.Current.StartedAt.Format(timeLayout), "-"},
			deltaRow("Pages", c.Previous.PagesVisited, c.Current.PagesVisited),
			deltaRow("Matches", c.Previous.MatchCount, c.Current.MatchCount),
			deltaRow("Failures", c.Previous.FailureCount, c.Current.FailureCount),
		},
	})
	md.PlainText("")

	if !c.HasChanges() {
		md.Note("No changes between runs.")
		return len(md.String()), md.Build()
	}

	if len(c.NewMatches) > 0 {
		md.H2("New Matches (" + strconv.Itoa(len(c.NewMatches)) + ")")
		md.PlainText("")
		md.BulletList(matchItems(c.NewMatches)...)
		md.PlainText("")
	}
	if len(c.GoneMatches) > 0 {
		md.H2("Gone Matches (" + strconv.Itoa(len(c.GoneMatches)) + ")")
		md.PlainText("")
		md.BulletList(matchItems(c.GoneMatches)...)
		md.PlainText("")
	}
	writeMarkdownURLs(md, "New Pages", c.NewPages)
	writeMarkdownURLs(md, "Gone Pages", c.GonePages)
	writeMarkdownURLs(md, "Changed Pages", c.ChangedPages)

	if c.UnchangedMatches > 0 {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf("*%d matches unchanged*", c.UnchangedMatches)
	}

	return len(md.String()), md.Build()
}

func deltaRow(label string, previous, current int) []string {
	return []string{label, strconv.Itoa(previous), strconv.Itoa(current), formatDelta(current - previous)}
}

func matchItems(matches []model.MatchResult) []string {
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		items = append(items, "`"+m.URL+"`: "+truncateString(strings.TrimSpace(m.Text), 80))
	}
	return items
}

func writeMarkdownURLs(md *markdown.Markdown, title string, urls []string) {
	if len(urls) == 0 {
		return
	}
	md.H2(title + " (" + strconv.Itoa(len(urls)) + ")")
	md.PlainText("")
	items := make([]string, 0, len(urls))
	for _, u := range urls {
		items = append(items, "`"+u+"`")
	}
	md.BulletList(items...)
	md.PlainText("")
}

// escapeCell keeps text from breaking a Markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
