// Package report renders crawl results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter and FullJSONWriter: Structured JSON for tool integration
//   - MarkdownWriter: Markdown with tables and a mermaid chart for sharing
//
// Every writer renders both a single run (model.CrawlReport) and the
// difference between two runs (model.RunComparison).
package report
