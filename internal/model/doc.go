// Package model defines the data structures shared by the crawler, the
// report writers and the run store.
//
// This package contains the following main types:
//   - Entry: A URL waiting in (or taken from) the crawl frontier, with its depth
//   - Node: A parsed HTML document node (element or text)
//   - MatchResult: A page text snippet containing the target keyword
//   - CrawlReport: The outcome of one crawl run
//
// Design decision: We keep models in their own package so that crawler,
// report and database can share them without import cycles. The report
// types are JSON-serializable for report output and database storage.
package model
