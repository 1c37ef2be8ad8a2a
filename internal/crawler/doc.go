// Package crawler implements a bounded-depth, breadth-first web crawler
// that reports page text containing a keyword.
//
// # Architecture
//
// A crawl is driven by a Driver. Each iteration takes the next entry from
// the Frontier, fetches it, parses it into a model.Node tree and walks the
// tree once:
//
//	Frontier -> Fetcher -> Parser -> Extract -> LinkFilter (anchors)
//	                                          -> Matcher    (text)
//
// Matching text is appended to the results; accepted links go back into the
// Frontier while the page is shallower than the depth limit.
//
// # Components
//
//   - Driver: runs the loop and owns all per-run state
//   - Frontier: FIFO queue plus visited set, deduplicating URLs
//   - Extract: collects anchors and text nodes in document order
//   - LinkFilter: keeps relative, fragment-free, well-formed links
//   - Matcher: case-insensitive whole-token keyword match
//   - HTMLParser: golang.org/x/net/html based Parser
//   - DefaultValidator: RFC 3986 syntax check for resolved links
//
// # Guarantees
//
//   - A URL is fetched at most once per run, even after a failure
//   - A link found at depth d is queued at depth d+1
//   - Pages at the depth limit are fetched but their links are not followed
//   - One failing page never ends the run
//
// # Usage
//
//	d, err := crawler.New("https://example.com", "reimagined", f,
//		crawler.WithDepthLimit(1))
//	if err != nil {
//		return err
//	}
//	matches, err := d.Run(ctx)
package crawler
