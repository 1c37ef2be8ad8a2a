// Package main provides the entry point for the webcrawler CLI.
//
// webcrawler crawls a website breadth-first from an origin URL, following
// same-origin links up to a depth limit, and reports every text snippet
// that contains a keyword.
//
// Usage:
//
//	webcrawler crawl https://example.com -k keyword
//	webcrawler history
//	webcrawler compare https://example.com
//
// See --help for all available options.
package main

func main() {
	Execute()
}
