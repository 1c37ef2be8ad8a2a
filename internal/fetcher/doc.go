// Package fetcher provides the HTTP implementation of crawler.Fetcher.
//
// HTTPFetcher performs a GET per page, follows up to ten redirects, reads at
// most a configured number of body bytes and decodes the body to UTF-8 using
// the charset from the Content-Type header or the document's meta tags.
// Requests can be routed through a SOCKS5 proxy (for example a local Tor
// daemon) with WithSOCKS5Proxy.
//
// Every failure is returned as a *FetchError. Non-2xx responses wrap
// ErrUnexpectedStatus.
package fetcher
