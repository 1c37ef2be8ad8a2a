// Package metrics exports crawl progress as Prometheus metrics.
//
// Collector implements crawler.Observer, so it can be attached to any
// number of drivers with crawler.WithObserver. Series are labelled by the
// host of the page URL, which keeps concurrent crawls of different origins
// apart.
package metrics
