package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

const namespace = "webcrawler"

// shutdownTimeout bounds how long Serve waits for in-flight scrapes.
const shutdownTimeout = 5 * time.Second

// Collector records crawl progress in a private Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	pagesFetched  *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	matches       *prometheus.CounterVec
	frontierSize  *prometheus.GaugeVec
	visited       *prometheus.GaugeVec
	pageDepth     *prometheus.HistogramVec
}

// NewCollector creates a Collector with its own registry.
// Go runtime and process metrics are registered alongside the crawl metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		pagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Pages fetched and processed successfully.",
		}, []string{"host"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Pages whose fetch failed.",
		}, []string{"host"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Text snippets containing the keyword.",
		}, []string{"host"}),
		frontierSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frontier_size",
			Help:      "Entries waiting in the frontier after the last processed page.",
		}, []string{"host"}),
		visited: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visited_urls",
			Help:      "URLs marked visited in the current run.",
		}, []string{"host"}),
		pageDepth: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_depth",
			Help:      "Depth of processed pages relative to the seed.",
			Buckets:   prometheus.LinearBuckets(0, 1, 6),
		}, []string{"host"}),
	}

	c.registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		c.pagesFetched,
		c.fetchFailures,
		c.matches,
		c.frontierSize,
		c.visited,
		c.pageDepth,
	)
	return c
}

// OnProgress implements crawler.Observer.
func (c *Collector) OnProgress(p model.Progress) {
	host := hostOf(p.URL)
	c.pagesFetched.WithLabelValues(host).Inc()
	c.frontierSize.WithLabelValues(host).Set(float64(p.FrontierLen))
	c.visited.WithLabelValues(host).Set(float64(p.Visited))
	c.pageDepth.WithLabelValues(host).Observe(float64(p.Depth))
}

// OnMatches implements crawler.Observer.
// A URL is processed once per run, so every match for it in all is new.
func (c *Collector) OnMatches(pageURL string, all []model.MatchResult) {
	n := 0
	for _, m := range all {
		if m.URL == pageURL {
			n++
		}
	}
	c.matches.WithLabelValues(hostOf(pageURL)).Add(float64(n))
}

// OnFailure implements crawler.Observer.
func (c *Collector) OnFailure(f model.PageFailure) {
	c.fetchFailures.WithLabelValues(hostOf(f.URL)).Inc()
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics on addr under /metrics until ctx is done.
// The listener is bound before Serve returns, so a bad address fails fast.
func (c *Collector) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx) //nolint:errcheck // best-effort on exit
	}()

	go func() {
		logger.Info("serving metrics", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()
	return nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
