package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/whynotcrybot/web-crawler/internal/crawler"
	"github.com/whynotcrybot/web-crawler/internal/model"
)

// DefaultConcurrency is the number of crawls run at once when no
// WithConcurrency option is given.
const DefaultConcurrency = 4

// DriverFactory builds a fresh driver for one seed origin.
type DriverFactory func(origin string) (*crawler.Driver, error)

// ReportFunc builds the report of an origin whose driver never ran, either
// because building it failed or because the batch was cancelled first.
type ReportFunc func(origin string) *model.CrawlReport

// BatchRunner crawls multiple seed origins concurrently.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool.
// Each origin gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously. A failing crawl never cancels its siblings; the
// failure is recorded in that origin's report.
type BatchRunner struct {
	factory     DriverFactory
	newReport   ReportFunc
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent crawls.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchRunner) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithReportFunc sets how reports of origins that never ran are built, so
// they can carry the keyword and depth limit the crawl would have used.
// By default those fields are left empty.
func WithReportFunc(fn ReportFunc) BatchOption {
	return func(b *BatchRunner) {
		if fn != nil {
			b.newReport = fn
		}
	}
}

// NewBatchRunner creates a BatchRunner that builds drivers with factory.
func NewBatchRunner(factory DriverFactory, opts ...BatchOption) *BatchRunner {
	b := &BatchRunner{
		factory:     factory,
		concurrency: DefaultConcurrency,
		newReport: func(origin string) *model.CrawlReport {
			return model.NewCrawlReport(origin, "", 0)
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Run crawls every origin and returns one report per origin, in input order.
// Reports of origins that never started because ctx was cancelled are
// marked cancelled. The error is ctx's error if the batch was cancelled.
func (b *BatchRunner) Run(ctx context.Context, origins []string) ([]*model.CrawlReport, error) {
	reports := make([]*model.CrawlReport, len(origins))
	err := b.RunWithCallback(ctx, origins, func(report *model.CrawlReport, index int) {
		// Each index is written by exactly one goroutine.
		reports[index] = report
	})
	return reports, err
}

// RunWithCallback crawls every origin and calls callback with each finished
// report and the origin's index. The callback runs on the goroutine that
// finished the crawl, so it must be safe for concurrent use.
func (b *BatchRunner) RunWithCallback(
	ctx context.Context,
	origins []string,
	callback func(report *model.CrawlReport, index int),
) error {
	b.logger.Info("starting batch crawl",
		"total_origins", len(origins),
		"concurrency", b.concurrency,
	)
	startTime := time.Now()

	g := new(errgroup.Group)
	g.SetLimit(b.concurrency)

	for i, origin := range origins {
		g.Go(func() error {
			callback(b.crawl(ctx, origin, i, len(origins)), i)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines never return an error

	b.logger.Info("batch crawl complete",
		"total_origins", len(origins),
		"elapsed", time.Since(startTime),
	)
	return ctx.Err()
}

func (b *BatchRunner) crawl(ctx context.Context, origin string, index, total int) *model.CrawlReport {
	if err := ctx.Err(); err != nil {
		report := b.newReport(origin)
		report.Cancelled = true
		report.Error = err.Error()
		report.FinishedAt = report.StartedAt
		return report
	}

	driver, err := b.factory(origin)
	if err != nil {
		b.logger.Warn("crawl setup failed", "origin", origin, "error", err)
		report := b.newReport(origin)
		report.Error = err.Error()
		report.FinishedAt = report.StartedAt
		return report
	}

	b.logger.Info("crawling origin",
		"origin", origin,
		"index", index+1,
		"total", total,
	)

	if _, err := driver.Run(ctx); err != nil {
		b.logger.Warn("crawl stopped", "origin", origin, "error", err)
	} else {
		b.logger.Info("crawl completed", "origin", origin)
	}
	return driver.Report()
}
