package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/whynotcrybot/web-crawler/internal/config"
	"github.com/whynotcrybot/web-crawler/internal/crawler"
	"github.com/whynotcrybot/web-crawler/internal/database"
	"github.com/whynotcrybot/web-crawler/internal/fetcher"
	"github.com/whynotcrybot/web-crawler/internal/metrics"
	"github.com/whynotcrybot/web-crawler/internal/model"
	"github.com/whynotcrybot/web-crawler/internal/pipeline"
	"github.com/whynotcrybot/web-crawler/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [origin...]",
		Short: "Crawl websites and report text containing a keyword",
		Long: `Crawl fetches each origin, follows relative links on the same origin
breadth-first up to the depth limit, and reports every text snippet whose
words include the keyword (case-insensitive, whole words only).

Absolute links, fragments and other schemes are never followed. Pages that
fail to load are reported and skipped; they never stop the crawl.

Examples:
  # Crawl the origin and the pages it links to
  webcrawler crawl https://example.com -k design

  # Follow links two levels deep, stop after 50 pages
  webcrawler crawl https://example.com -k design -d 2 -p 50

  # Crawl several sites, two at a time, and write a Markdown report
  webcrawler crawl https://a.example https://b.example -k design -b 2 -m -o report.md

  # Route requests through a SOCKS5 proxy
  webcrawler crawl https://example.com -k design --proxy 127.0.0.1:1080`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().StringP("keyword", "k", "",
		"Keyword to search for (may be set in the configuration file instead)")
	cmd.Flags().IntP("depth", "d", config.DefaultDepthLimit,
		"Deepest level whose links are followed (0 fetches only the origin)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to fetch per origin (0 = no limit)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of origins crawled concurrently")

	// Transport flags
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (host:port or user:password@host:port)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with each request")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .webcrawler in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().BoolP("quiet", "q", false,
		"Do not print crawl progress")
	cmd.Flags().Bool("no-save", false,
		"Do not save the run to the history database")
	cmd.Flags().String("metrics-addr", "",
		"Serve Prometheus metrics on this address while crawling (e.g. :2112)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	var progress crawler.Observer
	if !quiet {
		progress = newProgressPrinter(cmd.ErrOrStderr())
	}

	return runCrawl(ctx, cmd.OutOrStdout(), cfg, progress, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	var err error

	if cfg.Keyword, err = cmd.Flags().GetString("keyword"); err != nil {
		return nil, err
	}
	if cfg.DepthLimit, err = cmd.Flags().GetInt("depth"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = cmd.Flags().GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	// An explicitly named config file must exist. Without one, the default
	// locations are searched and a missing file is fine.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.MetricsAddr, err = cmd.Flags().GetString("metrics-addr"); err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = getDBDir(cmd)

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")

	cfg.Targets = args
	return cfg, nil
}

// runCrawl crawls every target and writes the reports to out or the
// configured report file. cfg must be validated.
func runCrawl(ctx context.Context, out io.Writer, cfg *config.Config, progress crawler.Observer, logger *slog.Logger) error {
	targets := make([]string, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		origin, err := config.NormalizeOrigin(t)
		if err != nil {
			return err
		}
		targets = append(targets, origin)
	}

	logger.Info("starting crawl",
		"targets", targets,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
		"proxy", cfg.ProxyAddress,
	)

	var store *database.RunStore
	if cfg.SaveToDB {
		var err error
		store, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		logger.Info("database opened", "path", store.Path())
	}

	observers := make([]crawler.Observer, 0, 2)
	if progress != nil {
		observers = append(observers, progress)
	}
	if cfg.MetricsAddr != "" {
		collector := metrics.NewCollector()
		if err := collector.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
			return err
		}
		observers = append(observers, collector)
	}

	runner := pipeline.NewBatchRunner(
		func(origin string) (*crawler.Driver, error) {
			return newDriver(cfg, cfg.SettingsFor(origin), observers, logger)
		},
		pipeline.WithReportFunc(func(origin string) *model.CrawlReport {
			s := cfg.SettingsFor(origin)
			return model.NewCrawlReport(origin, s.Keyword, s.DepthLimit)
		}),
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	startTime := time.Now()
	reports := make([]*model.CrawlReport, len(targets))
	var mu sync.Mutex
	err := runner.RunWithCallback(ctx, targets, func(r *model.CrawlReport, index int) {
		mu.Lock()
		defer mu.Unlock()
		reports[index] = r

		// The run is archived even when ctx was cancelled, so use a
		// context that is still live.
		if err := saveRun(context.WithoutCancel(ctx), store, r, logger); err != nil {
			logger.Error("failed to save run", "origin", r.Origin, "error", err)
		}
	})
	logger.Info("crawl finished", "elapsed", time.Since(startTime).Round(time.Millisecond))

	if outErr := outputReports(out, cfg, reports); outErr != nil {
		return errors.Join(err, outErr)
	}
	return err
}

// newDriver builds the fetcher and driver for one origin.
func newDriver(cfg *config.Config, s config.CrawlSettings, observers []crawler.Observer, logger *slog.Logger) (*crawler.Driver, error) {
	fetchOpts := []fetcher.Option{
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithUserAgent(s.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.ProxyAddress != "" {
		fetchOpts = append(fetchOpts, fetcher.WithSOCKS5Proxy(cfg.ProxyAddress))
	}
	f, err := fetcher.New(fetchOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	opts := []crawler.Option{
		crawler.WithDepthLimit(s.DepthLimit),
		crawler.WithMaxPages(s.MaxPages),
		crawler.WithLogger(logger.With("origin", s.Origin)),
		crawler.WithIgnorePatterns(s.IgnorePatterns),
		crawler.WithFollowPatterns(s.FollowPatterns),
	}
	for _, o := range observers {
		opts = append(opts, crawler.WithObserver(o))
	}
	return crawler.New(s.Origin, s.Keyword, f, opts...)
}

// saveRun saves the report to the database. A nil store is a no-op.
func saveRun(ctx context.Context, store *database.RunStore, r *model.CrawlReport, logger *slog.Logger) error {
	if store == nil {
		return nil
	}
	id, err := store.SaveRun(ctx, r)
	if err != nil {
		return err
	}
	logger.Info("run saved to database", "origin", r.Origin, "id", id)
	return nil
}

// outputReports writes the reports in the requested format.
// JSON output is a single document holding every report.
func outputReports(stdout io.Writer, cfg *config.Config, reports []*model.CrawlReport) error {
	output := stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain page text, so only the owner can read them.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	if cfg.JSONReport {
		_, err := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint()).WriteAll(reports)
		return err
	}

	var w report.Writer
	if cfg.MarkdownReport {
		w = report.NewMarkdownWriter(output)
	} else {
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
	for _, r := range reports {
		if _, err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
