package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whynotcrybot/web-crawler/internal/config"
	"github.com/whynotcrybot/web-crawler/internal/database"
	"github.com/whynotcrybot/web-crawler/internal/report"
)

// historyTimeLayout formats timestamps in history tables.
const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [origin]",
		Short: "List saved crawl runs",
		Long: `History lists the crawl runs saved in the database, newest first.

Examples:
  # List every saved run
  webcrawler history

  # List the runs of one origin
  webcrawler history https://example.com

  # List every origin with saved runs
  webcrawler history --list-origins

  # Print the full report of run 5
  webcrawler history --id 5

  # Show how a page's content fingerprint changed across runs
  webcrawler history --page https://example.com/about`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-origins", "L", false,
		"List all origins in the database")
	cmd.Flags().Int64P("id", "i", 0,
		"Print the report of the run with this ID")
	cmd.Flags().String("page", "",
		"Show the stored fingerprints of this page URL")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listOrigins, err := cmd.Flags().GetBool("list-origins")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	page, err := cmd.Flags().GetString("page")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var origin string
	if len(args) == 1 {
		origin, err = config.NormalizeOrigin(args[0])
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	store, err := openExistingStore(getDBDir(cmd))
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(out, "No runs recorded yet. Use 'webcrawler crawl' to crawl a site.")
		return nil
	}
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	switch {
	case listOrigins:
		return listStoredOrigins(ctx, out, store, jsonOutput)
	case runID > 0:
		return showRun(ctx, out, store, runID, jsonOutput)
	case page != "":
		return showPageHistory(ctx, out, store, page, jsonOutput)
	default:
		return listRuns(ctx, out, store, origin, jsonOutput)
	}
}

// openExistingStore opens the run store without creating it.
func openExistingStore(dir string) (*database.RunStore, error) {
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	store, err := database.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func listStoredOrigins(ctx context.Context, out io.Writer, store *database.RunStore, jsonOutput bool) error {
	origins, err := store.ListOrigins(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, origins)
	}

	if len(origins) == 0 {
		fmt.Fprintln(out, "No crawled origins found in the database.")
		return nil
	}
	fmt.Fprintf(out, "Crawled origins (%d):\n\n", len(origins))
	for _, o := range origins {
		fmt.Fprintf(out, "  • %s\n", o)
	}
	fmt.Fprintln(out, "\nUse 'webcrawler history <origin>' to see the runs of an origin.")
	return nil
}

func showRun(ctx context.Context, out io.Writer, store *database.RunStore, id int64, jsonOutput bool) error {
	r, err := store.GetRunByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("run with ID %d not found", id)
	}

	var w report.Writer = report.NewSimpleWriter(out, report.WithVerbose(true))
	if jsonOutput {
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	}
	_, err = w.Write(r)
	return err
}

func showPageHistory(ctx context.Context, out io.Writer, store *database.RunStore, pageURL string, jsonOutput bool) error {
	versions, err := store.PageHistory(ctx, pageURL)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, versions)
	}

	if len(versions) == 0 {
		fmt.Fprintf(out, "No stored fetches of %s\n", pageURL)
		return nil
	}
	fmt.Fprintf(out, "Stored fetches of %s (%d):\n\n", pageURL, len(versions))
	fmt.Fprintf(out, "  %-6s  %-20s  %-5s  %s\n", "Run", "Started", "Depth", "Fingerprint")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))
	for i, v := range versions {
		marker := ""
		if i+1 < len(versions) && versions[i+1].Fingerprint != v.Fingerprint {
			marker = "  (changed)"
		}
		fmt.Fprintf(out, "  %-6d  %-20s  %-5d  %.16s%s\n",
			v.RunPK, v.StartedAt.Local().Format(historyTimeLayout), v.Depth, v.Fingerprint, marker)
	}
	return nil
}

func listRuns(ctx context.Context, out io.Writer, store *database.RunStore, origin string, jsonOutput bool) error {
	runs, err := store.History(ctx, origin)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, runs)
	}

	if len(runs) == 0 {
		if origin != "" {
			fmt.Fprintf(out, "No runs found for %s\n", origin)
		} else {
			fmt.Fprintln(out, "No runs found.")
		}
		return nil
	}

	title := "All runs"
	if origin != "" {
		title = "Runs of " + origin
	}
	fmt.Fprintf(out, "%s (%d):\n\n", title, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-6s  %-7s  %-8s  %-9s  %s\n",
		"ID", "Started", "Pages", "Matches", "Failures", "Status", "Origin")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))
	for _, r := range runs {
		status := "complete"
		if r.Cancelled {
			status = "cancelled"
		}
		fmt.Fprintf(out, "  %-6d  %-20s  %-6d  %-7d  %-8d  %-9s  %s\n",
			r.ID, r.StartedAt.Local().Format(historyTimeLayout),
			r.PagesVisited, r.MatchCount, r.FailureCount, status, r.Origin)
	}
	fmt.Fprintln(out, "\nUse 'webcrawler history --id <id>' to print a run.")
	fmt.Fprintln(out, "Use 'webcrawler compare <origin>' to compare the latest two runs.")
	return nil
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
