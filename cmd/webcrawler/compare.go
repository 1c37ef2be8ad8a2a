package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whynotcrybot/web-crawler/internal/config"
	"github.com/whynotcrybot/web-crawler/internal/database"
	"github.com/whynotcrybot/web-crawler/internal/model"
	"github.com/whynotcrybot/web-crawler/internal/report"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <origin>",
		Short: "Compare the latest crawl of an origin with an earlier one",
		Long: `Compare shows what changed between two saved runs of an origin:
- Matches that appeared or disappeared
- Pages that appeared or disappeared
- Pages whose content changed (by SHA3-256 fingerprint)

By default the latest two runs are compared. At least two runs of the
origin must be saved; use 'webcrawler history <origin>' to list them.

Examples:
  # Compare the latest two runs
  webcrawler compare https://example.com

  # Compare the latest run with run 3
  webcrawler compare --with-id 3 https://example.com

  # Output the comparison in Markdown
  webcrawler compare -m https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare the latest run with the run of this ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison in Markdown format")

	return cmd
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	origin, err := config.NormalizeOrigin(args[0])
	if err != nil {
		return err
	}
	withID, err := cmd.Flags().GetInt64("with-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	store, err := openExistingStore(getDBDir(cmd))
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("no runs found for %s", origin)
	}
	if err != nil {
		return err
	}
	defer store.Close()

	comparison, err := compareRuns(context.Background(), store, origin, withID)
	if err != nil {
		return err
	}

	var w report.Writer
	switch {
	case jsonOutput:
		w = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	case markdownOutput:
		w = report.NewMarkdownWriter(cmd.OutOrStdout())
	default:
		w = report.NewSimpleWriter(cmd.OutOrStdout())
	}
	_, err = w.WriteComparison(comparison)
	return err
}

// compareRuns diffs the latest run of origin against the run with withID,
// or against the run before it when withID is 0.
func compareRuns(ctx context.Context, store *database.RunStore, origin string, withID int64) (*model.RunComparison, error) {
	runs, err := store.LatestRuns(ctx, origin, 2)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs found for %s", origin)
	}
	current := runs[0]

	if withID == 0 {
		if len(runs) < 2 {
			return nil, fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
		}
		return model.CompareReports(runs[1].Report, current.Report), nil
	}

	if withID == current.ID {
		return nil, fmt.Errorf("run %d is the latest run; choose an earlier one", withID)
	}
	previous, err := store.GetRunByID(ctx, withID)
	if err != nil {
		return nil, err
	}
	if previous == nil {
		return nil, fmt.Errorf("run with ID %d not found", withID)
	}
	if previous.Origin != origin {
		return nil, fmt.Errorf("run %d belongs to %s, not %s", withID, previous.Origin, origin)
	}
	return model.CompareReports(previous, current.Report), nil
}
