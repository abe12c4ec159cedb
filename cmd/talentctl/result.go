package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalign/internal/objectstore"
	"github.com/jonathan/talentalign/internal/report"
)

var (
	resultExport  bool
	resultSummary bool
)

var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Show the current analysis report",
	Long:  "Show the most recent analysis report, or the one last opened from history or a comparison.",
	RunE:  withApp(runResult),
}

func init() {
	resultCmd.Flags().BoolVar(&resultExport, "export", false, "Export the report as JSON to the configured export location")
	resultCmd.Flags().BoolVar(&resultSummary, "summary", false, "Print the recruiter summary and suggestions as plain text")
	rootCmd.AddCommand(resultCmd)
}

func runResult(cmd *cobra.Command, _ []string, a *app) error {
	ctx := cmd.Context()
	view, ok, err := a.workspace.Report(ctx)
	if err != nil {
		return a.fail(ctx, err, "")
	}
	if !ok {
		a.printer.PrintNoResult()
		return nil
	}

	out := cmd.OutOrStdout()
	if resultSummary {
		fmt.Fprintln(out, view.Summary)
		if view.Suggestions != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, view.Suggestions)
		}
	} else {
		a.printer.PrintResult(view.Result)
	}

	if resultExport {
		store, err := objectstore.Open(ctx, cfg.ExportOptions())
		if err != nil {
			return fmt.Errorf("failed to open export location: %w", err)
		}
		location, err := report.Export(ctx, store, view.Result, time.Now())
		if err != nil {
			return fmt.Errorf("failed to export report: %w", err)
		}
		fmt.Fprintf(out, "Report exported to %s\n", location)
	}
	return nil
}
