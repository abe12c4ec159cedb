package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalign/internal/api"
	"github.com/jonathan/talentalign/internal/objectstore"
	"github.com/jonathan/talentalign/internal/report"
	"github.com/jonathan/talentalign/internal/workspace"
)

var (
	shareDays int
	kitExport bool
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Create a read-only link to the current report",
	RunE:  withApp(runShare),
}

var interviewKitCmd = &cobra.Command{
	Use:   "interview-kit",
	Short: "Generate interview questions for the current report",
	RunE:  withApp(runInterviewKit),
}

func init() {
	shareCmd.Flags().IntVar(&shareDays, "days", api.DefaultShareDays,
		fmt.Sprintf("Link lifetime in days (%d-%d)", api.MinShareDays, api.MaxShareDays))
	interviewKitCmd.Flags().BoolVar(&kitExport, "export", false, "Export the kit as JSON to the configured export location")
	rootCmd.AddCommand(shareCmd, interviewKitCmd)
}

func runShare(cmd *cobra.Command, _ []string, a *app) error {
	ctx := cmd.Context()
	link, err := a.workspace.Share(ctx, shareDays)
	if err != nil {
		return a.fail(ctx, err, workspace.MsgShareFailed)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, link.ShareURL)
	if !link.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "Expires %s\n", link.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}

func runInterviewKit(cmd *cobra.Command, _ []string, a *app) error {
	ctx := cmd.Context()
	kit, err := a.workspace.InterviewKit(ctx)
	if err != nil {
		return a.fail(ctx, err, workspace.MsgInterviewFailed)
	}
	out := cmd.OutOrStdout()

	if kitExport {
		store, err := objectstore.Open(ctx, cfg.ExportOptions())
		if err != nil {
			return fmt.Errorf("failed to open export location: %w", err)
		}
		location, err := report.ExportInterviewKit(ctx, store, kit, time.Now())
		if err != nil {
			return fmt.Errorf("failed to export interview kit: %w", err)
		}
		fmt.Fprintf(out, "Interview kit exported to %s\n", location)
		return nil
	}

	data, err := json.MarshalIndent(kit.Content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format interview kit: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
