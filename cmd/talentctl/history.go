package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalign/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Work with the local analysis history",
	Long:  "The ten most recent analyses are kept locally, newest first.",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent analyses",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		if err := a.requireLogin(cmd.Context(), session.ViewHistory); err != nil {
			return err
		}
		a.printer.PrintHistory(a.history.List(cmd.Context()))
		return nil
	}),
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all local history",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		if err := a.requireLogin(cmd.Context(), session.ViewHistory); err != nil {
			return err
		}
		if err := a.history.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}),
}

var historyOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a past analysis as the current report",
	Long:  "Open a past analysis as the current report. A unique prefix of the id is enough.",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runHistoryOpen),
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyOpenCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryOpen(cmd *cobra.Command, args []string, a *app) error {
	ctx := cmd.Context()
	if err := a.requireLogin(ctx, session.ViewHistory); err != nil {
		return err
	}
	entry, ok := a.history.Find(ctx, args[0])
	if !ok {
		return fmt.Errorf("no history entry matches %q", args[0])
	}
	if _, err := a.history.Reopen(ctx, entry); err != nil {
		return a.fail(ctx, err, "Could not open this analysis.")
	}
	a.printer.PrintResult(entry.Result)
	return nil
}
