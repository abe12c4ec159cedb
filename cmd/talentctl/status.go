package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalign/internal/health"
)

var (
	statusWatch    bool
	statusInterval time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the analysis service is reachable",
	RunE:  withApp(runStatus),
}

func init() {
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "Keep polling and print every status change")
	statusCmd.Flags().DurationVar(&statusInterval, "interval", 0, "Polling interval for --watch (default from config)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string, a *app) error {
	out := cmd.OutOrStdout()
	monitor := health.NewMonitor(a.client, a.logger)

	if !statusWatch {
		status := monitor.Check(cmd.Context())
		fmt.Fprintf(out, "%s: %s\n", a.client.BaseURL(), status)
		return nil
	}

	monitor.OnChange(func(s health.Status) {
		fmt.Fprintf(out, "%s %s: %s\n", time.Now().Format(time.TimeOnly), a.client.BaseURL(), s)
	})
	interval := statusInterval
	if interval <= 0 {
		interval = cfg.HealthInterval.Std()
	}
	return monitor.Run(cmd.Context(), interval)
}
