package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talentalign/internal/health"
	"github.com/jonathan/talentalign/internal/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the client views over local HTTP",
	Long:  `Start a local HTTP server exposing the dashboard, report, history and role views as JSON.`,
	RunE:  withApp(runServe),
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string, a *app) error {
	addr := serveListen
	if addr == "" {
		addr = cfg.Listen
	}

	monitor := health.NewMonitor(a.client, a.logger)
	srv := server.New(addr, server.Deps{
		Gate:      a.gate,
		History:   a.history,
		Roles:     a.roles,
		Workspace: a.workspace,
		Monitor:   monitor,
		Logger:    a.logger,
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (analysis service %s)\n", addr, a.client.BaseURL())

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return monitor.Run(ctx, cfg.HealthInterval.Std())
	})
	g.Go(func() error {
		return srv.Run(ctx)
	})
	return g.Wait()
}
