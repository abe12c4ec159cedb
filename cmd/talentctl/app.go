package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentalign/internal/api"
	"github.com/jonathan/talentalign/internal/compare"
	"github.com/jonathan/talentalign/internal/history"
	"github.com/jonathan/talentalign/internal/kvstore"
	"github.com/jonathan/talentalign/internal/observability"
	"github.com/jonathan/talentalign/internal/relay"
	"github.com/jonathan/talentalign/internal/roles"
	"github.com/jonathan/talentalign/internal/session"
	"github.com/jonathan/talentalign/internal/workspace"
)

// app holds the components one command invocation works with.
type app struct {
	logger    *slog.Logger
	store     *kvstore.Opened
	client    *api.Client
	gate      *session.Gate
	relay     *relay.Relay
	history   *history.Cache
	roles     *roles.Directory
	workspace *workspace.Workspace
	compare   *compare.Aggregator
	printer   *observability.Printer
}

func openApp(cmd *cobra.Command) (*app, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	logger := slog.Default()

	store, err := kvstore.Open(cmd.Context(), cfg.StoreOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	gate := session.NewGate(store, logger)
	client := api.NewClient(api.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout.Std(),
		Tokens:  gate,
		Logger:  logger,
	})
	r := relay.New(store, logger)
	h := history.NewCache(store, r, logger)
	dir := roles.NewDirectory(client, logger)

	return &app{
		logger:  logger,
		store:   store,
		client:  client,
		gate:    gate,
		relay:   r,
		history: h,
		roles:   dir,
		workspace: workspace.New(workspace.Deps{
			Service: client,
			Gate:    gate,
			Relay:   r,
			History: h,
			Roles:   dir,
			Logger:  logger,
		}),
		compare: compare.NewAggregator(client, r, logger),
		printer: observability.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close local store", "error", err)
	}
}

// requireLogin runs the session gate for view.
func (a *app) requireLogin(ctx context.Context, view session.View) error {
	if _, err := a.gate.Guard(ctx, view); err != nil {
		return errors.New(workspace.MsgLoginRequired)
	}
	return nil
}

// fail turns err into the single line shown to the user. A rejected token is dropped.
func (a *app) fail(ctx context.Context, err error, fallback string) error {
	if api.IsUnauthorized(err) {
		a.gate.Invalidate(ctx)
		return errors.New(workspace.MsgLoginRequired)
	}
	a.logger.Debug("command failed", "error", err)
	return errors.New(workspace.Message(err, fallback))
}

// withApp opens the app for the duration of fn.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}
