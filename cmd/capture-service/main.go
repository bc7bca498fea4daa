// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// capture-service ingests image captures into a remote
// version-controlled file store: each accepted capture is persisted
// under a per-day partition and recorded in that day's manifest.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/capture/lib/capture"
	"github.com/bureau-foundation/capture/lib/clock"
	"github.com/bureau-foundation/capture/lib/config"
	"github.com/bureau-foundation/capture/lib/process"
	"github.com/bureau-foundation/capture/lib/service"
	"github.com/bureau-foundation/capture/lib/store"
	"github.com/bureau-foundation/capture/lib/version"
)

var (
	configPath  = pflag.String("config", "", "path to YAML config file (default: $CAPTURE_CONFIG)")
	showVersion = pflag.Bool("version", false, "print version information and exit")
)

func main() {
	pflag.Parse()

	if *showVersion {
		version.Print("capture-service")
		return
	}

	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	storeClient, err := store.NewClient(store.Config{
		BaseURL:        cfg.Store.BaseURL,
		Owner:          cfg.Store.Owner,
		Repo:           cfg.Store.Repo,
		Token:          cfg.Store.Token,
		AppID:          cfg.Store.AppID,
		PrivateKey:     cfg.Store.PrivateKey,
		InstallationID: cfg.Store.InstallationID,
		Clock:          clock.Real(),
		Logger:         logger.With("component", "store"),
	})
	if err != nil {
		return err
	}

	ingestor, err := capture.NewIngestor(capture.IngestorConfig{
		Store:      storeClient,
		Clock:      clock.Real(),
		Branch:     cfg.Store.Branch,
		BaseBranch: cfg.Store.BaseBranch,
		Logger:     logger.With("component", "capture"),
	})
	if err != nil {
		return err
	}

	server := service.NewHTTPServer(service.HTTPServerConfig{
		Address: cfg.Listen,
		Handler: newHandler(ingestor, logger.With("component", "http")),
		Logger:  logger,
	})

	logger.Info("capture service starting",
		"version", version.Info(),
		"listen", cfg.Listen,
		"owner", cfg.Store.Owner,
		"repo", cfg.Store.Repo,
		"branch", cfg.Store.Branch)

	return server.Serve(ctx)
}
