// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/internal/config"
	"github.com/go-a2a/a2a-bearer/server"
	"github.com/go-a2a/a2a-bearer/server/task"
	"github.com/go-a2a/a2a-bearer/server/worker"
)

const shutdownTimeout = 10 * time.Second

// agentCard describes the agent served by cfg.
func agentCard(cfg config.Server) a2a.AgentCard {
	return a2a.AgentCard{
		Name:        "FastA2A Test Agent",
		Description: "A2A test agent that runs basic echo, math, text and json tasks",
		URL:         fmt.Sprintf("http://%s%s", cfg.Addr(), cfg.Endpoint),
		Version:     "1.0.0",
		Provider: &a2a.AgentProvider{
			Organization: "Go A2A",
			URL:          "https://github.com/go-a2a",
		},
		Capabilities:       a2a.AgentCapabilities{StateTransitionHistory: true},
		DefaultInputModes:  []string{a2a.ContentTypeText},
		DefaultOutputModes: []string{a2a.ContentTypeText},
		Skills:             worker.Skills(),
	}
}

// openStore returns the task store selected by cfg, initialized.
func openStore(ctx context.Context, cfg config.Server) (task.TaskStore, error) {
	var (
		store task.TaskStore
		err   error
	)
	switch cfg.Store {
	case task.KindSQLite:
		store, err = task.OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
	default:
		store = task.NewInMemoryTaskStore()
	}
	if err := store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize %s store: %w", cfg.Store, err)
	}
	return store, nil
}

// serve runs the agent until ctx is done.
func serve(ctx context.Context, cfg config.Server, logger *slog.Logger) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.WithoutCancel(ctx))

	metrics := server.NewMetrics()
	manager := server.NewManager(store, worker.NewBasic(),
		server.WithWorkers(cfg.Workers),
		server.WithQueueSize(cfg.QueueSize),
		server.WithManagerLogger(logger),
		server.WithManagerMetrics(metrics),
	)
	if _, _, err := manager.Recover(ctx); err != nil {
		return err
	}
	srv, err := server.NewServer(agentCard(cfg), manager,
		server.WithEndpoint(cfg.Endpoint),
		server.WithAuth(cfg.Auth),
		server.WithLogger(logger),
		server.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	if cfg.Auth.Enabled {
		logger.InfoContext(ctx, "bearer authentication enabled", slog.String("credential", cfg.Auth.Credential.String()))
	} else {
		logger.WarnContext(ctx, "authentication disabled")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return manager.Run(ctx)
	})
	g.Go(func() error {
		return srv.Start(ctx, cfg.Addr())
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		logger.InfoContext(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
