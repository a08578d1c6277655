// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/api"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/cache"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/catalog"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/config"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/dispatch"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/eventsub"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/fish"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/logging"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/metrics"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/ownership"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/supervisor"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/supervisor/services"
	ws "github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/websocket"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the hub (default command)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// app holds the wired components of one hub instance.
type app struct {
	cfg     *config.Config
	hub     *ws.Hub
	dedup   *cache.DedupWindow
	handler http.Handler
	server  *http.Server
}

// buildApp wires every component from cfg without starting anything.
func buildApp(cfg *config.Config) (*app, error) {
	cat, err := catalog.New(cfg.Commands.Rewards)
	if err != nil {
		return nil, fmt.Errorf("build command catalog: %w", err)
	}
	logging.Info().
		Int("commands", len(cat.Commands())).
		Int("rewards", cat.RewardCount()).
		Msg("Command catalog loaded")

	fishCache := fish.NewCache(fish.Options{
		StarterNames: cfg.Fish.StarterNames,
		DemoFallback: cfg.Fish.DemoFallback,
	})
	owners := ownership.NewRegistry()
	dedup := cache.NewDedupWindow(cfg.EventSub.DedupCapacity, cfg.EventSub.DedupWindow)

	hub := ws.NewHub(ws.Options{
		WriteWait:      cfg.WebSocket.WriteWait,
		PongWait:       cfg.WebSocket.PongWait,
		PingPeriod:     cfg.WebSocket.PingPeriod,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		InboundRate:    cfg.WebSocket.InboundRate,
		InboundBurst:   cfg.WebSocket.InboundBurst,
		AllowedOrigins: cfg.Security.CORSOrigins,
	}, fishCache, owners)

	router := dispatch.NewRouter(cat, hub, owners, fishCache, dispatch.Options{
		AllowUnknownCommands: cfg.Commands.UnknownPolicy == config.UnknownCommandAllow,
	})

	handler := api.NewHandler(api.Dependencies{
		Hub:       hub,
		Router:    router,
		Catalog:   cat,
		Fish:      fishCache,
		Owners:    owners,
		Verifier:  eventsub.NewVerifier(cfg.EventSub.Secret),
		Dedup:     dedup,
		Version:   version,
		StartTime: time.Now(),
	}, api.HandlerConfig{
		MaxMessageAge:  cfg.EventSub.MaxMessageAge,
		DefaultBalance: cfg.Commands.DefaultBalance,
	})

	mwConfig := api.DefaultChiMiddlewareConfig()
	if len(cfg.Security.CORSOrigins) > 0 {
		mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	}
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	httpHandler := api.NewRouter(handler, api.NewChiMiddleware(mwConfig)).SetupChi()

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	return &app{
		cfg:     cfg,
		hub:     hub,
		dedup:   dedup,
		handler: httpHandler,
		server:  server,
	}, nil
}

// tree builds the supervisor tree for a wired app.
func (a *app) tree() (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return nil, err
	}
	tree.AddDataService(services.NewDedupJanitorService(a.dedup, 0))
	tree.AddMessagingService(services.NewWebSocketHubService(a.hub))
	tree.AddAPIService(services.NewHTTPServerService(a.server, a.cfg.Server.ShutdownTimeout))
	return tree, nil
}

func runServe(parent context.Context) error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stdout,
	})

	for _, warning := range cfg.Warnings() {
		logging.Warn().Msg(warning)
	}

	a, err := buildApp(cfg)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to wire components")
		return err
	}
	metrics.SetAppInfo(version)

	tree, err := a.tree()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("unknown_command_policy", cfg.Commands.UnknownPolicy).
		Bool("demo_fallback", cfg.Fish.DemoFallback).
		Msg("Starting fish tank hub")

	err = tree.Serve(ctx)

	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		logging.Info().Msg("Hub stopped")
		return nil
	case errors.Is(err, suture.ErrTerminateSupervisorTree):
		return fmt.Errorf("hub terminated: %w", err)
	default:
		return fmt.Errorf("supervisor tree: %w", err)
	}
}
