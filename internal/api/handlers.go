// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/cache"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/catalog"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/dispatch"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/eventsub"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/fish"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/ownership"
)

// ConnectionHub is the part of the WebSocket hub the API needs.
type ConnectionHub interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
	ClientCount() int
}

// EventRouter executes events and direct commands.
type EventRouter interface {
	HandleEvent(ctx context.Context, ev eventsub.Event) dispatch.Outcome
	ExecuteCommand(ctx context.Context, req dispatch.CommandRequest) dispatch.Outcome
}

// Dependencies are the components behind the handlers.
type Dependencies struct {
	Hub       ConnectionHub
	Router    EventRouter
	Catalog   *catalog.Catalog
	Fish      *fish.Cache
	Owners    *ownership.Registry
	Verifier  *eventsub.Verifier
	Dedup     *cache.DedupWindow
	Version   string
	StartTime time.Time
}

// HandlerConfig holds request-level settings.
type HandlerConfig struct {
	// MaxMessageAge rejects older EventSub deliveries; zero disables the check.
	MaxMessageAge time.Duration

	// DefaultBalance is assumed when a direct command names no balance.
	DefaultBalance int

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 1 << 20

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_commands.go: direct commands and catalog
//   - handlers_eventsub.go: Twitch webhook
//   - handlers_fish.go: fish, ownership and status reads
//   - handlers_health.go: probes
type Handler struct {
	deps Dependencies
	cfg  HandlerConfig
	now  func() time.Time
}

// NewHandler creates the handler. Missing optional components get safe defaults.
func NewHandler(deps Dependencies, cfg HandlerConfig) *Handler {
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Fish == nil {
		deps.Fish = fish.NewCache(fish.Options{})
	}
	if deps.Owners == nil {
		deps.Owners = ownership.NewRegistry()
	}
	if deps.Verifier == nil {
		deps.Verifier = eventsub.NewVerifier("")
	}
	if deps.StartTime.IsZero() {
		deps.StartTime = time.Now()
	}
	if cfg.DefaultBalance == 0 {
		cfg.DefaultBalance = dispatch.DefaultBalance
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{deps: deps, cfg: cfg, now: time.Now}
}

// WebSocket upgrades a display connection.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.deps.Hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket hub not available", nil)
		return
	}
	h.deps.Hub.ServeWS(w, r)
}

func (h *Handler) clientCount() int {
	if h.deps.Hub == nil {
		return 0
	}
	return h.deps.Hub.ClientCount()
}
