// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/logging"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful path (SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Connection defaults.
const (
	DefaultWriteWait      = 10 * time.Second
	DefaultPongWait       = 60 * time.Second
	DefaultPingPeriod     = (DefaultPongWait * 9) / 10
	DefaultMaxMessageSize = 512 * 1024
)

// DeliveryResult reports one broadcast pass.
type DeliveryResult struct {
	CommandSent bool `json:"command_sent"`
	Recipients  int  `json:"recipients"`
}

// SnapshotStore receives fish_data payloads.
type SnapshotStore interface {
	ReplaceJSON(payload []byte) (int, error)
}

// OwnershipGranter receives fish_spawned identities.
type OwnershipGranter interface {
	Grant(identity string) int
}

// Options configures connection handling.
type Options struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64

	// InboundRate is the sustained frames/sec allowed per connection; zero
	// disables limiting.
	InboundRate  float64
	InboundBurst int

	// AllowedOrigins restricts the upgrade Origin header. Empty or "*" allows all.
	AllowedOrigins []string
}

func (o Options) withDefaults() Options {
	if o.WriteWait <= 0 {
		o.WriteWait = DefaultWriteWait
	}
	if o.PongWait <= 0 {
		o.PongWait = DefaultPongWait
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = (o.PongWait * 9) / 10
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = DefaultMaxMessageSize
	}
	if o.InboundRate > 0 && o.InboundBurst <= 0 {
		o.InboundBurst = 1
	}
	return o
}

// Hub owns the connection registry and fans frames out to every display.
type Hub struct {
	opts      Options
	registry  *Registry
	snapshots SnapshotStore
	owners    OwnershipGranter
	upgrader  websocket.Upgrader

	// lifecycleMu orders attach against shutdown so every tracked pump is
	// added to wg before closeAllClients waits on it.
	lifecycleMu sync.Mutex
	stopping    atomic.Bool
	wg          sync.WaitGroup
}

// NewHub creates a hub. snapshots and owners receive inbound frames and may be
// nil, in which case those frames are logged and dropped.
func NewHub(opts Options, snapshots SnapshotStore, owners OwnershipGranter) *Hub {
	opts = opts.withDefaults()
	h := &Hub{
		opts:      opts,
		registry:  NewRegistry(),
		snapshots: snapshots,
		owners:    owners,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Registry exposes the connection registry.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	return h.registry.Len()
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) || strings.EqualFold(allowed, u.Host) {
			return true
		}
	}
	return false
}

// Broadcast sends msg to every registered connection concurrently and waits
// for all sends to finish. Connections that failed are unregistered and closed
// after the pass. Recipients counts successful sends only.
func (h *Hub) Broadcast(ctx context.Context, msg string) DeliveryResult {
	clients := h.registry.Snapshot()
	kind := FrameKind(msg)

	if len(clients) == 0 {
		metrics.RecordBroadcast(kind, 0, 0)
		logging.Ctx(ctx).Debug().Str("kind", kind).Msg("broadcast with no connected clients")
		return DeliveryResult{CommandSent: true}
	}

	errs := make([]error, len(clients))
	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func(i int, c *Client) {
			defer wg.Done()
			errs[i] = c.Send(msg)
		}(i, c)
	}
	wg.Wait()

	recipients := 0
	var failed []*Client
	for i, err := range errs {
		if err == nil {
			recipients++
			continue
		}
		failed = append(failed, clients[i])
		logging.Ctx(ctx).Warn().Err(err).
			Uint64("client_id", clients[i].id).
			Str("remote_addr", clients[i].remoteAddr).
			Msg("websocket send failed, pruning connection")
	}

	for _, c := range failed {
		if h.registry.Unregister(c) {
			metrics.WSPrunedConnections.Inc()
		}
		c.Close(websocket.CloseGoingAway, "")
	}

	metrics.RecordBroadcast(kind, recipients, len(failed))
	logging.Ctx(ctx).Debug().
		Str("kind", kind).
		Int("recipients", recipients).
		Int("pruned", len(failed)).
		Msg("broadcast delivered")

	return DeliveryResult{CommandSent: true, Recipients: recipients}
}

// ServeWS upgrades the request, registers the connection, starts the read and
// keepalive loops and asks the game for its fish list. Once the hub is stopping
// it answers 503 without upgrading.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.stopping.Load() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		logging.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	c := newClient(conn, conn, r.RemoteAddr, h.opts.WriteWait)
	if !h.attach(c) {
		// The hub stopped while this handshake was in flight.
		c.Close(websocket.CloseGoingAway, "server shutting down")
		return
	}

	go func() {
		defer h.wg.Done()
		c.keepalive(h.opts.PingPeriod)
	}()
	go func() {
		defer h.wg.Done()
		h.readPump(c)
	}()

	if err := c.Send(FrameRequestFishList); err != nil {
		logging.Warn().Err(err).Uint64("client_id", c.id).Msg("failed to request fish list")
		h.detach(c)
		return
	}
	metrics.WSMessagesSent.Inc()
}

// attach registers c and reserves its two pump goroutines. It refuses once the
// hub is stopping.
func (h *Hub) attach(c *Client) bool {
	h.lifecycleMu.Lock()
	if h.stopping.Load() {
		h.lifecycleMu.Unlock()
		return false
	}
	h.registry.Register(c)
	h.wg.Add(2)
	h.lifecycleMu.Unlock()

	logging.Info().
		Uint64("client_id", c.id).
		Str("remote_addr", c.remoteAddr).
		Int("total_clients", h.registry.Len()).
		Msg("websocket client connected")
	return true
}

func (h *Hub) detach(c *Client) {
	removed := h.registry.Unregister(c)
	c.Close(websocket.CloseNormalClosure, "")
	if removed {
		logging.Info().
			Uint64("client_id", c.id).
			Int("total_clients", h.registry.Len()).
			Msg("websocket client disconnected")
	}
}

// readPump reads frames until the connection fails, then unregisters it.
func (h *Hub) readPump(c *Client) {
	defer h.detach(c)

	ws := c.ws
	ws.SetReadLimit(h.opts.MaxMessageSize)
	if err := ws.SetReadDeadline(time.Now().Add(h.opts.PongWait)); err != nil {
		return
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	})

	var limiter *rate.Limiter
	if h.opts.InboundRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(h.opts.InboundRate), h.opts.InboundBurst)
	}

	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logging.Warn().Err(err).Uint64("client_id", c.id).Msg("websocket read error")
			}
			return
		}
		if msgType != websocket.TextMessage {
			metrics.WSMessagesReceived.WithLabelValues("binary").Inc()
			continue
		}
		if limiter != nil && !limiter.Allow() {
			metrics.WSMessagesReceived.WithLabelValues("rate_limited").Inc()
			logging.Warn().Uint64("client_id", c.id).Msg("inbound frame dropped by rate limit")
			continue
		}
		h.handleInbound(c, string(data))
	}
}

// handleInbound applies one frame from the game. Unknown frames change nothing.
func (h *Hub) handleInbound(c *Client, raw string) {
	frame, err := ParseInbound(raw)
	if err != nil {
		label := "malformed"
		if errors.Is(err, ErrUnknownFrame) {
			label = "unknown"
		}
		metrics.WSMessagesReceived.WithLabelValues(label).Inc()
		logging.Warn().Err(err).
			Uint64("client_id", c.id).
			Str("frame", logging.Sanitize(raw)).
			Msg("ignoring inbound frame")
		return
	}
	metrics.WSMessagesReceived.WithLabelValues(frame.Kind.String()).Inc()

	switch frame.Kind {
	case InboundFishData:
		if h.snapshots == nil {
			return
		}
		n, err := h.snapshots.ReplaceJSON([]byte(frame.Payload))
		if err != nil {
			metrics.FishSnapshotUpdates.WithLabelValues("rejected").Inc()
			logging.Warn().Err(err).Uint64("client_id", c.id).Msg("fish snapshot rejected, keeping previous")
			return
		}
		metrics.FishSnapshotUpdates.WithLabelValues("accepted").Inc()
		metrics.FishSnapshotSize.Set(float64(n))
		logging.Info().Int("fish", n).Uint64("client_id", c.id).Msg("fish snapshot updated")

	case InboundFishSpawned:
		if h.owners == nil {
			return
		}
		count := h.owners.Grant(frame.Payload)
		logging.Info().
			Str("owner", logging.Sanitize(frame.Payload)).
			Int("fish_owned", count).
			Msg("registered spawned fish")
	}
}

// RunWithContext blocks until ctx is done, then closes every connection and
// waits for their goroutines. Intended to run under suture.
func (h *Hub) RunWithContext(ctx context.Context) error {
	<-ctx.Done()
	h.logGracefulShutdown(ctx)
	return ctx.Err()
}

// logGracefulShutdown closes all clients and logs without an error field, since
// cancellation is the expected path here.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.registry.Len()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// closeAllClients stops accepting connections, closes the registered ones in
// id order and waits for their pumps.
func (h *Hub) closeAllClients() {
	h.lifecycleMu.Lock()
	h.stopping.Store(true)
	h.lifecycleMu.Unlock()

	for _, c := range h.registry.Snapshot() {
		h.registry.Unregister(c)
		c.Close(websocket.CloseGoingAway, "server shutting down")
	}
	h.wg.Wait()
}
