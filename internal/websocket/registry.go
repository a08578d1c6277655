// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package websocket

import (
	"sort"
	"sync"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/metrics"
)

// Registry is the set of live connections.
type Registry struct {
	mu      sync.RWMutex
	clients map[uint64]*Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[uint64]*Client)}
}

// Register adds c. Registering the same client twice is a no-op.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	r.clients[c.id] = c
	n := len(r.clients)
	r.mu.Unlock()
	metrics.WSConnections.Set(float64(n))
}

// Unregister removes c and reports whether it was present. Idempotent, so the
// read pump and broadcast pruning can both call it.
func (r *Registry) Unregister(c *Client) bool {
	r.mu.Lock()
	_, ok := r.clients[c.id]
	delete(r.clients, c.id)
	n := len(r.clients)
	r.mu.Unlock()
	if ok {
		metrics.WSConnections.Set(float64(n))
	}
	return ok
}

// Snapshot returns the registered clients ordered by id. Later changes to the
// registry do not affect the returned slice.
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
