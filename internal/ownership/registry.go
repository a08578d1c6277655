// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

// Package ownership records which viewers have been granted a fish, either by
// redeeming the spawn reward, by subscribing, or by the game reporting a spawn.
//
// Counts only grow; there is no removal. State lives in memory only.
package ownership

import (
	"sync"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/metrics"
)

// Registry maps an identity (a display name) to its number of grants.
type Registry struct {
	mu     sync.RWMutex
	grants map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{grants: make(map[string]int)}
}

// Grant records one more fish for identity and returns the new count.
// An empty identity is ignored and yields 0.
func (r *Registry) Grant(identity string) int {
	if identity == "" {
		return 0
	}
	r.mu.Lock()
	r.grants[identity]++
	n := r.grants[identity]
	r.mu.Unlock()

	metrics.OwnershipGrants.Inc()
	return n
}

// HasAny reports whether identity has at least one grant.
func (r *Registry) HasAny(identity string) bool {
	return r.Count(identity) > 0
}

// Count returns the number of grants for identity.
func (r *Registry) Count(identity string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.grants[identity]
}

// Len returns the number of identities holding at least one grant.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.grants)
}
