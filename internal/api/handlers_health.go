// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package api

import (
	"net/http"
	"time"
)

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondEnvelope(w, r, http.StatusOK, "success", map[string]interface{}{
		"alive":   true,
		"uptime":  time.Since(h.deps.StartTime).Seconds(),
		"version": h.deps.Version,
	})
}

// HealthReady returns 200 only when EventSub deliveries can be verified and
// the hub is attached. Direct commands work either way, but the webhook is
// the primary input.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	secretConfigured := h.deps.Verifier.Configured()
	hubAttached := h.deps.Hub != nil
	ready := secretConfigured && hubAttached

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	data := map[string]interface{}{
		"secret_configured": secretConfigured,
		"hub_attached":      hubAttached,
		"connected_clients": h.clientCount(),
		"fish_snapshot_age": snapshotAge(h.deps.Fish.UpdatedAt()),
		"ready_to_serve":    ready,
		"uptime":            time.Since(h.deps.StartTime).Seconds(),
	}
	if h.deps.Dedup != nil {
		data["eventsub_remembered_ids"] = h.deps.Dedup.Len()
		data["eventsub_duplicates"] = h.deps.Dedup.Duplicates()
	}
	respondEnvelope(w, r, statusCode, status, data)
}

// snapshotAge is seconds since the last snapshot, or -1 when none arrived.
func snapshotAge(updated time.Time) float64 {
	if updated.IsZero() {
		return -1
	}
	return time.Since(updated).Seconds()
}
