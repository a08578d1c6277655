// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package api

import (
	"net/http"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/fish"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/validation"
)

// FishResponse lists the fish a viewer may feed.
type FishResponse struct {
	Success bool          `json:"success"`
	Fish    []fish.Record `json:"fish"`
	Count   int           `json:"count"`
}

// HasFishResponse answers whether an identity has been granted a fish.
type HasFishResponse struct {
	HasFish  bool   `json:"has_fish"`
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// StatusResponse is the root summary.
type StatusResponse struct {
	Status           string `json:"status"`
	ConnectedClients int    `json:"connected_clients"`
	FishCount        int    `json:"fish_count"`
	Owners           int    `json:"owners"`
}

// Fish lists live, non-starter fish. Also served at /fish-list.
func (h *Handler) Fish(w http.ResponseWriter, r *http.Request) {
	available := h.deps.Fish.AvailableForFeeding()
	respondJSON(w, http.StatusOK, FishResponse{
		Success: true,
		Fish:    available,
		Count:   len(available),
	})
}

// HasFish reports whether the username was ever granted a fish.
func (h *Handler) HasFish(w http.ResponseWriter, r *http.Request) {
	req := HasFishRequest{Username: r.URL.Query().Get("username")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	count := h.deps.Owners.Count(req.Username)
	respondJSON(w, http.StatusOK, HasFishResponse{
		HasFish:  count > 0,
		Username: req.Username,
		Count:    count,
	})
}

// Status summarises the hub.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, StatusResponse{
		Status:           "server running",
		ConnectedClients: h.clientCount(),
		FishCount:        h.deps.Fish.Len(),
		Owners:           h.deps.Owners.Len(),
	})
}
