// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package api

// ButtonRequest is the optional JSON body of POST /button/{commandID}.
type ButtonRequest struct {
	UserPoints *int    `json:"user_points"`
	UserID     *string `json:"user_id" validate:"omitempty,max=64,frame_safe"`
	Username   *string `json:"username" validate:"omitempty,max=64,frame_safe,excludesall=:"`
	FishIndex  *int    `json:"fish_index"`
}

// HasFishRequest is the query of GET /has-fish.
type HasFishRequest struct {
	Username string `json:"username" validate:"required,max=64,frame_safe"`
}
