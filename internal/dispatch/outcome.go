// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package dispatch

import (
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/websocket"
)

// Status is the result class of one routed event or command.
type Status string

const (
	StatusChallenge          Status = "challenge"
	StatusSent               Status = "sent"
	StatusExecuted           Status = "executed"
	StatusInsufficientPoints Status = "insufficient_points"
	StatusUnknownReward      Status = "unknown_reward"
	StatusUnknownCommand     Status = "unknown_command"
	StatusInvalidInput       Status = "invalid_input"
	StatusIgnored            Status = "ignored"
)

// Outcome describes what the router did. Fields that do not apply to a status
// are left zero and omitted from JSON.
type Outcome struct {
	Status    Status                    `json:"status"`
	Command   int                       `json:"button,omitempty"`
	Cost      int                       `json:"cost,omitempty"`
	Username  string                    `json:"username,omitempty"`
	FishIndex *int                      `json:"fish_index,omitempty"`
	FishName  string                    `json:"fish_name,omitempty"`
	Delivery  *websocket.DeliveryResult `json:"delivery,omitempty"`
	Required  int                       `json:"required,omitempty"`
	Has       *int                      `json:"has,omitempty"`
	Challenge string                    `json:"-"`
	Reason    string                    `json:"reason,omitempty"`
}

// Delivered reports whether a frame was broadcast.
func (o Outcome) Delivered() bool {
	return o.Delivery != nil && o.Delivery.CommandSent
}

// Recipients returns the number of displays that received the frame.
func (o Outcome) Recipients() int {
	if o.Delivery == nil {
		return 0
	}
	return o.Delivery.Recipients
}
