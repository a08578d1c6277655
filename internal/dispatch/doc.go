// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

// Package dispatch decides what every verified EventSub event and direct
// command does: which frame is broadcast to the displays, whether fish
// ownership is granted, and the Outcome reported back to the caller.
//
// Input is validated before any side effect, so a rejected command never
// reaches a display.
package dispatch
