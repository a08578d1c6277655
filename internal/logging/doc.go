// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

// Package logging provides the process-wide zerolog logger for the fish tank hub.
//
// Every package logs through this one: the HTTP surface, the EventSub webhook,
// the WebSocket hub and the supervisor tree (through the slog adapter).
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("clients", n).Msg("Broadcast delivered")
//	logging.Ctx(ctx).Warn().Str("reward_id", id).Msg("Unknown reward redeemed")
//
// Viewer names and free-text redemption input come from chat, so they go
// through [Sanitize] before they reach a log line.
//
// # Configuration
//
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
package logging
