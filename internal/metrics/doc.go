// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

/*
Package metrics exposes the hub's Prometheus instrumentation.

Collectors are package-level promauto variables registered with the default
registry and served on GET /metrics.

# Families

  - api_*: HTTP request count, latency and in-flight requests
  - ws_*: live display connections, frames in/out, send failures, prunes
  - broadcast_*: fan-out passes and per-pass recipient counts
  - eventsub_*: webhook deliveries by message type and result
  - command_*: command outcomes by code and status
  - ownership_grants_total, fish_snapshot_*: game state updates
*/
package metrics
