// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

/*
Package services provides suture.Service wrappers for the hub's long-running
components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve(ctx) error and names itself through fmt.Stringer for log messages.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - A listener bind failure terminates the whole tree

WebSocket Hub (WebSocketHubService):
  - Delegates to websocket.Hub.RunWithContext
  - Closes every display connection on shutdown

Replay Window Janitor (DedupJanitorService):
  - Periodically evicts expired EventSub message ids
*/
package services
