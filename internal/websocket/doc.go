// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

/*
Package websocket connects game display clients to the hub.

Every connected display receives every command frame. The package holds the
connection Registry, the Hub that fans frames out, and the text protocol
spoken with the game.

Architecture:

	┌──────────┐
	│   Hub    │ ← Broadcast(ctx, frame)
	└────┬─────┘
	     │ snapshot of Registry
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4

Broadcast sends to each client in its own goroutine and returns once every
send has finished. Clients whose send failed are removed after the pass, so a
dead display never blocks or fails a command.

Each client has one read pump and one keepalive pinger. All writes to a
client, pings included, share its write mutex.

Protocol:

Outbound frames:

	button:<code>:user:<name>
	feed_fish:<index>
	subscription:<name>:<tier>:<hp>
	request:fish_list          (sent once on connect)

Inbound frames:

	fish_data:<JSON array>     replaces the fish snapshot
	fish_spawned:<identity>    records fish ownership

Any other inbound frame is logged and ignored.

Shutdown:

RunWithContext blocks until its context ends, then closes every client with a
going-away close frame. It is registered as a suture service.
*/
package websocket
