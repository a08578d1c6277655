// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

/*
Package api serves the hub's HTTP surface with a chi router.

Routes:

	GET  /ws                    display WebSocket (upgraded by the hub)
	POST /button/{commandID}    direct command
	POST /eventsub              Twitch EventSub webhook
	GET  /fish, /fish-list      feedable fish
	GET  /has-fish?username=    ownership lookup
	GET  /commands              command catalog
	GET  /                      status summary
	GET  /api/v1/health/live    liveness
	GET  /api/v1/health/ready   readiness
	GET  /metrics               Prometheus exposition

Game-facing routes keep the flat JSON bodies the game and overlay already
parse. Errors use the APIResponse envelope with a machine-readable code.

The webhook handler authenticates before it looks at the body: signature,
then message age, then replay window. Only then is the payload decoded and
handed to the dispatch router.
*/
package api
