// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

/*
Command fishtank-hub bridges Twitch EventSub webhooks and direct HTTP
commands to the fish tank game's WebSocket displays.

# Application Architecture

	RootSupervisor ("fishtank-hub")
	├── DataSupervisor ("data-layer")
	│   └── EventSub replay window janitor
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket hub (display connections)
	└── APISupervisor ("api-layer")
	    └── HTTP server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 defaults, optional config.yaml, environment
 2. Logging: zerolog, JSON or console
 3. Command catalog with configured reward overrides
 4. Fish snapshot cache, ownership registry, replay window
 5. WebSocket hub and command router
 6. HTTP handlers and chi middleware
 7. Supervisor tree, run until SIGINT or SIGTERM

# Commands

	fishtank-hub            run the hub (same as serve)
	fishtank-hub serve      run the hub
	fishtank-hub version    print the build version
	fishtank-hub sign       print EventSub headers for a request body

# Configuration

Common environment variables:

	PORT                      listen port (default 8000)
	TWITCH_EVENTSUB_SECRET    HMAC secret registered with Twitch
	CORS_ORIGINS              comma separated, * for any
	UNKNOWN_COMMAND_POLICY    reject (default) or allow
	FISH_DEMO_FALLBACK        serve demo fish before the first snapshot
	LOG_LEVEL, LOG_FORMAT     zerolog settings

# Example

Replay a signed subscription notification against a local hub:

	export TWITCH_EVENTSUB_SECRET=dev-secret
	fishtank-hub sign --file sub.json > headers.txt
	curl -X POST localhost:8000/eventsub \
	  -H "Twitch-Eventsub-Message-Type: notification" \
	  -H @headers.txt --data-binary @sub.json

The process exits non-zero when the listener cannot bind its port.
*/
package main
