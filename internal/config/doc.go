// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

/*
Package config loads and validates the hub configuration.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, config.yaml or config.yml
 3. Environment variables, mapped explicitly in envTransformFunc

Unmapped environment variables are ignored so unrelated process environment
cannot leak into the configuration.

# Environment Variables

	PORT / HTTP_PORT            server.port (default 8000)
	HTTP_HOST                   server.host (default 0.0.0.0)
	ENVIRONMENT                 server.environment (development | production)
	TWITCH_EVENTSUB_SECRET      eventsub.secret
	EVENTSUB_MAX_MESSAGE_AGE    eventsub.max_message_age (default 10m)
	CORS_ORIGINS                security.cors_origins (comma separated, default *)
	RATE_LIMIT_REQUESTS         security.rate_limit_reqs
	FISH_DEMO_FALLBACK          fish.demo_fallback (default false)
	UNKNOWN_COMMAND_POLICY      commands.unknown_policy (reject | allow)
	LOG_LEVEL, LOG_FORMAT       logging.level, logging.format

Reward id overrides can only be set from YAML:

	commands:
	  rewards:
	    f7a729bd-8c96-4d02-9239-df4af21621f2: 1
*/
package config
