// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/logging"
)

// ErrMissingSecret is returned in production when no EventSub secret is configured.
var ErrMissingSecret = errors.New("TWITCH_EVENTSUB_SECRET is required in production")

// Validate checks the configuration for values the hub cannot run with.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateEventSub(); err != nil {
		return err
	}
	if err := c.validateWebSocket(); err != nil {
		return err
	}
	if err := c.validateCommands(); err != nil {
		return err
	}
	return c.validateLogging()
}

// Warnings lists non-fatal problems worth logging at startup.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.EventSub.Secret == "" || c.EventSub.Secret == PlaceholderSecret {
		warnings = append(warnings, "TWITCH_EVENTSUB_SECRET is not set; every EventSub delivery will be rejected")
	}
	if c.Fish.DemoFallback {
		warnings = append(warnings, "demo fish fallback is enabled; /fish serves placeholder fish until a snapshot arrives")
	}
	if c.Commands.UnknownPolicy == UnknownCommandAllow {
		warnings = append(warnings, "unknown command codes are accepted at cost 0")
	}
	return warnings
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("server.environment must be development, production or test, got %q", c.Server.Environment)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}
	return nil
}

func (c *Config) validateEventSub() error {
	if c.IsProduction() && (c.EventSub.Secret == "" || c.EventSub.Secret == PlaceholderSecret) {
		return ErrMissingSecret
	}
	if c.EventSub.MaxMessageAge < 0 {
		return fmt.Errorf("eventsub.max_message_age must not be negative")
	}
	if c.EventSub.DedupCapacity < 1 {
		return fmt.Errorf("eventsub.dedup_capacity must be at least 1, got %d", c.EventSub.DedupCapacity)
	}
	return nil
}

func (c *Config) validateWebSocket() error {
	ws := c.WebSocket
	if ws.PongWait <= 0 || ws.PingPeriod <= 0 || ws.WriteWait <= 0 {
		return fmt.Errorf("websocket timings must be positive")
	}
	if ws.PingPeriod >= ws.PongWait {
		return fmt.Errorf("websocket.ping_period (%s) must be shorter than websocket.pong_wait (%s)", ws.PingPeriod, ws.PongWait)
	}
	if ws.MaxMessageSize <= 0 {
		return fmt.Errorf("websocket.max_message_size must be positive")
	}
	return nil
}

func (c *Config) validateCommands() error {
	c.Commands.UnknownPolicy = strings.ToLower(strings.TrimSpace(c.Commands.UnknownPolicy))
	switch c.Commands.UnknownPolicy {
	case UnknownCommandReject, UnknownCommandAllow:
	default:
		return fmt.Errorf("commands.unknown_policy must be %q or %q, got %q",
			UnknownCommandReject, UnknownCommandAllow, c.Commands.UnknownPolicy)
	}
	for id, code := range c.Commands.Rewards {
		if code < 1 {
			return fmt.Errorf("commands.rewards[%s] must map to a positive command code, got %d", id, code)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
}
