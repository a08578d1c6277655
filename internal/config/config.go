// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package config

import (
	"fmt"
	"time"
)

// Config is the complete hub configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	EventSub  EventSubConfig  `koanf:"eventsub"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	Security  SecurityConfig  `koanf:"security"`
	Fish      FishConfig      `koanf:"fish"`
	Commands  CommandsConfig  `koanf:"commands"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// EventSubConfig holds Twitch EventSub webhook settings.
type EventSubConfig struct {
	// Secret is the HMAC key registered with the EventSub subscription.
	Secret string `koanf:"secret"`

	// MaxMessageAge rejects notifications whose timestamp is older than this.
	// Zero disables the check.
	MaxMessageAge time.Duration `koanf:"max_message_age"`

	// DedupWindow is how long a message id is remembered for replay detection.
	DedupWindow time.Duration `koanf:"dedup_window"`

	// DedupCapacity bounds the number of remembered message ids.
	DedupCapacity int `koanf:"dedup_capacity"`
}

// WebSocketConfig holds display client connection settings.
type WebSocketConfig struct {
	WriteWait      time.Duration `koanf:"write_wait"`
	PongWait       time.Duration `koanf:"pong_wait"`
	PingPeriod     time.Duration `koanf:"ping_period"`
	MaxMessageSize int64         `koanf:"max_message_size"`

	// InboundRate and InboundBurst limit frames read from one connection.
	InboundRate  float64 `koanf:"inbound_rate"`
	InboundBurst int     `koanf:"inbound_burst"`
}

// SecurityConfig holds CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// FishConfig controls the fish snapshot listing.
type FishConfig struct {
	// DemoFallback serves a fixed demo set while no snapshot has arrived.
	DemoFallback bool `koanf:"demo_fallback"`

	// StarterNames are never offered for feeding.
	StarterNames []string `koanf:"starter_names"`
}

// Unknown command policies.
const (
	UnknownCommandReject = "reject"
	UnknownCommandAllow  = "allow"
)

// CommandsConfig controls command dispatch.
type CommandsConfig struct {
	// UnknownPolicy is "reject" or "allow" for command codes outside the catalog.
	UnknownPolicy string `koanf:"unknown_policy"`

	// DefaultBalance is assumed when a direct command omits user_points.
	DefaultBalance int `koanf:"default_balance"`

	// Rewards overrides or extends the built-in reward id mapping.
	Rewards map[string]int `koanf:"rewards"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether production-only checks apply.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
