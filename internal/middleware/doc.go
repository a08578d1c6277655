// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

// Package middleware holds the hub's own HTTP middleware: request ids wired into
// the logging context, Prometheus request metrics and response security headers.
// CORS and rate limiting come from go-chi/cors and go-chi/httprate in package api.
package middleware
