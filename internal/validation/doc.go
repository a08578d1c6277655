// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

// Package validation wraps go-playground/validator v10 behind a process-wide
// singleton and converts its field errors into API error details.
//
// Field names in messages come from the json tag, so errors name the field the
// caller actually sent (user_points, fish_index) rather than the Go field.
package validation
