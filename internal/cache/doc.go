// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

// Package cache provides the bounded, time-windowed set used to recognise
// redelivered EventSub messages by their Twitch-Eventsub-Message-Id.
//
// Twitch retries a notification until it sees a 2xx, so the same message id can
// arrive more than once. Executing it twice would charge a viewer's redemption
// twice in the game.
package cache
