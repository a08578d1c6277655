// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

/*
Package eventsub authenticates and decodes Twitch EventSub webhook deliveries.

# Signature

Twitch signs every delivery with the secret given when the subscription was
created:

	Twitch-Eventsub-Message-Signature: sha256=<hex(HMAC-SHA256(secret, id + timestamp + body))>

[Verifier.Verify] recomputes the digest over the raw body bytes and compares in
constant time. It never returns an error: any missing input is simply "not
authentic".

# Events

[Decode] turns an authenticated body into one of the [Event] variants:

  - [Challenge]: webhook_callback_verification, echo the token
  - [Subscription]: channel.subscribe notification
  - [Redemption]: channel.channel_points_custom_reward_redemption.add notification
  - [Revocation]: Twitch revoked the subscription
  - [Unsupported]: any other notification type
*/
package eventsub
