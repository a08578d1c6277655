// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package eventsub

// Request headers sent by Twitch on every delivery.
const (
	HeaderMessageID        = "Twitch-Eventsub-Message-Id"
	HeaderMessageTimestamp = "Twitch-Eventsub-Message-Timestamp"
	HeaderMessageSignature = "Twitch-Eventsub-Message-Signature"
	HeaderMessageType      = "Twitch-Eventsub-Message-Type"
	HeaderSubscriptionType = "Twitch-Eventsub-Subscription-Type"
)

// Values of HeaderMessageType.
const (
	MessageTypeVerification = "webhook_callback_verification"
	MessageTypeNotification = "notification"
	MessageTypeRevocation   = "revocation"
)

// Subscription types the hub acts on.
const (
	TypeChannelSubscribe = "channel.subscribe"
	TypeRewardRedemption = "channel.channel_points_custom_reward_redemption.add"
)

// SignaturePrefix precedes the hex digest in HeaderMessageSignature.
const SignaturePrefix = "sha256="
