// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package eventsub

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrMalformedPayload means an authenticated body could not be decoded into an event.
var ErrMalformedPayload = errors.New("malformed eventsub payload")

// Event is one decoded delivery. The concrete type is one of Challenge,
// Subscription, Redemption, Revocation or Unsupported.
type Event interface {
	eventKind() string
}

// Challenge asks the endpoint to echo Token to confirm ownership.
type Challenge struct {
	Token string
}

// Subscription is a channel.subscribe notification.
type Subscription struct {
	Username string
	UserID   string
	Tier     string
	IsGift   bool
}

// Redemption is a channel points custom reward redemption.
type Redemption struct {
	RedemptionID string
	RewardID     string
	RewardTitle  string
	Username     string
	UserID       string
	UserInput    string
}

// Revocation reports that Twitch stopped delivering a subscription.
type Revocation struct {
	SubscriptionID   string
	SubscriptionType string
	Status           string
}

// Unsupported is a notification of a type the hub does not act on.
type Unsupported struct {
	SubscriptionType string
}

func (Challenge) eventKind() string    { return "challenge" }
func (Subscription) eventKind() string { return "subscription" }
func (Redemption) eventKind() string   { return "redemption" }
func (Revocation) eventKind() string   { return "revocation" }
func (Unsupported) eventKind() string  { return "unsupported" }

// Kind returns a short label for logs and metrics.
func Kind(e Event) string {
	if e == nil {
		return "none"
	}
	return e.eventKind()
}

type subscriptionMeta struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type envelope struct {
	Challenge    string           `json:"challenge"`
	Subscription subscriptionMeta `json:"subscription"`
	Event        json.RawMessage  `json:"event"`
}

type subscribeEvent struct {
	UserID    string `json:"user_id"`
	UserLogin string `json:"user_login"`
	UserName  string `json:"user_name"`
	Tier      string `json:"tier"`
	IsGift    bool   `json:"is_gift"`
}

type redemptionEvent struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserLogin string `json:"user_login"`
	UserName  string `json:"user_name"`
	UserInput string `json:"user_input"`
	Reward    struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Cost  int    `json:"cost"`
	} `json:"reward"`
}

// Decode interprets an authenticated body according to its message type header.
func Decode(messageType string, body []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	switch messageType {
	case MessageTypeVerification:
		if env.Challenge == "" {
			return nil, fmt.Errorf("%w: verification without challenge", ErrMalformedPayload)
		}
		return Challenge{Token: env.Challenge}, nil

	case MessageTypeRevocation:
		return Revocation{
			SubscriptionID:   env.Subscription.ID,
			SubscriptionType: env.Subscription.Type,
			Status:           env.Subscription.Status,
		}, nil

	case MessageTypeNotification:
		return decodeNotification(&env)

	default:
		return nil, fmt.Errorf("%w: unknown message type %q", ErrMalformedPayload, messageType)
	}
}

func decodeNotification(env *envelope) (Event, error) {
	switch env.Subscription.Type {
	case TypeChannelSubscribe:
		var ev subscribeEvent
		if err := decodeEvent(env.Event, &ev); err != nil {
			return nil, err
		}
		if ev.UserName == "" {
			return nil, fmt.Errorf("%w: subscription without user_name", ErrMalformedPayload)
		}
		return Subscription{Username: ev.UserName, UserID: ev.UserID, Tier: ev.Tier, IsGift: ev.IsGift}, nil

	case TypeRewardRedemption:
		var ev redemptionEvent
		if err := decodeEvent(env.Event, &ev); err != nil {
			return nil, err
		}
		if ev.Reward.ID == "" || ev.UserName == "" {
			return nil, fmt.Errorf("%w: redemption without reward.id or user_name", ErrMalformedPayload)
		}
		return Redemption{
			RedemptionID: ev.ID,
			RewardID:     ev.Reward.ID,
			RewardTitle:  ev.Reward.Title,
			Username:     ev.UserName,
			UserID:       ev.UserID,
			UserInput:    ev.UserInput,
		}, nil

	default:
		return Unsupported{SubscriptionType: env.Subscription.Type}, nil
	}
}

func decodeEvent(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("%w: notification without event", ErrMalformedPayload)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
