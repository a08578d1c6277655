// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package websocket

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Outbound frame prefixes.
const (
	FrameButton          = "button"
	FrameFeedFish        = "feed_fish"
	FrameSubscription    = "subscription"
	FrameRequestFishList = "request:fish_list"
)

// Inbound frame prefixes.
const (
	prefixFishData    = "fish_data:"
	prefixFishSpawned = "fish_spawned:"
)

var (
	// ErrUnknownFrame means an inbound frame has no recognised prefix.
	ErrUnknownFrame = errors.New("unknown frame")

	// ErrMalformedFrame means a recognised prefix carried an unusable payload.
	ErrMalformedFrame = errors.New("malformed frame")
)

// InboundKind identifies a frame sent by the game.
type InboundKind int

const (
	// InboundFishData carries a JSON array of fish records.
	InboundFishData InboundKind = iota + 1
	// InboundFishSpawned announces that a fish was spawned for an identity.
	InboundFishSpawned
)

func (k InboundKind) String() string {
	switch k {
	case InboundFishData:
		return "fish_data"
	case InboundFishSpawned:
		return "fish_spawned"
	default:
		return "unknown"
	}
}

// InboundFrame is a parsed frame from the game.
type InboundFrame struct {
	Kind InboundKind
	// Payload is the JSON text for fish_data and the identity for fish_spawned.
	Payload string
}

// ParseInbound parses one text frame. Anything without a known prefix is
// rejected with ErrUnknownFrame and must not change any state.
func ParseInbound(frame string) (InboundFrame, error) {
	if rest, ok := strings.CutPrefix(frame, prefixFishData); ok {
		return InboundFrame{Kind: InboundFishData, Payload: rest}, nil
	}
	if rest, ok := strings.CutPrefix(frame, prefixFishSpawned); ok {
		identity, _, _ := strings.Cut(rest, ":")
		identity = strings.TrimSpace(identity)
		if identity == "" {
			return InboundFrame{}, fmt.Errorf("%w: fish_spawned without identity", ErrMalformedFrame)
		}
		return InboundFrame{Kind: InboundFishSpawned, Payload: identity}, nil
	}
	return InboundFrame{}, ErrUnknownFrame
}

// ButtonFrame builds "button:<code>:user:<name>".
func ButtonFrame(code int, username string) string {
	return FrameButton + ":" + strconv.Itoa(code) + ":user:" + username
}

// FeedFishFrame builds "feed_fish:<index>".
func FeedFishFrame(index int) string {
	return FrameFeedFish + ":" + strconv.Itoa(index)
}

// SubscriptionFrame builds "subscription:<name>:<tier>:<hp>".
func SubscriptionFrame(username, tier string, hp int) string {
	return FrameSubscription + ":" + username + ":" + tier + ":" + strconv.Itoa(hp)
}

// FrameKind returns the prefix of an outbound frame for metrics labels.
func FrameKind(frame string) string {
	switch {
	case strings.HasPrefix(frame, FrameButton+":"):
		return FrameButton
	case strings.HasPrefix(frame, FrameFeedFish+":"):
		return FrameFeedFish
	case strings.HasPrefix(frame, FrameSubscription+":"):
		return FrameSubscription
	case frame == FrameRequestFishList:
		return "request"
	default:
		return "other"
	}
}
