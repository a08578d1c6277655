// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package dispatch

import (
	"context"
	"strconv"
	"strings"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/catalog"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/eventsub"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/logging"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/metrics"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/websocket"
)

// Metric sources.
const (
	SourceEventSub = "eventsub"
	SourceDirect   = "direct"
)

// Defaults for direct commands.
const (
	DefaultUsername = "unknown"
	DefaultBalance  = 999999
)

// Broadcaster fans a frame out to every display.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg string) websocket.DeliveryResult
}

// OwnershipGranter records that an identity owns a fish.
type OwnershipGranter interface {
	Grant(identity string) int
}

// FishNamer resolves a snapshot index to a display name.
type FishNamer interface {
	NameOf(index int) string
}

// CommandRequest is a direct command from the HTTP API.
type CommandRequest struct {
	Code      int
	Balance   int
	UserID    string
	Username  string
	FishIndex *int
}

// Options configures a Router.
type Options struct {
	// AllowUnknownCommands lets direct commands with codes outside the catalog
	// through at cost 0 as generic button frames.
	AllowUnknownCommands bool
}

// Router turns verified events and direct commands into broadcasts and
// ownership grants.
type Router struct {
	catalog *catalog.Catalog
	hub     Broadcaster
	owners  OwnershipGranter
	fish    FishNamer
	opts    Options
}

// NewRouter creates a Router. fish may be nil, in which case every fish name
// resolves to "fish".
func NewRouter(cat *catalog.Catalog, hub Broadcaster, owners OwnershipGranter, fish FishNamer, opts Options) *Router {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Router{
		catalog: cat,
		hub:     hub,
		owners:  owners,
		fish:    fish,
		opts:    opts,
	}
}

// HandleEvent routes one authenticated EventSub event.
func (r *Router) HandleEvent(ctx context.Context, ev eventsub.Event) Outcome {
	switch e := ev.(type) {
	case eventsub.Challenge:
		return Outcome{Status: StatusChallenge, Challenge: e.Token}
	case eventsub.Subscription:
		return r.handleSubscription(ctx, e)
	case eventsub.Redemption:
		return r.handleRedemption(ctx, e)
	case eventsub.Revocation:
		logging.Ctx(ctx).Warn().
			Str("subscription_id", e.SubscriptionID).
			Str("subscription_type", e.SubscriptionType).
			Str("status", e.Status).
			Msg("eventsub subscription revoked")
		return Outcome{Status: StatusIgnored, Reason: "revoked"}
	case eventsub.Unsupported:
		logging.Ctx(ctx).Debug().Str("subscription_type", e.SubscriptionType).Msg("ignoring unsupported notification")
		return Outcome{Status: StatusIgnored, Reason: "unsupported subscription type"}
	default:
		return Outcome{Status: StatusIgnored, Reason: "unrecognised event"}
	}
}

func (r *Router) handleSubscription(ctx context.Context, e eventsub.Subscription) Outcome {
	hp := catalog.SubscriptionHP(e.Tier)
	delivery := r.hub.Broadcast(ctx, websocket.SubscriptionFrame(e.Username, e.Tier, hp))
	r.grant(e.Username)

	logging.Ctx(ctx).Info().
		Str("username", logging.Sanitize(e.Username)).
		Str("tier", catalog.TierName(e.Tier)).
		Int("hp", hp).
		Bool("gift", e.IsGift).
		Int("recipients", delivery.Recipients).
		Msg("subscription fish sent")

	return Outcome{
		Status:   StatusExecuted,
		Username: e.Username,
		Delivery: &delivery,
	}
}

func (r *Router) handleRedemption(ctx context.Context, e eventsub.Redemption) Outcome {
	code, ok := r.catalog.CommandForReward(e.RewardID)
	if !ok {
		logging.Ctx(ctx).Warn().
			Str("reward_id", e.RewardID).
			Str("reward_title", logging.Sanitize(e.RewardTitle)).
			Msg("unknown reward redeemed")
		metrics.RecordCommand(SourceEventSub, 0, string(StatusUnknownReward))
		return Outcome{Status: StatusUnknownReward, Username: e.Username, Reason: e.RewardID}
	}

	out := Outcome{Command: code, Username: e.Username}

	if code == catalog.FeedSpecificFish {
		index, err := parseFishIndex(e.UserInput)
		if err != nil {
			logging.Ctx(ctx).Warn().
				Str("user_input", logging.Sanitize(e.UserInput)).
				Str("username", logging.Sanitize(e.Username)).
				Msg("invalid fish index in redemption")
			metrics.RecordCommand(SourceEventSub, code, string(StatusInvalidInput))
			out.Status = StatusInvalidInput
			out.Reason = "fish index must be a non-negative integer"
			return out
		}
		out.FishIndex = &index
	}

	delivery := r.broadcastCommand(ctx, code, e.Username, out.FishIndex)
	out.Delivery = &delivery
	out.Status = StatusExecuted

	logging.Ctx(ctx).Info().
		Int("command", code).
		Str("username", logging.Sanitize(e.Username)).
		Int("recipients", delivery.Recipients).
		Msg("reward redeemed")
	metrics.RecordCommand(SourceEventSub, code, string(out.Status))
	return out
}

// ExecuteCommand routes a direct command.
func (r *Router) ExecuteCommand(ctx context.Context, req CommandRequest) Outcome {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = DefaultUsername
	}
	out := Outcome{Command: req.Code, Username: username}

	if _, known := r.catalog.Lookup(req.Code); !known && !r.opts.AllowUnknownCommands {
		metrics.RecordCommand(SourceDirect, req.Code, string(StatusUnknownCommand))
		out.Status = StatusUnknownCommand
		out.Reason = "unknown command " + strconv.Itoa(req.Code)
		return out
	}
	cost := r.catalog.CostOf(req.Code)
	out.Cost = cost

	if req.Balance < cost {
		metrics.RecordCommand(SourceDirect, req.Code, string(StatusInsufficientPoints))
		has := req.Balance
		out.Status = StatusInsufficientPoints
		out.Required = cost
		out.Has = &has
		return out
	}

	if req.FishIndex != nil && *req.FishIndex < 0 {
		metrics.RecordCommand(SourceDirect, req.Code, string(StatusInvalidInput))
		out.Status = StatusInvalidInput
		out.Reason = "fish index must be a non-negative integer"
		return out
	}

	var index *int
	if req.Code == catalog.FeedSpecificFish && req.FishIndex != nil {
		i := *req.FishIndex
		index = &i
		out.FishIndex = index
		out.FishName = r.fishName(i)
	}

	delivery := r.broadcastCommand(ctx, req.Code, username, index)
	out.Delivery = &delivery
	out.Status = StatusSent

	logging.Ctx(ctx).Info().
		Int("command", req.Code).
		Int("cost", out.Cost).
		Str("username", logging.Sanitize(username)).
		Int("recipients", delivery.Recipients).
		Msg("command sent")
	metrics.RecordCommand(SourceDirect, req.Code, string(out.Status))
	return out
}

// broadcastCommand sends feed_fish:<i> when index is set and
// button:<code>:user:<name> otherwise. Spawn grants ownership after the send.
func (r *Router) broadcastCommand(ctx context.Context, code int, username string, index *int) websocket.DeliveryResult {
	var delivery websocket.DeliveryResult
	if index != nil {
		delivery = r.hub.Broadcast(ctx, websocket.FeedFishFrame(*index))
	} else {
		delivery = r.hub.Broadcast(ctx, websocket.ButtonFrame(code, username))
	}
	if code == catalog.SpawnFish {
		r.grant(username)
	}
	return delivery
}

func (r *Router) grant(identity string) {
	if r.owners == nil {
		return
	}
	r.owners.Grant(identity)
}

func (r *Router) fishName(index int) string {
	if r.fish == nil {
		return "fish"
	}
	return r.fish.NameOf(index)
}

// parseFishIndex accepts a trimmed base-10 non-negative integer.
func parseFishIndex(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
