// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package api

import (
	"net/http"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/dispatch"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/eventsub"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/logging"
	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/metrics"
)

// EventSub result labels.
const (
	resultForbidden = "forbidden"
	resultStale     = "stale"
	resultDuplicate = "duplicate"
	resultMalformed = "malformed"
)

// EventSub handles a Twitch webhook delivery.
//
// Order: read body, require all four headers, verify the HMAC, check message
// age, decode, drop replays, route. Nothing is broadcast before the signature
// has been verified.
func (h *Handler) EventSub(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, h.cfg.MaxBodyBytes)
	if err != nil {
		respondBodyError(w, r, err)
		return
	}

	messageID := r.Header.Get(eventsub.HeaderMessageID)
	timestamp := r.Header.Get(eventsub.HeaderMessageTimestamp)
	signature := r.Header.Get(eventsub.HeaderMessageSignature)
	messageType := r.Header.Get(eventsub.HeaderMessageType)

	log := logging.Ctx(r.Context()).With().
		Str("message_id", logging.Sanitize(messageID)).
		Str("message_type", logging.Sanitize(messageType)).
		Logger()

	if messageID == "" || timestamp == "" || signature == "" || messageType == "" {
		metrics.RecordEventSub(messageType, resultForbidden)
		log.Warn().Msg("eventsub delivery missing required headers")
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, "Invalid signature", nil)
		return
	}

	if !h.deps.Verifier.Verify(body, signature, messageID, timestamp) {
		metrics.RecordEventSub(messageType, resultForbidden)
		log.Warn().
			Str("signature", logging.RedactSecret(signature)).
			Msg("eventsub signature verification failed")
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, "Invalid signature", nil)
		return
	}

	if err := eventsub.CheckFreshness(timestamp, h.now(), h.cfg.MaxMessageAge); err != nil {
		metrics.RecordEventSub(messageType, resultStale)
		log.Warn().Err(err).Msg("eventsub delivery rejected as stale")
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, "Message too old", nil)
		return
	}

	ev, err := eventsub.Decode(messageType, body)
	if err != nil {
		metrics.RecordEventSub(messageType, resultMalformed)
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Malformed EventSub payload", err)
		return
	}

	log = log.With().Str("event", eventsub.Kind(ev)).Logger()

	if h.deps.Dedup != nil && h.deps.Dedup.IsDuplicate(messageID) {
		metrics.RecordEventSub(messageType, resultDuplicate)
		log.Info().Msg("duplicate eventsub delivery ignored")
		respondJSON(w, http.StatusOK, map[string]string{"status": resultDuplicate})
		return
	}

	out := h.deps.Router.HandleEvent(r.Context(), ev)
	metrics.RecordEventSub(messageType, string(out.Status))

	switch {
	case out.Status == dispatch.StatusChallenge:
		log.Info().Msg("eventsub webhook verification answered")
		respondText(w, http.StatusOK, out.Challenge)
	case messageType == eventsub.MessageTypeRevocation:
		w.WriteHeader(http.StatusNoContent)
	default:
		log.Debug().Str("status", string(out.Status)).Msg("eventsub delivery handled")
		respondJSON(w, http.StatusOK, out)
	}
}
