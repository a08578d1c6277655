// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package eventsub

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSignature means the delivery did not authenticate.
	ErrInvalidSignature = errors.New("invalid eventsub signature")

	// ErrStaleMessage means the delivery timestamp is outside the accepted window.
	ErrStaleMessage = errors.New("eventsub message timestamp outside accepted window")
)

// Verifier checks delivery signatures against one shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier returns a verifier for secret. With an empty secret every
// delivery fails verification.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Configured reports whether a secret is set.
func (v *Verifier) Configured() bool {
	return len(v.secret) > 0
}

// Sign returns the signature header value for a delivery.
func (v *Verifier) Sign(body []byte, messageID, timestamp string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(messageID))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature authenticates body under messageID and
// timestamp. Missing headers or an unset secret yield false.
func (v *Verifier) Verify(body []byte, signature, messageID, timestamp string) bool {
	if !v.Configured() || signature == "" || messageID == "" || timestamp == "" {
		return false
	}
	expected := v.Sign(body, messageID, timestamp)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CheckFreshness rejects timestamps older than maxAge (or more than maxAge in
// the future, which only a skewed or forged sender produces). maxAge <= 0
// disables the check.
func CheckFreshness(timestamp string, now time.Time, maxAge time.Duration) error {
	if maxAge <= 0 {
		return nil
	}
	sent, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return fmt.Errorf("%w: unparseable timestamp %q", ErrStaleMessage, timestamp)
	}
	age := now.Sub(sent)
	if age > maxAge || age < -maxAge {
		return fmt.Errorf("%w: age %s exceeds %s", ErrStaleMessage, age.Round(time.Second), maxAge)
	}
	return nil
}
