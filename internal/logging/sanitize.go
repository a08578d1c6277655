// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package logging

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxLoggedValueLen caps any single chat-provided value in a log line.
const maxLoggedValueLen = 128

// Sanitize strips control characters (including CR/LF, to prevent forged log
// lines in console output) and truncates s to a bounded length on a rune
// boundary.
func Sanitize(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if len(cleaned) > maxLoggedValueLen {
		cut := maxLoggedValueLen
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		return cleaned[:cut] + "..."
	}
	return cleaned
}

// RedactSecret keeps only enough of a secret or signature to correlate log lines.
func RedactSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 12:
		return "[REDACTED]"
	default:
		return s[:4] + "..." + s[len(s)-4:]
	}
}
