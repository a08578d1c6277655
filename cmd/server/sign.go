// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame/internal/eventsub"
)

type signOptions struct {
	secret    string
	messageID string
	timestamp string
	file      string
}

// newSignCmd prints EventSub headers for a body, for replaying deliveries
// against a local hub with curl.
func newSignCmd() *cobra.Command {
	opts := &signOptions{}
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a webhook body the way Twitch EventSub does",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSign(cmd.InOrStdin(), cmd.OutOrStdout(), opts, time.Now)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.secret, "secret", os.Getenv("TWITCH_EVENTSUB_SECRET"), "EventSub secret (default $TWITCH_EVENTSUB_SECRET)")
	flags.StringVar(&opts.messageID, "id", "", "message id (random when empty)")
	flags.StringVar(&opts.timestamp, "timestamp", "", "RFC 3339 timestamp (now when empty)")
	flags.StringVar(&opts.file, "file", "-", "body file, - for stdin")
	return cmd
}

func runSign(stdin io.Reader, out io.Writer, opts *signOptions, now func() time.Time) error {
	if opts.secret == "" {
		return errors.New("a secret is required")
	}

	var body []byte
	var err error
	if opts.file == "" || opts.file == "-" {
		body, err = io.ReadAll(stdin)
	} else {
		body, err = os.ReadFile(opts.file)
	}
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	id := opts.messageID
	if id == "" {
		id = uuid.NewString()
	}
	ts := opts.timestamp
	if ts == "" {
		ts = now().UTC().Format(time.RFC3339Nano)
	}

	signature := eventsub.NewVerifier(opts.secret).Sign(body, id, ts)
	_, err = fmt.Fprintf(out, "%s: %s\n%s: %s\n%s: %s\n",
		eventsub.HeaderMessageID, id,
		eventsub.HeaderMessageTimestamp, ts,
		eventsub.HeaderMessageSignature, signature,
	)
	return err
}
