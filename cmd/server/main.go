// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "fishtank-hub",
		Short:        "Routes Twitch EventSub and direct commands to fish tank displays",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newVersionCmd(),
		newSignCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write([]byte(version + "\n"))
			return err
		},
	}
}
