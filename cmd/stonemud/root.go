// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the StoneMUD CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stonemud",
		Short: "StoneMUD - A modern MUD platform",
		Long: `StoneMUD is a modern MUD platform. This binary hosts the command
framework core: registration, dispatch, and tab completion.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())

	return cmd
}
