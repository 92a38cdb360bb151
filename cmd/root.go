// SPDX-License-Identifier: MIT

package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bambu-monitor",
	Short: "Bambu Lab P1S printer monitor",
	Long: `Monitor and control a Bambu Lab P1S printer over its local MQTT broker.

The printer is configured through the environment (or a .env file in the
working directory):

  BAMBU_IP           printer IP address (required)
  BAMBU_SERIAL       printer serial number (required)
  BAMBU_ACCESS_CODE  LAN access code; prompted interactively if not set
  BAMBU_DEBUG        optional path for a raw report dump file

An access code flag is intentionally not provided to avoid leaking
credentials in shell history.

Running without a subcommand starts the interactive terminal monitor.`,
	Version: "1.2.0",
	RunE:    runMonitor,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
