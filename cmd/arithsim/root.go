package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "arithsim",
	Short: "Cycle-accurate simulators for small arithmetic cores.",
	Long: `arithsim simulates fixed-width divider, multiplier, and
binary-to-BCD soft-cores one clock edge at a time, with exact latency and
handshake behavior.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetCount("verbose")
		switch {
		case verbose >= 2:
			log.SetLevel(log.TraceLevel)
		case verbose == 1:
			log.SetLevel(log.DebugLevel)
		default:
			log.SetLevel(log.WarnLevel)
		}
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().CountP(
		"verbose", "v", "increase logging verbosity (repeatable)")
}
