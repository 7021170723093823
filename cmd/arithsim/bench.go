package main

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/arithsim/harness"
)

// benchCmd runs the benchmark suite over the standard component set.
var benchCmd = &cobra.Command{
	Use:   "bench [flags]",
	Short: "Measure latency and throughput of the simulated cores.",
	Long: `Run every core through the transaction harness and report cycle
counts, first-result latency, and cycles per transfer, human-readable or as
CSV.`,
	Run: func(cmd *cobra.Command, args []string) {
		csv, _ := cmd.Flags().GetBool("csv")
		transfers, _ := cmd.Flags().GetInt("transfers")
		seed, _ := cmd.Flags().GetInt64("seed")
		configPath, _ := cmd.Flags().GetString("config")

		cfg := harness.DefaultConfig()
		if configPath != "" {
			loaded, err := harness.LoadConfig(configPath)
			exitOn(err)
			cfg = loaded
		}
		if cmd.Flags().Changed("transfers") {
			cfg.Transfers = transfers
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		exitOn(cfg.Validate())

		h := harness.NewHarness(cfg)
		h.AddBenchmarks(harness.Defaults())
		results := h.RunAll()

		if csv {
			h.PrintCSV(results)
		} else {
			h.PrintResults(results)
		}
	},
}

func init() {
	benchCmd.Flags().Bool("csv", false, "output results in CSV format")
	benchCmd.Flags().Int("transfers", 256, "transactions per benchmark")
	benchCmd.Flags().Int64("seed", 1, "operand generator seed")
	benchCmd.Flags().String("config", "", "path to a harness config JSON file")
	rootCmd.AddCommand(benchCmd)
}
