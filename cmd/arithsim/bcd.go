package main

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/arithsim/base10"
	"github.com/sarchlab/arithsim/harness"
)

// bcdCmd runs a single binary-to-BCD conversion.
var bcdCmd = &cobra.Command{
	Use:   "bcd [flags] <x>",
	Short: "Convert a binary value to BCD through a simulated converter.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		width, _ := cmd.Flags().GetUint("width")
		entire, _ := cmd.Flags().GetBool("entire-range")

		limit := base10.LimitLargestPower10
		if entire {
			limit = base10.LimitEntireRange
		}

		x, err := parseOperand(args[0], width, false)
		exitOn(err)

		b, err := base10.NewBinaryToBCD(width, limit)
		exitOn(err)
		b.Reset()

		out, cycles, err := harness.Transfer(b, x, harness.DefaultConfig().MaxCycles)
		exitOn(err)

		var sb strings.Builder
		for i := int(b.NumDigits()) - 1; i >= 0; i-- {
			fmt.Fprintf(&sb, "%d", out[i])
		}
		fmt.Printf("digits = %s\n", sb.String())
		fmt.Printf("cycles = %d\n", cycles)

		log.WithFields(log.Fields{
			"width":  width,
			"digits": b.NumDigits(),
		}).Debug("bcd conversion done")
	},
}

func init() {
	bcdCmd.Flags().Uint("width", 20, "input width in bits")
	bcdCmd.Flags().Bool("entire-range", false,
		"require correctness over the entire input range")
	rootCmd.AddCommand(bcdCmd)
}
