package main

import (
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/arithsim/harness"
	"github.com/sarchlab/arithsim/mul"
	"github.com/sarchlab/arithsim/wide"
)

// mulCmd runs a single multiplication through a multiplier core.
var mulCmd = &cobra.Command{
	Use:   "mul [flags] <a> <b>",
	Short: "Multiply two integers through a simulated multiplier core.",
	Long: `Multiply a by b through a cycle-accurate multiplier and report
the full double-width product and how many cycles it took. The sign mode
selects unsigned, signed, or signed-by-unsigned interpretation.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		width, _ := cmd.Flags().GetUint("width")
		signName, _ := cmd.Flags().GetString("sign")
		pipelined, _ := cmd.Flags().GetBool("pipelined")

		var sign mul.Sign
		switch signName {
		case "unsigned":
			sign = mul.Unsigned
		case "signed":
			sign = mul.Signed
		case "signed-unsigned":
			sign = mul.SignedUnsigned
		default:
			log.Fatalf("unknown sign mode %q", signName)
		}

		a, err := parseOperand(args[0], width, sign != mul.Unsigned)
		exitOn(err)
		b, err := parseOperand(args[1], width, sign == mul.Signed)
		exitOn(err)

		in := mul.Inputs{Sign: sign, A: a, B: b}
		maxCycles := harness.DefaultConfig().MaxCycles

		var out mul.Outputs
		var cycles uint64
		if pipelined {
			m, err := mul.NewPipelinedMul(width)
			exitOn(err)
			m.Reset()
			out, cycles, err = harness.Transfer(m, in, maxCycles)
			exitOn(err)
		} else {
			m, err := mul.NewMulticycleMul(width)
			exitOn(err)
			m.Reset()
			out, cycles, err = harness.Transfer(m, in, maxCycles)
			exitOn(err)
		}

		fmt.Printf("o = %s\n", formatProduct(out.O, width, sign))
		fmt.Printf("cycles = %d\n", cycles)
	},
}

// formatProduct renders a 2*width-bit product in decimal under the
// transaction's sign mode.
func formatProduct(o wide.Uint128, width uint, sign mul.Sign) string {
	v := new(big.Int).SetUint64(o.Hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(o.Lo))

	if sign != mul.Unsigned && o.Bit(2*width-1) == 1 {
		mod := new(big.Int).Lsh(big.NewInt(1), 2*width)
		v.Sub(v, mod)
	}
	return v.String()
}

func init() {
	mulCmd.Flags().Uint("width", 32, "operand width in bits")
	mulCmd.Flags().String("sign", "unsigned",
		"sign mode: unsigned, signed, or signed-unsigned")
	mulCmd.Flags().Bool("pipelined", false,
		"use the pipelined multiplier instead of the multicycle one")
	rootCmd.AddCommand(mulCmd)
}
