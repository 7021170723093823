package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/arithsim/div"
	"github.com/sarchlab/arithsim/harness"
	"github.com/sarchlab/arithsim/wide"
)

// divCmd runs a single division through a divider core.
var divCmd = &cobra.Command{
	Use:   "div [flags] <n> <d>",
	Short: "Divide two integers through a simulated divider core.",
	Long: `Divide n by d through a cycle-accurate divider and report the
quotient, the remainder, and how many cycles the division took. RISC-V
semantics apply: dividing by zero yields an all-ones quotient and the
dividend as the remainder.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		width, _ := cmd.Flags().GetUint("width")
		signed, _ := cmd.Flags().GetBool("signed")
		implName, _ := cmd.Flags().GetString("impl")

		sign := div.Unsigned
		if signed {
			sign = div.Signed
		}

		n, err := parseOperand(args[0], width, signed)
		exitOn(err)
		d, err := parseOperand(args[1], width, signed)
		exitOn(err)

		out, cycles, err := runDivide(width, implName, div.Inputs{
			Sign: sign,
			N:    n,
			D:    d,
		})
		exitOn(err)

		if signed {
			fmt.Printf("q = %d\n", wide.ToSigned(out.Q, width))
			fmt.Printf("r = %d\n", wide.ToSigned(out.R, width))
		} else {
			fmt.Printf("q = %d\n", out.Q)
			fmt.Printf("r = %d\n", out.R)
		}
		fmt.Printf("cycles = %d\n", cycles)
	},
}

func runDivide(
	width uint,
	implName string,
	in div.Inputs,
) (div.Outputs, uint64, error) {
	if implName == "long" {
		d, err := div.NewLongDivider(width)
		if err != nil {
			return div.Outputs{}, 0, err
		}
		d.Reset()
		return harness.Transfer(d, in, harness.DefaultConfig().MaxCycles)
	}

	var impl div.Impl
	switch implName {
	case "restoring":
		impl = div.Restoring
	case "non-restoring":
		impl = div.NonRestoring
	default:
		log.Fatalf("unknown divider implementation %q", implName)
	}

	d, err := div.NewMulticycleDiv(width, impl)
	if err != nil {
		return div.Outputs{}, 0, err
	}
	d.Reset()
	return harness.Transfer(d, in, harness.DefaultConfig().MaxCycles)
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	divCmd.Flags().Uint("width", 32, "operand width in bits")
	divCmd.Flags().Bool("signed", false, "treat operands as signed")
	divCmd.Flags().String("impl", "restoring",
		"divider implementation: restoring, non-restoring, or long")
	rootCmd.AddCommand(divCmd)
}
