// Package div implements cycle-accurate integer divider cores.
//
// Two components are exported. MulticycleDiv is a quotient/remainder divider
// with RISC-V semantics: restoring or non-restoring, one bit per cycle, with
// signed operands handled by quadrant bookkeeping around an unsigned core.
// LongDivider is a slower reference divider built around a magnitude
// comparator; it produces identical results and serves as an oracle for the
// multicycle implementations.
//
// Both follow the stream handshake: a division starts on the edge where
// Inp.Valid and Inp.Ready are both asserted, and the result is held on Outp
// until Outp.Ready consumes it.
package div

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/arithsim/wide"
)

// Sign selects how a divider interprets its operands.
type Sign uint8

const (
	// Unsigned treats both operands as unsigned.
	Unsigned Sign = iota

	// Signed treats both operands as two's-complement.
	Signed
)

// String returns the lowercase name of the sign mode.
func (s Sign) String() string {
	switch s {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	default:
		return "unknown"
	}
}

// Impl selects the division algorithm of a MulticycleDiv.
type Impl uint8

const (
	// Restoring subtracts the divisor and undoes the subtraction when it
	// overdraws. Latency width+3 cycles from the accepting edge.
	Restoring Impl = iota

	// NonRestoring alternates add and subtract on the running remainder's
	// sign and fixes up the result in one extra cycle. Latency width+4.
	NonRestoring
)

// String returns the lowercase name of the implementation.
func (i Impl) String() string {
	switch i {
	case Restoring:
		return "restoring"
	case NonRestoring:
		return "non-restoring"
	default:
		return "unknown"
	}
}

// Inputs is the payload accepted by a divider.
type Inputs struct {
	// Sign selects the interpretation of N and D for this transaction.
	Sign Sign

	// N is the dividend, in the low width bits.
	N uint64

	// D is the divisor, in the low width bits.
	D uint64
}

// Outputs is the payload produced by a divider.
type Outputs struct {
	// Sign echoes the sign mode of the transaction that produced this
	// result.
	Sign Sign

	// Q is the quotient, in the low width bits. Division by zero yields
	// all ones; signed most-negative by minus-one yields the dividend.
	Q uint64

	// R is the remainder, in the low width bits. Its sign follows the
	// dividend. Division by zero yields the dividend.
	R uint64
}

const (
	minWidth = 1
	maxWidth = 64
)

func checkWidth(width uint) error {
	if width < minWidth || width > maxWidth {
		return errors.Errorf(
			"div: width must be in [%d, %d], got %d",
			minWidth, maxWidth, width)
	}
	return nil
}

// negate returns -x truncated to width bits.
func negate(x uint64, width uint) uint64 {
	return (^x + 1) & wide.Mask64(width)
}
