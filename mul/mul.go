// Package mul implements cycle-accurate integer multiplier cores.
//
// PipelinedMul finishes one multiply per cycle after a width-cycle fill;
// MulticycleMul trades throughput for area and retires one shift-add per
// cycle. Both produce a full 2*width-bit product and share the stream
// handshake: a multiply starts on the edge where Inp.Valid and Inp.Ready are
// both asserted, and the result holds on Outp until consumed.
package mul

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/arithsim/wide"
)

// Sign selects how a multiplier interprets its operands.
type Sign uint8

const (
	// Unsigned treats both operands as unsigned.
	Unsigned Sign = iota

	// Signed treats both operands as two's-complement.
	Signed

	// SignedUnsigned treats A as two's-complement and B as unsigned.
	// The low width bits of the product match an Unsigned multiply of
	// the same bit patterns.
	SignedUnsigned
)

// String returns the lowercase name of the sign mode.
func (s Sign) String() string {
	switch s {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	case SignedUnsigned:
		return "signed-unsigned"
	default:
		return "unknown"
	}
}

// Inputs is the payload accepted by a multiplier.
type Inputs struct {
	// Sign selects the interpretation of A and B for this transaction.
	Sign Sign

	// A is the multiplicand, in the low width bits.
	A uint64

	// B is the multiplier, in the low width bits.
	B uint64
}

// Outputs is the payload produced by a multiplier.
type Outputs struct {
	// Sign echoes the sign mode of the transaction that produced this
	// result.
	Sign Sign

	// O is the full 2*width-bit product, two's-complement when Sign is
	// not Unsigned.
	O wide.Uint128
}

const (
	minWidth = 1
	maxWidth = 64
)

func checkWidth(width uint) error {
	if width < minWidth || width > maxWidth {
		return errors.Errorf(
			"mul: width must be in [%d, %d], got %d",
			minWidth, maxWidth, width)
	}
	return nil
}

// operand holds a normalized multiplicand/multiplier pair.
//
// A negative signed multiplier is handled by negating both operands up
// front, so the shift-add loop only ever sees a non-negative multiplier.
// The multiplicand gains one bit in the process (negating the most negative
// value must not overflow) and is kept sign-extended to 128 bits.
type operand struct {
	a wide.Uint128
	b uint64
}

// normalize converts raw input bits into the shift-add form.
func normalize(p Inputs, width uint) operand {
	mask := wide.Mask64(width)
	a := p.A & mask
	b := p.B & mask

	if p.Sign == Signed && b>>(width-1)&1 == 1 {
		return operand{
			a: wide.SignExtend(a, width).Neg(),
			b: (^b + 1) & mask,
		}
	}
	if p.Sign == Unsigned {
		return operand{a: wide.From64(a), b: b}
	}
	return operand{a: wide.SignExtend(a, width), b: b}
}
