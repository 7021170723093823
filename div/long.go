package div

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/arithsim/stream"
	"github.com/sarchlab/arithsim/wide"
)

// LongDivider is a classic binary long divider, kept as a known-good
// reference for checking MulticycleDiv. It resolves one quotient bit per
// cycle from the most significant position down, so results are available
// width cycles after the accepting edge. It is sign-aware throughout rather
// than converting operands to magnitudes, dispatching each trial subtraction
// on the sign combination of the operands.
//
// RISC-V divide-by-zero and signed-overflow semantics hold exactly as for
// MulticycleDiv.
type LongDivider struct {
	// Inp is the operand stream.
	Inp stream.InPort[Inputs]

	// Outp is the result stream.
	Outp stream.OutPort[Outputs]

	width uint

	// itersLeft counts remaining trial subtractions; the first one
	// happens on the accepting edge itself.
	itersLeft uint

	quotient  wide.Uint128
	remainder wide.Uint128

	sign Sign
	d    uint64

	// nNeg and dNeg are the operand signs driving quadrant dispatch.
	// A signed negative dividend over a zero divisor is redirected to
	// the positive quadrant so the quotient accumulates positive powers
	// of two into the all-ones pattern.
	nNeg bool
	dNeg bool

	outValid bool
}

// NewLongDivider returns a reference divider for the given operand width in
// bits. The first trial subtraction is folded into the accepting edge, so
// the minimum width is 2.
func NewLongDivider(width uint) (*LongDivider, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	if width < 2 {
		return nil, errors.Errorf(
			"div: long divider needs width >= 2, got %d", width)
	}
	return &LongDivider{width: width}, nil
}

// Width returns the operand width in bits.
func (l *LongDivider) Width() uint { return l.width }

// In returns the operand port.
func (l *LongDivider) In() *stream.InPort[Inputs] { return &l.Inp }

// Out returns the result port.
func (l *LongDivider) Out() *stream.OutPort[Outputs] { return &l.Outp }

// Reset returns the divider to the idle state.
func (l *LongDivider) Reset() {
	*l = LongDivider{width: l.width}
}

// Tick advances the divider by one clock edge.
func (l *LongDivider) Tick() {
	outFired := l.outValid && l.Outp.Ready
	inReady := outFired || l.itersLeft == 0
	inFired := inReady && l.Inp.Valid

	if outFired {
		l.outValid = false
	}

	mask := wide.Mask64(l.width)
	switch {
	case inFired:
		p := l.Inp.Payload
		n := p.N & mask
		dv := p.D & mask

		l.sign = p.Sign
		l.d = dv
		l.nNeg = n>>(l.width-1)&1 == 1
		l.dNeg = dv>>(l.width-1)&1 == 1
		if p.Sign == Signed && dv == 0 && l.nNeg {
			l.nNeg = false
			l.dNeg = false
		}

		l.quotient = wide.Uint128{}
		l.remainder = l.extend(n)

		// First trial subtraction happens right here.
		l.trialSubtract(l.width - 1)
		l.itersLeft = l.width - 1

	case l.itersLeft > 0:
		l.trialSubtract(l.itersLeft - 1)
		l.itersLeft--
		if l.itersLeft == 0 {
			l.outValid = true
		}
	}

	l.Outp.Valid = l.outValid
	l.Outp.Payload = Outputs{
		Sign: l.sign,
		Q:    l.quotient.Lo & mask,
		R:    l.remainder.Lo & mask,
	}
	l.Inp.Ready = l.Outp.Fired() || l.itersLeft == 0
}

// trialSubtract attempts to remove divisor * 2^k from the running remainder,
// accumulating the matching (possibly negative) power of two into the
// quotient when the magnitude comparison allows it.
func (l *LongDivider) trialSubtract(k uint) {
	shifted := l.extend(l.d).Shl(k)
	if !l.magnitudeLE(shifted, l.remainder) {
		return
	}

	power := wide.From64(1).Shl(k)
	if l.sign == Signed && l.nNeg != l.dNeg {
		// Exactly one operand negative: the quotient collects
		// negative powers of two while the shifted divisor, which has
		// the dividend's opposite sign, is added to move the
		// remainder towards zero.
		l.quotient = l.quotient.Sub(power)
		l.remainder = l.remainder.Add(shifted)
	} else {
		l.quotient = l.quotient.Add(power)
		l.remainder = l.remainder.Sub(shifted)
	}
}

// magnitudeLE reports |divisor| <= |dividend|. Unsigned transactions compare
// raw values so a divisor shifted up to bit 127 cannot alias a negative
// number.
func (l *LongDivider) magnitudeLE(divisor, dividend wide.Uint128) bool {
	if l.sign == Signed {
		divisor = divisor.Abs()
		dividend = dividend.Abs()
	}
	return divisor.Cmp(dividend) <= 0
}

// extend widens a value to 128 bits under the transaction's sign mode.
func (l *LongDivider) extend(x uint64) wide.Uint128 {
	if l.sign == Signed {
		return wide.SignExtend(x, l.width)
	}
	return wide.From64(x & wide.Mask64(l.width))
}
