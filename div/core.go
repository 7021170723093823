package div

import (
	"github.com/sarchlab/arithsim/stream"
	"github.com/sarchlab/arithsim/wide"
)

// divCore is an unsigned one-bit-per-cycle divider. MulticycleDiv wraps a
// core with quadrant bookkeeping to provide signed semantics.
type divCore interface {
	stream.Component

	In() *stream.InPort[Inputs]
	Out() *stream.OutPort[Outputs]
}

// restoringCore divides by trial subtraction. Dividend bits shift out of the
// top of low into the running remainder while quotient bits shift in at the
// bottom, so the two share one register file exactly as the datapath would.
// The remainder needs width+1 bits and lives in a Uint128.
type restoringCore struct {
	inp  stream.InPort[Inputs]
	outp stream.OutPort[Outputs]

	width uint

	// itersLeft counts remaining quotient bits; zero means idle or done.
	itersLeft uint

	// low shifts dividend bits out at bit width-1 and quotient bits in
	// at bit 0.
	low uint64

	// rem is the running remainder.
	rem wide.Uint128

	d    uint64
	sign Sign
}

func (c *restoringCore) In() *stream.InPort[Inputs]    { return &c.inp }
func (c *restoringCore) Out() *stream.OutPort[Outputs] { return &c.outp }

func (c *restoringCore) Reset() {
	*c = restoringCore{width: c.width}
}

func (c *restoringCore) Tick() {
	outFired := c.outp.Fired()
	inReady := outFired || c.itersLeft == 0
	inFired := inReady && c.inp.Valid

	if outFired {
		c.outp.Valid = false
	}

	mask := wide.Mask64(c.width)
	switch {
	case inFired:
		c.sign = c.inp.Payload.Sign
		c.d = c.inp.Payload.D & mask
		c.low = c.inp.Payload.N & mask
		c.rem = wide.Uint128{}
		c.itersLeft = c.width
	case c.itersLeft > 0:
		msb := c.low >> (c.width - 1) & 1
		c.low = c.low << 1 & mask
		c.rem = c.rem.Shl(1).Add64(msb)
		// A zero divisor never wins the comparison, so the quotient
		// fills with ones and the dividend falls through as the
		// remainder.
		if c.rem.Cmp(wide.From64(c.d)) >= 0 {
			c.rem = c.rem.Sub64(c.d)
			c.low |= 1
		}
		c.itersLeft--
		if c.itersLeft == 0 {
			c.outp.Valid = true
		}
	}

	c.outp.Payload = Outputs{Sign: c.sign, Q: c.low, R: c.rem.Lo & mask}
	c.inp.Ready = c.outp.Fired() || c.itersLeft == 0
}

// nonRestoringCore divides without undoing overdrawn subtractions: the
// running remainder is signed, each cycle adds or subtracts the divisor
// based on its sign, and a single restore cycle at the end converts the
// encoded quotient and fixes a negative remainder. The remainder needs
// width+2 bits and lives in a Uint128.
type nonRestoringCore struct {
	inp  stream.InPort[Inputs]
	outp stream.OutPort[Outputs]

	width uint

	itersLeft uint
	restoring bool

	// low shifts dividend bits out at bit width-1 and encoded quotient
	// bits in at bit 0.
	low uint64

	// s is the signed running remainder.
	s wide.Uint128

	d    uint64
	sign Sign
	q    uint64
	r    uint64
}

func (c *nonRestoringCore) In() *stream.InPort[Inputs]    { return &c.inp }
func (c *nonRestoringCore) Out() *stream.OutPort[Outputs] { return &c.outp }

func (c *nonRestoringCore) Reset() {
	*c = nonRestoringCore{width: c.width}
}

func (c *nonRestoringCore) Tick() {
	outFired := c.outp.Fired()
	inReady := outFired || (c.itersLeft == 0 && !c.restoring)
	inFired := inReady && c.inp.Valid

	if outFired {
		c.outp.Valid = false
	}

	mask := wide.Mask64(c.width)
	switch {
	case inFired:
		c.sign = c.inp.Payload.Sign
		c.d = c.inp.Payload.D & mask
		c.low = c.inp.Payload.N & mask
		c.s = wide.Uint128{}
		c.itersLeft = c.width
		c.restoring = false
	case c.itersLeft > 0:
		sNeg := c.s.IsNeg()
		msb := c.low >> (c.width - 1) & 1
		c.low = c.low << 1 & mask
		c.s = c.s.Shl(1).Add64(msb)
		if sNeg {
			c.s = c.s.Add64(c.d)
		} else {
			c.s = c.s.Sub64(c.d)
			c.low |= 1
		}
		c.itersLeft--
		if c.itersLeft == 0 {
			c.restoring = true
		}
	case c.restoring:
		// The encoded quotient has a 1 where the divisor was
		// subtracted and a 0 where it was added; the true quotient is
		// rawQ - ^rawQ, one less when the remainder ended negative.
		c.restoring = false
		rawQ := c.low
		c.q = (rawQ - (^rawQ & mask)) & mask
		if c.s.IsNeg() {
			c.q = (c.q - 1) & mask
			c.r = c.s.Add64(c.d).Lo & mask
		} else {
			c.r = c.s.Lo & mask
		}
		c.outp.Valid = true
	}

	c.outp.Payload = Outputs{Sign: c.sign, Q: c.q, R: c.r}
	c.inp.Ready = c.outp.Fired() || (c.itersLeft == 0 && !c.restoring)
}
