package div

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/arithsim/stream"
	"github.com/sarchlab/arithsim/wide"
)

// divState is the control state of a MulticycleDiv.
type divState uint8

const (
	// stateIdle waits for an input transfer.
	stateIdle divState = iota

	// stateDivideIn hands the (possibly negated) operands to the
	// unsigned core.
	stateDivideIn

	// stateDivideLoop waits for the core and converts the result back to
	// the requested quadrant.
	stateDivideLoop

	// stateDivideOut holds the result until it is consumed.
	stateDivideOut
)

// MulticycleDiv is a restoring or non-restoring divider producing one
// quotient bit per cycle.
//
// Signed operands are converted to magnitudes before entering the unsigned
// core and the results converted back afterwards, which costs three extra
// cycles: results are available width+3 cycles after the accepting edge for
// a restoring core and width+4 for a non-restoring core. Throughput is one
// division per result.
//
// The divider follows RISC-V semantics at any width: dividing by zero
// returns an all-ones quotient and the dividend as the remainder, and the
// signed overflow case (most negative value divided by minus one) returns
// the dividend and a zero remainder.
type MulticycleDiv struct {
	// Inp is the operand stream.
	Inp stream.InPort[Inputs]

	// Outp is the result stream.
	Outp stream.OutPort[Outputs]

	width uint
	core  divCore

	state divState

	// quadN and quadD record the operand signs at acceptance and select
	// which results get negated on the way out. quadN is suppressed for
	// a zero divisor so the divide-by-zero bit patterns pass through
	// unchanged.
	quadN bool
	quadD bool

	coreIn Inputs
	result Outputs
}

// NewMulticycleDiv returns a divider for the given operand width in bits,
// using the given division algorithm.
func NewMulticycleDiv(width uint, impl Impl) (*MulticycleDiv, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}

	var core divCore
	switch impl {
	case Restoring:
		core = &restoringCore{width: width}
	case NonRestoring:
		core = &nonRestoringCore{width: width}
	default:
		return nil, errors.Errorf("div: unknown implementation %d", impl)
	}

	return &MulticycleDiv{width: width, core: core}, nil
}

// Width returns the operand width in bits.
func (d *MulticycleDiv) Width() uint { return d.width }

// In returns the operand port.
func (d *MulticycleDiv) In() *stream.InPort[Inputs] { return &d.Inp }

// Out returns the result port.
func (d *MulticycleDiv) Out() *stream.OutPort[Outputs] { return &d.Outp }

// Reset returns the divider and its core to the idle state.
func (d *MulticycleDiv) Reset() {
	d.core.Reset()
	d.state = stateIdle
	d.quadN = false
	d.quadD = false
	d.coreIn = Inputs{}
	d.result = Outputs{}
	d.Inp.Ready = false
	d.Outp.Valid = false
	d.Outp.Payload = Outputs{}
}

// Tick advances the divider by one clock edge.
func (d *MulticycleDiv) Tick() {
	// Drive the core's wires from this cycle's control state, and sample
	// its outputs before its own edge so both sides observe the same
	// clock.
	d.core.In().Valid = d.state == stateDivideIn
	d.core.In().Payload = d.coreIn
	d.core.Out().Ready = d.state == stateDivideLoop

	coreValid := d.core.Out().Valid
	coreOut := d.core.Out().Payload

	d.core.Tick()

	mask := wide.Mask64(d.width)
	switch d.state {
	case stateIdle:
		if d.Inp.Valid {
			p := d.Inp.Payload
			n := p.N & mask
			dv := p.D & mask
			nNeg := n>>(d.width-1)&1 == 1
			dNeg := dv>>(d.width-1)&1 == 1

			// Suppressing the sign conversion for a zero divisor
			// makes the all-ones quotient and pass-through
			// remainder come out of the unsigned core directly.
			d.quadN = nNeg && dv != 0
			d.quadD = dNeg

			in := Inputs{Sign: p.Sign, N: n, D: dv}
			if p.Sign == Signed {
				if d.quadN {
					in.N = negate(n, d.width)
				}
				if dNeg {
					in.D = negate(dv, d.width)
				}
			}
			d.coreIn = in
			d.state = stateDivideIn
		}

	case stateDivideIn:
		// The core is always idle here, so it accepted on this edge.
		d.state = stateDivideLoop

	case stateDivideLoop:
		if coreValid {
			out := coreOut
			if d.coreIn.Sign == Signed {
				switch {
				case d.quadN && !d.quadD:
					out.Q = negate(out.Q, d.width)
					out.R = negate(out.R, d.width)
				case !d.quadN && d.quadD:
					out.Q = negate(out.Q, d.width)
				case d.quadN && d.quadD:
					out.R = negate(out.R, d.width)
				}
			}
			d.result = out
			d.state = stateDivideOut
		}

	case stateDivideOut:
		if d.Outp.Ready {
			d.state = stateIdle
		}
	}

	d.Inp.Ready = d.state == stateIdle
	d.Outp.Valid = d.state == stateDivideOut
	d.Outp.Payload = d.result
}
