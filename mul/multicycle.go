package mul

import (
	"github.com/sarchlab/arithsim/stream"
	"github.com/sarchlab/arithsim/wide"
)

// MulticycleMul is an iterative shift-add multiplier retiring one multiplier
// bit per cycle.
//
// The accepting edge normalizes the operands and folds in bit 0, so results
// are available width cycles after acceptance, held on Outp until consumed.
// The partial product and the remaining multiplier bits advance in lockstep:
// each cycle consumes the lowest remaining bit and conditionally adds the
// correspondingly shifted multiplicand.
type MulticycleMul struct {
	// Inp is the operand stream.
	Inp stream.InPort[Inputs]

	// Outp is the result stream.
	Outp stream.OutPort[Outputs]

	width uint

	// stepsLeft counts remaining multiplier bits; zero means idle or
	// done.
	stepsLeft uint

	// addend is the normalized multiplicand.
	addend wide.Uint128

	// multBits holds the not-yet-consumed multiplier bits, shifted down
	// as they retire.
	multBits uint64

	acc      wide.Uint128
	sign     Sign
	outValid bool
	result   wide.Uint128
}

// NewMulticycleMul returns an iterative multiplier for the given operand
// width in bits.
func NewMulticycleMul(width uint) (*MulticycleMul, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	return &MulticycleMul{width: width}, nil
}

// Width returns the operand width in bits.
func (m *MulticycleMul) Width() uint { return m.width }

// In returns the operand port.
func (m *MulticycleMul) In() *stream.InPort[Inputs] { return &m.Inp }

// Out returns the result port.
func (m *MulticycleMul) Out() *stream.OutPort[Outputs] { return &m.Outp }

// Reset returns the multiplier to the idle state.
func (m *MulticycleMul) Reset() {
	*m = MulticycleMul{width: m.width}
}

// Tick advances the multiplier by one clock edge.
func (m *MulticycleMul) Tick() {
	outFired := m.outValid && m.Outp.Ready
	inReady := outFired || m.stepsLeft == 0
	inFired := inReady && m.Inp.Valid

	if outFired {
		m.outValid = false
	}

	switch {
	case inFired:
		op := normalize(m.Inp.Payload, m.width)
		m.sign = m.Inp.Payload.Sign
		m.addend = op.a
		m.acc = wide.Uint128{}
		if op.b&1 == 1 {
			m.acc = op.a
		}
		m.multBits = op.b >> 1
		m.stepsLeft = m.width - 1
		if m.stepsLeft == 0 {
			m.finish()
		}
	case m.stepsLeft > 0:
		shift := m.width - m.stepsLeft
		if m.multBits&1 == 1 {
			m.acc = m.acc.Add(m.addend.Shl(shift))
		}
		m.multBits >>= 1
		m.stepsLeft--
		if m.stepsLeft == 0 {
			m.finish()
		}
	}

	m.Outp.Valid = m.outValid
	m.Outp.Payload = Outputs{Sign: m.sign, O: m.result}
	m.Inp.Ready = m.Outp.Fired() || m.stepsLeft == 0
}

func (m *MulticycleMul) finish() {
	m.result = m.acc.Mask(2 * m.width)
	m.outValid = true
}
