package mul

import (
	"github.com/sarchlab/arithsim/stream"
	"github.com/sarchlab/arithsim/wide"
)

// mulStage is one pipeline register of a PipelinedMul. Operands, sign tag,
// and valid bit travel with the partial product.
type mulStage struct {
	valid bool
	sign  Sign
	op    operand
	acc   wide.Uint128
}

// PipelinedMul is a width-stage shift-add multiplier.
//
// Stage 0 normalizes the operands and conditionally adds the multiplicand;
// stage i adds the multiplicand shifted left by i when bit i of the
// multiplier is set. Results appear on Outp width cycles after the accepting
// edge, one per cycle thereafter.
//
// Backpressure stalls the whole pipeline: while Outp.Valid is high and
// Outp.Ready is low every stage register holds its value and Inp.Ready is
// deasserted. Bubbles (cycles without a valid input) flow through and
// disappear at the output.
type PipelinedMul struct {
	// Inp is the operand stream.
	Inp stream.InPort[Inputs]

	// Outp is the result stream.
	Outp stream.OutPort[Outputs]

	width  uint
	stages []mulStage
}

// NewPipelinedMul returns a pipelined multiplier for the given operand
// width in bits.
func NewPipelinedMul(width uint) (*PipelinedMul, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	return &PipelinedMul{width: width, stages: make([]mulStage, width)}, nil
}

// Width returns the operand width in bits.
func (m *PipelinedMul) Width() uint { return m.width }

// In returns the operand port.
func (m *PipelinedMul) In() *stream.InPort[Inputs] { return &m.Inp }

// Out returns the result port.
func (m *PipelinedMul) Out() *stream.OutPort[Outputs] { return &m.Outp }

// Reset drains the pipeline.
func (m *PipelinedMul) Reset() {
	for i := range m.stages {
		m.stages[i] = mulStage{}
	}
	m.Inp.Ready = false
	m.Outp.Valid = false
	m.Outp.Payload = Outputs{}
}

// Tick advances the multiplier by one clock edge.
func (m *PipelinedMul) Tick() {
	stalled := m.Outp.Valid && !m.Outp.Ready
	if !stalled {
		// Advance back to front so stage i+1 latches what stage i
		// held before this edge.
		for i := int(m.width) - 1; i >= 1; i-- {
			prev := m.stages[i-1]
			next := prev
			if prev.op.b>>uint(i)&1 == 1 {
				next.acc = prev.acc.Add(prev.op.a.Shl(uint(i)))
			}
			m.stages[i] = next
		}
		m.stages[0] = m.inputStage()

		last := m.stages[m.width-1]
		m.Outp.Valid = last.valid
		m.Outp.Payload = Outputs{
			Sign: last.sign,
			O:    last.acc.Mask(2 * m.width),
		}
	}
	m.Inp.Ready = !m.Outp.Valid || m.Outp.Ready
}

// inputStage latches the offered operands, if any, into stage 0.
func (m *PipelinedMul) inputStage() mulStage {
	st := mulStage{valid: m.Inp.Valid, sign: m.Inp.Payload.Sign}
	if !st.valid {
		return mulStage{}
	}
	st.op = normalize(m.Inp.Payload, m.width)
	if st.op.b&1 == 1 {
		st.acc = st.op.a
	}
	return st
}
