package base10

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/arithsim/stream"
)

// b2ToB1000 converts a 20-bit binary value into two base-1000 digits over a
// 3-stage pipeline, after Neto and Vestias, "Decimal multiplier on FPGA
// using embedded binary multipliers" (FPL 2008).
//
// With the input split as x = 1024*hi + lo, stage 1 computes c = 24*hi + lo
// (because 1024 = 1000 + 24), stage 2 repeats the trick on c for a digit
// guess pair, and stage 3 corrects a digit-0 overflow by adding 24, which is
// congruent to subtracting 1000 modulo 2^10, and carrying one into digit 1.
// Digit 1 is kept in 10 bits, so inputs above 999999 truncate.
type b2ToB1000 struct {
	inp  stream.InPort[uint64]
	outp stream.OutPort[[2]uint16]

	// Stage registers. valid[0] and valid[1] track stages 1 and 2; the
	// output register's valid bit lives on the port.
	b2    uint16
	c     uint16
	d0    uint16
	d1    uint16
	valid [2]bool
}

func newB2ToB1000(stages uint) (*b2ToB1000, error) {
	if stages != 3 {
		return nil, errors.Errorf(
			"base10: base-1000 converter supports only 3 pipeline "+
				"stages, got %d", stages)
	}
	return &b2ToB1000{}, nil
}

func mac24(x, y uint16) uint16 {
	return 24*x + y
}

func (t *b2ToB1000) Reset() {
	*t = b2ToB1000{}
}

func (t *b2ToB1000) Tick() {
	notStalled := !t.outp.Valid || t.outp.Ready
	if notStalled {
		// Stage 3: overflow correction into the output register.
		t.outp.Valid = t.valid[1]
		if t.d0 > 999 {
			t.outp.Payload = [2]uint16{
				(t.d0 + 24) & 0x3FF,
				(t.d1 + 1) & 0x3FF,
			}
		} else {
			t.outp.Payload = [2]uint16{t.d0, t.d1}
		}

		// Stage 2: digit guesses.
		t.valid[1] = t.valid[0]
		cHi := t.c >> 10
		cLo := t.c & 0x3FF
		t.d0 = mac24(cHi, cLo) & 0x7FF
		t.d1 = (t.b2 + cHi) & 0x3FF

		// Stage 1: split the input around 2^10.
		t.valid[0] = false
		if t.inp.Valid {
			t.valid[0] = true
			x := t.inp.Payload & 0xFFFFF
			hi := uint16(x >> 10)
			lo := uint16(x & 0x3FF)
			t.b2 = hi
			t.c = mac24(hi, lo) & 0x7FFF
		}
	}
	t.inp.Ready = notStalled
}
