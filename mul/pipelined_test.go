package mul_test

import (
	"fmt"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arithsim/mul"
	"github.com/sarchlab/arithsim/wide"
)

// expected is one in-flight transaction of the pipeline model.
type expected struct {
	sign mul.Sign
	o    wide.Uint128
}

// streamAll pushes every input from next through the pipeline one per
// cycle and checks that outputs come back in order.
func streamAll(m *mul.PipelinedMul, width uint, next func() (mul.Inputs, bool)) {
	in, out := m.In(), m.Out()
	out.Ready = true

	var queue []expected
	pending, done := next()
	for !done || len(queue) > 0 {
		if !done {
			in.Payload = pending
			in.Valid = true
			queue = append(queue, expected{
				sign: pending.Sign,
				o:    refMul(pending.Sign, pending.A, pending.B, width),
			})
		} else {
			in.Valid = false
		}

		m.Tick()

		if !done {
			pending, done = next()
		}
		if out.Fired() {
			Expect(len(queue)).To(BeNumerically(">", 0))
			want := queue[0]
			queue = queue[1:]
			if out.Payload.O != want.o || out.Payload.Sign != want.sign {
				Fail(fmt.Sprintf(
					"pipeline output mismatch: got %v %#x/%#x, want %v %#x/%#x",
					out.Payload.Sign, out.Payload.O.Hi, out.Payload.O.Lo,
					want.sign, want.o.Hi, want.o.Lo))
			}
		}
	}
}

var _ = Describe("PipelinedMul", func() {
	Describe("construction", func() {
		It("should reject width 0 and widths above 64", func() {
			_, err := mul.NewPipelinedMul(0)
			Expect(err).To(HaveOccurred())
			_, err = mul.NewPipelinedMul(65)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("latency and throughput", func() {
		It("should produce the first result after width cycles", func() {
			for _, w := range []uint{1, 8, 32, 64} {
				m, err := mul.NewPipelinedMul(w)
				Expect(err).NotTo(HaveOccurred())
				m.Reset()

				m.Inp.Payload = mul.Inputs{Sign: mul.Unsigned, A: 3, B: 5}
				m.Inp.Valid = true
				m.Outp.Ready = true

				m.Tick()
				m.Inp.Valid = false
				cycles := uint64(1)
				for !m.Outp.Valid {
					m.Tick()
					cycles++
				}
				Expect(cycles).To(Equal(uint64(w)))
				Expect(m.Outp.Payload.O).To(Equal(wide.From64(15)))
			}
		})

		It("should retire one multiply per cycle when saturated", func() {
			m, err := mul.NewPipelinedMul(8)
			Expect(err).NotTo(HaveOccurred())
			m.Reset()

			in, out := m.In(), m.Out()
			out.Ready = true

			const total = 100
			issued, retired, cycles := 0, 0, 0
			for retired < total {
				if issued < total {
					in.Payload = mul.Inputs{
						Sign: mul.Unsigned,
						A:    uint64(issued),
						B:    3,
					}
					in.Valid = true
				} else {
					in.Valid = false
				}
				m.Tick()
				cycles++
				if in.Valid {
					issued++
				}
				if out.Fired() {
					retired++
				}
			}
			// total results, the first after a width-cycle fill.
			Expect(cycles).To(Equal(total + 8 - 1))
		})
	})

	Describe("exhaustive width 8", func() {
		It("should match the reference in all three sign modes", func() {
			m, err := mul.NewPipelinedMul(8)
			Expect(err).NotTo(HaveOccurred())
			m.Reset()

			si, a, b := 0, uint64(0), uint64(0)
			next := func() (mul.Inputs, bool) {
				if si == len(allSigns) {
					return mul.Inputs{}, true
				}
				in := mul.Inputs{Sign: allSigns[si], A: a, B: b}
				b++
				if b == 256 {
					b = 0
					a++
					if a == 256 {
						a = 0
						si++
					}
				}
				return in, false
			}
			streamAll(m, 8, next)
		})
	})

	Describe("random width 64", func() {
		It("should match the reference on random vectors", func() {
			m, err := mul.NewPipelinedMul(64)
			Expect(err).NotTo(HaveOccurred())
			m.Reset()

			rng := rand.New(rand.NewSource(42))
			count := 0
			next := func() (mul.Inputs, bool) {
				if count == 2000 {
					return mul.Inputs{}, true
				}
				count++
				return mul.Inputs{
					Sign: allSigns[count%len(allSigns)],
					A:    rng.Uint64(),
					B:    rng.Uint64(),
				}, false
			}
			streamAll(m, 64, next)
		})
	})

	Describe("bubbles and stalls", func() {
		It("should let bubbles vanish at the output", func() {
			m, err := mul.NewPipelinedMul(8)
			Expect(err).NotTo(HaveOccurred())
			m.Reset()

			in, out := m.In(), m.Out()
			out.Ready = true

			// 1*1, 2*2, bubble, 3*3, 4*4.
			inputs := []mul.Inputs{
				{Sign: mul.Unsigned, A: 1, B: 1},
				{Sign: mul.Unsigned, A: 2, B: 2},
				{},
				{Sign: mul.Unsigned, A: 3, B: 3},
				{Sign: mul.Unsigned, A: 4, B: 4},
			}
			valid := []bool{true, true, false, true, true}

			var got []uint64
			for i := 0; i < 20; i++ {
				if i < len(inputs) {
					in.Payload = inputs[i]
					in.Valid = valid[i]
				} else {
					in.Valid = false
				}
				m.Tick()
				if out.Fired() {
					got = append(got, out.Payload.O.Lo)
				}
			}
			Expect(got).To(Equal([]uint64{1, 4, 9, 16}))
		})

		It("should freeze every register while stalled", func() {
			m, err := mul.NewPipelinedMul(8)
			Expect(err).NotTo(HaveOccurred())
			m.Reset()

			in, out := m.In(), m.Out()
			out.Ready = true

			// Fill with 1*1, 2*2, bubble, 3*3, 4*4 and run until the
			// first product reaches the output.
			inputs := []mul.Inputs{
				{Sign: mul.Unsigned, A: 1, B: 1},
				{Sign: mul.Unsigned, A: 2, B: 2},
				{},
				{Sign: mul.Unsigned, A: 3, B: 3},
				{Sign: mul.Unsigned, A: 4, B: 4},
			}
			valid := []bool{true, true, false, true, true}
			for i := 0; i < 8; i++ {
				if i < len(inputs) {
					in.Payload = inputs[i]
					in.Valid = valid[i]
				} else {
					in.Valid = false
				}
				m.Tick()
			}
			Expect(out.Valid).To(BeTrue())
			Expect(out.Payload.O).To(Equal(wide.From64(1)))

			// Stall: the output and every in-flight multiply hold.
			out.Ready = false
			for i := 0; i < 5; i++ {
				m.Tick()
				Expect(out.Valid).To(BeTrue())
				Expect(out.Payload.O).To(Equal(wide.From64(1)))
				Expect(in.Ready).To(BeFalse())
			}

			// Release: the held product is consumed on the first edge
			// and the rest drain in order behind it.
			out.Ready = true
			var got []uint64
			for i := 0; i < 10; i++ {
				m.Tick()
				if out.Fired() {
					got = append(got, out.Payload.O.Lo)
				}
			}
			Expect(got).To(Equal([]uint64{4, 9, 16}))
		})
	})
})
