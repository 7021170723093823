package div_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arithsim/div"
	"github.com/sarchlab/arithsim/harness"
	"github.com/sarchlab/arithsim/wide"
)

var _ = Describe("LongDivider", func() {
	Describe("construction", func() {
		It("should reject width 1", func() {
			_, err := div.NewLongDivider(1)
			Expect(err).To(HaveOccurred())
		})

		It("should reject widths above 64", func() {
			_, err := div.NewLongDivider(65)
			Expect(err).To(HaveOccurred())
		})

		It("should accept widths 2 through 64", func() {
			for _, w := range []uint{2, 32, 64} {
				d, err := div.NewLongDivider(w)
				Expect(err).NotTo(HaveOccurred())
				Expect(d.Width()).To(Equal(w))
			}
		})
	})

	Describe("latency", func() {
		It("should finish in exactly width cycles", func() {
			for _, w := range []uint{2, 8, 12, 32, 64} {
				d, err := div.NewLongDivider(w)
				Expect(err).NotTo(HaveOccurred())
				d.Reset()
				_, cycles, err := harness.Transfer(d,
					div.Inputs{Sign: div.Unsigned, N: 3, D: 1}, maxWait)
				Expect(err).NotTo(HaveOccurred())
				Expect(cycles).To(Equal(uint64(w)))
			}
		})
	})

	Describe("reference vectors", func() {
		var d *div.LongDivider

		BeforeEach(func() {
			var err error
			d, err = div.NewLongDivider(12)
			Expect(err).NotTo(HaveOccurred())
			d.Reset()
		})

		It("should divide through all four sign quadrants", func() {
			type vec struct{ n, d, q, r int64 }
			for _, v := range []vec{
				{1362, 14, 97, 4},
				{-1362, 14, -97, -4},
				{1362, -14, -97, 4},
				{-1362, -14, 97, -4},
			} {
				out, _, err := harness.Transfer(d,
					signedInputs(12, v.n, v.d), maxWait)
				Expect(err).NotTo(HaveOccurred())
				Expect(wide.ToSigned(out.Q, 12)).To(Equal(v.q))
				Expect(wide.ToSigned(out.R, 12)).To(Equal(v.r))
			}
		})

		It("should handle signed division of negatives by zero", func() {
			out, _, err := harness.Transfer(d,
				signedInputs(12, -5, 0), maxWait)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Q).To(Equal(uint64(0xFFF)))
			Expect(wide.ToSigned(out.R, 12)).To(Equal(int64(-5)))
		})

		It("should survive signed overflow", func() {
			out, _, err := harness.Transfer(d,
				signedInputs(12, -2048, -1), maxWait)
			Expect(err).NotTo(HaveOccurred())
			Expect(wide.ToSigned(out.Q, 12)).To(Equal(int64(-2048)))
			Expect(out.R).To(Equal(uint64(0)))
		})
	})

	Describe("exhaustive width 8", func() {
		It("should match the reference", func() {
			d, err := div.NewLongDivider(8)
			Expect(err).NotTo(HaveOccurred())
			d.Reset()

			for _, sign := range []div.Sign{div.Unsigned, div.Signed} {
				for n := uint64(0); n < 256; n++ {
					for dv := uint64(0); dv < 256; dv++ {
						out, _, err := harness.Transfer(d,
							div.Inputs{Sign: sign, N: n, D: dv}, maxWait)
						Expect(err).NotTo(HaveOccurred())

						q, r := refDiv(sign, n, dv, 8)
						if out.Q != q || out.R != r {
							Fail(formatMismatch(sign, n, dv, out, q, r))
						}
					}
				}
			}
		})
	})

	Describe("agreement with MulticycleDiv", func() {
		It("should match on random width-32 vectors", func() {
			long, err := div.NewLongDivider(32)
			Expect(err).NotTo(HaveOccurred())
			long.Reset()

			mc, err := div.NewMulticycleDiv(32, div.Restoring)
			Expect(err).NotTo(HaveOccurred())
			mc.Reset()

			rng := rand.New(rand.NewSource(0x5eed))
			for i := 0; i < 500; i++ {
				in := div.Inputs{
					Sign: div.Sign(rng.Intn(2)),
					N:    rng.Uint64() & 0xFFFFFFFF,
					D:    rng.Uint64() & 0xFFFFFFFF,
				}
				if i%17 == 0 {
					in.D = 0
				}

				a, _, err := harness.Transfer(long, in, maxWait)
				Expect(err).NotTo(HaveOccurred())
				b, _, err := harness.Transfer(mc, in, maxWait)
				Expect(err).NotTo(HaveOccurred())
				Expect(a.Q).To(Equal(b.Q))
				Expect(a.R).To(Equal(b.R))
			}
		})

		It("should match on width-64 corner cases", func() {
			long, err := div.NewLongDivider(64)
			Expect(err).NotTo(HaveOccurred())
			long.Reset()

			mc, err := div.NewMulticycleDiv(64, div.NonRestoring)
			Expect(err).NotTo(HaveOccurred())
			mc.Reset()

			allOnes := ^uint64(0)
			minInt := uint64(1) << 63
			vectors := []div.Inputs{
				{Sign: div.Signed, N: minInt, D: allOnes},
				{Sign: div.Signed, N: minInt, D: 1},
				{Sign: div.Signed, N: allOnes, D: 0},
				{Sign: div.Unsigned, N: allOnes, D: 0},
				{Sign: div.Unsigned, N: allOnes, D: 1},
				{Sign: div.Unsigned, N: allOnes, D: allOnes},
				{Sign: div.Signed, N: 0, D: minInt},
				{Sign: div.Unsigned, N: 12345678901234567, D: 987654321},
			}
			for _, in := range vectors {
				a, _, err := harness.Transfer(long, in, maxWait)
				Expect(err).NotTo(HaveOccurred())
				b, _, err := harness.Transfer(mc, in, maxWait)
				Expect(err).NotTo(HaveOccurred())
				Expect(a.Q).To(Equal(b.Q))
				Expect(a.R).To(Equal(b.R))

				q, r := refDiv(in.Sign, in.N, in.D, 64)
				Expect(a.Q).To(Equal(q))
				Expect(a.R).To(Equal(r))
			}
		})
	})
})
