package harness

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/sarchlab/arithsim/base10"
	"github.com/sarchlab/arithsim/div"
	"github.com/sarchlab/arithsim/mul"
	"github.com/sarchlab/arithsim/stream"
	"github.com/sarchlab/arithsim/wide"
)

// DividerBenchmark measures a MulticycleDiv one transaction at a time,
// alternating signed and unsigned operands.
func DividerBenchmark(width uint, impl div.Impl) Benchmark {
	return Benchmark{
		Name:  fmt.Sprintf("div/%s/w%d", impl, width),
		Width: width,
		Run: func(cfg Config) (Result, error) {
			d, err := div.NewMulticycleDiv(width, impl)
			if err != nil {
				return Result{}, err
			}
			return runTransfers(d, cfg, divOperands(width, cfg.Seed))
		},
	}
}

// LongDividerBenchmark measures the reference LongDivider one transaction
// at a time.
func LongDividerBenchmark(width uint) Benchmark {
	return Benchmark{
		Name:  fmt.Sprintf("div/long/w%d", width),
		Width: width,
		Run: func(cfg Config) (Result, error) {
			d, err := div.NewLongDivider(width)
			if err != nil {
				return Result{}, err
			}
			return runTransfers(d, cfg, divOperands(width, cfg.Seed))
		},
	}
}

// MulticycleMulBenchmark measures a MulticycleMul one transaction at a
// time, cycling through the three sign modes.
func MulticycleMulBenchmark(width uint) Benchmark {
	return Benchmark{
		Name:  fmt.Sprintf("mul/multicycle/w%d", width),
		Width: width,
		Run: func(cfg Config) (Result, error) {
			m, err := mul.NewMulticycleMul(width)
			if err != nil {
				return Result{}, err
			}
			return runTransfers(m, cfg, mulOperands(width, cfg.Seed))
		},
	}
}

// PipelinedMulBenchmark streams operands into a PipelinedMul back to back
// and counts cycles until every product has drained, exercising the
// one-per-cycle throughput path rather than transaction-at-a-time latency.
func PipelinedMulBenchmark(width uint) Benchmark {
	return Benchmark{
		Name:  fmt.Sprintf("mul/pipelined/w%d", width),
		Width: width,
		Run: func(cfg Config) (Result, error) {
			m, err := mul.NewPipelinedMul(width)
			if err != nil {
				return Result{}, err
			}
			m.Reset()

			next := mulOperands(width, cfg.Seed)
			in, out := m.In(), m.Out()
			out.Ready = true

			var issued, retired, cycles, firstLatency uint64
			budget := cfg.MaxCycles * uint64(cfg.Transfers)
			for retired < uint64(cfg.Transfers) {
				if cycles >= budget {
					return Result{}, errorNoResult(budget)
				}
				if issued < uint64(cfg.Transfers) {
					in.Payload = next()
					in.Valid = true
				} else {
					in.Valid = false
				}
				m.Tick()
				cycles++
				// The output is never stalled, so a valid input
				// is always accepted on its edge.
				if in.Valid {
					issued++
				}
				if out.Fired() {
					if retired == 0 {
						firstLatency = cycles
					}
					retired++
				}
			}

			return Result{
				Transfers:    retired,
				Cycles:       cycles,
				FirstLatency: firstLatency,
			}, nil
		},
	}
}

// BCDBenchmark measures a BinaryToBCD one transaction at a time.
func BCDBenchmark(width uint, limit base10.Limit) Benchmark {
	return Benchmark{
		Name:  fmt.Sprintf("bcd/%s/w%d", limit, width),
		Width: width,
		Run: func(cfg Config) (Result, error) {
			b, err := base10.NewBinaryToBCD(width, limit)
			if err != nil {
				return Result{}, err
			}
			rng := rand.New(rand.NewSource(cfg.Seed))
			mask := wide.Mask64(width)
			return runTransfers(b, cfg, func() uint64 {
				return rng.Uint64() & mask
			})
		},
	}
}

// Defaults returns the benchmark set the CLI runs out of the box.
func Defaults() []Benchmark {
	return []Benchmark{
		DividerBenchmark(32, div.Restoring),
		DividerBenchmark(32, div.NonRestoring),
		DividerBenchmark(64, div.Restoring),
		LongDividerBenchmark(32),
		PipelinedMulBenchmark(32),
		PipelinedMulBenchmark(64),
		MulticycleMulBenchmark(32),
		BCDBenchmark(10, base10.LimitLargestPower10),
		BCDBenchmark(20, base10.LimitLargestPower10),
	}
}

// runTransfers drives one transaction at a time through an idle component.
func runTransfers[I, O any](
	c stream.Streamed[I, O],
	cfg Config,
	next func() I,
) (Result, error) {
	c.Reset()

	var result Result
	for i := 0; i < cfg.Transfers; i++ {
		_, cycles, err := Transfer(c, next(), cfg.MaxCycles)
		if err != nil {
			return Result{}, err
		}
		if i == 0 {
			result.FirstLatency = cycles
		}
		// One extra edge per transfer consumes the result.
		result.Cycles += cycles + 1
		result.Transfers++
	}
	return result, nil
}

func divOperands(width uint, seed int64) func() div.Inputs {
	rng := rand.New(rand.NewSource(seed))
	mask := wide.Mask64(width)
	i := 0
	return func() div.Inputs {
		sign := div.Unsigned
		if i%2 == 1 {
			sign = div.Signed
		}
		i++
		return div.Inputs{
			Sign: sign,
			N:    rng.Uint64() & mask,
			D:    rng.Uint64() & mask,
		}
	}
}

func mulOperands(width uint, seed int64) func() mul.Inputs {
	rng := rand.New(rand.NewSource(seed))
	mask := wide.Mask64(width)
	signs := []mul.Sign{mul.Unsigned, mul.Signed, mul.SignedUnsigned}
	i := 0
	return func() mul.Inputs {
		sign := signs[i%len(signs)]
		i++
		return mul.Inputs{
			Sign: sign,
			A:    rng.Uint64() & mask,
			B:    rng.Uint64() & mask,
		}
	}
}

func errorNoResult(budget uint64) error {
	return errors.Errorf(
		"harness: pipeline did not drain within %d cycles", budget)
}
