// Package harness drives stream components one clock at a time and reports
// cycle counts and throughput per component and width.
package harness

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/arithsim/stream"
)

// Result holds the cycle accounting for a single benchmark run.
type Result struct {
	// Name identifies the benchmark.
	Name string `json:"name"`

	// Width is the operand width of the component in bits.
	Width uint `json:"width"`

	// Transfers is the number of transactions completed.
	Transfers uint64 `json:"transfers"`

	// Cycles is the total simulated cycle count.
	Cycles uint64 `json:"cycles"`

	// FirstLatency is the cycle count from the first transaction's
	// accepting edge to the first cycle its result was visible.
	FirstLatency uint64 `json:"first_latency"`

	// CyclesPerTransfer is Cycles divided by Transfers.
	CyclesPerTransfer float64 `json:"cycles_per_transfer"`

	// WallTime is the host time taken to run the simulation.
	WallTime time.Duration `json:"wall_time_ns"`
}

// Transfer pushes one payload through an idle component and waits for the
// result.
//
// It returns the result payload and the number of cycles from the accepting
// edge up to and including the first cycle the result was visible, then
// spends one more cycle consuming the result so the component is idle
// again. The component must be idle on entry; maxCycles bounds the wait.
func Transfer[I, O any](
	c stream.Streamed[I, O],
	payload I,
	maxCycles uint64,
) (O, uint64, error) {
	in, out := c.In(), c.Out()
	in.Payload = payload
	in.Valid = true
	out.Ready = true

	// The component is idle, so this edge accepts.
	c.Tick()
	in.Valid = false

	cycles := uint64(1)
	for !out.Valid {
		if cycles >= maxCycles {
			var zero O
			return zero, cycles, errors.Errorf(
				"harness: no result within %d cycles", maxCycles)
		}
		c.Tick()
		cycles++
	}
	result := out.Payload

	log.WithFields(log.Fields{"cycles": cycles}).
		Trace("harness: transfer complete")

	// Consume so the next Transfer starts from idle.
	c.Tick()
	return result, cycles, nil
}

// Benchmark is a named, self-contained measurement.
type Benchmark struct {
	// Name identifies the benchmark.
	Name string

	// Width is the operand width of the component under test.
	Width uint

	// Run builds the component, drives it, and returns the accounting.
	Run func(cfg Config) (Result, error)
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     Config
	benchmarks []Benchmark
}

// NewHarness creates a harness with the given configuration.
func NewHarness(config Config) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{config: config}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns their results. A benchmark
// that fails is logged and skipped.
func (h *Harness) RunAll() []Result {
	results := make([]Result, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		log.WithField("benchmark", bench.Name).Info("harness: running")

		start := time.Now()
		result, err := bench.Run(h.config)
		if err != nil {
			log.WithField("benchmark", bench.Name).
				WithError(err).Error("harness: benchmark failed")
			continue
		}
		result.Name = bench.Name
		result.Width = bench.Width
		result.WallTime = time.Since(start)
		if result.Transfers > 0 {
			result.CyclesPerTransfer =
				float64(result.Cycles) / float64(result.Transfers)
		}
		results = append(results, result)
	}

	return results
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Arithmetic Core Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Width:               %d\n", r.Width)
		_, _ = fmt.Fprintf(h.config.Output, "  Transfers:           %d\n", r.Transfers)
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles:    %d\n", r.Cycles)
		_, _ = fmt.Fprintf(h.config.Output, "  First Latency:       %d\n", r.FirstLatency)
		_, _ = fmt.Fprintf(h.config.Output, "  Cycles/Transfer:     %.3f\n", r.CyclesPerTransfer)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,width,transfers,cycles,first_latency,cycles_per_transfer")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%.3f\n",
			r.Name,
			r.Width,
			r.Transfers,
			r.Cycles,
			r.FirstLatency,
			r.CyclesPerTransfer,
		)
	}
}
