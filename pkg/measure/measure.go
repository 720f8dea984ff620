// Package measure implements the measurement driver (spec.md §4.5): it
// repeatedly invokes one compiled benchmark body, tracks the running
// minimum cycle count, and stops once no further call produces a
// significant improvement.
package measure

// FailedMeasurement is the sentinel the driver returns when the body
// could not be assembled at all (spec.md §4.5 step 2 / §7 "emission
// failure").
const FailedMeasurement = -1.0

// hardCallCap bounds the total number of measurement calls regardless
// of convergence, so a body that never settles still terminates.
const hardCallCap = 1_000_000

// numIterByInstID lists the instructions slow enough per call that a
// much smaller per-call iteration count still produces a stable
// reading; everything else uses the default. Taken verbatim from
// instbench.cpp's numIterByInstId table.
var numIterByInstID = map[string]int{
	"cpuid": 4, "rdrand": 4, "rdseed": 4,
}

// NumIterFor returns the per-call unrolled-loop trip count for mnemonic.
func NumIterFor(mnemonic string) int {
	if n, ok := numIterByInstID[mnemonic]; ok {
		return n
	}
	return 160
}

// Config tunes the convergence rule.
type Config struct {
	// Estimate loosens the significant-improvement threshold and the
	// no-improvement cap, trading accuracy for a much shorter run.
	Estimate bool
}

const (
	kSignificantImprovementFactor         = 0.08
	kSignificantImprovementFactorEstimate = 0.2
	kMaximumImprovementTries              = 50000
	kMaximumImprovementTriesEstimate      = 1000
)

// CallFunc invokes one compiled EmittedFunction: nIter is the trip
// count baked into the call, and best receives the cycle count the
// function measured internally across its own unrolled body.
type CallFunc func(nIter uint32, best *uint64)

// NUnroll is the body's unroll factor N (spec.md glossary): the
// number of independent or dependent copies the compiled loop body
// carries per iteration. It is fixed regardless of parallelism mode —
// only the rotation direction opstream.Rotation picks changes between
// latency and throughput measurement, not the copy count.
const NUnroll = 64

// Run drives call to convergence and returns the normalised
// cycles-per-instruction: the best observed cycle count divided by
// (nIter * nUnroll). unroll is the body's unroll factor N (spec.md
// §4.5 step 5 divides by nIter*N).
func Run(call CallFunc, mnemonic string, unroll int, cfg Config) float64 {
	nIter := NumIterFor(mnemonic)

	significantFactor := kSignificantImprovementFactor
	maxTries := kMaximumImprovementTries
	if cfg.Estimate {
		significantFactor = kSignificantImprovementFactorEstimate
		maxTries = kMaximumImprovementTriesEstimate
	}
	significant := uint64(float64(nIter) * significantFactor)

	var out uint64
	call(uint32(nIter), &out)
	best := out

	noImprovementStreak := 0
	for i := 0; i < hardCallCap; i++ {
		call(uint32(nIter), &out)
		if out < best {
			if best-out >= significant {
				noImprovementStreak = 0
			} else {
				noImprovementStreak++
			}
			best = out
		} else {
			noImprovementStreak++
		}
		if noImprovementStreak >= maxTries {
			break
		}
	}

	return float64(best) / float64(nIter*unroll)
}

