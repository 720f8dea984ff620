//go:build linux && amd64

// Package bench orchestrates the full pipeline end to end (spec.md
// §5): it owns the CPU-info and assembler context for one run,
// classifies every instruction id, assembles and measures each
// resulting operand tuple, and hands the post-processed numbers to the
// report writer.
package bench

import (
	"fmt"
	"log"

	"github.com/klauspost/cpuid/v2"

	"github.com/ascrivener/x86cycles/pkg/classify"
	"github.com/ascrivener/x86cycles/pkg/instdb"
	"github.com/ascrivener/x86cycles/pkg/jit"
	"github.com/ascrivener/x86cycles/pkg/jit/asm"
	"github.com/ascrivener/x86cycles/pkg/measure"
	"github.com/ascrivener/x86cycles/pkg/opkind"
	"github.com/ascrivener/x86cycles/pkg/postprocess"
)

// codeBufSize is the per-compile scratch allocated from the
// executable-memory arena; every emitted body (prologue,
// measure.NUnroll unrolled copies, epilogue) fits well inside it.
const codeBufSize = 8192

// Options are the CLI-exposed knobs (spec.md §6's "inherited, not
// core" CLI surface).
type Options struct {
	Round      bool
	Estimate   bool
	SingleInst string
	Verbose    bool
}

// Record is one fully post-processed instruction result, ready for
// pkg/report to render.
type Record struct {
	Mnemonic string
	Spec     opkind.InstSpec
	Lat      float64
	Rcp      float64
}

// Runner holds the per-run context: the instruction database, the
// classifier built against the host's actual feature set, and the
// executable-memory arena every compiled body is loaded into.
type Runner struct {
	db         *instdb.DB
	classifier *classify.Classifier
	mem        *jit.ExecutableMemory
	opts       Options
}

// NewRunner builds a run context against the real host CPU.
func NewRunner(opts Options) (*Runner, error) {
	db := instdb.New()
	supports := func(features []cpuid.FeatureID) bool {
		for _, f := range features {
			if !cpuid.CPU.Supports(f) {
				return false
			}
		}
		return true
	}
	mem, err := jit.NewExecutableMemory(jit.DefaultCodeSize)
	if err != nil {
		return nil, fmt.Errorf("bench: allocating executable memory: %w", err)
	}
	return &Runner{
		db:         db,
		classifier: classify.New(db, true, supports),
		mem:        mem,
		opts:       opts,
	}, nil
}

// Run executes the whole pipeline and returns records in
// (instId ascending, spec enumeration order) (spec.md §5 ordering
// invariant).
func (r *Runner) Run() []Record {
	ids := r.instructionIDs()

	var records []Record
	for _, id := range ids {
		specs := r.classifier.Classify(id)
		for _, spec := range specs {
			rec, ok := r.measureSpec(id, spec)
			r.mem.Reset()
			if !ok {
				continue
			}
			records = append(records, rec)
			if r.opts.Verbose {
				fmt.Printf("  %s: Lat:%7.2f Rcp:%7.2f\n", id, rec.Lat, rec.Rcp)
			}
		}
	}
	return records
}

// instructionIDs returns the ids this run classifies, in the "instId
// ascending" order spec.md §5 requires: instdb.DB.IDs() already
// returns its stable registration order as the stand-in for ascending
// numeric instruction ids (see instdb.go's doc comment on IDs).
func (r *Runner) instructionIDs() []string {
	if r.opts.SingleInst != "" {
		return []string{r.opts.SingleInst}
	}
	return r.db.IDs()
}

// measureSpec runs the four driver invocations spec.md §4.6 calls for
// (latency-overhead, throughput-overhead, latency, throughput) and
// post-processes them into one Record. ok is false when any one of
// the four failed to assemble (§7 emission failure: no record).
func (r *Runner) measureSpec(mnemonic string, spec opkind.InstSpec) (Record, bool) {
	latOverhead, ok := r.measureOne(mnemonic, spec, false, true)
	if !ok {
		return Record{}, false
	}
	rcpOverhead, ok := r.measureOne(mnemonic, spec, true, true)
	if !ok {
		return Record{}, false
	}
	lat, ok := r.measureOne(mnemonic, spec, false, false)
	if !ok {
		return Record{}, false
	}
	rcp, ok := r.measureOne(mnemonic, spec, true, false)
	if !ok {
		return Record{}, false
	}

	result := postprocess.Process(latOverhead, rcpOverhead, lat, rcp, r.opts.Round)
	return Record{Mnemonic: mnemonic, Spec: spec, Lat: result.Lat, Rcp: result.Rcp}, true
}

// measureOne compiles and runs one (mnemonic, spec, parallel,
// overheadOnly) tuple to convergence, returning the normalised
// cycles-per-instruction, or measure.FailedMeasurement and false on
// assembler failure.
func (r *Runner) measureOne(mnemonic string, spec opkind.InstSpec, parallel, overheadOnly bool) (float64, bool) {
	unroll := measure.NUnroll

	entryPoint, buf, err := r.mem.Allocate(codeBufSize)
	if err != nil {
		log.Printf("x86cycles: %s: out of executable memory: %v", mnemonic, err)
		return measure.FailedMeasurement, false
	}

	// jit.Compile writes starting at buf[0], the same address Allocate
	// just handed back, so entryPoint already names the function start.
	if _, err := jit.Compile(buf, jit.Request{
		Mnemonic:     mnemonic,
		Spec:         spec,
		NUnroll:      unroll,
		Parallel:     parallel,
		OverheadOnly: overheadOnly,
	}); err != nil {
		log.Printf("x86cycles: %s: %v", mnemonic, err)
		return measure.FailedMeasurement, false
	}

	call := func(nIter uint32, out *uint64) {
		asm.CallBenchFunc(entryPoint, nIter, out)
	}

	cfg := measure.Config{Estimate: r.opts.Estimate}
	return measure.Run(call, mnemonic, unroll, cfg), true
}
