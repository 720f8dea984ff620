//go:build linux && amd64

package main

import (
	"flag"
	"log"
	"os"

	"github.com/ascrivener/x86cycles/pkg/bench"
	"github.com/ascrivener/x86cycles/pkg/report"
)

func main() {
	round := flag.Bool("round", false, "snap reported cycles to canonical pipeline fractions")
	singleInst := flag.String("single-inst", "", "restrict the run to one instruction mnemonic")
	estimate := flag.Bool("estimate", false, "loosen convergence for a faster, less precise run")
	verbose := flag.Bool("verbose", false, "print a Lat:/Rcp: line per instruction as it completes")
	jsonOut := flag.Bool("json", false, "write the \"instructions\" JSON array to stdout")

	flag.Parse()

	runner, err := bench.NewRunner(bench.Options{
		Round:      *round,
		Estimate:   *estimate,
		SingleInst: *singleInst,
		Verbose:    *verbose,
	})
	if err != nil {
		log.Fatalf("x86cycles: %v", err)
	}

	records := runner.Run()

	if *jsonOut {
		if err := report.WriteJSON(os.Stdout, records); err != nil {
			log.Fatalf("x86cycles: writing JSON: %v", err)
		}
	}
}
