//go:build linux && amd64

// Package report renders bench.Record slices into the two output
// forms spec.md §6 names: a JSON array and fixed-width verbose lines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ascrivener/x86cycles/pkg/bench"
	"github.com/ascrivener/x86cycles/pkg/opkind"
)

// instruction is one JSON-rendered record (spec.md §6 output shape).
type instruction struct {
	Inst string `json:"inst"`
	Lat  string `json:"lat"`
	Rcp  string `json:"rcp"`
}

// document is the top-level JSON value: a single "instructions" array.
type document struct {
	Instructions []instruction `json:"instructions"`
}

// WriteJSON renders records as the "instructions" JSON array.
func WriteJSON(w io.Writer, records []bench.Record) error {
	doc := document{Instructions: make([]instruction, len(records))}
	for i, r := range records {
		doc.Instructions[i] = instruction{
			Inst: instSpecText(r.Mnemonic, r.Spec),
			Lat:  fmt.Sprintf("%.2f", r.Lat),
			Rcp:  fmt.Sprintf("%.2f", r.Rcp),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteVerbose renders one fixed-width line per record: the mnemonic
// (and operand text) column padded before the Lat:/Rcp: fields,
// matching instbench.cpp's column alignment.
func WriteVerbose(w io.Writer, records []bench.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "  %-40s Lat:%7.2f Rcp:%7.2f\n", instSpecText(r.Mnemonic, r.Spec), r.Lat, r.Rcp)
	}
}

// instSpecText renders one (mnemonic, spec) pair the way spec.md §6
// describes: "call" is rendered as "call+ret" (the pair actually
// measured), "lea" renders its operands as a bracketed memory
// expression, and everything else is comma-separated operand tokens.
func instSpecText(mnemonic string, spec opkind.InstSpec) string {
	opCount := spec.Count()

	switch mnemonic {
	case "call":
		return "call+ret"
	case "lea":
		return leaText(spec, opCount)
	}

	if opCount == 0 {
		return mnemonic
	}
	tokens := make([]string, opCount)
	for i := 0; i < opCount; i++ {
		tokens[i] = spec.Get(i).String()
	}
	return mnemonic + " " + strings.Join(tokens, ", ")
}

// leaText renders lea's operands as "dst, [base + index + disp]": the
// destination is a plain token, the remaining operands collapse into
// one bracketed memory expression joined by "+".
func leaText(spec opkind.InstSpec, opCount int) string {
	if opCount == 0 {
		return "lea"
	}
	dst := spec.Get(0).String()
	if opCount == 1 {
		return "lea " + dst
	}
	parts := make([]string, 0, opCount-1)
	for i := 1; i < opCount; i++ {
		parts = append(parts, spec.Get(i).String())
	}
	return fmt.Sprintf("lea %s, [%s]", dst, strings.Join(parts, " + "))
}
