//go:build linux && amd64

package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ascrivener/x86cycles/pkg/bench"
	"github.com/ascrivener/x86cycles/pkg/opkind"
)

func TestInstSpecTextCallRendersAsCallPlusRet(t *testing.T) {
	got := instSpecText("call", opkind.Pack(opkind.Rel))
	if got != "call+ret" {
		t.Fatalf("instSpecText(call) = %q, want %q", got, "call+ret")
	}
}

func TestInstSpecTextLeaBracketsOperands(t *testing.T) {
	got := instSpecText("lea", opkind.Pack(opkind.Gpq, opkind.Gpq, opkind.Gpq, opkind.Imm32))
	want := "lea r64, [r64 + r64 + i32]"
	if got != want {
		t.Fatalf("instSpecText(lea) = %q, want %q", got, want)
	}
}

func TestInstSpecTextGeneric(t *testing.T) {
	got := instSpecText("add", opkind.Pack(opkind.Gpq, opkind.Gpq))
	want := "add r64, r64"
	if got != want {
		t.Fatalf("instSpecText(add) = %q, want %q", got, want)
	}
}

func TestInstSpecTextZeroOperand(t *testing.T) {
	got := instSpecText("rdtsc", opkind.InstSpec(0))
	if got != "rdtsc" {
		t.Fatalf("instSpecText(rdtsc) = %q, want %q", got, "rdtsc")
	}
}

func TestWriteJSONProducesInstructionsArray(t *testing.T) {
	var buf bytes.Buffer
	records := []bench.Record{
		{Mnemonic: "add", Spec: opkind.Pack(opkind.Gpq, opkind.Gpq), Lat: 1.0, Rcp: 0.5},
	}
	if err := WriteJSON(&buf, records); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"instructions"`, `"inst": "add r64, r64"`, `"lat": "1.00"`, `"rcp": "0.50"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("WriteJSON output missing %q, got: %s", want, out)
		}
	}
}

func TestWriteVerboseFormatsLatRcp(t *testing.T) {
	var buf bytes.Buffer
	records := []bench.Record{
		{Mnemonic: "add", Spec: opkind.Pack(opkind.Gpq, opkind.Gpq), Lat: 1.0, Rcp: 0.5},
	}
	WriteVerbose(&buf, records)
	out := buf.String()
	if !strings.Contains(out, "Lat:   1.00") || !strings.Contains(out, "Rcp:   0.50") {
		t.Fatalf("WriteVerbose output = %q, missing expected Lat/Rcp formatting", out)
	}
}
