//go:build linux && amd64

package bench

import (
	"testing"

	"github.com/ascrivener/x86cycles/pkg/opkind"
)

func TestInstructionIDsRestrictsToSingleInst(t *testing.T) {
	r := &Runner{opts: Options{SingleInst: "add"}}
	ids := r.instructionIDs()
	if len(ids) != 1 || ids[0] != "add" {
		t.Fatalf("instructionIDs() = %v, want [add]", ids)
	}
}

func TestMeasureOneReportsFailureForUnknownMnemonic(t *testing.T) {
	r, err := NewRunner(Options{})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	_, ok := r.measureOne("vpgatherdd", opkind.Pack(opkind.Ymm), false, false)
	if ok {
		t.Fatalf("measureOne(vpgatherdd) = ok, want assembler failure")
	}
}

func TestMeasureSpecSkipsRecordOnAssemblerFailure(t *testing.T) {
	r, err := NewRunner(Options{})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	_, ok := r.measureSpec("vpgatherdd", opkind.Pack(opkind.Ymm))
	if ok {
		t.Fatalf("measureSpec(vpgatherdd) = ok, want no record")
	}
}
