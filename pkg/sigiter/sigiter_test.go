package sigiter

import (
	"testing"

	"github.com/ascrivener/x86cycles/pkg/instdb"
)

func countTuples(t *testing.T, sig instdb.InstSignature, filter instdb.OpFlags) int {
	t.Helper()
	it := New(sig, filter)
	n := 0
	for it.Valid() {
		n++
		if n > 10000 {
			t.Fatalf("iterator did not terminate")
		}
		it.Next()
	}
	return n
}

func TestZeroOperandSignatureIsSingleValidTuple(t *testing.T) {
	sig := instdb.InstSignature{Modes: instdb.ModeX86 | instdb.ModeX64}
	if n := countTuples(t, sig, instdb.WideFilter); n != 1 {
		t.Fatalf("zero-operand signature produced %d tuples, want 1", n)
	}
}

func TestTwoWidthChoicesPerSlotProducesFourTuples(t *testing.T) {
	// Each slot admits exactly two flag bits; the product over two
	// independent slots should be 2*2 = 4 distinct tuples.
	slot := instdb.OpSignature{Flags: instdb.FlagGpw | instdb.FlagGpd, RegMask: 0xFFFF}
	sig := instdb.InstSignature{
		Modes:    instdb.ModeX86 | instdb.ModeX64,
		Operands: []instdb.OpSignature{slot, slot},
	}
	if n := countTuples(t, sig, instdb.WideFilter); n != 4 {
		t.Fatalf("got %d tuples, want 4", n)
	}
}

func TestFilterNarrowsCandidateBits(t *testing.T) {
	slot := instdb.OpSignature{Flags: instdb.FlagGpw | instdb.FlagGpd | instdb.FlagGpq, RegMask: 0xFFFF}
	sig := instdb.InstSignature{
		Modes:    instdb.ModeX86 | instdb.ModeX64,
		Operands: []instdb.OpSignature{slot},
	}
	if n := countTuples(t, sig, instdb.FlagGpw|instdb.FlagGpd); n != 2 {
		t.Fatalf("got %d tuples, want 2", n)
	}
}

func TestEachTupleIsDistinct(t *testing.T) {
	slot := instdb.OpSignature{Flags: instdb.FlagGpbLo | instdb.FlagGpw | instdb.FlagGpd, RegMask: 0xFFFF}
	sig := instdb.InstSignature{
		Modes:    instdb.ModeX86 | instdb.ModeX64,
		Operands: []instdb.OpSignature{slot, slot},
	}
	it := New(sig, instdb.WideFilter)
	seen := map[[2]instdb.OpFlags]bool{}
	for it.Valid() {
		key := [2]instdb.OpFlags{it.OpMask(0), it.OpMask(1)}
		if seen[key] {
			t.Fatalf("tuple %v produced twice", key)
		}
		seen[key] = true
		it.Next()
	}
	if len(seen) != 9 {
		t.Fatalf("got %d distinct tuples, want 9", len(seen))
	}
}

func TestEmptyFilterIsInvalidWhenOperandsPresent(t *testing.T) {
	slot := instdb.OpSignature{Flags: instdb.FlagGpw, RegMask: 0xFFFF}
	sig := instdb.InstSignature{
		Modes:    instdb.ModeX86 | instdb.ModeX64,
		Operands: []instdb.OpSignature{slot},
	}
	it := New(sig, instdb.FlagXmm)
	if it.Valid() {
		t.Fatalf("expected iterator to be invalid when filter excludes every candidate bit")
	}
}
