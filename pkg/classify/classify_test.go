package classify

import (
	"testing"

	"github.com/klauspost/cpuid/v2"

	"github.com/ascrivener/x86cycles/pkg/instdb"
	"github.com/ascrivener/x86cycles/pkg/opkind"
)

func allSupported(_ []cpuid.FeatureID) bool { return true }
func noneSupported(features []cpuid.FeatureID) bool { return len(features) == 0 }

func TestZeroOperandInstructionProducesSingleTuple(t *testing.T) {
	c := New(instdb.New(), true, allSupported)
	specs := c.Classify("lfence")
	if len(specs) != 1 || specs[0] != opkind.Pack() {
		t.Fatalf("got %v, want [pack()]", specs)
	}
}

func TestZeroOperandInstructionDroppedWithoutFeature(t *testing.T) {
	c := New(instdb.New(), true, noneSupported)
	if specs := c.Classify("vzeroall"); len(specs) != 0 {
		t.Fatalf("got %v, want none", specs)
	}
}

func TestCallProducesRelAndIndirectForms(t *testing.T) {
	c := New(instdb.New(), true, allSupported)
	specs := c.Classify("call")
	want := []opkind.InstSpec{opkind.Pack(opkind.Rel), opkind.Pack(opkind.Gpq)}
	if len(specs) != len(want) {
		t.Fatalf("got %d specs, want %d", len(specs), len(want))
	}
	for i := range want {
		if specs[i] != want[i] {
			t.Fatalf("spec %d = %v, want %v", i, specs[i], want[i])
		}
	}
}

func TestLeaProducesFewerFormsOutsideX64(t *testing.T) {
	c := New(instdb.New(), false, allSupported)
	specs := c.Classify("lea")
	for _, s := range specs {
		for i := 0; i < s.Count(); i++ {
			if s.Get(i) == opkind.Gpq {
				t.Fatalf("32-bit mode produced a 64-bit lea form: %v", s)
			}
		}
	}
}

func TestShiftByClUsesImplicitRegister(t *testing.T) {
	c := New(instdb.New(), true, allSupported)
	specs := c.Classify("shl")
	found := false
	for _, s := range specs {
		if s.Count() == 2 && s.Get(1) == opkind.Cl {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a shl reg,cl tuple among %v", specs)
	}
}

func TestGeneralPathDedupes(t *testing.T) {
	c := New(instdb.New(), true, allSupported)
	specs := c.Classify("add")
	seen := map[opkind.InstSpec]bool{}
	for _, s := range specs {
		if seen[s] {
			t.Fatalf("duplicate spec %v", s)
		}
		seen[s] = true
	}
	if len(specs) == 0 {
		t.Fatalf("expected at least one add tuple")
	}
}

func TestUnknownMnemonicClassifiesEmpty(t *testing.T) {
	c := New(instdb.New(), true, allSupported)
	if specs := c.Classify("notarealmnemonic"); len(specs) != 0 {
		t.Fatalf("got %v, want none", specs)
	}
}

func TestVectorInstructionBypassesSafeGpAllowList(t *testing.T) {
	c := New(instdb.New(), true, allSupported)
	if specs := c.Classify("vaddps"); len(specs) == 0 {
		t.Fatalf("expected vaddps (not in the safe-GP list) to still classify via IsVec")
	}
}

func TestFeatureGateDropsUnsupportedInstruction(t *testing.T) {
	c := New(instdb.New(), true, func(features []cpuid.FeatureID) bool {
		for _, f := range features {
			if f == cpuid.AVX512F {
				return false
			}
		}
		return true
	})
	if specs := c.Classify("kandw"); len(specs) != 0 {
		t.Fatalf("got %v, want none (AVX512F unsupported)", specs)
	}
}
