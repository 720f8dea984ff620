package opstream

import (
	"testing"

	"github.com/ascrivener/x86cycles/pkg/opkind"
)

func TestDefaultPoolsExcludesSpAndCounter(t *testing.T) {
	p := DefaultPools(2)
	if p.GP&(1<<spIdx) != 0 {
		t.Fatalf("GP pool includes sp: %08b", p.GP)
	}
	if p.GP&(1<<2) != 0 {
		t.Fatalf("GP pool includes counter register: %08b", p.GP)
	}
}

func TestReserveRemovesImplicitRegister(t *testing.T) {
	p := DefaultPools(7).Reserve(opkind.Eax)
	if p.GP&1 != 0 {
		t.Fatalf("GP pool still includes eax's id after reserve: %08b", p.GP)
	}
}

func TestRegCountExcludesTrailingImmediatesAndMemory(t *testing.T) {
	spec := opkind.Pack(opkind.Gpd, opkind.Gpd, opkind.Imm8)
	if n := RegCount(spec); n != 2 {
		t.Fatalf("RegCount = %d, want 2", n)
	}
	spec = opkind.Pack(opkind.Gpq, opkind.Gpq, opkind.Mem64)
	if n := RegCount(spec); n != 2 {
		t.Fatalf("RegCount with trailing memory = %d, want 2", n)
	}
}

func TestSerialSingleRegNeverAdvances(t *testing.T) {
	start, inc := Rotation(0, 1, false)
	if inc != 0 {
		t.Fatalf("serial 1-reg pattern should have inc=0, got start=%d inc=%d", start, inc)
	}
}

func TestParallelSingleRegAdvances(t *testing.T) {
	_, inc := Rotation(0, 1, true)
	if inc != 1 {
		t.Fatalf("parallel 1-reg pattern should have inc=1, got inc=%d", inc)
	}
}

func TestFillRegArrayWrapsAroundPool(t *testing.T) {
	out := FillRegArray(5, 0, 1, 0b0011) // ids {0, 1}
	want := []uint32{0, 1, 0, 1, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("FillRegArray = %v, want %v", out, want)
		}
	}
}

func TestFillRegArrayEmptyMaskReturnsZeros(t *testing.T) {
	out := FillRegArray(3, 0, 1, 0)
	for _, v := range out {
		if v != 0 {
			t.Fatalf("expected zeros for empty mask, got %v", out)
		}
	}
}

func TestFillImmArrayWrapsAtCanonicalMax(t *testing.T) {
	out := FillImmArray(opkind.Imm8, 20)
	for _, v := range out {
		if v > 15 {
			t.Fatalf("imm8 stream produced %d, exceeds canonical max 15", v)
		}
	}
}

func TestFillMemArraySerialStaysAtZero(t *testing.T) {
	out := FillMemArray(opkind.Mem32, 4, false)
	for _, v := range out {
		if v != 0 {
			t.Fatalf("serial mem stream should stay at offset 0, got %v", out)
		}
	}
}

func TestFillMemArrayParallelAdvancesByWidth(t *testing.T) {
	out := FillMemArray(opkind.Mem32, 3, true)
	want := []int32{0, 4, 8}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("FillMemArray = %v, want %v", out, want)
		}
	}
}
