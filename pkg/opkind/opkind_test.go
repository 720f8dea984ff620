package opkind

import "testing"

func TestPackAndCount(t *testing.T) {
	s := Pack(Gpd, Gpd, Imm32)
	if got := s.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
	if got := s.Get(0); got != Gpd {
		t.Fatalf("Get(0) = %v, want Gpd", got)
	}
	if got := s.Get(2); got != Imm32 {
		t.Fatalf("Get(2) = %v, want Imm32", got)
	}
	if got := s.Get(3); got != None {
		t.Fatalf("Get(3) = %v, want None", got)
	}
}

func TestCountInRange(t *testing.T) {
	for n := 0; n <= MaxOperands; n++ {
		kinds := make([]Kind, n)
		for i := range kinds {
			kinds[i] = Gpd
		}
		s := Pack(kinds...)
		if got := s.Count(); got != n {
			t.Fatalf("Count() with %d operands = %d, want %d", n, got, n)
		}
	}
}

func TestEqualityIsWordKeyed(t *testing.T) {
	a := Pack(Gpd, Gpd)
	b := Pack(Gpd, Gpd)
	c := Pack(Gpd, Gpq)
	if a != b {
		t.Fatal("identical packs should be equal")
	}
	if a == c {
		t.Fatal("different packs should not be equal")
	}
}

func TestIsImplicit(t *testing.T) {
	cases := map[Kind]bool{
		Al:   true,
		Rdx:  true,
		Xmm0: true,
		Gpd:  false,
		Xmm:  false,
		None: false,
	}
	for k, want := range cases {
		if got := IsImplicit(k); got != want {
			t.Errorf("IsImplicit(%v) = %v, want %v", k, got, want)
		}
	}
}

func TestStringTableIsTotal(t *testing.T) {
	for k := None; k < kindCount; k++ {
		if k.String() == "?" {
			t.Errorf("Kind %d has no string mapping", k)
		}
	}
}
