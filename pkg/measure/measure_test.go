package measure

import "testing"

func TestNumIterForSlowInstructions(t *testing.T) {
	for _, m := range []string{"cpuid", "rdrand", "rdseed"} {
		if n := NumIterFor(m); n != 4 {
			t.Fatalf("NumIterFor(%s) = %d, want 4", m, n)
		}
	}
}

func TestNumIterForDefault(t *testing.T) {
	if n := NumIterFor("add"); n != 160 {
		t.Fatalf("NumIterFor(add) = %d, want 160", n)
	}
}

func TestNUnrollFixed(t *testing.T) {
	if NUnroll != 64 {
		t.Fatalf("NUnroll = %d, want 64", NUnroll)
	}
}

// constantCall simulates an EmittedFunction that always reports the
// same cycle count: no call after the warm one improves on it, so Run
// stops once the no-improvement streak reaches its limit, well before
// the hard cap.
func constantCall(cycles uint64) CallFunc {
	return func(nIter uint32, out *uint64) { *out = cycles }
}

func TestRunConvergesOnConstantReading(t *testing.T) {
	got := Run(constantCall(1600), "add", 1, Config{})
	want := 1600.0 / 160.0
	if got != want {
		t.Fatalf("Run = %v, want %v", got, want)
	}
}

func TestRunDividesByUnrollFactor(t *testing.T) {
	got := Run(constantCall(1600), "add", 8, Config{})
	want := 1600.0 / (160.0 * 8.0)
	if got != want {
		t.Fatalf("Run = %v, want %v", got, want)
	}
}

func TestRunTracksRunningMinimum(t *testing.T) {
	readings := []uint64{1000, 900, 1100, 950}
	i := 0
	call := func(nIter uint32, out *uint64) {
		*out = readings[i%len(readings)]
		i++
	}
	got := Run(call, "add", 1, Config{})
	want := 900.0 / 160.0
	if got != want {
		t.Fatalf("Run = %v, want %v (minimum of %v)", got, want, readings)
	}
}
