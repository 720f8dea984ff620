package postprocess

import "testing"

func TestProcessSubtractsOverhead(t *testing.T) {
	r := Process(1.0, 0.5, 4.0, 2.0, false)
	if r.Lat != 3.0 {
		t.Fatalf("Lat = %v, want 3.0", r.Lat)
	}
	if r.Rcp != 1.5 {
		t.Fatalf("Rcp = %v, want 1.5", r.Rcp)
	}
}

func TestProcessNeverNegative(t *testing.T) {
	r := Process(10.0, 10.0, 1.0, 1.0, false)
	if r.Lat < 0 || r.Rcp < 0 {
		t.Fatalf("got negative result: %+v", r)
	}
}

func TestProcessClampsLatToRcp(t *testing.T) {
	// rcp ends up larger than lat after overhead subtraction: lat must
	// be pulled up to match (spec.md §4.6 step 2).
	r := Process(0, 0, 1.0, 3.0, false)
	if r.Lat != 3.0 {
		t.Fatalf("Lat = %v, want 3.0 (clamped to Rcp)", r.Lat)
	}
	if r.Rcp != 3.0 {
		t.Fatalf("Rcp = %v, want 3.0", r.Rcp)
	}
}

func TestRoundResultLowFractionRoundsDown(t *testing.T) {
	r := Process(0, 0, 5.10, 5.10, true)
	if r.Lat != 5.0 {
		t.Fatalf("Lat = %v, want 5.0", r.Lat)
	}
}

func TestRoundResultMidRangeFractionWhenAtMostOne(t *testing.T) {
	r := Process(0, 0, 0.18, 0.18, true)
	if r.Lat != 0.20 {
		t.Fatalf("Lat = %v, want 0.20", r.Lat)
	}
}

func TestRoundResultMidRangeFractionRoundsToZeroWhenAboveOne(t *testing.T) {
	r := Process(0, 0, 3.18, 3.18, true)
	if r.Lat != 3.0 {
		t.Fatalf("Lat = %v, want 3.0", r.Lat)
	}
}

func TestRoundResultQuarterThirdHalfTwoThirds(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{2.25, 2.25},
		{2.35, 2.33},
		{2.55, 2.50},
		{2.68, 2.66},
		{2.90, 3.00},
	}
	for _, c := range cases {
		r := Process(0, 0, c.in, c.in, true)
		if r.Lat != c.want {
			t.Fatalf("round(%v) = %v, want %v", c.in, r.Lat, c.want)
		}
	}
}

func TestRoundResultLargeNOnlyRoundsToWholeOrZero(t *testing.T) {
	r := Process(0, 0, 50.30, 50.30, true)
	if r.Lat != 51.0 {
		t.Fatalf("Lat = %v, want 51.0", r.Lat)
	}
	r = Process(0, 0, 50.10, 50.10, true)
	if r.Lat != 50.0 {
		t.Fatalf("Lat = %v, want 50.0", r.Lat)
	}
}
