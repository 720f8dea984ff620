// Package postprocess implements the result post-processor (spec.md
// §4.6): overhead subtraction, the latency-vs-throughput sanity clamp,
// and optional rounding to canonical pipeline fractions.
package postprocess

import "math"

// Result is one instruction's final reported numbers.
type Result struct {
	Lat float64
	Rcp float64
}

// Process combines the four raw driver readings (spec.md §4.6) into a
// final Result. round enables snapping both values to the canonical
// fraction table.
func Process(latOverhead, rcpOverhead, lat, rcp float64, round bool) Result {
	lat = math.Max(lat-latOverhead, 0)
	rcp = math.Max(rcp-rcpOverhead, 0)
	if rcp > lat {
		lat = rcp
	}
	if round {
		lat = roundResult(lat)
		rcp = roundResult(rcp)
	}
	return Result{Lat: lat, Rcp: rcp}
}

// roundResult snaps v to the nearest canonical cycle fraction
// (0, 1/5, 1/4, 1/3, 1/2, 2/3, 1), following instbench.cpp's
// roundResult exactly, including its asymmetric treatment of the
// (0.12, 0.22] fractional range: only readings whose whole-cycle part
// is at most one round up to a fifth there, everything else rounds
// down to zero.
func roundResult(v float64) float64 {
	n := math.Floor(v)
	f := v - n

	if n >= 50 {
		if f <= 0.12 {
			f = 0
		} else {
			f = 1
		}
		return n + f
	}

	switch {
	case f <= 0.12:
		f = 0
	case f <= 0.22:
		if n <= 1 {
			f = 0.20
		} else {
			f = 0
		}
	case f <= 0.28:
		f = 0.25
	case f <= 0.38:
		f = 0.33
	case f <= 0.57:
		f = 0.50
	case f <= 0.70:
		f = 0.66
	default:
		f = 1.00
	}
	return n + f
}
