// Package opstream builds the per-slot operand streams a benchmark
// body's unrolled instructions are fed from: which physical register
// each of the n unrolled copies binds to, which immediate value, and
// which memory displacement (spec.md §4.3). Register choice follows a
// fixed rotation pattern keyed by how many register operands the
// instruction has and whether the body is serial (true dependency
// chain) or parallel (independent destinations).
package opstream

import "github.com/ascrivener/x86cycles/pkg/opkind"

// Pools are the register-id bitmasks (bit i set means physical
// register i is available) each register class draws from.
type Pools struct {
	GP   uint32
	Vec  uint32
	KReg uint32
	MM   uint32
}

// spIdx is the stack-pointer's GP register id, never handed out as an
// operand register.
const spIdx = 4

// DefaultPools returns the standard register pools, excluding the
// stack pointer and the physical register used as the loop counter
// from the GP pool, and k0 (the "no mask" encoding) from the mask
// pool.
func DefaultPools(counterRegID uint32) Pools {
	gp := uint32(0xFF) &^ (1 << spIdx) &^ (1 << counterRegID)
	return Pools{GP: gp, Vec: 0xFF, KReg: 0xFE, MM: 0xFF}
}

// Reserve removes the physical register backing an implicit GP operand
// kind (al/ax/eax/rax and friends) from the GP pool, so the rotation
// never hands that register to another operand slot.
func (p Pools) Reserve(k opkind.Kind) Pools {
	switch k {
	case opkind.Al, opkind.Ax, opkind.Eax, opkind.Rax:
		p.GP &^= 1 << 0
	case opkind.Cl, opkind.Cx, opkind.Ecx, opkind.Rcx:
		p.GP &^= 1 << 1
	case opkind.Dl, opkind.Dx, opkind.Edx, opkind.Rdx:
		p.GP &^= 1 << 2
	case opkind.Bl, opkind.Bx, opkind.Ebx, opkind.Rbx:
		p.GP &^= 1 << 3
	}
	return p
}

// MaskFor returns the pool bitmask backing a register-class kind.
func (p Pools) MaskFor(k opkind.Kind) uint32 {
	switch k {
	case opkind.Gpb, opkind.Gpw, opkind.Gpd, opkind.Gpq:
		return p.GP
	case opkind.Xmm, opkind.Ymm, opkind.Zmm:
		return p.Vec
	case opkind.KReg:
		return p.KReg
	case opkind.Mm:
		return p.MM
	default:
		return 0
	}
}

// RegCount returns the number of leading slots of spec that are
// register operands, i.e. opCount with any trailing immediate or
// memory slots excluded (those don't participate in the rotation
// pattern below).
func RegCount(spec opkind.InstSpec) int {
	n := spec.Count()
	for n > 0 && spec.Get(n-1) >= opkind.Imm8 {
		n--
	}
	return n
}

// Rotation returns the (start, increment) walk parameters for register
// slot i of regCount register slots, in either the serial
// (true-dependency-chain) or parallel (independent-destination) unroll
// pattern. See spec.md §4.3 for the intent behind each case.
func Rotation(i, regCount int, parallel bool) (start, inc uint32) {
	inc = 1
	switch regCount {
	case 1:
		if !parallel {
			inc = 0
		}
	case 2:
		switch {
		case !parallel && i == 0:
			start = 1
		case !parallel:
			start = 0
		case i == 0:
			start = 0
		default:
			start = 1
		}
	case 3:
		switch {
		case !parallel && i < 2:
			start = 1
		case !parallel:
			start = 0
		case i < 2:
			start = 0
		default:
			start = 1
		}
	default: // 4, 5, 6
		if !parallel {
			switch {
			case i < 1:
				start = 2
			case i < 3:
				start = 1
			default:
				start = 0
			}
		} else {
			switch {
			case i < 1:
				start = 0
			case i < 3:
				start = 1
			default:
				start = 2
			}
		}
	}
	return
}

// FillRegArray walks mask's set bits starting at rStart (mod the
// number of available ids), advancing by rInc each of count steps, and
// returns the resulting physical register id for each unrolled copy.
func FillRegArray(count int, rStart, rInc, mask uint32) []uint32 {
	var ids []uint32
	for b := uint32(0); b < 32; b++ {
		if mask&(1<<b) != 0 {
			ids = append(ids, b)
		}
	}
	out := make([]uint32, count)
	if len(ids) == 0 {
		return out
	}
	n := uint32(len(ids))
	rID := rStart % n
	for i := 0; i < count; i++ {
		out[i] = ids[rID]
		rID = (rID + rInc) % n
	}
	return out
}

// immStream is one immediate kind's (start, increment, maxValue) walk,
// chosen so that successive unrolled copies see varied, non-degenerate
// immediates without ever producing a value the encoder can't fit in
// the operand's width.
type immStream struct {
	start, inc, max uint64
}

var immStreams = map[opkind.Kind]immStream{
	opkind.Imm8:  {start: 0, inc: 1, max: 15},
	opkind.Imm16: {start: 1, inc: 13099, max: 65535},
	opkind.Imm32: {start: 1, inc: 19231, max: 2000000000},
	opkind.Imm64: {start: 1, inc: 9876543219231, max: 0x0FFFFFFFFFFFFFFF},
}

// FillImmArray returns count successive immediates for an immediate
// operand kind, wrapping modulo the kind's canonical maximum.
func FillImmArray(k opkind.Kind, count int) []uint64 {
	s, ok := immStreams[k]
	if !ok {
		s = immStream{start: 1, inc: 1, max: 0xFFFFFFFF}
	}
	out := make([]uint64, count)
	n := s.start
	for i := 0; i < count; i++ {
		out[i] = n
		n = (n + s.inc) % (s.max + 1)
	}
	return out
}

// memIncrement is the per-copy displacement step a memory operand kind
// advances by in the parallel pattern (each unrolled copy touches a
// distinct, non-overlapping slice of the scratch buffer); the serial
// pattern always reuses offset 0, so every copy creates a true
// dependency on the same memory location.
var memIncrement = map[opkind.Kind]int32{
	opkind.Mem8: 1, opkind.Mem16: 2, opkind.Mem32: 4, opkind.Mem64: 8,
	opkind.Mem128: 16, opkind.Mem256: 32, opkind.Mem512: 64,
}

// FillMemArray returns count successive byte displacements for a
// memory operand kind, relative to the scratch buffer base.
func FillMemArray(k opkind.Kind, count int, parallel bool) []int32 {
	inc := int32(0)
	if parallel {
		inc = memIncrement[k]
	}
	out := make([]int32, count)
	var off int32
	for i := 0; i < count; i++ {
		out[i] = off
		off += inc
	}
	return out
}
