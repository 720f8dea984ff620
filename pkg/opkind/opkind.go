// Package opkind defines the closed enumeration of operand kinds the
// benchmark understands, and the packed six-slot instruction-shape
// value (InstSpec) built from them.
package opkind

// Kind identifies one concrete operand shape: a register class, a
// specific implicit register, an immediate width, or a memory access
// width.
type Kind uint8

const (
	None Kind = iota
	Rel

	// Implicit (fixed, specific-register) general-purpose operands.
	Al
	Cl
	Dl
	Bl
	Ax
	Cx
	Dx
	Bx
	Eax
	Ecx
	Edx
	Ebx
	Rax
	Rcx
	Rdx
	Rbx

	// Generic general-purpose register classes.
	Gpb
	Gpw
	Gpd
	Gpq

	// Vector and mask registers.
	Mm
	Xmm
	Xmm0
	Ymm
	Zmm
	KReg

	// Immediates.
	Imm8
	Imm16
	Imm32
	Imm64

	// Memory operands, named by access width.
	Mem8
	Mem16
	Mem32
	Mem64
	Mem128
	Mem256
	Mem512

	kindCount
)

// IsImplicit reports whether k names one specific physical register
// rather than a register class.
func IsImplicit(k Kind) bool {
	return (k >= Al && k <= Rbx) || k == Xmm0
}

// String renders k the way output records spell operand tokens
// (spec.md §6, instSpecOpAsString).
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

var kindNames = [kindCount]string{
	None:   "none",
	Rel:    "rel",
	Al:     "al",
	Cl:     "cl",
	Dl:     "dl",
	Bl:     "bl",
	Ax:     "ax",
	Cx:     "cx",
	Dx:     "dx",
	Bx:     "bx",
	Eax:    "eax",
	Ecx:    "ecx",
	Edx:    "edx",
	Ebx:    "ebx",
	Rax:    "rax",
	Rcx:    "rcx",
	Rdx:    "rdx",
	Rbx:    "rbx",
	Gpb:    "r8",
	Gpw:    "r16",
	Gpd:    "r32",
	Gpq:    "r64",
	Mm:     "mm",
	Xmm:    "xmm",
	Xmm0:   "xmm0",
	Ymm:    "ymm",
	Zmm:    "zmm",
	KReg:   "k",
	Imm8:   "i8",
	Imm16:  "i16",
	Imm32:  "i32",
	Imm64:  "i64",
	Mem8:   "m8",
	Mem16:  "m16",
	Mem32:  "m32",
	Mem64:  "m64",
	Mem128: "m128",
	Mem256: "m256",
	Mem512: "m512",
}

// MaxOperands is the fixed arity InstSpec packs: every x86 signature
// this benchmark targets fits in six operand slots.
const MaxOperands = 6

// InstSpec is a packed six-slot operand-kind tuple identifying one
// benchmarkable operand shape of an instruction (spec.md §3).
//
// It is packed as a single 64-bit word, one byte per slot, so that
// equality and deduplication are plain word comparisons.
type InstSpec uint64

// Pack builds an InstSpec from up to MaxOperands kinds, left to right.
// Unused trailing slots are implicitly None.
func Pack(kinds ...Kind) InstSpec {
	var v InstSpec
	for i, k := range kinds {
		if i >= MaxOperands {
			break
		}
		v |= InstSpec(k) << (8 * uint(i))
	}
	return v
}

// Get returns the operand kind at slot i (0-indexed).
func (s InstSpec) Get(i int) Kind {
	return Kind((s >> (8 * uint(i))) & 0xFF)
}

// Count returns the number of leading non-None slots, i.e. the index
// of the first trailing run of None. Result is in [0, MaxOperands].
func (s InstSpec) Count() int {
	n := 0
	for n < MaxOperands && s.Get(n) != None {
		n++
	}
	return n
}

// IsValid reports whether the packed word is non-zero (has at least
// one operand), mirroring the reference tool's InstSpec::isValid for
// the zero-operand sentinel case being handled separately by callers.
func (s InstSpec) IsValid() bool {
	return s != 0
}
