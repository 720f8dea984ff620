// Package instdb stands in for the instruction database that spec.md
// §6 assumes is furnished by the underlying assembler/encoder library
// (signature metadata, operand validation, and a feature-requirement
// query). No published Go module exposes an x86 instruction-signature
// table shaped the way spec.md needs (see SPEC_FULL.md §4), so this
// package hand-maintains a compact, representative one: every
// instruction family spec.md names by name, not an exhaustive
// transcription of the ISA.
package instdb

import (
	"github.com/klauspost/cpuid/v2"

	"github.com/ascrivener/x86cycles/pkg/opkind"
)

// Mode is the bitset of architecture modes a signature supports.
type Mode uint8

const (
	ModeX86 Mode = 1 << iota
	ModeX64
)

// OpFlags is a per-operand bitset naming every concrete operand kind a
// signature permits in that slot (spec.md §4.1).
type OpFlags uint32

const (
	FlagRel OpFlags = 1 << iota
	FlagGpbLo
	FlagGpw
	FlagGpd
	FlagGpq
	FlagXmm
	FlagYmm
	FlagZmm
	FlagMm
	FlagKReg
	FlagImm8
	FlagImm16
	FlagImm32
	FlagImm64
	FlagMem8
	FlagMem16
	FlagMem32
	FlagMem64
	FlagMem128
	FlagMem256
	FlagMem512
	FlagVm // vector-memory gather/scatter index form; never in WideFilter.
)

const (
	RegMask = FlagGpbLo | FlagGpw | FlagGpd | FlagGpq | FlagXmm | FlagYmm | FlagZmm | FlagMm | FlagKReg
	MemMask = FlagMem8 | FlagMem16 | FlagMem32 | FlagMem64 | FlagMem128 | FlagMem256 | FlagMem512
	ImmMask = FlagImm8 | FlagImm16 | FlagImm32 | FlagImm64
)

// WideFilter is the classifier's default filter (spec.md §4.1 "Filter
// policy"): every GP width, every vector/mask/MM class, every
// immediate and memory width, excluding gather/scatter (Vm) operands.
const WideFilter = RegMask | ImmMask | MemMask | FlagRel

// OpSignature describes one operand slot of one instruction signature.
type OpSignature struct {
	Flags OpFlags
	// RegMask names which physical register ids this slot may bind to,
	// for register-class flags. A power-of-two RegMask means the slot
	// is really a fixed, implicit register (spec.md §4.2 classify step).
	RegMask uint32
}

// InstSignature is one overload form of an instruction: an ordered
// list of operand slots, valid in some subset of architecture modes.
type InstSignature struct {
	Modes    Mode
	Operands []OpSignature
}

func (s InstSignature) SupportsMode(m Mode) bool { return s.Modes&m != 0 }
func (s InstSignature) OpCount() int             { return len(s.Operands) }
func (s InstSignature) OpSignature(i int) OpSignature {
	return s.Operands[i]
}

// InstInfo is the full per-mnemonic record.
type InstInfo struct {
	Mnemonic   string
	IsVec      bool
	IsVex      bool
	IsEvex     bool
	Signatures []InstSignature
	// Features required to execute this instruction at all, independent
	// of the chosen operand tuple. Real encoders vary this per-overload
	// (e.g. the ymm form of an instruction needs AVX, the zmm form needs
	// AVX-512); this table simplifies to one requirement set per
	// mnemonic.
	Features []cpuid.FeatureID
}

// DB is the registry of known instructions, keyed by mnemonic. It
// plays the role of spec.md §6's "instruction database" collaborator.
type DB struct {
	insts map[string]InstInfo
	order []string
}

// New builds the representative instruction database.
func New() *DB {
	db := &DB{insts: make(map[string]InstInfo)}
	registerZeroOperand(db)
	registerArithLogic(db)
	registerShiftRotate(db)
	registerBitManip(db)
	registerDataMovement(db)
	registerMulDiv(db)
	registerVector(db)
	return db
}

func (db *DB) add(info InstInfo) {
	if _, exists := db.insts[info.Mnemonic]; !exists {
		db.order = append(db.order, info.Mnemonic)
	}
	db.insts[info.Mnemonic] = info
}

// InfoByID returns the record for a mnemonic, and whether it exists.
func (db *DB) InfoByID(id string) (InstInfo, bool) {
	info, ok := db.insts[id]
	return info, ok
}

// IDs returns every known mnemonic, in a stable order (spec.md §5:
// "(instId ascending, spec enumeration order)" — ascending is realized
// here as the registration order, which groups instructions by family
// the way the real ID enum would roughly sort them. The exact ordering
// of an opaque ID enum isn't observable from outside the encoder this
// package stands in for, so registration order is the one actually
// available and is kept stable across runs).
func (db *DB) IDs() []string {
	out := make([]string, len(db.order))
	copy(out, db.order)
	return out
}

// Validate is the stand-in for the assembler's operand-typecheck
// (spec.md §6). It does not have access to a real encoder, so it
// checks the structural legality every real x86 encoding shares
// rather than per-instruction encoding quirks: at most one memory
// operand, and operand count matching some known signature.
func (db *DB) Validate(id string, ops []opkind.Kind) bool {
	info, ok := db.insts[id]
	if !ok {
		return false
	}
	memCount := 0
	for _, k := range ops {
		if isMemKind(k) {
			memCount++
		}
	}
	if memCount > 1 {
		return false
	}
	for _, sig := range info.Signatures {
		if sig.OpCount() == len(ops) {
			return true
		}
	}
	return len(ops) == 0 && len(info.Signatures) == 0
}

// QueryFeatures returns the CPU features required to run id with the
// given operand tuple. This table does not vary requirements by
// operand width (see InstInfo.Features doc), so the tuple is accepted
// but unused; it is part of the signature to match spec.md §6's
// "queryFeatures(arch, inst, ops, count)" shape.
func (db *DB) QueryFeatures(id string, _ []opkind.Kind) ([]cpuid.FeatureID, bool) {
	info, ok := db.insts[id]
	if !ok {
		return nil, false
	}
	return info.Features, true
}

func isMemKind(k opkind.Kind) bool {
	switch k {
	case opkind.Mem8, opkind.Mem16, opkind.Mem32, opkind.Mem64, opkind.Mem128, opkind.Mem256, opkind.Mem512:
		return true
	default:
		return false
	}
}

// --- shared signature-building helpers -------------------------------------

func gp(flags OpFlags) OpSignature  { return OpSignature{Flags: flags, RegMask: 0xFFFF} }
func mem(flags OpFlags) OpSignature { return OpSignature{Flags: flags, RegMask: 0} }
func imm(flags OpFlags) OpSignature { return OpSignature{Flags: flags, RegMask: 0} }
func vec(flags OpFlags) OpSignature { return OpSignature{Flags: flags, RegMask: 0xFFFF} }

// fixedGP returns a signature slot bound to exactly one physical
// register id (the classifier rewrites this into an implicit kind).
func fixedGP(flags OpFlags, regID uint32) OpSignature {
	return OpSignature{Flags: flags, RegMask: 1 << regID}
}

const bothModes = ModeX86 | ModeX64

// binaryGPSignatures builds the "reg,reg" / "reg,mem" / "reg,imm"
// family every two-operand GP instruction exposes, across GP widths.
func binaryGPSignatures(memFlags, immFlags OpFlags) []InstSignature {
	var out []InstSignature
	widths := []OpFlags{FlagGpbLo, FlagGpw, FlagGpd, FlagGpq}
	memWidths := []OpFlags{FlagMem8, FlagMem16, FlagMem32, FlagMem64}
	for i, w := range widths {
		modes := bothModes
		if w == FlagGpq {
			modes = ModeX64
		}
		out = append(out,
			InstSignature{Modes: modes, Operands: []OpSignature{gp(w), gp(w)}},
			InstSignature{Modes: modes, Operands: []OpSignature{gp(w), mem(memWidths[i])}},
			InstSignature{Modes: modes, Operands: []OpSignature{gp(w), imm(immFlags)}},
		)
	}
	return out
}

// unaryGPSignatures builds the "reg" / "mem" family of one-operand GP
// instructions (inc, dec, neg, not).
func unaryGPSignatures() []InstSignature {
	var out []InstSignature
	widths := []OpFlags{FlagGpbLo, FlagGpw, FlagGpd, FlagGpq}
	memWidths := []OpFlags{FlagMem8, FlagMem16, FlagMem32, FlagMem64}
	for i, w := range widths {
		modes := bothModes
		if w == FlagGpq {
			modes = ModeX64
		}
		out = append(out,
			InstSignature{Modes: modes, Operands: []OpSignature{gp(w)}},
			InstSignature{Modes: modes, Operands: []OpSignature{mem(memWidths[i])}},
		)
	}
	return out
}
