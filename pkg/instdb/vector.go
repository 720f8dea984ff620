package instdb

import "github.com/klauspost/cpuid/v2"

// registerVector fills in representative SSE/AVX/AVX-512 and MMX
// forms: enough for the classifier's vec/MMX/mask-register paths and
// the body emitter's masked-load prologue (spec.md §4.4) to have real
// instructions to exercise.
func registerVector(db *DB) {
	sseBinary := func(mnemonic string, feature cpuid.FeatureID) {
		db.add(InstInfo{
			Mnemonic: mnemonic,
			IsVec:    true,
			Signatures: []InstSignature{
				{Modes: bothModes, Operands: []OpSignature{vec(FlagXmm), vec(FlagXmm)}},
				{Modes: bothModes, Operands: []OpSignature{vec(FlagXmm), mem(FlagMem128)}},
			},
			Features: []cpuid.FeatureID{feature},
		})
	}
	sseBinary("movaps", cpuid.SSE)
	sseBinary("movups", cpuid.SSE)
	sseBinary("addps", cpuid.SSE)
	sseBinary("addss", cpuid.SSE)
	sseBinary("mulps", cpuid.SSE)
	sseBinary("andps", cpuid.SSE)
	sseBinary("xorps", cpuid.SSE)
	sseBinary("pand", cpuid.SSE2)
	sseBinary("pxor", cpuid.SSE2)
	sseBinary("paddb", cpuid.SSE2)
	sseBinary("pcmpeqb", cpuid.SSE2)

	db.add(InstInfo{
		Mnemonic: "movq",
		IsVec:    true,
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{vec(FlagMm), vec(FlagMm)}},
		},
		Features: []cpuid.FeatureID{cpuid.MMX},
	})

	avxBinary := func(mnemonic string, feature cpuid.FeatureID) {
		db.add(InstInfo{
			Mnemonic: mnemonic,
			IsVec:    true,
			IsVex:    true,
			Signatures: []InstSignature{
				{Modes: bothModes, Operands: []OpSignature{vec(FlagXmm), vec(FlagXmm), vec(FlagXmm)}},
				{Modes: bothModes, Operands: []OpSignature{vec(FlagYmm), vec(FlagYmm), vec(FlagYmm)}},
				{Modes: bothModes, Operands: []OpSignature{vec(FlagXmm), vec(FlagXmm), mem(FlagMem128)}},
				{Modes: bothModes, Operands: []OpSignature{vec(FlagYmm), vec(FlagYmm), mem(FlagMem256)}},
			},
			Features: []cpuid.FeatureID{feature},
		})
	}
	avxBinary("vaddps", cpuid.AVX)
	avxBinary("vmulps", cpuid.AVX)
	avxBinary("vpand", cpuid.AVX2)
	avxBinary("vpxor", cpuid.AVX2)
	avxBinary("vpaddb", cpuid.AVX2)

	db.add(InstInfo{
		Mnemonic: "vmovaps",
		IsVec:    true,
		IsVex:    true,
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{vec(FlagXmm), vec(FlagXmm)}},
			{Modes: bothModes, Operands: []OpSignature{vec(FlagYmm), vec(FlagYmm)}},
			{Modes: bothModes, Operands: []OpSignature{vec(FlagZmm), vec(FlagZmm)}},
		},
		Features: []cpuid.FeatureID{cpuid.AVX},
	})

	// Masked vector load/store: spec.md §4.4 singles these out for a
	// dedicated prologue that builds the mask in ymm1 and pins it
	// across the unroll. Load form: dst, mask, mem. Store form: mem,
	// mask, src.
	db.add(InstInfo{
		Mnemonic: "vmaskmovps",
		IsVec:    true,
		IsVex:    true,
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{vec(FlagYmm), vec(FlagYmm), mem(FlagMem256)}},
			{Modes: bothModes, Operands: []OpSignature{mem(FlagMem256), vec(FlagYmm), vec(FlagYmm)}},
		},
		Features: []cpuid.FeatureID{cpuid.AVX},
	})
	db.add(InstInfo{
		Mnemonic: "vpmaskmovd",
		IsVec:    true,
		IsVex:    true,
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{vec(FlagYmm), vec(FlagYmm), mem(FlagMem256)}},
			{Modes: bothModes, Operands: []OpSignature{mem(FlagMem256), vec(FlagYmm), vec(FlagYmm)}},
		},
		Features: []cpuid.FeatureID{cpuid.AVX2},
	})

	maskBinary := func(mnemonic string) {
		db.add(InstInfo{
			Mnemonic: mnemonic,
			IsVec:    true,
			Signatures: []InstSignature{
				{Modes: bothModes, Operands: []OpSignature{vec(FlagKReg), vec(FlagKReg), vec(FlagKReg)}},
			},
			Features: []cpuid.FeatureID{cpuid.AVX512F},
		})
	}
	maskBinary("kandw")
	maskBinary("korw")
	maskBinary("kxorw")

	db.add(InstInfo{
		Mnemonic: "vpaddb512",
		IsVec:    true,
		IsEvex:   true,
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{vec(FlagZmm), vec(FlagZmm), vec(FlagZmm)}},
		},
		Features: []cpuid.FeatureID{cpuid.AVX512F},
	})
}
