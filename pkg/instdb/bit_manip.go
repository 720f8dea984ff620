package instdb

import "github.com/klauspost/cpuid/v2"

// registerBitManip fills in bt/btc/btr/bts, bsf/bsr/bswap, the
// popcnt/lzcnt/tzcnt family, crc32, and the BMI1 single-operand forms
// (blsi/blsr/blsmsk/bextr).
func registerBitManip(db *DB) {
	bitTest := func(mnemonic string) {
		var sigs []InstSignature
		widths := []OpFlags{FlagGpw, FlagGpd, FlagGpq}
		memWidths := []OpFlags{FlagMem16, FlagMem32, FlagMem64}
		for i, w := range widths {
			modes := bothModes
			if w == FlagGpq {
				modes = ModeX64
			}
			sigs = append(sigs,
				InstSignature{Modes: modes, Operands: []OpSignature{gp(w), gp(w)}},
				InstSignature{Modes: modes, Operands: []OpSignature{gp(w), imm(FlagImm8)}},
				InstSignature{Modes: modes, Operands: []OpSignature{mem(memWidths[i]), gp(w)}},
			)
		}
		db.add(InstInfo{Mnemonic: mnemonic, Signatures: sigs})
	}
	bitTest("bt")
	bitTest("btc")
	bitTest("btr")
	bitTest("bts")

	scan := func(mnemonic string) {
		db.add(InstInfo{
			Mnemonic: mnemonic,
			Signatures: []InstSignature{
				{Modes: bothModes, Operands: []OpSignature{gp(FlagGpw), gp(FlagGpw)}},
				{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd)}},
				{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq)}},
			},
		})
	}
	scan("bsf")
	scan("bsr")

	db.add(InstInfo{
		Mnemonic: "bswap",
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq)}},
		},
	})

	popcntLike := func(mnemonic string, feature cpuid.FeatureID) {
		db.add(InstInfo{
			Mnemonic: mnemonic,
			Signatures: []InstSignature{
				{Modes: bothModes, Operands: []OpSignature{gp(FlagGpw), gp(FlagGpw)}},
				{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd)}},
				{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq)}},
			},
			Features: []cpuid.FeatureID{feature},
		})
	}
	popcntLike("popcnt", cpuid.POPCNT)
	popcntLike("lzcnt", cpuid.LZCNT)
	popcntLike("tzcnt", cpuid.BMI1)

	db.add(InstInfo{
		Mnemonic: "crc32",
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpbLo)}},
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq)}},
		},
		Features: []cpuid.FeatureID{cpuid.SSE42},
	})

	bmi1Unary := func(mnemonic string) {
		db.add(InstInfo{
			Mnemonic: mnemonic,
			Signatures: []InstSignature{
				{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd)}},
				{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq)}},
			},
			Features: []cpuid.FeatureID{cpuid.BMI1},
		})
	}
	bmi1Unary("blsi")
	bmi1Unary("blsr")
	bmi1Unary("blsmsk")

	db.add(InstInfo{
		Mnemonic: "bextr",
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd), gp(FlagGpd)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq), gp(FlagGpq)}},
		},
		Features: []cpuid.FeatureID{cpuid.BMI1},
	})

	db.add(InstInfo{
		Mnemonic: "rdrand",
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpw)}},
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq)}},
		},
		Features: []cpuid.FeatureID{cpuid.RDRAND},
	})
	db.add(InstInfo{
		Mnemonic: "rdseed",
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpw)}},
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq)}},
		},
		Features: []cpuid.FeatureID{cpuid.RDSEED},
	})
}
