package instdb

import "github.com/klauspost/cpuid/v2"

// registerShiftRotate fills in shl/shr/sar/rol/ror/rcl/rcr, each
// shifting by an 8-bit immediate or (implicitly) by CL, plus the
// BMI2 *x variable-shift forms.
func registerShiftRotate(db *DB) {
	shiftFamily := func(mnemonic string) {
		var sigs []InstSignature
		widths := []OpFlags{FlagGpbLo, FlagGpw, FlagGpd, FlagGpq}
		memWidths := []OpFlags{FlagMem8, FlagMem16, FlagMem32, FlagMem64}
		for i, w := range widths {
			modes := bothModes
			if w == FlagGpq {
				modes = ModeX64
			}
			sigs = append(sigs,
				InstSignature{Modes: modes, Operands: []OpSignature{gp(w), imm(FlagImm8)}},
				InstSignature{Modes: modes, Operands: []OpSignature{gp(w), fixedGP(FlagGpbLo, 1)}}, // shift by cl
				InstSignature{Modes: modes, Operands: []OpSignature{mem(memWidths[i]), imm(FlagImm8)}},
			)
		}
		db.add(InstInfo{Mnemonic: mnemonic, Signatures: sigs})
	}

	shiftFamily("shl")
	shiftFamily("shr")
	shiftFamily("sar")
	shiftFamily("rol")
	shiftFamily("ror")
	shiftFamily("rcl")
	shiftFamily("rcr")

	variableShift := func(mnemonic string) {
		db.add(InstInfo{
			Mnemonic: mnemonic,
			Signatures: []InstSignature{
				{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd), gp(FlagGpd)}},
				{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq), gp(FlagGpq)}},
			},
			Features: []cpuid.FeatureID{cpuid.BMI2},
		})
	}
	variableShift("shlx")
	variableShift("shrx")
	variableShift("sarx")

	db.add(InstInfo{
		Mnemonic: "rorx",
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd), imm(FlagImm8)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq), imm(FlagImm8)}},
		},
		Features: []cpuid.FeatureID{cpuid.BMI2},
	})

	shiftDouble := func(mnemonic string) {
		db.add(InstInfo{
			Mnemonic: mnemonic,
			Signatures: []InstSignature{
				{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd), imm(FlagImm8)}},
				{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq), imm(FlagImm8)}},
			},
		})
	}
	shiftDouble("shld")
	shiftDouble("shrd")
}
