package instdb

// registerDataMovement fills in mov, movzx/movsx/movsxd, movbe,
// push/pop, cdq/cdqe/cqo/cwd (the hand-listed dependency-injection
// targets from spec.md §4.4), and lea/call/jmp are handled separately
// by the classifier's hand-coded specs, not the database.
func registerDataMovement(db *DB) {
	db.add(InstInfo{Mnemonic: "mov", Signatures: binaryGPSignatures(0, FlagImm32|FlagImm64)})
	db.add(InstInfo{Mnemonic: "movbe", Signatures: binaryGPSignatures(0, 0)})

	widen := func(mnemonic string, srcFlags ...OpFlags) {
		var sigs []InstSignature
		dstWidths := []OpFlags{FlagGpw, FlagGpd, FlagGpq}
		for _, dw := range dstWidths {
			modes := bothModes
			if dw == FlagGpq {
				modes = ModeX64
			}
			for _, sw := range srcFlags {
				sigs = append(sigs, InstSignature{Modes: modes, Operands: []OpSignature{gp(dw), gp(sw)}})
			}
		}
		db.add(InstInfo{Mnemonic: mnemonic, Signatures: sigs})
	}
	widen("movzx", FlagGpbLo, FlagGpw)
	widen("movsx", FlagGpbLo, FlagGpw)

	db.add(InstInfo{
		Mnemonic: "movsxd",
		Signatures: []InstSignature{
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpd)}},
		},
	})

	db.add(InstInfo{
		Mnemonic: "push",
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpw)}},
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq)}},
		},
	})
	db.add(InstInfo{
		Mnemonic: "pop",
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpw)}},
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq)}},
		},
	})

	// Implicit-operand sign/zero-extension instructions: no explicit
	// operands, fixed source/destination accumulator registers.
	db.add(InstInfo{Mnemonic: "cwd", Signatures: []InstSignature{{Modes: bothModes}}})
	db.add(InstInfo{Mnemonic: "cdq", Signatures: []InstSignature{{Modes: bothModes}}})
	db.add(InstInfo{Mnemonic: "cdqe", Signatures: []InstSignature{{Modes: ModeX64}}})
	db.add(InstInfo{Mnemonic: "cqo", Signatures: []InstSignature{{Modes: ModeX64}}})
}
