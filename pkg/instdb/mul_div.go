package instdb

// registerMulDiv fills in imul (both the two- and three-operand
// forms), and the implicit-accumulator mul/div/idiv family (spec.md
// §4.4: "div/idiv: re-seed eax/edx ... divisor operand is forced into
// cl"; "mul/imul: in parallel mode re-materialise the source operand").
func registerMulDiv(db *DB) {
	db.add(InstInfo{
		Mnemonic: "imul",
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpw), gp(FlagGpw)}},
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq)}},
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpw), gp(FlagGpw), imm(FlagImm8 | FlagImm16)}},
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd), imm(FlagImm8 | FlagImm32)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq), imm(FlagImm8 | FlagImm32)}},
		},
	})

	implicitUnary := func(mnemonic string) {
		db.add(InstInfo{
			Mnemonic: mnemonic,
			Signatures: []InstSignature{
				{Modes: bothModes, Operands: []OpSignature{gp(FlagGpbLo)}},
				{Modes: bothModes, Operands: []OpSignature{gp(FlagGpw)}},
				{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd)}},
				{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq)}},
			},
		})
	}
	implicitUnary("mul")
	implicitUnary("div")
	implicitUnary("idiv")
}
