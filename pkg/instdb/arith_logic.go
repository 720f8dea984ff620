package instdb

import "github.com/klauspost/cpuid/v2"

// registerArithLogic fills in the core binary ALU instructions from
// the safe-GP allow-list (spec.md §4.2): add/and/or/xor/sub/cmp/test,
// plus adc/sbb and the unary inc/dec/neg/not family.
func registerArithLogic(db *DB) {
	binary := func(mnemonic string) {
		db.add(InstInfo{
			Mnemonic:   mnemonic,
			Signatures: binaryGPSignatures(0, FlagImm8|FlagImm32),
		})
	}
	unary := func(mnemonic string) {
		db.add(InstInfo{
			Mnemonic:   mnemonic,
			Signatures: unaryGPSignatures(),
		})
	}

	binary("add")
	binary("and")
	binary("or")
	binary("xor")
	binary("sub")
	binary("cmp")
	binary("test")
	binary("adc")
	binary("sbb")
	binary("xadd")
	binary("xchg")

	unary("inc")
	unary("dec")
	unary("neg")
	unary("not")

	db.add(InstInfo{Mnemonic: "nop", Signatures: []InstSignature{{Modes: bothModes}}})

	db.add(InstInfo{
		Mnemonic: "andn",
		Signatures: []InstSignature{
			{Modes: bothModes, Operands: []OpSignature{gp(FlagGpd), gp(FlagGpd), gp(FlagGpd)}},
			{Modes: ModeX64, Operands: []OpSignature{gp(FlagGpq), gp(FlagGpq), gp(FlagGpq)}},
		},
		Features: []cpuid.FeatureID{cpuid.BMI1},
	})
}
