package instdb

import "github.com/klauspost/cpuid/v2"

// registerZeroOperand fills in spec.md §4.2 step 2's zero-operand
// special set: cpuid, emms, femms, lfence, mfence, rdtsc, rdtscp,
// sfence, xgetbv, vzeroall, vzeroupper.
func registerZeroOperand(db *DB) {
	zero := func(mnemonic string, features ...cpuid.FeatureID) {
		db.add(InstInfo{
			Mnemonic:   mnemonic,
			Signatures: []InstSignature{{Modes: bothModes, Operands: nil}},
			Features:   features,
		})
	}

	zero("cpuid")
	zero("emms", cpuid.MMX)
	zero("femms")
	zero("lfence", cpuid.SSE2)
	zero("mfence", cpuid.SSE2)
	zero("rdtsc")
	zero("rdtscp")
	zero("sfence", cpuid.SSE)
	zero("xgetbv")
	zero("vzeroall", cpuid.AVX)
	zero("vzeroupper", cpuid.AVX)
}
