package jit

// This file extends the base encoder with the additional legacy-prefix,
// general-purpose-only forms the benchmark body needs beyond what the
// original encoder already covered: carry arithmetic, increment family,
// exchange, bit-test, bit-scan, crc32, zero/sign extension, rdrand and
// friends, lea, and the zero-operand "special case" instructions.

var (
	aluAdc = aluOp{0x10, 0x11, 2}
	aluSbb = aluOp{0x18, 0x19, 3}
)

// AdcRegReg: adc dst, src, at operand width w.
func (a *Assembler) AdcRegReg(w Width, dst, src Reg) { a.emitAluRegReg(aluAdc, w, dst, src) }

// SbbRegReg: sbb dst, src, at operand width w.
func (a *Assembler) SbbRegReg(w Width, dst, src Reg) { a.emitAluRegReg(aluSbb, w, dst, src) }

// emitIncDec emits the inc/dec opcode-group forms at width w: FE
// digit 0/1 for byte operands, FF digit 0/1 for word/dword/qword.
func (a *Assembler) emitIncDec(digit Reg, w Width, reg Reg) {
	switch w {
	case Width8:
		if needsByteREX(reg) {
			a.emit(rex(false, false, false, reg >= 8))
		}
		a.emit(0xFE, modRM(0xC0, digit, reg))
	case Width16:
		a.emit(0x66)
		if reg >= 8 {
			a.emit(rex(false, false, false, true))
		}
		a.emit(0xFF, modRM(0xC0, digit, reg))
	case Width32:
		if reg >= 8 {
			a.emit(rex(false, false, false, true))
		}
		a.emit(0xFF, modRM(0xC0, digit, reg))
	default:
		a.emit(rexW(0, reg), 0xFF, modRM(0xC0, digit, reg))
	}
}

// IncReg: inc reg, at operand width w.
func (a *Assembler) IncReg(w Width, reg Reg) { a.emitIncDec(0, w, reg) }

// DecReg: dec reg, at operand width w.
func (a *Assembler) DecReg(w Width, reg Reg) { a.emitIncDec(1, w, reg) }

// XaddRegReg: xadd dst, src, at operand width w. Two-byte opcode
// (0F C0 byte / 0F C1 wider), unlike the single-byte ALU group.
func (a *Assembler) XaddRegReg(w Width, dst, src Reg) {
	switch w {
	case Width8:
		if needsByteREX(dst) || needsByteREX(src) {
			a.emit(rex(false, src >= 8, false, dst >= 8))
		}
		a.emit(0x0F, 0xC0, modRM(0xC0, src, dst))
	case Width16:
		a.emit(0x66)
		if dst >= 8 || src >= 8 {
			a.emit(rex(false, src >= 8, false, dst >= 8))
		}
		a.emit(0x0F, 0xC1, modRM(0xC0, src, dst))
	case Width32:
		if dst >= 8 || src >= 8 {
			a.emit(rex(false, src >= 8, false, dst >= 8))
		}
		a.emit(0x0F, 0xC1, modRM(0xC0, src, dst))
	default:
		a.emit(rexW(src, dst), 0x0F, 0xC1, modRM(0xC0, src, dst))
	}
}

// XchgRegReg: xchg dst, src, at operand width w.
func (a *Assembler) XchgRegReg(w Width, dst, src Reg) {
	a.emitAluRegReg(aluOp{0x86, 0x87, 0}, w, dst, src)
}

// TestRegImm32: test reg, imm, at operand width w.
func (a *Assembler) TestRegImm32(w Width, reg Reg, imm int32) {
	switch w {
	case Width8:
		if needsByteREX(reg) {
			a.emit(rex(false, false, false, reg >= 8))
		}
		a.emit(0xF6, modRM(0xC0, 0, reg), byte(imm))
	case Width16:
		a.emit(0x66)
		if reg >= 8 {
			a.emit(rex(false, false, false, true))
		}
		a.emit(0xF7, modRM(0xC0, 0, reg), byte(imm), byte(imm>>8))
	case Width32:
		if reg >= 8 {
			a.emit(rex(false, false, false, true))
		}
		a.emit(0xF7, modRM(0xC0, 0, reg))
		a.emitInt32(imm)
	default:
		a.emit(rexW(0, reg), 0xF7, modRM(0xC0, 0, reg))
		a.emitInt32(imm)
	}
}

// BtRegReg: bt base, bitIndex (64-bit)
func (a *Assembler) BtRegReg(base, bitIndex Reg) {
	a.emit(rexW(bitIndex, base), 0x0F, 0xA3, modRM(0xC0, bitIndex, base))
}

// BtRegImm8: bt reg, imm8
func (a *Assembler) BtRegImm8(reg Reg, imm byte) {
	a.emit(rexW(0, reg), 0x0F, 0xBA, modRM(0xC0, 4, reg), imm)
}

// BtcRegReg: btc base, bitIndex
func (a *Assembler) BtcRegReg(base, bitIndex Reg) {
	a.emit(rexW(bitIndex, base), 0x0F, 0xBB, modRM(0xC0, bitIndex, base))
}

// BtrRegReg: btr base, bitIndex
func (a *Assembler) BtrRegReg(base, bitIndex Reg) {
	a.emit(rexW(bitIndex, base), 0x0F, 0xB3, modRM(0xC0, bitIndex, base))
}

// BtsRegReg: bts base, bitIndex
func (a *Assembler) BtsRegReg(base, bitIndex Reg) {
	a.emit(rexW(bitIndex, base), 0x0F, 0xAB, modRM(0xC0, bitIndex, base))
}

// BsfRegReg: bsf dst, src
func (a *Assembler) BsfRegReg(dst, src Reg) {
	a.emit(rexW(dst, src), 0x0F, 0xBC, modRM(0xC0, dst, src))
}

// BsrRegReg: bsr dst, src
func (a *Assembler) BsrRegReg(dst, src Reg) {
	a.emit(rexW(dst, src), 0x0F, 0xBD, modRM(0xC0, dst, src))
}

// Crc32RegReg32: crc32 dst, src (32-bit source)
func (a *Assembler) Crc32RegReg32(dst, src Reg) {
	a.emit(0xF2, rexW(dst, src), 0x0F, 0x38, 0xF1, modRM(0xC0, dst, src))
}

// Crc32RegReg8: crc32 dst, src (8-bit source)
func (a *Assembler) Crc32RegReg8(dst, src Reg) {
	a.emit(0xF2, rexW(dst, src), 0x0F, 0x38, 0xF0, modRM(0xC0, dst, src))
}

// MovzxRegReg32From8: movzx dst32, src8
func (a *Assembler) MovzxRegReg32From8(dst, src Reg) {
	a.emit(rex(false, dst >= 8, false, src >= 8), 0x0F, 0xB6, modRM(0xC0, dst, src))
}

// MovzxRegReg32From16: movzx dst32, src16
func (a *Assembler) MovzxRegReg32From16(dst, src Reg) {
	a.emit(rex(false, dst >= 8, false, src >= 8), 0x0F, 0xB7, modRM(0xC0, dst, src))
}

// MovsxRegReg32From8: movsx dst32, src8
func (a *Assembler) MovsxRegReg32From8(dst, src Reg) {
	a.emit(rex(false, dst >= 8, false, src >= 8), 0x0F, 0xBE, modRM(0xC0, dst, src))
}

// MovsxRegReg32From16: movsx dst32, src16
func (a *Assembler) MovsxRegReg32From16(dst, src Reg) {
	a.emit(rex(false, dst >= 8, false, src >= 8), 0x0F, 0xBF, modRM(0xC0, dst, src))
}

// MulReg: mul reg (unsigned multiply: dividend-sized accumulator *
// reg), at operand width w. At Width8 the implicit operand is AL
// alone, result AX; at wider widths it's RDX:RAX/EDX:EAX/DX:AX.
func (a *Assembler) MulReg(w Width, reg Reg) { a.emitUnaryF6F7(4, w, reg) }

// emitRdrandSeed emits the 0F C7 /digit rdrand/rdseed forms at width
// w. No byte form exists - only Width16/32/64 are ever requested.
func (a *Assembler) emitRdrandSeed(digit Reg, w Width, reg Reg) {
	switch w {
	case Width16:
		a.emit(0x66)
		if reg >= 8 {
			a.emit(rex(false, false, false, true))
		}
		a.emit(0x0F, 0xC7, modRM(0xC0, digit, reg))
	case Width32:
		if reg >= 8 {
			a.emit(rex(false, false, false, true))
		}
		a.emit(0x0F, 0xC7, modRM(0xC0, digit, reg))
	default:
		a.emit(rexW(0, reg), 0x0F, 0xC7, modRM(0xC0, digit, reg))
	}
}

// Rdrand: rdrand reg, at operand width w.
func (a *Assembler) Rdrand(w Width, reg Reg) { a.emitRdrandSeed(6, w, reg) }

// Rdseed: rdseed reg, at operand width w.
func (a *Assembler) Rdseed(w Width, reg Reg) { a.emitRdrandSeed(7, w, reg) }

// LeaRegBaseIndexDisp: lea dst, [base + index*1 + disp]. index == -1 means
// no index register.
func (a *Assembler) LeaRegBaseIndexDisp(dst, base Reg, index int, disp int32) {
	useSIB := index >= 0 || base == RSP || base == R12
	hasDisp8 := disp >= -128 && disp <= 127 && disp != 0
	mod := byte(0x80)
	if disp == 0 && base != RBP && base != R13 {
		mod = 0x00
	} else if hasDisp8 {
		mod = 0x40
	}

	if useSIB {
		idx := RSP // "no index" encoding
		if index >= 0 {
			idx = Reg(index)
		}
		a.emit(rex(true, dst >= 8, idx >= 8, base >= 8), 0x8D, modRM(mod, dst, RSP))
		a.emit(byte(idx&7)<<3 | byte(base&7))
	} else {
		a.emit(rexW(dst, base), 0x8D, modRM(mod, dst, base))
	}
	if mod == 0x40 {
		a.emit(byte(disp))
	} else if mod == 0x80 {
		a.emitInt32(disp)
	}
}

// Cpuid: cpuid
func (a *Assembler) Cpuid() { a.emit(0x0F, 0xA2) }

// Rdtsc: rdtsc
func (a *Assembler) Rdtsc() { a.emit(0x0F, 0x31) }

// Rdtscp: rdtscp
func (a *Assembler) Rdtscp() { a.emit(0x0F, 0x01, 0xF9) }

// Lfence: lfence
func (a *Assembler) Lfence() { a.emit(0x0F, 0xAE, 0xE8) }

// Mfence: mfence
func (a *Assembler) Mfence() { a.emit(0x0F, 0xAE, 0xF0) }

// Sfence: sfence
func (a *Assembler) Sfence() { a.emit(0x0F, 0xAE, 0xF8) }

// Emms: emms
func (a *Assembler) Emms() { a.emit(0x0F, 0x77) }

// Xgetbv: xgetbv
func (a *Assembler) Xgetbv() { a.emit(0x0F, 0x01, 0xD0) }

// The shift and rotate encoders (ShlRegImm8, ShlRegCL and friends) live
// in x86asm.go's emitShiftGroup and take a Width covering 8/16/32/64-bit
// operands; nothing further is added for them here.
