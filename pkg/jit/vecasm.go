package jit

// This file extends the encoder with SSE (legacy-prefix) vector forms
// and the subset of VEX-encoded AVX/BMI forms whose operand shape is a
// plain three-operand NDS (non-destructive source): dst, src1, src2.
// EVEX-encoded (AVX-512) and mask-register forms, and the handful of
// VEX instructions outside the plain NDS shape (shlx/shrx/sarx put the
// shift count in vvvv rather than rm; rorx takes an imm8 count), are
// deliberately not emitted here — see DESIGN.md. The
// compiler reports those tuples as unsupported rather than guess at an
// unverified encoding.

// vexPP is the VEX "implied legacy prefix" field.
type vexPP byte

const (
	vexPPNone vexPP = 0
	vexPP66   vexPP = 1
	vexPPF3   vexPP = 2
	vexPPF2   vexPP = 3
)

// vex2 emits the two-byte VEX prefix (0F-map only). Every register this
// encoder hands out has id < 8 (see opstream's 8-bit pool masks), so the
// R/X/B extension bits are always 1 (not extended) and the short form
// always applies.
func (a *Assembler) vex2(vvvv Reg, l256 bool, pp vexPP) {
	l := byte(0)
	if l256 {
		l = 1
	}
	byte1 := byte(0x80) | (byte(^vvvv&0xF) << 3) | (l << 2) | byte(pp)
	a.emit(0xC5, byte1)
}

// vex3 emits the three-byte VEX prefix, for the 0F38/0F3A maps.
const (
	vexMap0F38 byte = 2
	vexMap0F3A byte = 3
)

func (a *Assembler) vex3(vvvv Reg, l256, w bool, pp vexPP, mmmmm byte) {
	byte1 := byte(0xE0) | mmmmm
	wBit := byte(0)
	if w {
		wBit = 1
	}
	l := byte(0)
	if l256 {
		l = 1
	}
	byte2 := (wBit << 7) | (byte(^vvvv&0xF) << 3) | (l << 2) | byte(pp)
	a.emit(0xC4, byte1, byte2)
}

// --- SSE (legacy prefix, 0F map) --------------------------------------------

func (a *Assembler) sse2op(prefix byte, opcode byte, dst, src Reg) {
	if prefix != 0 {
		a.emit(prefix)
	}
	a.emit(0x0F, opcode, modRM(0xC0, dst, src))
}

func (a *Assembler) MovapsRegReg(dst, src Reg)  { a.sse2op(0, 0x28, dst, src) }
func (a *Assembler) MovupsRegReg(dst, src Reg)  { a.sse2op(0, 0x10, dst, src) }
func (a *Assembler) AddpsRegReg(dst, src Reg)   { a.sse2op(0, 0x58, dst, src) }
func (a *Assembler) AddssRegReg(dst, src Reg)   { a.sse2op(0xF3, 0x58, dst, src) }
func (a *Assembler) MulpsRegReg(dst, src Reg)   { a.sse2op(0, 0x59, dst, src) }
func (a *Assembler) AndpsRegReg(dst, src Reg)   { a.sse2op(0, 0x54, dst, src) }
func (a *Assembler) XorpsRegReg(dst, src Reg)   { a.sse2op(0, 0x57, dst, src) }
func (a *Assembler) PandRegReg(dst, src Reg)    { a.sse2op(0x66, 0xDB, dst, src) }
func (a *Assembler) PxorRegReg(dst, src Reg)    { a.sse2op(0x66, 0xEF, dst, src) }
func (a *Assembler) PaddbRegReg(dst, src Reg)   { a.sse2op(0x66, 0xFC, dst, src) }
func (a *Assembler) PcmpeqbRegReg(dst, src Reg) { a.sse2op(0x66, 0x74, dst, src) }

// MovqMmReg: movq mm, mm (MMX register move; id range reuses Reg 0-7).
func (a *Assembler) MovqMmReg(dst, src Reg) { a.sse2op(0, 0x6F, dst, src) }

// --- AVX (VEX-encoded, NDS 3-operand or 2-operand) --------------------------

func (a *Assembler) vexNDS3(pp vexPP, opcode byte, dst, src1, src2 Reg, l256 bool) {
	a.vex2(src1, l256, pp)
	a.emit(opcode, modRM(0xC0, dst, src2))
}

func (a *Assembler) VaddpsRegRegReg(dst, src1, src2 Reg, l256 bool) {
	a.vexNDS3(vexPPNone, 0x58, dst, src1, src2, l256)
}
func (a *Assembler) VmulpsRegRegReg(dst, src1, src2 Reg, l256 bool) {
	a.vexNDS3(vexPPNone, 0x59, dst, src1, src2, l256)
}
func (a *Assembler) VpandRegRegReg(dst, src1, src2 Reg, l256 bool) {
	a.vexNDS3(vexPP66, 0xDB, dst, src1, src2, l256)
}
func (a *Assembler) VpxorRegRegReg(dst, src1, src2 Reg, l256 bool) {
	a.vexNDS3(vexPP66, 0xEF, dst, src1, src2, l256)
}
func (a *Assembler) VpaddbRegRegReg(dst, src1, src2 Reg, l256 bool) {
	a.vexNDS3(vexPP66, 0xFC, dst, src1, src2, l256)
}

// VmovapsRegReg: vmovaps dst, src (2-operand, vvvv unused -> 1111).
func (a *Assembler) VmovapsRegReg(dst, src Reg, l256 bool) {
	a.vex2(0xF, l256, vexPPNone)
	a.emit(0x28, modRM(0xC0, dst, src))
}

// --- BMI1 (VEX-encoded, 0F38 map, plain NDS shape) --------------------------

// AndnRegRegReg: andn dst, src1, src2 (dst = ^src1 & src2).
func (a *Assembler) AndnRegRegReg(dst, src1, src2 Reg) {
	a.vex3(src1, false, true, vexPPNone, vexMap0F38)
	a.emit(0xF2, modRM(0xC0, dst, src2))
}

// BextrRegRegReg: bextr dst, src, ctrl.
func (a *Assembler) BextrRegRegReg(dst, src, ctrl Reg) {
	a.vex3(ctrl, false, true, vexPPNone, vexMap0F38)
	a.emit(0xF7, modRM(0xC0, dst, src))
}

// blsiLike covers blsi/blsr/blsmsk, which share the NDD shape: the
// destination is encoded in vvvv (not the reg field), the source is
// rm, and the opcode extension in the reg field selects the operation.
func (a *Assembler) blsiLike(regField byte, dst, src Reg) {
	a.vex3(dst, false, true, vexPPNone, vexMap0F38)
	a.emit(0xF3, modRM(0xC0, Reg(regField), src))
}

func (a *Assembler) BlsiRegReg(dst, src Reg)   { a.blsiLike(3, dst, src) }
func (a *Assembler) BlsrRegReg(dst, src Reg)   { a.blsiLike(1, dst, src) }
func (a *Assembler) BlsmskRegReg(dst, src Reg) { a.blsiLike(2, dst, src) }

// Femms: femms (3DNow! MMX state clear; opcode-only, no VEX).
func (a *Assembler) Femms() { a.emit(0x0F, 0x0E) }

// Vzeroupper: vzeroupper (VEX-only opcode, no ModRM).
func (a *Assembler) Vzeroupper() { a.emit(0xC5, 0xF8, 0x77) }

// Vzeroall: vzeroall (VEX.256, VEX-only opcode, no ModRM).
func (a *Assembler) Vzeroall() { a.emit(0xC5, 0xFC, 0x77) }

// VpcmpeqdRegRegReg: vpcmpeqd dst, src1, src2 (per-dword compare, all
// bits set in a lane where equal).
func (a *Assembler) VpcmpeqdRegRegReg(dst, src1, src2 Reg, l256 bool) {
	a.vexNDS3(vexPP66, 0x76, dst, src1, src2, l256)
}

// VpsrldqRegRegImm8: vpsrldq dst, src, imm (byte shift right within
// each 128-bit lane; opcode extension 3 in ModRM.reg, src in ModRM.rm,
// vvvv carries dst since this is a 2-operand-plus-immediate VEX form).
func (a *Assembler) VpsrldqRegRegImm8(dst, src Reg, imm byte, l256 bool) {
	a.vex2(dst, l256, vexPP66)
	a.emit(0x73, modRM(0xC0, 3, src), imm)
}

// VmaskmovpsLoad: vmaskmovps dst, mask, [base+disp] (load form; mask is
// the VEX.vvvv operand).
func (a *Assembler) VmaskmovpsLoad(dst, mask Reg, base Reg, disp int32) {
	a.vex3(mask, true, false, vexPP66, vexMap0F38)
	a.emit(0x2C)
	a.emitMemOperand(dst, base, disp)
}

// VmaskmovpsStore: vmaskmovps [base+disp], mask, src (store form).
func (a *Assembler) VmaskmovpsStore(base Reg, disp int32, mask, src Reg) {
	a.vex3(mask, true, false, vexPP66, vexMap0F38)
	a.emit(0x2E)
	a.emitMemOperand(src, base, disp)
}

// VpmaskmovdLoad: vpmaskmovd dst, mask, [base+disp] (integer load form).
func (a *Assembler) VpmaskmovdLoad(dst, mask Reg, base Reg, disp int32) {
	a.vex3(mask, true, false, vexPP66, vexMap0F38)
	a.emit(0x8C)
	a.emitMemOperand(dst, base, disp)
}

// VpmaskmovdStore: vpmaskmovd [base+disp], mask, src (integer store form).
func (a *Assembler) VpmaskmovdStore(base Reg, disp int32, mask, src Reg) {
	a.vex3(mask, true, false, vexPP66, vexMap0F38)
	a.emit(0x8E)
	a.emitMemOperand(src, base, disp)
}
