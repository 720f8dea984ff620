package jit

import (
	"errors"
	"fmt"

	"github.com/ascrivener/x86cycles/pkg/opkind"
	"github.com/ascrivener/x86cycles/pkg/opstream"
)

// ErrUnsupportedEncoding is returned for an (mnemonic, operand shape)
// pair this hand-written encoder does not know how to emit: EVEX/mask-
// register forms, and the few VEX instructions whose operand shape
// doesn't fit the plain NDS pattern (see vecasm.go's doc comment).
// Dropping these at emission time, loudly, was chosen over guessing at
// an unverified encoding.
var ErrUnsupportedEncoding = errors.New("jit: unsupported instruction encoding")

// counterReg holds the EmittedFunction's nIter argument, decremented
// once per pass through the body loop. outPtrReg holds the bestOut
// pointer. Neither is ever a member of an operand register pool (see
// opstream.DefaultPools), so the body never needs to avoid clobbering
// them beyond the initial copy out of the argument registers.
const (
	counterReg = RBP
	outPtrReg  = R15
)

// Request describes one benchmark body to assemble.
type Request struct {
	Mnemonic     string
	Spec         opkind.InstSpec
	NUnroll      int
	Parallel     bool
	OverheadOnly bool
}

// Compile assembles a complete EmittedFunction into buf and returns the
// written slice. The function follows the System V AMD64 ABI: EDI
// carries nIter, RSI carries the bestOut pointer, and it returns
// nothing (the result is written through the pointer).
func Compile(buf []byte, req Request) ([]byte, error) {
	if req.NUnroll <= 0 {
		req.NUnroll = 1
	}
	a := NewAssembler(buf)
	c := &compiler{a: a, req: req}
	if err := c.compile(); err != nil {
		return nil, err
	}
	return a.Bytes(), nil
}

type compiler struct {
	a   *Assembler
	req Request
}

func (c *compiler) compile() error {
	a := c.a
	spec := c.req.Spec
	opCount := spec.Count()
	regCount := opstream.RegCount(spec)

	pools := opstream.DefaultPools(uint32(counterReg))
	for i := 0; i < regCount; i++ {
		pools = pools.Reserve(spec.Get(i))
	}
	// vmaskmovps/vpmaskmovd's mask operand (slot 1) is pinned to ymm1 by
	// emitMaskPrologue rather than drawn from the rotation, so exclude it
	// from the vector pool other slots rotate through.
	maskedVecLoadStore := c.req.Mnemonic == "vmaskmovps" || c.req.Mnemonic == "vpmaskmovd"
	if maskedVecLoadStore {
		pools.Vec &^= 1 << 1
	}

	// Per-slot streams: regs[i] and imms[i] are mutually exclusive by
	// slot (a slot is a register operand or an immediate operand, never
	// both), memDisp holds displacements for slots backed by memory.
	regs := make([][]uint32, opCount)
	imms := make([][]uint64, opCount)
	memDisp := make([][]int32, opCount)

	for i := 0; i < opCount; i++ {
		k := spec.Get(i)
		switch {
		case k >= opkind.Mem8 && k <= opkind.Mem512:
			memDisp[i] = opstream.FillMemArray(k, c.req.NUnroll, c.req.Parallel)
		case k >= opkind.Imm8 && k <= opkind.Imm64:
			imms[i] = opstream.FillImmArray(k, c.req.NUnroll)
		case opkind.IsImplicit(k):
			id := implicitRegID(k)
			ids := make([]uint32, c.req.NUnroll)
			for j := range ids {
				ids[j] = id
			}
			regs[i] = ids
		default:
			if maskedVecLoadStore && i == 1 {
				ids := make([]uint32, c.req.NUnroll)
				for j := range ids {
					ids[j] = 1
				}
				regs[i] = ids
				continue
			}
			start, inc := opstream.Rotation(i, regCount, c.req.Parallel)
			regs[i] = opstream.FillRegArray(c.req.NUnroll, start, inc, pools.MaskFor(k))
		}
	}

	scratchSize := 64*c.req.NUnroll + 64
	scratchSize = (scratchSize + 15) &^ 15

	a.Push(RBP)
	a.Push(R15)
	a.Push(RBX)
	a.Push(R14)
	a.emit(0x89, modRM(0xC0, RDI, RBP)) // mov ebp, edi (zero-extends into rbp)
	a.MovRegReg(R15, RSI)
	a.SubRegImm32(Width64, RSP, int32(scratchSize))

	c.emitRegisterPoolInit()

	// Start timestamp, serialized: lfence; rdtsc; rdx:rax -> r14.
	a.Lfence()
	a.Rdtsc()
	a.ShlRegImm8(Width64, RDX, 32)
	a.OrRegReg(Width64, RAX, RDX)
	a.MovRegReg(R14, RAX)

	a.TestRegReg(Width64, RBP, RBP)
	lJz := a.Offset()
	a.emit(0x0F, 0x84, 0, 0, 0, 0) // jz L_End (patched below)

	// 64-byte code alignment for the hot loop.
	for a.Offset()%64 != 0 {
		a.Nop()
	}
	lBody := a.Offset()

	if err := c.emitBody(regs, imms, memDisp); err != nil {
		return err
	}

	a.DecReg(Width64, RBP)
	a.emit(0x0F, 0x85, 0, 0, 0, 0) // jnz L_Body (patched below)
	patchNearRel32(a.Bytes(), a.Offset()-4, lBody)

	lEnd := a.Offset()
	patchNearRel32(a.Bytes(), lJz+2, lEnd)

	c.emitEpilogueCleanup()

	a.Lfence()
	a.Rdtsc()
	a.ShlRegImm8(Width64, RDX, 32)
	a.OrRegReg(Width64, RAX, RDX)
	a.SubRegReg(Width64, RAX, R14)
	a.MovMemReg64(R15, 0, RAX)

	a.AddRegImm32(Width64, RSP, int32(scratchSize))
	a.Pop(R14)
	a.Pop(RBX)
	a.Pop(R15)
	a.Pop(RBP)
	a.Ret()
	return nil
}

// patchNearRel32 writes the 4-byte displacement for a near jump whose
// opcode+modrm occupy the 2 bytes immediately before at, using the
// already-known instruction end (at+4) as the relative-from point.
func patchNearRel32(buf []byte, at int, target int) {
	rel := int32(target - (at + 4))
	buf[at] = byte(rel)
	buf[at+1] = byte(rel >> 8)
	buf[at+2] = byte(rel >> 16)
	buf[at+3] = byte(rel >> 24)
}

// emitRegisterPoolInit seeds predictable register state before the
// timed region begins, mirroring the instruction-family-specific setup
// the reference benchmark uses (bt family needs in-range bit indices;
// cpuid/xgetbv need zeroed selectors; everything else gets generic
// small constants, several of which double as divisors for div/idiv).
func (c *compiler) emitRegisterPoolInit() {
	a := c.a
	switch c.req.Mnemonic {
	case "bt", "btc", "btr", "bts":
		a.MovRegImm32SignExt(RAX, 3)
		a.MovRegImm32SignExt(RBX, 14)
		a.MovRegImm32SignExt(RCX, 35)
		a.MovRegImm32SignExt(RDX, 256)
		a.MovRegImm32SignExt(RSI, 577)
		a.MovRegImm32SignExt(RDI, 1198)
	case "cpuid":
		a.XorRegReg(Width32, RAX, RAX)
		a.XorRegReg(Width32, RCX, RCX)
	case "xgetbv":
		a.XorRegReg(Width32, RCX, RCX)
	case "vmaskmovps", "vpmaskmovd":
		a.MovRegImm32SignExt(RAX, 999)
		a.MovRegImm32SignExt(RBX, 49182)
		a.MovRegImm32SignExt(RCX, 3)
		a.MovRegImm32SignExt(RDX, 1193833)
		a.MovRegImm32SignExt(RSI, 192822)
		a.MovRegImm32SignExt(RDI, 1)
		c.emitMaskPrologue()
	default:
		a.MovRegImm32SignExt(RAX, 999)
		a.MovRegImm32SignExt(RBX, 49182)
		a.MovRegImm32SignExt(RCX, 3)
		a.MovRegImm32SignExt(RDX, 1193833)
		a.MovRegImm32SignExt(RSI, 192822)
		a.MovRegImm32SignExt(RDI, 1)
	}
}

// emitEpilogueCleanup runs once after the loop, on both the
// zero-iteration and executed-loop paths, and clears whatever
// extended-register state the measured spec touched: emms for MMX
// operands, vzeroupper for any xmm/ymm/zmm operand, so a later body in
// the same run never pays an AVX-SSE transition penalty left over from
// this one.
func (c *compiler) emitEpilogueCleanup() {
	spec := c.req.Spec
	opCount := spec.Count()

	usesMM := false
	usesVec := false
	for i := 0; i < opCount; i++ {
		switch spec.Get(i) {
		case opkind.Mm:
			usesMM = true
		case opkind.Xmm, opkind.Xmm0, opkind.Ymm, opkind.Zmm:
			usesVec = true
		}
	}

	if usesMM {
		c.a.Emms()
	}
	if usesVec {
		c.a.Vzeroupper()
	}
}

// widthOf maps an operand kind to the legacy-opcode Width its encoding
// calls for: the implicit 8/16/32/64-bit registers and the matching
// generic Gpb/Gpw/Gpd/Gpq classes both resolve to the same width,
// since the physical register id is all that distinguishes them.
func widthOf(k opkind.Kind) Width {
	switch k {
	case opkind.Al, opkind.Cl, opkind.Dl, opkind.Bl, opkind.Gpb:
		return Width8
	case opkind.Ax, opkind.Cx, opkind.Dx, opkind.Bx, opkind.Gpw:
		return Width16
	case opkind.Eax, opkind.Ecx, opkind.Edx, opkind.Ebx, opkind.Gpd:
		return Width32
	default:
		return Width64
	}
}

// emitMaskPrologue builds the non-trivial mask vmaskmovps/vpmaskmovd's
// load and store forms read out of ymm1, pinned there across the
// unroll (spec.md §4.4): compare ymm1 equal to itself (all-ones in
// every lane) then shift right by 8 bytes within each 128-bit lane, so
// half of each lane reads as masked-out rather than all-or-nothing.
func (c *compiler) emitMaskPrologue() {
	a := c.a
	a.VpcmpeqdRegRegReg(1, 1, 1, true)
	a.VpsrldqRegRegImm8(1, 1, 8, true)
}

func implicitRegID(k opkind.Kind) uint32 {
	switch k {
	case opkind.Al, opkind.Ax, opkind.Eax, opkind.Rax:
		return 0
	case opkind.Cl, opkind.Cx, opkind.Ecx, opkind.Rcx:
		return 1
	case opkind.Dl, opkind.Dx, opkind.Edx, opkind.Rdx:
		return 2
	case opkind.Bl, opkind.Bx, opkind.Ebx, opkind.Rbx:
		return 3
	case opkind.Xmm0:
		return 0
	default:
		return 0
	}
}

func reg(ids []uint32, n int) Reg { return Reg(ids[n]) }

// emitBody dispatches to the per-family emitter for nUnroll copies of
// the instruction, unless the instruction needs the loop-structure
// level special casing (call/jmp/push/pop/div/idiv/mul/imul), which is
// handled directly here since those forms interact with the loop
// rather than repeating identically.
func (c *compiler) emitBody(regs [][]uint32, imms [][]uint64, memDisp [][]int32) error {
	a := c.a
	n := c.req.NUnroll
	spec := c.req.Spec

	// Overhead-only mode skips every mnemonic's inner emission uniformly;
	// the loop, stack adjustment, scratch-init and epilogue emitted
	// around this call are unaffected.
	if c.req.OverheadOnly {
		return nil
	}

	switch c.req.Mnemonic {
	case "call":
		if spec.Get(0) != opkind.Rel {
			// Indirect call/ret through a register target needs a real
			// subroutine address to call into, not just a nearby ret -
			// left unsupported rather than fabricate one.
			return ErrUnsupportedEncoding
		}
		lSkip := a.Offset()
		a.JmpRel8(0)
		lSub := a.Offset()
		a.Ret()
		patchShortRel8(a.Bytes(), lSkip+1, a.Offset())
		for i := 0; i < n; i++ {
			rel := int32(lSub - (a.Offset() + 5))
			a.CallRel32(rel)
		}
		return nil
	case "jmp":
		for i := 0; i < n; i++ {
			lJmp := a.Offset()
			a.JmpRel8(0)
			patchShortRel8(a.Bytes(), lJmp+1, a.Offset())
		}
		return nil
	case "push":
		// Push/Pop always emit the 64-bit form (no 0x66-prefixed 16-bit
		// encoding exists in this encoder), so the stack pointer always
		// moves 8 bytes per copy regardless of the operand's Gpw/Gpq kind.
		for i := 0; i < n; i++ {
			a.Push(reg(regs[0], i))
		}
		a.AddRegImm32(Width64, RSP, 8*int32(n))
		return nil
	case "pop":
		a.SubRegImm32(Width64, RSP, 8*int32(n))
		for i := 0; i < n; i++ {
			dst := reg(regs[0], i)
			a.Pop(dst)
			// pop's destination is otherwise unconstrained, so fold it
			// into the scratch accumulator to keep a serial dependency
			// chain rather than n independent pops (spec.md §4.4).
			if dst != RAX {
				a.AddRegReg(Width64, RAX, dst)
			}
		}
		return nil
	case "div", "idiv":
		return c.emitDivIdiv(regs)
	case "mul":
		return c.emitMulSingle(regs)
	case "imul":
		return c.emitImul(regs, imms, spec)
	}

	for i := 0; i < n; i++ {
		if err := c.emitOne(i, regs, imms, memDisp); err != nil {
			return err
		}
	}
	return nil
}

func patchShortRel8(buf []byte, at int, target int) {
	buf[at] = byte(int8(target - (at + 1)))
}

// emitDivIdiv covers the implicit-accumulator unary div/idiv forms:
// one explicit divisor operand in regs[0], dividend implicit in
// rdx:rax. Each unrolled copy re-seeds rax/rdx (a stale quotient left
// in rdx from the prior copy would fault the next divide) and forces
// the divisor into cl, so the rotation pattern's chosen GP register is
// moved there first.
func (c *compiler) emitDivIdiv(regs [][]uint32) error {
	a := c.a
	n := c.req.NUnroll
	isIdiv := c.req.Mnemonic == "idiv"
	w := widthOf(c.req.Spec.Get(0))
	for i := 0; i < n; i++ {
		a.MovRegImm32SignExt(RAX, 32123)
		a.XorRegReg(Width32, RDX, RDX)
		a.MovRegReg(RCX, reg(regs[0], i))
		if isIdiv {
			a.IDiv(w, RCX)
		} else {
			a.Div(w, RCX)
		}
	}
	return nil
}

// emitMulSingle covers the implicit-accumulator unary mul form: one
// explicit multiplicand in regs[0], the other factor and the result
// implicit in rax/rdx. In parallel mode rax is re-seeded every copy so
// successive multiplies stay independent rather than compounding.
func (c *compiler) emitMulSingle(regs [][]uint32) error {
	a := c.a
	n := c.req.NUnroll
	w := widthOf(c.req.Spec.Get(0))
	for i := 0; i < n; i++ {
		if c.req.Parallel || i == 0 {
			a.MovRegImm32SignExt(RAX, 3)
		}
		a.MulReg(w, reg(regs[0], i))
	}
	return nil
}

// emitImul covers the explicit two- and three-operand imul forms.
func (c *compiler) emitImul(regs [][]uint32, imms [][]uint64, spec opkind.InstSpec) error {
	a := c.a
	n := c.req.NUnroll
	opCount := spec.Count()
	w := widthOf(spec.Get(0))

	if opCount == 2 {
		for i := 0; i < n; i++ {
			dst, src := reg(regs[0], i), reg(regs[1], i)
			if c.req.Parallel {
				a.MovRegReg(dst, src)
			}
			a.IMulRegReg(w, dst, src)
		}
		return nil
	}
	if opCount == 3 {
		for i := 0; i < n; i++ {
			dst, src := reg(regs[0], i), reg(regs[1], i)
			a.IMulRegRegImm32(w, dst, src, int32(imms[2][i]))
		}
		return nil
	}
	return ErrUnsupportedEncoding
}

// emitOne emits a single unrolled copy n of the instruction from its
// resolved per-slot register/immediate/memory-displacement streams.
func (c *compiler) emitOne(n int, regs [][]uint32, imms [][]uint64, memDisp [][]int32) error {
	a := c.a
	spec := c.req.Spec
	opCount := spec.Count()

	g := func(i int) Reg { return reg(regs[i], n) }
	immAt := func(i int) int32 {
		if imms[i] == nil {
			return 0
		}
		return int32(imms[i][n])
	}
	memAt := func(i int) int32 {
		if memDisp[i] == nil {
			return 0
		}
		return memDisp[i][n]
	}
	isMem := func(i int) bool { return memDisp[i] != nil }
	isImm := func(i int) bool { return imms[i] != nil }
	w := widthOf(spec.Get(0))

	switch c.req.Mnemonic {
	case "add":
		if isImm(1) {
			a.AddRegImm32(w, g(0), immAt(1))
		} else {
			a.AddRegReg(w, g(0), g(1))
		}
	case "sub":
		if isImm(1) {
			a.SubRegImm32(w, g(0), immAt(1))
		} else {
			a.SubRegReg(w, g(0), g(1))
		}
	case "and":
		if isImm(1) {
			a.AndRegImm32(w, g(0), immAt(1))
		} else {
			a.AndRegReg(w, g(0), g(1))
		}
	case "or":
		if isImm(1) {
			a.OrRegImm32(w, g(0), immAt(1))
		} else {
			a.OrRegReg(w, g(0), g(1))
		}
	case "xor":
		if isImm(1) {
			a.XorRegImm32(w, g(0), immAt(1))
		} else {
			a.XorRegReg(w, g(0), g(1))
		}
	case "cmp":
		if isImm(1) {
			a.CmpRegImm32(w, g(0), immAt(1))
		} else {
			a.CmpRegReg(w, g(0), g(1))
		}
	case "test":
		if isImm(1) {
			a.TestRegImm32(w, g(0), immAt(1))
		} else {
			a.TestRegReg(w, g(0), g(1))
		}
	case "adc":
		if isImm(1) {
			return ErrUnsupportedEncoding
		}
		a.AdcRegReg(w, g(0), g(1))
	case "sbb":
		if isImm(1) {
			return ErrUnsupportedEncoding
		}
		a.SbbRegReg(w, g(0), g(1))
	case "xadd":
		if isImm(1) {
			return ErrUnsupportedEncoding
		}
		a.XaddRegReg(w, g(0), g(1))
	case "xchg":
		if isImm(1) {
			return ErrUnsupportedEncoding
		}
		a.XchgRegReg(w, g(0), g(1))
	case "inc":
		a.IncReg(w, g(0))
	case "dec":
		a.DecReg(w, g(0))
	case "neg":
		a.NegReg(w, g(0))
	case "not":
		a.NotReg(w, g(0))
	case "nop":
		a.Nop()
	case "andn":
		a.AndnRegRegReg(g(0), g(1), g(2))
	case "shl", "shr", "sar", "rol", "ror":
		if isMem(1) || isMem(0) {
			return ErrUnsupportedEncoding
		}
		c.emitShift(c.req.Mnemonic, w, g(0), opCount, g, immAt, isImm)
	case "bt":
		if isMem(0) {
			return ErrUnsupportedEncoding
		}
		if isImm(1) {
			a.BtRegImm8(g(0), byte(immAt(1)))
		} else {
			a.BtRegReg(g(0), g(1))
		}
	case "btc":
		if isMem(0) || isImm(1) {
			return ErrUnsupportedEncoding
		}
		a.BtcRegReg(g(0), g(1))
	case "btr":
		if isMem(0) || isImm(1) {
			return ErrUnsupportedEncoding
		}
		a.BtrRegReg(g(0), g(1))
	case "bts":
		if isMem(0) || isImm(1) {
			return ErrUnsupportedEncoding
		}
		a.BtsRegReg(g(0), g(1))
	case "bsf":
		a.BsfRegReg(g(0), g(1))
	case "bsr":
		a.BsrRegReg(g(0), g(1))
	case "bswap":
		a.Bswap(g(0))
	case "popcnt":
		a.Popcnt(g(0), g(1))
	case "lzcnt":
		a.Lzcnt(g(0), g(1))
	case "tzcnt":
		a.Tzcnt(g(0), g(1))
	case "crc32":
		if spec.Get(1) == opkind.Gpb {
			a.Crc32RegReg8(g(0), g(1))
		} else {
			a.Crc32RegReg32(g(0), g(1))
		}
	case "blsi":
		a.BlsiRegReg(g(0), g(1))
	case "blsr":
		a.BlsrRegReg(g(0), g(1))
	case "blsmsk":
		a.BlsmskRegReg(g(0), g(1))
	case "bextr":
		a.BextrRegRegReg(g(0), g(1), g(2))
	case "rdrand":
		a.Rdrand(w, g(0))
	case "rdseed":
		a.Rdseed(w, g(0))
	case "mov":
		switch {
		case isImm(1):
			if spec.Get(1) == opkind.Imm64 {
				a.MovRegImm64(g(0), imms[1][n])
			} else {
				a.MovRegImm32SignExt(g(0), immAt(1))
			}
		case isMem(1):
			a.MovRegMem64(g(0), RSP, memAt(1))
		case isMem(0):
			a.MovMemReg64(RSP, memAt(0), g(1))
		default:
			a.MovRegReg(g(0), g(1))
		}
	case "movzx":
		if spec.Get(1) == opkind.Gpb {
			a.MovzxRegReg32From8(g(0), g(1))
		} else {
			a.MovzxRegReg32From16(g(0), g(1))
		}
	case "movsx":
		if spec.Get(1) == opkind.Gpb {
			a.MovsxRegReg32From8(g(0), g(1))
		} else {
			a.MovsxRegReg32From16(g(0), g(1))
		}
	case "movsxd":
		a.MovsxdRegReg(g(0), g(1))
	case "cwd":
		a.emit(0x66, 0x99)
		a.AddRegReg(Width16, RAX, RDX)
	case "cdq":
		a.emit(0x99)
		a.AddRegReg(Width32, RAX, RDX)
	case "cdqe":
		// cdqe reads and writes rax, so successive copies already chain
		// without any extra fold-in.
		a.Cdqe()
	case "cqo":
		a.Cqo()
		a.AddRegReg(Width64, RAX, RDX)
	case "cpuid":
		a.Cpuid()
	case "rdtsc":
		a.Rdtsc()
	case "rdtscp":
		a.Rdtscp()
	case "lfence":
		a.Lfence()
	case "mfence":
		a.Mfence()
	case "sfence":
		a.Sfence()
	case "emms":
		a.Emms()
	case "femms":
		a.Femms()
	case "xgetbv":
		a.Xgetbv()
	case "vzeroall":
		a.Vzeroall()
	case "vzeroupper":
		a.Vzeroupper()
	case "lea":
		return c.emitLea(n, regs, imms)
	case "movaps":
		a.MovapsRegReg(g(0), g(1))
	case "movups":
		a.MovupsRegReg(g(0), g(1))
	case "addps":
		a.AddpsRegReg(g(0), g(1))
	case "addss":
		a.AddssRegReg(g(0), g(1))
	case "mulps":
		a.MulpsRegReg(g(0), g(1))
	case "andps":
		a.AndpsRegReg(g(0), g(1))
	case "xorps":
		a.XorpsRegReg(g(0), g(1))
	case "pand":
		a.PandRegReg(g(0), g(1))
	case "pxor":
		a.PxorRegReg(g(0), g(1))
	case "paddb":
		a.PaddbRegReg(g(0), g(1))
	case "pcmpeqb":
		a.PcmpeqbRegReg(g(0), g(1))
	case "movq":
		a.MovqMmReg(g(0), g(1))
	case "vaddps":
		a.VaddpsRegRegReg(g(0), g(1), g(2), spec.Get(0) == opkind.Ymm)
	case "vmulps":
		a.VmulpsRegRegReg(g(0), g(1), g(2), spec.Get(0) == opkind.Ymm)
	case "vpand":
		a.VpandRegRegReg(g(0), g(1), g(2), spec.Get(0) == opkind.Ymm)
	case "vpxor":
		a.VpxorRegRegReg(g(0), g(1), g(2), spec.Get(0) == opkind.Ymm)
	case "vpaddb":
		a.VpaddbRegRegReg(g(0), g(1), g(2), spec.Get(0) == opkind.Ymm)
	case "vmovaps":
		if spec.Get(0) == opkind.Zmm {
			return ErrUnsupportedEncoding
		}
		a.VmovapsRegReg(g(0), g(1), spec.Get(0) == opkind.Ymm)
	case "vmaskmovps":
		if isMem(2) {
			a.VmaskmovpsLoad(g(0), g(1), RSP, memAt(2))
		} else {
			a.VmaskmovpsStore(RSP, memAt(0), g(1), g(2))
		}
	case "vpmaskmovd":
		if isMem(2) {
			a.VpmaskmovdLoad(g(0), g(1), RSP, memAt(2))
		} else {
			a.VpmaskmovdStore(RSP, memAt(0), g(1), g(2))
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEncoding, c.req.Mnemonic)
	}
	return nil
}

func (c *compiler) emitShift(mnemonic string, w Width, dst Reg, opCount int, g func(int) Reg, immAt func(int) int32, isImm func(int) bool) {
	a := c.a
	byImm8 := opCount == 2 && isImm(1)
	var imm byte
	if byImm8 {
		imm = byte(immAt(1))
	}
	switch mnemonic {
	case "shl":
		if byImm8 {
			a.ShlRegImm8(w, dst, imm)
		} else {
			a.ShlRegCL(w, dst)
		}
	case "shr":
		if byImm8 {
			a.ShrRegImm8(w, dst, imm)
		} else {
			a.ShrRegCL(w, dst)
		}
	case "sar":
		if byImm8 {
			a.SarRegImm8(w, dst, imm)
		} else {
			a.SarRegCL(w, dst)
		}
	case "rol":
		if byImm8 {
			a.RolRegImm8(w, dst, imm)
		} else {
			a.RolRegCL(w, dst)
		}
	case "ror":
		if byImm8 {
			a.RorRegImm8(w, dst, imm)
		} else {
			a.RorRegCL(w, dst)
		}
	}
}

func (c *compiler) emitLea(n int, regs [][]uint32, imms [][]uint64) error {
	a := c.a
	spec := c.req.Spec
	opCount := spec.Count()

	dst := reg(regs[0], n)
	base := reg(regs[1], n)
	index := -1
	var disp int32

	switch opCount {
	case 2:
		// lea dst, [base]
	case 3:
		if spec.Get(2) == opkind.Imm8 || spec.Get(2) == opkind.Imm32 {
			disp = int32(imms[2][n])
		} else {
			index = int(reg(regs[2], n))
		}
	case 4:
		index = int(reg(regs[2], n))
		disp = int32(imms[3][n])
	default:
		return ErrUnsupportedEncoding
	}
	a.LeaRegBaseIndexDisp(dst, base, index, disp)
	return nil
}
