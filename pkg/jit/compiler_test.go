package jit

import (
	"errors"
	"testing"

	"github.com/ascrivener/x86cycles/pkg/opkind"
)

func compileOK(t *testing.T, req Request) []byte {
	t.Helper()
	buf := make([]byte, 4096)
	code, err := Compile(buf, req)
	if err != nil {
		t.Fatalf("Compile(%+v) = %v", req, err)
	}
	if len(code) == 0 {
		t.Fatalf("Compile(%+v) produced no bytes", req)
	}
	return code
}

func TestCompileSimpleArithmetic(t *testing.T) {
	req := Request{
		Mnemonic: "add",
		Spec:     opkind.Pack(opkind.Gpq, opkind.Gpq),
		NUnroll:  6,
		Parallel: true,
	}
	compileOK(t, req)
}

func TestCompileOverheadOnlyIsShorterThanFullBody(t *testing.T) {
	spec := opkind.Pack(opkind.Gpq, opkind.Gpq)
	full := compileOK(t, Request{Mnemonic: "add", Spec: spec, NUnroll: 6, Parallel: true})
	overhead := compileOK(t, Request{Mnemonic: "add", Spec: spec, NUnroll: 6, Parallel: true, OverheadOnly: true})
	if len(overhead) >= len(full) {
		t.Fatalf("overhead-only body (%d bytes) should be shorter than the full body (%d bytes)", len(overhead), len(full))
	}
}

func TestCompileZeroOperand(t *testing.T) {
	compileOK(t, Request{Mnemonic: "rdtsc", Spec: opkind.InstSpec(0), NUnroll: 1})
}

func TestCompileDivIdivMulImul(t *testing.T) {
	for _, mnemonic := range []string{"div", "idiv", "mul"} {
		spec := opkind.Pack(opkind.Gpq)
		compileOK(t, Request{Mnemonic: mnemonic, Spec: spec, NUnroll: 6, Parallel: true})
	}
	compileOK(t, Request{
		Mnemonic: "imul",
		Spec:     opkind.Pack(opkind.Gpq, opkind.Gpq, opkind.Imm32),
		NUnroll:  6,
		Parallel: true,
	})
}

func TestCompileLeaVariants(t *testing.T) {
	compileOK(t, Request{Mnemonic: "lea", Spec: opkind.Pack(opkind.Gpq, opkind.Gpq), NUnroll: 6, Parallel: true})
	compileOK(t, Request{Mnemonic: "lea", Spec: opkind.Pack(opkind.Gpq, opkind.Gpq, opkind.Gpq), NUnroll: 6, Parallel: true})
	compileOK(t, Request{Mnemonic: "lea", Spec: opkind.Pack(opkind.Gpq, opkind.Gpq, opkind.Imm32), NUnroll: 6, Parallel: true})
	compileOK(t, Request{Mnemonic: "lea", Spec: opkind.Pack(opkind.Gpq, opkind.Gpq, opkind.Gpq, opkind.Imm32), NUnroll: 6, Parallel: true})
}

func TestCompileIndirectCallUnsupported(t *testing.T) {
	buf := make([]byte, 4096)
	_, err := Compile(buf, Request{
		Mnemonic: "call",
		Spec:     opkind.Pack(opkind.Gpq),
		NUnroll:  6,
	})
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("indirect call: got err=%v, want ErrUnsupportedEncoding", err)
	}
}

func TestCompileRelCallSupported(t *testing.T) {
	compileOK(t, Request{Mnemonic: "call", Spec: opkind.Pack(opkind.Rel), NUnroll: 6})
}

func TestCompileXaddWithImmRejected(t *testing.T) {
	buf := make([]byte, 4096)
	_, err := Compile(buf, Request{
		Mnemonic: "xadd",
		Spec:     opkind.Pack(opkind.Gpq, opkind.Imm32),
		NUnroll:  6,
	})
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("xadd with imm operand: got err=%v, want ErrUnsupportedEncoding", err)
	}
}

func TestCompileBtFamilyMemOrImmRejected(t *testing.T) {
	buf := make([]byte, 4096)
	for _, mnemonic := range []string{"btc", "btr", "bts"} {
		for _, spec := range []opkind.InstSpec{
			opkind.Pack(opkind.Gpq, opkind.Imm8),
			opkind.Pack(opkind.Mem64, opkind.Gpq),
		} {
			_, err := Compile(buf, Request{
				Mnemonic: mnemonic,
				Spec:     spec,
				NUnroll:  6,
			})
			if !errors.Is(err, ErrUnsupportedEncoding) {
				t.Fatalf("%s with spec %#x: got err=%v, want ErrUnsupportedEncoding", mnemonic, uint64(spec), err)
			}
		}
	}
}

func TestCompileVmovapsZmmUnsupported(t *testing.T) {
	buf := make([]byte, 4096)
	_, err := Compile(buf, Request{
		Mnemonic: "vmovaps",
		Spec:     opkind.Pack(opkind.Zmm, opkind.Zmm),
		NUnroll:  6,
		Parallel: true,
	})
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("vmovaps zmm,zmm: got err=%v, want ErrUnsupportedEncoding", err)
	}
}

func TestCompileVectorForms(t *testing.T) {
	compileOK(t, Request{Mnemonic: "movaps", Spec: opkind.Pack(opkind.Xmm, opkind.Xmm), NUnroll: 6, Parallel: true})
	compileOK(t, Request{Mnemonic: "vaddps", Spec: opkind.Pack(opkind.Ymm, opkind.Ymm, opkind.Ymm), NUnroll: 6, Parallel: true})
}

func TestCompilePushPopRealBodies(t *testing.T) {
	compileOK(t, Request{Mnemonic: "push", Spec: opkind.Pack(opkind.Gpq), NUnroll: 6})
	compileOK(t, Request{Mnemonic: "pop", Spec: opkind.Pack(opkind.Gpq), NUnroll: 6})
}

func TestCompileCdqFamilyDependencyBreaking(t *testing.T) {
	for _, mnemonic := range []string{"cwd", "cdq", "cdqe", "cqo"} {
		compileOK(t, Request{Mnemonic: mnemonic, Spec: opkind.InstSpec(0), NUnroll: 6})
	}
}

func TestCompileNarrowWidthArithmetic(t *testing.T) {
	compileOK(t, Request{Mnemonic: "add", Spec: opkind.Pack(opkind.Gpb, opkind.Gpb), NUnroll: 6, Parallel: true})
	compileOK(t, Request{Mnemonic: "add", Spec: opkind.Pack(opkind.Gpw, opkind.Gpw), NUnroll: 6, Parallel: true})
	compileOK(t, Request{Mnemonic: "shl", Spec: opkind.Pack(opkind.Gpb, opkind.Imm8), NUnroll: 6})
}

func TestCompileMaskedVectorLoadStore(t *testing.T) {
	compileOK(t, Request{
		Mnemonic: "vmaskmovps",
		Spec:     opkind.Pack(opkind.Ymm, opkind.Ymm, opkind.Mem256),
		NUnroll:  6,
		Parallel: true,
	})
	compileOK(t, Request{
		Mnemonic: "vmaskmovps",
		Spec:     opkind.Pack(opkind.Mem256, opkind.Ymm, opkind.Ymm),
		NUnroll:  6,
		Parallel: true,
	})
	compileOK(t, Request{
		Mnemonic: "vpmaskmovd",
		Spec:     opkind.Pack(opkind.Ymm, opkind.Ymm, opkind.Mem256),
		NUnroll:  6,
		Parallel: true,
	})
}

func TestCompileUnknownMnemonicRejected(t *testing.T) {
	buf := make([]byte, 4096)
	_, err := Compile(buf, Request{Mnemonic: "vpgatherdd", Spec: opkind.Pack(opkind.Ymm), NUnroll: 1})
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("unknown mnemonic: got err=%v, want ErrUnsupportedEncoding", err)
	}
}
