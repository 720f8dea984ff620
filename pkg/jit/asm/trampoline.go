//go:build linux && amd64

// Package asm provides the pure Go assembly trampoline used to call
// into JIT-compiled benchmark bodies without cgo overhead.
package asm

// CallBenchFunc invokes a compiled EmittedFunction: entryPoint is the
// address of the assembled code, nIter is the unrolled-loop trip count,
// and outPtr receives the single cycle count the function measures
// internally. The callee follows the System V AMD64 ABI (nIter in EDI,
// outPtr in RSI) and returns nothing; the result is read back through
// *outPtr.
func CallBenchFunc(entryPoint uintptr, nIter uint32, outPtr *uint64)
