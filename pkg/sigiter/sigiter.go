// Package sigiter enumerates every concrete operand-flag combination a
// signature's operand slots admit, one flag-per-slot at a time (spec.md
// §4.1). Each slot's remaining candidate flags are walked lowest-bit
// first via a carry-based odometer: a slot that runs out of bits resets
// to its own lowest bit and carries into the slot to its left.
package sigiter

import "github.com/ascrivener/x86cycles/pkg/instdb"

// MaxOpCount bounds the fixed-size arrays below; it mirrors the
// instruction operand-count ceiling used across this module.
const MaxOpCount = 6

// Iterator walks every operand-flag tuple a signature, filtered to a
// caller-supplied mask, can produce.
type Iterator struct {
	sig        instdb.InstSignature
	opSigArray [MaxOpCount]instdb.OpSignature
	opMaskArray [MaxOpCount]instdb.OpFlags
	opCount    int
	filter     instdb.OpFlags
	valid      bool
}

// blsi extracts the lowest set bit of x, or 0 if x is 0.
func blsi(x uint64) uint64 {
	return x & (-x)
}

// New builds an iterator over sig's operand tuples, restricted to the
// flags set in filter. Use instdb.WideFilter for the default policy.
func New(sig instdb.InstSignature, filter instdb.OpFlags) *Iterator {
	it := &Iterator{sig: sig, opCount: sig.OpCount(), filter: filter}

	var flags instdb.OpFlags
	i := 0
	for ; i < it.opCount; i++ {
		opSig := sig.OpSignature(i)
		flags = opSig.Flags & filter
		if flags == 0 {
			break
		}
		it.opSigArray[i] = opSig
		it.opMaskArray[i] = instdb.OpFlags(blsi(uint64(flags)))
	}
	for ; i < MaxOpCount; i++ {
		it.opSigArray[i] = instdb.OpSignature{}
		it.opMaskArray[i] = 0
	}

	it.valid = it.opCount == 0 || flags != 0
	return it
}

// Valid reports whether the iterator currently names a usable tuple.
func (it *Iterator) Valid() bool { return it.valid }

// OpCount is the number of operand slots in the tuple being walked.
func (it *Iterator) OpCount() int { return it.opCount }

// OpMask returns the single flag bit currently selected for slot i.
func (it *Iterator) OpMask(i int) instdb.OpFlags { return it.opMaskArray[i] }

// OpSig returns the full operand-slot signature (for its RegMask) at i.
func (it *Iterator) OpSig(i int) instdb.OpSignature { return it.opSigArray[i] }

// Next advances to the next tuple, returning false (and invalidating
// the iterator) once every combination has been produced.
func (it *Iterator) Next() bool {
	i := it.opCount - 1
	for {
		if i < 0 {
			it.valid = false
			return false
		}

		prevBit := it.opMaskArray[i]
		allFlags := it.opSigArray[i].Flags & it.filter

		bitsToClear := instdb.OpFlags(uint64(prevBit) | (uint64(prevBit) - 1))
		remainingBits := allFlags &^ bitsToClear

		if remainingBits != 0 {
			it.opMaskArray[i] = instdb.OpFlags(blsi(uint64(remainingBits)))
			return true
		}
		it.opMaskArray[i] = instdb.OpFlags(blsi(uint64(allFlags)))
		i--
	}
}
