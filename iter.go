package bitvec

import (
	"iter"
	"math/bits"
)

// NextSet returns the smallest set bit greater than or equal to _i_, and
// false when there is none. Zero words are skipped without bit tests.
//
// A typical loop:
//
//	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
//		...
//	}
func (b *BitSet) NextSet(i uint) (uint, bool) {
	x := wordIndex(i)
	if x >= uint(len(b.words)) {
		return 0, false
	}
	w := b.words[x] >> (i & (wordSize - 1))
	if w != 0 {
		return i + uint(bits.TrailingZeros64(w)), true
	}
	for x++; x < uint(len(b.words)); x++ {
		if b.words[x] != 0 {
			return lowestBit(int(x), b.words[x]), true
		}
	}
	return 0, false
}

// NextSetMany fills _buffer_ with up to cap(buffer) set bits greater than or
// equal to _i_, in ascending order. It returns the last bit written and the
// filled part of the buffer, which is empty once the members are exhausted.
// Restarting from last+1 visits every member exactly once:
//
//	buffer := make([]uint, 256)
//	for i, buf := b.NextSetMany(0, buffer); len(buf) > 0; i, buf = b.NextSetMany(i+1, buf) {
//		...
//	}
func (b *BitSet) NextSetMany(i uint, buffer []uint) (uint, []uint) {
	capacity := cap(buffer)
	result := buffer[:capacity]
	x := wordIndex(i)
	if x >= uint(len(b.words)) || capacity == 0 {
		return 0, result[:0]
	}
	skip := i & (wordSize - 1)
	w := b.words[x] >> skip << skip
	size := 0
scan:
	for {
		for w != 0 {
			result[size] = lowestBit(int(x), w)
			size++
			if size == capacity {
				break scan
			}
			w &= w - 1
		}
		x++
		if x >= uint(len(b.words)) {
			break
		}
		w = b.words[x]
	}
	if size == 0 {
		return 0, result[:0]
	}
	return result[size-1], result[:size]
}

// ForEach calls _fn_ with every set bit in ascending order until _fn_ returns
// false. The bitset must not be modified from within _fn_.
func (b *BitSet) ForEach(fn func(i uint) bool) {
	for x, w := range b.words {
		for w != 0 {
			if !fn(lowestBit(x, w)) {
				return
			}
			w &= w - 1
		}
	}
}

// All returns an iterator over the set bits in ascending order:
//
//	for i := range b.All() {
//		...
//	}
func (b *BitSet) All() iter.Seq[uint] {
	return func(yield func(uint) bool) {
		b.ForEach(yield)
	}
}
