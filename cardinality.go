package bitvec

import "math/bits"

// Count returns the number of set bits.
func (b *BitSet) Count() uint {
	return popcount(b.words)
}

func popcount(words []uint64) uint {
	var n int
	for _, w := range words {
		n += bits.OnesCount64(w)
	}
	return uint(n)
}

// Empty reports whether no bit is set. It stops at the first non-zero word.
func (b *BitSet) Empty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Minimum returns the lowest set bit. The second result is false when the
// bitset is empty.
func (b *BitSet) Minimum() (uint, bool) {
	for i, w := range b.words {
		if w != 0 {
			return lowestBit(i, w), true
		}
	}
	return 0, false
}

// Maximum returns the highest set bit. Since the length is a high-water mark
// it may scan back over trailing zero words. The second result is false when
// the bitset is empty.
func (b *BitSet) Maximum() (uint, bool) {
	for i := len(b.words) - 1; i >= 0; i-- {
		if w := b.words[i]; w != 0 {
			return uint(i)<<log2WordSize + wordSize - 1 - uint(bits.LeadingZeros64(w)), true
		}
	}
	return 0, false
}
