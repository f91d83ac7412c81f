package bitvec

import "math/bits"

// wordsOf treats a nil bitset as empty.
func wordsOf(b *BitSet) []uint64 {
	if b == nil {
		return nil
	}
	return b.words
}

// InPlaceUnion adds every member of _other_ to the receiver, growing it
// first when _other_ is longer. On growth failure the receiver is unchanged.
func (b *BitSet) InPlaceUnion(other *BitSet) error {
	ow := wordsOf(other)
	if err := b.grow(uint(len(ow))); err != nil {
		return err
	}
	for i, w := range ow {
		b.words[i] |= w
	}
	return nil
}

// InPlaceIntersection keeps only the members also present in _other_.
// Words past the end of _other_ are cleared; the length is kept.
func (b *BitSet) InPlaceIntersection(other *BitSet) {
	ow := wordsOf(other)
	n := min(len(b.words), len(ow))
	for i := 0; i < n; i++ {
		b.words[i] &= ow[i]
	}
	clear(b.words[n:])
}

// InPlaceDifference removes the members of _other_ from the receiver.
// Words past the end of _other_ are left untouched.
func (b *BitSet) InPlaceDifference(other *BitSet) {
	ow := wordsOf(other)
	n := min(len(b.words), len(ow))
	for i := 0; i < n; i++ {
		b.words[i] &^= ow[i]
	}
}

// InPlaceSymmetricDifference toggles every member of _other_ in the receiver.
// Applying the same _other_ twice restores the original members.
func (b *BitSet) InPlaceSymmetricDifference(other *BitSet) error {
	ow := wordsOf(other)
	if err := b.grow(uint(len(ow))); err != nil {
		return err
	}
	for i, w := range ow {
		b.words[i] ^= w
	}
	return nil
}

// IntersectionCount returns the size of the intersection without
// modifying either bitset.
func (b *BitSet) IntersectionCount(other *BitSet) uint {
	ow := wordsOf(other)
	n := min(len(b.words), len(ow))
	var count int
	for i := 0; i < n; i++ {
		count += bits.OnesCount64(b.words[i] & ow[i])
	}
	return uint(count)
}

// UnionCount returns the size of the union without modifying either bitset.
func (b *BitSet) UnionCount(other *BitSet) uint {
	short, long := b.words, wordsOf(other)
	if len(short) > len(long) {
		short, long = long, short
	}
	var count int
	for i, w := range short {
		count += bits.OnesCount64(w | long[i])
	}
	return uint(count) + popcount(long[len(short):])
}

// DifferenceCount returns the number of members of the receiver that are not
// in _other_, without modifying either bitset.
func (b *BitSet) DifferenceCount(other *BitSet) uint {
	ow := wordsOf(other)
	n := min(len(b.words), len(ow))
	var count int
	for i := 0; i < n; i++ {
		count += bits.OnesCount64(b.words[i] &^ ow[i])
	}
	return uint(count) + popcount(b.words[n:])
}

// SymmetricDifferenceCount returns the number of members in exactly one of
// the two bitsets, without modifying either.
func (b *BitSet) SymmetricDifferenceCount(other *BitSet) uint {
	short, long := b.words, wordsOf(other)
	if len(short) > len(long) {
		short, long = long, short
	}
	var count int
	for i, w := range short {
		count += bits.OnesCount64(w ^ long[i])
	}
	return uint(count) + popcount(long[len(short):])
}
