package bitvec

// Test reports whether bit _i_ is set. Bits past the logical length are unset.
func (b *BitSet) Test(i uint) bool {
	w := wordIndex(i)
	if w >= uint(len(b.words)) {
		return false
	}
	return b.words[w]&bitMask(i) != 0
}

// Set sets bit _i_, growing the bitset when needed. It only fails when the
// growth limit is reached, in which case the bitset is unchanged.
func (b *BitSet) Set(i uint) error {
	if err := b.growToBit(i); err != nil {
		return err
	}
	b.words[wordIndex(i)] |= bitMask(i)
	return nil
}

// Clear unsets bit _i_. Clearing past the logical length is a no-op and the
// length never shrinks.
func (b *BitSet) Clear(i uint) {
	w := wordIndex(i)
	if w >= uint(len(b.words)) {
		return
	}
	b.words[w] &^= bitMask(i)
}

// SetTo sets bit _i_ when _value_ is true and clears it otherwise.
// Only setting can grow the bitset.
func (b *BitSet) SetTo(i uint, value bool) error {
	if value {
		return b.Set(i)
	}
	b.Clear(i)
	return nil
}

// Flip toggles bit _i_. Flipping an unset bit past the length grows the bitset.
func (b *BitSet) Flip(i uint) error {
	if err := b.growToBit(i); err != nil {
		return err
	}
	b.words[wordIndex(i)] ^= bitMask(i)
	return nil
}
