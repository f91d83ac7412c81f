package bitvec

// ShiftLeft moves every member i to i+_n_. No member is lost: the bitset
// grows to hold the new maximum. On growth failure it is unchanged.
func (b *BitSet) ShiftLeft(n uint) error {
	top, ok := b.Maximum()
	if n == 0 || !ok {
		return nil
	}
	if top+n < top {
		return &GrowthError{Requested: overflowWords, Limit: b.limit()}
	}
	if err := b.growToBit(top + n); err != nil {
		return err
	}

	wordShift := int(n >> log2WordSize)
	bitShift := n & (wordSize - 1)
	words := b.words
	// Walk downwards so every source word is read before it is overwritten.
	for i := len(words) - 1; i >= 0; i-- {
		src := i - wordShift
		if src < 0 {
			words[i] = 0
			continue
		}
		w := words[src] << bitShift
		if bitShift != 0 && src > 0 {
			w |= words[src-1] >> (wordSize - bitShift)
		}
		words[i] = w
	}
	return nil
}

// ShiftRight moves every member i >= _n_ to i-_n_ and drops the members
// below _n_. The logical length is kept.
func (b *BitSet) ShiftRight(n uint) {
	if n == 0 {
		return
	}
	words := b.words
	wordShift := n >> log2WordSize
	if wordShift >= uint(len(words)) {
		clear(words)
		return
	}
	shift := int(wordShift)
	bitShift := n & (wordSize - 1)
	for i := range words {
		src := i + shift
		if src >= len(words) {
			words[i] = 0
			continue
		}
		w := words[src] >> bitShift
		if bitShift != 0 && src+1 < len(words) {
			w |= words[src+1] << (wordSize - bitShift)
		}
		words[i] = w
	}
}
