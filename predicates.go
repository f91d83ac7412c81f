package bitvec

// Disjoint reports whether the two bitsets have no member in common.
// It stops at the first overlapping word.
func (b *BitSet) Disjoint(other *BitSet) bool {
	ow := wordsOf(other)
	n := min(len(b.words), len(ow))
	for i := 0; i < n; i++ {
		if b.words[i]&ow[i] != 0 {
			return false
		}
	}
	return true
}

// Intersects reports whether the two bitsets share at least one member.
func (b *BitSet) Intersects(other *BitSet) bool {
	return !b.Disjoint(other)
}

// ContainsAll reports whether every member of _sub_ is also a member of the
// receiver. Only bit content is compared, so either bitset may be longer.
func (b *BitSet) ContainsAll(sub *BitSet) bool {
	for i, w := range wordsOf(sub) {
		if i < len(b.words) {
			w &^= b.words[i]
		}
		if w != 0 {
			return false
		}
	}
	return true
}
