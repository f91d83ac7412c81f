package bitvec

import (
	"context"
	"fmt"
)

// The methods below make *BitSet an IBitSet. None of them block, so the
// context is ignored.

// Size returns the logical length of the bitset in bits.
func (b *BitSet) Size() uint {
	return b.Len()
}

// Has checks if the bit at index _index_ is set
func (b *BitSet) Has(_ context.Context, index uint) (bool, error) {
	return b.Test(index), nil
}

// HasMulti checks if the bits at the indices
// specified by _indexes_ array are set
func (b *BitSet) HasMulti(_ context.Context, indexes []uint) ([]bool, error) {
	if len(indexes) == 0 {
		return nil, fmt.Errorf("bitvec: at least 1 index is required")
	}
	result := make([]bool, len(indexes))
	for i, index := range indexes {
		result[i] = b.Test(index)
	}
	return result, nil
}

// Insert sets the bit at index specified by _index_
func (b *BitSet) Insert(_ context.Context, index uint) (bool, error) {
	if err := b.Set(index); err != nil {
		return false, err
	}
	return true, nil
}

// InsertMulti sets the bits at the indices specified by _indexes_. The
// bitset is grown once for the largest index, so a failure leaves it unchanged.
func (b *BitSet) InsertMulti(_ context.Context, indexes []uint) (bool, error) {
	if len(indexes) == 0 {
		return false, fmt.Errorf("bitvec: at least 1 index is required")
	}
	top := indexes[0]
	for _, index := range indexes[1:] {
		top = max(top, index)
	}
	if err := b.growToBit(top); err != nil {
		return false, err
	}
	for _, index := range indexes {
		b.words[wordIndex(index)] |= bitMask(index)
	}
	return true, nil
}

// Remove clears the bit at index _index_
func (b *BitSet) Remove(_ context.Context, index uint) (bool, error) {
	b.Clear(index)
	return true, nil
}

// BitCount returns the total number of set bits in the bitset
func (b *BitSet) BitCount(_ context.Context) (uint, error) {
	return b.Count(), nil
}

// Equals checks if the bitset holds the same members as _otherBitSet_,
// which may be either backend.
func (b *BitSet) Equals(ctx context.Context, otherBitSet IBitSet) (bool, error) {
	switch other := otherBitSet.(type) {
	case *BitSet:
		return b.Equal(other), nil
	case *BitSetRedis:
		loaded, err := other.ToBitSet(ctx)
		if err != nil {
			return false, err
		}
		return b.Equal(loaded), nil
	default:
		return false, fmt.Errorf("%w: %T", ErrIncompatibleBitSet, otherBitSet)
	}
}
