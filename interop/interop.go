// Package interop converts bitvec bitsets to and from other bitmap
// libraries: github.com/bits-and-blooms/bitset and Roaring bitmaps.
package interop

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/bits-and-blooms/bitset"
	"github.com/kwertop/bitvec"
)

// ToBitsAndBlooms copies _b_ into a bits-and-blooms bitset. Both use the
// same word layout, so the words are copied as is.
func ToBitsAndBlooms(b *bitvec.BitSet) *bitset.BitSet {
	return bitset.From(b.Words())
}

// FromBitsAndBlooms copies a bits-and-blooms bitset into a new bitvec bitset.
func FromBitsAndBlooms(s *bitset.BitSet, opts ...bitvec.Option) (*bitvec.BitSet, error) {
	b := bitvec.New(opts...)
	if err := b.Grow(s.Len()); err != nil {
		return nil, err
	}
	for i, ok := s.NextSet(0); ok; i, ok = s.NextSet(i + 1) {
		if err := b.Set(i); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ToRoaring copies _b_ into a 32-bit Roaring bitmap. It fails when a member
// doesn't fit in a uint32.
func ToRoaring(b *bitvec.BitSet) (*roaring.Bitmap, error) {
	if top, ok := b.Maximum(); ok && uint64(top) > math.MaxUint32 {
		return nil, fmt.Errorf("interop: member %d does not fit a 32-bit roaring bitmap", top)
	}
	rb := roaring.New()
	buffer := make([]uint, 256)
	values := make([]uint32, 0, len(buffer))
	for i, buf := b.NextSetMany(0, buffer); len(buf) > 0; i, buf = b.NextSetMany(i+1, buf) {
		values = values[:0]
		for _, v := range buf {
			values = append(values, uint32(v))
		}
		rb.AddMany(values)
	}
	return rb, nil
}

// FromRoaring copies a 32-bit Roaring bitmap into a new bitvec bitset.
func FromRoaring(rb *roaring.Bitmap, opts ...bitvec.Option) (*bitvec.BitSet, error) {
	b := bitvec.New(opts...)
	if rb.IsEmpty() {
		return b, nil
	}
	if err := b.Grow(uint(rb.Maximum()) + 1); err != nil {
		return nil, err
	}
	it := rb.Iterator()
	for it.HasNext() {
		if err := b.Set(uint(it.Next())); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ToRoaring64 copies _b_ into a 64-bit Roaring bitmap.
func ToRoaring64(b *bitvec.BitSet) *roaring64.Bitmap {
	rb := roaring64.New()
	b.ForEach(func(i uint) bool {
		rb.Add(uint64(i))
		return true
	})
	return rb
}

// FromRoaring64 copies a 64-bit Roaring bitmap into a new bitvec bitset.
// Members that can't be addressed on this platform fail with bitvec.ErrTooLarge.
func FromRoaring64(rb *roaring64.Bitmap, opts ...bitvec.Option) (*bitvec.BitSet, error) {
	b := bitvec.New(opts...)
	if rb.IsEmpty() {
		return b, nil
	}
	if top := rb.Maximum(); top >= uint64(math.MaxUint) {
		return nil, fmt.Errorf("interop: member %d: %w", top, bitvec.ErrTooLarge)
	}
	if err := b.Grow(uint(rb.Maximum()) + 1); err != nil {
		return nil, err
	}
	it := rb.Iterator()
	for it.HasNext() {
		if err := b.Set(uint(it.Next())); err != nil {
			return nil, err
		}
	}
	return b, nil
}
