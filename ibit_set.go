package bitvec

import "context"

// IBitSet is the narrow bitset interface shared by the in-memory BitSet and
// the redis backed BitSetRedis. Structures such as BloomFilter are written
// against it so that they work on either backend.
type IBitSet interface {
	// Size returns the number of addressable bits
	Size() uint

	// Has returns true if the bit is set at index, else false
	Has(ctx context.Context, index uint) (bool, error)

	// HasMulti returns an array of boolean values for the queried
	// index values in the indexes array
	HasMulti(ctx context.Context, indexes []uint) ([]bool, error)

	// Insert sets the bit at index to true
	Insert(ctx context.Context, index uint) (bool, error)

	// InsertMulti sets the bits at the indices passed in the indexes array
	InsertMulti(ctx context.Context, indexes []uint) (bool, error)

	// Remove sets the bit at index to false
	Remove(ctx context.Context, index uint) (bool, error)

	// BitCount returns the total number of set bits in the bitset
	BitCount(ctx context.Context) (uint, error)

	// Equals checks if two bitsets hold the same members
	Equals(ctx context.Context, otherBitSet IBitSet) (bool, error)
}

var (
	_ IBitSet = (*BitSet)(nil)
	_ IBitSet = (*BitSetRedis)(nil)
)

// IsBitSetMem reports whether _t_ is an in-memory *BitSet.
func IsBitSetMem(t interface{}) bool {
	switch t.(type) {
	case *BitSet:
		return true
	default:
		return false
	}
}
