package bitvec

import (
	"errors"
	"fmt"
)

var (
	// ErrTooLarge is returned when a mutation would need more words than the
	// bitset is allowed to allocate.
	ErrTooLarge = errors.New("bitvec: bitset too large")

	// ErrInvalidFormat is returned when decoding malformed serialized data.
	ErrInvalidFormat = errors.New("bitvec: invalid serialized bitset")

	// ErrIncompatibleBitSet is returned when two IBitSet backends can't be compared.
	ErrIncompatibleBitSet = errors.New("bitvec: incompatible bitset type")
)

// GrowthError reports a growth request that could not be satisfied.
// The bitset that returned it is left unchanged.
//
// errors.Is(err, ErrTooLarge) holds for every GrowthError.
type GrowthError struct {
	// Requested is the number of words the mutation needed.
	Requested uint
	// Limit is the maximum number of words the bitset may hold.
	Limit uint
}

func (e *GrowthError) Error() string {
	return fmt.Sprintf("bitvec: cannot grow bitset to %d words (limit %d)", e.Requested, e.Limit)
}

func (e *GrowthError) Unwrap() error { return ErrTooLarge }
