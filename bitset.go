/*
Package bitvec implements a growable bitset over 64-bit words together with the
data structures built on top of it.

The in-memory BitSet represents a set of non-negative integers. It grows on
demand when a bit beyond its current length is set, never shrinks on its own,
and supports in-place set algebra between bitsets of different lengths,
run-skipping iteration and arbitrary bit shifts.

BitSetRedis keeps the same kind of set in a Redis string, and BloomFilter
works on either backend through the IBitSet interface.

A BitSet is not safe for concurrent use. Distinct bitsets share no storage.
*/
package bitvec

import (
	"math"
	"math/bits"
	"strconv"
	"strings"
)

const (
	wordSize     = uint(64)
	wordBytes    = wordSize / 8
	log2WordSize = uint(6)

	// maxAllocBytes is the largest heap object the runtime hands out:
	// 1<<48 bytes on 64-bit platforms and 1<<31 on 32-bit ones.
	maxAllocBytes = 1 << (31 + 17*(bits.UintSize/64))

	// maxAddressableWords is the default growth limit. Larger word slices
	// can't be allocated, so growing past it fails with a GrowthError.
	maxAddressableWords = uint(maxAllocBytes / wordBytes)

	// overflowWords is returned by wordsNeeded when the bit count doesn't fit
	// any word slice. It is above every limit.
	overflowWords = uint(math.MaxUint>>log2WordSize) + 1
)

// BitSet is a growable set of non-negative integers stored as 64-bit words.
// Bit b of words[i] is the member i*64+b. len(words) is the logical length
// and cap(words) the allocated one; every bit past len(words)*64 is zero.
//
// The zero value is an empty, usable bitset without a growth limit.
type BitSet struct {
	words []uint64
	opts  options
	// configured is false for the zero value, in which case opts is
	// replaced by defaultOptions on first growth.
	configured bool
}

// New creates an empty BitSet.
func New(opts ...Option) *BitSet {
	b := &BitSet{}
	b.configure(opts)
	return b
}

// NewWithCapacity creates an empty BitSet with room for at least _nBits_ bits
// before the first reallocation. The logical length is still zero. The
// capacity is clamped to the growth limit.
func NewWithCapacity(nBits uint, opts ...Option) *BitSet {
	b := New(opts...)
	n := wordsNeeded(nBits)
	if n > b.opts.maxWords {
		n = b.opts.maxWords
	}
	b.words = make([]uint64, 0, n)
	return b
}

// From creates a BitSet holding a copy of _words_. It fails when _words_ is
// longer than the growth limit set through _opts_.
func From(words []uint64, opts ...Option) (*BitSet, error) {
	b := New(opts...)
	if uint(len(words)) > b.opts.maxWords {
		return nil, &GrowthError{Requested: uint(len(words)), Limit: b.opts.maxWords}
	}
	b.words = make([]uint64, len(words))
	copy(b.words, words)
	return b, nil
}

func (b *BitSet) configure(opts []Option) {
	b.opts = defaultOptions()
	for _, opt := range opts {
		opt(&b.opts)
	}
	b.configured = true
}

// MaxWords returns the growth limit in words.
func (b *BitSet) MaxWords() uint {
	return b.limit()
}

// limit returns the maximum number of words the bitset may hold.
func (b *BitSet) limit() uint {
	if !b.configured {
		return maxAddressableWords
	}
	return b.opts.maxWords
}

// wordsNeeded returns the number of words needed to hold _n_ bits.
func wordsNeeded(n uint) uint {
	if n > math.MaxUint-(wordSize-1) {
		return overflowWords
	}
	return (n + wordSize - 1) >> log2WordSize
}

// wordIndex returns the index of the word holding bit _i_.
func wordIndex(i uint) uint {
	return i >> log2WordSize
}

// bitMask returns the mask of bit _i_ inside its word.
func bitMask(i uint) uint64 {
	return 1 << (i & (wordSize - 1))
}

// grow extends the logical length to _n_ words. New words are zero.
// On failure nothing is modified.
func (b *BitSet) grow(n uint) error {
	if !b.configured {
		b.configure(nil)
	}
	cur := uint(len(b.words))
	if n <= cur {
		return nil
	}
	if n > b.opts.maxWords {
		return &GrowthError{Requested: n, Limit: b.opts.maxWords}
	}
	if n <= uint(cap(b.words)) {
		b.words = b.words[:n]
		// Compact leaves stale words between len and cap.
		clear(b.words[cur:])
		return nil
	}
	newCap := uint(float64(cap(b.words)) * b.opts.growth)
	if newCap < n {
		newCap = n
	}
	if newCap > b.opts.maxWords {
		newCap = b.opts.maxWords
	}
	words := make([]uint64, n, newCap)
	copy(words, b.words)
	b.words = words
	return nil
}

// growToBit makes sure bit _i_ is addressable.
func (b *BitSet) growToBit(i uint) error {
	return b.grow(wordIndex(i) + 1)
}

// Grow makes the logical length at least _nBits_ bits.
func (b *BitSet) Grow(nBits uint) error {
	return b.grow(wordsNeeded(nBits))
}

// Release drops the word storage. The bitset behaves as empty afterwards.
func (b *BitSet) Release() {
	b.words = nil
}

// Len returns the logical length in bits. It is a high-water mark:
// clearing bits never reduces it.
func (b *BitSet) Len() uint {
	return uint(len(b.words)) << log2WordSize
}

// WordCount returns the number of logically valid words.
func (b *BitSet) WordCount() int {
	return len(b.words)
}

// Cap returns the number of allocated words.
func (b *BitSet) Cap() int {
	return cap(b.words)
}

// Words returns a copy of the logically valid words.
func (b *BitSet) Words() []uint64 {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return words
}

// Clone returns a deep copy with the same options.
func (b *BitSet) Clone() *BitSet {
	c := &BitSet{opts: b.opts, configured: b.configured}
	c.words = make([]uint64, len(b.words))
	copy(c.words, b.words)
	return c
}

// Equal reports whether both bitsets hold the same members. Trailing zero
// words don't matter.
func (b *BitSet) Equal(other *BitSet) bool {
	if other == nil {
		return b.Empty()
	}
	short, long := b.words, other.words
	if len(short) > len(long) {
		short, long = long, short
	}
	for i := range short {
		if short[i] != long[i] {
			return false
		}
	}
	for _, w := range long[len(short):] {
		if w != 0 {
			return false
		}
	}
	return true
}

// Compact drops trailing zero words from the logical length.
// Allocated capacity is kept.
func (b *BitSet) Compact() {
	n := len(b.words)
	for n > 0 && b.words[n-1] == 0 {
		n--
	}
	b.words = b.words[:n]
}

// ClearAll clears every bit. The logical length is kept.
func (b *BitSet) ClearAll() {
	clear(b.words)
}

// String returns the members in set notation, e.g. {1,5,64}.
func (b *BitSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	b.ForEach(func(i uint) bool {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(strconv.FormatUint(uint64(i), 10))
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

// lowestBit returns the index of the lowest set bit of word _w_ at word index _i_.
func lowestBit(i int, w uint64) uint {
	return uint(i)<<log2WordSize + uint(bits.TrailingZeros64(w))
}
