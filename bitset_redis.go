package bitvec

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/kwertop/bitvec/internal/util"
	"github.com/redis/go-redis/v9"
)

// BitSetRedis is an implementation of IBitSet kept in redis.
// Bitsets or Bitmaps are implemented in Redis using strings, with bit i
// stored in byte i/8, most significant bit first. All operations work on
// the string stored at _key_. Like the in-memory BitSet the string only
// grows; SETBIT past its end extends it with zero bytes.
// For more details, please refer https://redis.io/docs/data-types/bitmaps/
type BitSetRedis struct {
	size   uint
	key    string
	logger *Logger
}

// NewBitSetRedis creates a zeroed redis bitset of _size_ bits under a
// random key.
func NewBitSetRedis(ctx context.Context, size uint) (*BitSetRedis, error) {
	return NewBitSetRedisWithKey(ctx, util.GenerateRandomString(16), size)
}

// NewBitSetRedisWithKey creates a zeroed redis bitset of _size_ bits stored
// at _key_, overwriting any previous value.
func NewBitSetRedisWithKey(ctx context.Context, key string, size uint) (*BitSetRedis, error) {
	client, err := getRedisClient()
	if err != nil {
		return nil, err
	}
	bitSet := &BitSetRedis{size: size, key: key, logger: defaultLogger.WithKey(key)}
	zeros := make([]byte, (size+7)/8)
	err = client.Set(ctx, key, zeros, 0).Err()
	bitSet.logger.LogRedisOp(ctx, "create", key, err)
	if err != nil {
		return nil, fmt.Errorf("bitvec: error creating redis bitset: %w", err)
	}
	return bitSet, nil
}

// BitSetRedisFromBitSet stores a copy of the in-memory bitset _b_ under a
// random key.
func BitSetRedisFromBitSet(ctx context.Context, b *BitSet) (*BitSetRedis, error) {
	client, err := getRedisClient()
	if err != nil {
		return nil, err
	}
	key := util.GenerateRandomString(16)
	bitSet := &BitSetRedis{size: b.Len(), key: key, logger: defaultLogger.WithKey(key)}
	err = client.Set(ctx, key, util.WordsToRedisBytes(b.words), 0).Err()
	bitSet.logger.LogRedisOp(ctx, "store", key, err)
	if err != nil {
		return nil, fmt.Errorf("bitvec: error storing bitset in redis: %w", err)
	}
	return bitSet, nil
}

// BitSetRedisFromKey attaches to the bitmap already saved at redis key _key_.
// A missing key is an empty bitset.
func BitSetRedisFromKey(ctx context.Context, key string) (*BitSetRedis, error) {
	client, err := getRedisClient()
	if err != nil {
		return nil, err
	}
	n, err := client.StrLen(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("bitvec: error reading redis bitset %s: %w", key, err)
	}
	return &BitSetRedis{size: uint(n) * 8, key: key, logger: defaultLogger.WithKey(key)}, nil
}

// Size returns the number of addressable bits.
func (bitSet *BitSetRedis) Size() uint {
	return bitSet.size
}

// Key gives the key at which the bitset is saved in redis
func (bitSet *BitSetRedis) Key() string {
	return bitSet.key
}

func (bitSet *BitSetRedis) extend(index uint) {
	if index >= bitSet.size {
		bitSet.size = index + 1
	}
}

// Has checks if the bit at index _index_ is set
func (bitSet *BitSetRedis) Has(ctx context.Context, index uint) (bool, error) {
	client, err := getRedisClient()
	if err != nil {
		return false, err
	}
	val, err := client.GetBit(ctx, bitSet.key, int64(index)).Result()
	if err != nil {
		return false, err
	}
	return val != 0, nil
}

// HasMulti checks if the bits at the indices specified by _indexes_ are set,
// using a single pipeline
func (bitSet *BitSetRedis) HasMulti(ctx context.Context, indexes []uint) ([]bool, error) {
	if len(indexes) == 0 {
		return nil, fmt.Errorf("bitvec: at least 1 index is required")
	}
	client, err := getRedisClient()
	if err != nil {
		return nil, err
	}
	pipe := client.Pipeline()
	values := make([]*redis.IntCmd, len(indexes))
	for i := range indexes {
		values[i] = pipe.GetBit(ctx, bitSet.key, int64(indexes[i]))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	result := make([]bool, len(values))
	for i := range values {
		result[i] = values[i].Val() != 0
	}
	return result, nil
}

// Insert sets the bit at index specified by _index_
func (bitSet *BitSetRedis) Insert(ctx context.Context, index uint) (bool, error) {
	client, err := getRedisClient()
	if err != nil {
		return false, err
	}
	if err := client.SetBit(ctx, bitSet.key, int64(index), 1).Err(); err != nil {
		return false, err
	}
	bitSet.extend(index)
	return true, nil
}

// InsertMulti sets the bits at indices specified by _indexes_ using a
// single pipeline
func (bitSet *BitSetRedis) InsertMulti(ctx context.Context, indexes []uint) (bool, error) {
	if len(indexes) == 0 {
		return false, fmt.Errorf("bitvec: at least 1 index is required")
	}
	client, err := getRedisClient()
	if err != nil {
		return false, err
	}
	pipe := client.Pipeline()
	for i := range indexes {
		pipe.SetBit(ctx, bitSet.key, int64(indexes[i]), 1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	for _, index := range indexes {
		bitSet.extend(index)
	}
	return true, nil
}

// Remove clears the bit at _index_. Clearing past the end of the string is
// a no-op and doesn't extend it.
func (bitSet *BitSetRedis) Remove(ctx context.Context, index uint) (bool, error) {
	if index >= bitSet.size {
		return true, nil
	}
	client, err := getRedisClient()
	if err != nil {
		return false, err
	}
	if err := client.SetBit(ctx, bitSet.key, int64(index), 0).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// BitCount returns the total number of set bits in the bitset saved in redis
func (bitSet *BitSetRedis) BitCount(ctx context.Context) (uint, error) {
	client, err := getRedisClient()
	if err != nil {
		return 0, err
	}
	val, err := client.BitCount(ctx, bitSet.key, nil).Result()
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}

// Minimum returns the lowest set bit. The boolean is false when no bit is set.
func (bitSet *BitSetRedis) Minimum(ctx context.Context) (uint, bool, error) {
	client, err := getRedisClient()
	if err != nil {
		return 0, false, err
	}
	index, err := client.BitPos(ctx, bitSet.key, 1).Result()
	if err != nil {
		return 0, false, err
	}
	if index < 0 {
		return 0, false, nil
	}
	return uint(index), true, nil
}

// Maximum returns the highest set bit. Redis has no reverse BITPOS, so the
// string is fetched and scanned backwards.
func (bitSet *BitSetRedis) Maximum(ctx context.Context) (uint, bool, error) {
	data, err := bitSet.load(ctx)
	if err != nil {
		return 0, false, err
	}
	data = util.TrimZeroBytes(data)
	if len(data) == 0 {
		return 0, false, nil
	}
	last := len(data) - 1
	return uint(last)*8 + 7 - uint(bits.TrailingZeros8(data[last])), true, nil
}

func (bitSet *BitSetRedis) load(ctx context.Context) ([]byte, error) {
	client, err := getRedisClient()
	if err != nil {
		return nil, err
	}
	data, err := client.Get(ctx, bitSet.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bitvec: error reading redis bitset %s: %w", bitSet.key, err)
	}
	return data, nil
}

// ToBitSet copies the redis bitset into a new in-memory BitSet.
func (bitSet *BitSetRedis) ToBitSet(ctx context.Context) (*BitSet, error) {
	data, err := bitSet.load(ctx)
	if err != nil {
		return nil, err
	}
	b := New()
	b.words = util.RedisBytesToWords(data)
	return b, nil
}

func (bitSet *BitSetRedis) bitOp(ctx context.Context, op string, other *BitSetRedis) error {
	client, err := getRedisClient()
	if err != nil {
		return err
	}
	var cmd *redis.IntCmd
	switch op {
	case "or":
		cmd = client.BitOpOr(ctx, bitSet.key, bitSet.key, other.key)
	case "and":
		cmd = client.BitOpAnd(ctx, bitSet.key, bitSet.key, other.key)
	case "xor":
		cmd = client.BitOpXor(ctx, bitSet.key, bitSet.key, other.key)
	default:
		return fmt.Errorf("bitvec: unknown bit operation %q", op)
	}
	err = cmd.Err()
	bitSet.logger.LogRedisOp(ctx, op, bitSet.key, err)
	if err != nil {
		return err
	}
	// BITOP pads the shorter operand with zeros and stores a result as
	// long as the longest one.
	bitSet.size = max(bitSet.size, other.size)
	return nil
}

// Union adds every member of _other_ to the bitset (BITOP OR).
func (bitSet *BitSetRedis) Union(ctx context.Context, other *BitSetRedis) error {
	return bitSet.bitOp(ctx, "or", other)
}

// Intersection keeps only the members also present in _other_ (BITOP AND).
func (bitSet *BitSetRedis) Intersection(ctx context.Context, other *BitSetRedis) error {
	return bitSet.bitOp(ctx, "and", other)
}

// SymmetricDifference toggles every member of _other_ (BITOP XOR).
func (bitSet *BitSetRedis) SymmetricDifference(ctx context.Context, other *BitSetRedis) error {
	return bitSet.bitOp(ctx, "xor", other)
}

// Difference removes the members of _other_ from the bitset. BITOP has no
// and-not, so both strings are read under WATCH and the result is written
// back in a transaction; a concurrent change to either key aborts it with
// redis.TxFailedErr.
func (bitSet *BitSetRedis) Difference(ctx context.Context, other *BitSetRedis) error {
	client, err := getRedisClient()
	if err != nil {
		return err
	}
	err = client.Watch(ctx, func(tx *redis.Tx) error {
		a, err := tx.Get(ctx, bitSet.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		b, err := tx.Get(ctx, other.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		for i := 0; i < len(a) && i < len(b); i++ {
			a[i] &^= b[i]
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, bitSet.key, a, 0)
			return nil
		})
		return err
	}, bitSet.key, other.key)
	bitSet.logger.LogRedisOp(ctx, "andnot", bitSet.key, err)
	return err
}

// Equals checks if the redis bitset holds the same members as
// _otherBitSet_. Trailing zero bytes are ignored.
func (bitSet *BitSetRedis) Equals(ctx context.Context, otherBitSet IBitSet) (bool, error) {
	switch other := otherBitSet.(type) {
	case *BitSetRedis:
		a, err := bitSet.load(ctx)
		if err != nil {
			return false, err
		}
		b, err := other.load(ctx)
		if err != nil {
			return false, err
		}
		return string(util.TrimZeroBytes(a)) == string(util.TrimZeroBytes(b)), nil
	case *BitSet:
		return other.Equals(ctx, bitSet)
	default:
		return false, fmt.Errorf("%w: %T", ErrIncompatibleBitSet, otherBitSet)
	}
}

// Delete removes the key from redis.
func (bitSet *BitSetRedis) Delete(ctx context.Context) error {
	client, err := getRedisClient()
	if err != nil {
		return err
	}
	err = client.Del(ctx, bitSet.key).Err()
	bitSet.logger.LogRedisOp(ctx, "delete", bitSet.key, err)
	if err == nil {
		bitSet.size = 0
	}
	return err
}
