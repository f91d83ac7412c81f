package bitvec

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"

	"github.com/dgryski/go-metro"
	"github.com/kwertop/bitvec/internal/util"
)

const bloomSeed = 1373

// The BloomFilter data structure. It mainly has two fields: _size_ and _numHashes_
// _size_ denotes the number of bits of the bloom filter
// _numHashes_ denotes the number of hashing functions applied on the entrant element
// during insertion or lookup.
// _filter_ is the bitset backing internally the bloom filter. It can either be an
// in-memory *BitSet or a *BitSetRedis.
// _metadataKey_ saves the information about a Bloom Filter saved on Redis
// _lock_ is used to synchronize read/write on an in-memory BitSet. It's not used for
// BitSetRedis as Redis is event-driven single threaded
type BloomFilter struct {
	size        uint
	numHashes   uint
	filter      IBitSet
	metadataKey string
	lock        sync.RWMutex
}

var _ BaseFilter[[]byte] = (*BloomFilter)(nil)

// NewBloomFilterWithBitSet creates and returns a new BloomFilter
// _size_ is the number of bits of the bloom filter
// _numHashes_ is the number of hashing functions to be applied on the entrant
// _filter_ is either a *BitSet or a *BitSetRedis with at least _size_ bits
// _metadataKey_ is needed if the filter is of type BitSetRedis otherwise it's overlooked
func NewBloomFilterWithBitSet(size, numHashes uint, filter IBitSet, metadataKey string) (*BloomFilter, error) {
	if !IsBitSetMem(filter) && metadataKey == "" {
		return nil, fmt.Errorf("bitvec: error initializing filter as metadataKey is blank for BitSetRedis")
	}
	size = max(size, 1)
	if filter.Size() < size {
		return nil, fmt.Errorf("bitvec: error initializing filter as size of bitset %v is smaller than size %v passed", filter.Size(), size)
	}
	return &BloomFilter{
		size:        size,
		numHashes:   max(numHashes, 1),
		filter:      filter,
		metadataKey: metadataKey,
	}, nil
}

// NewMemBloomFilterWithParameters creates and returns a new in-memory BloomFilter
// _numItems_ is the number of items for which the bloom filter has to be checked for validation
// _errorRate_ is the acceptable false positive error rate
// Based upon the above two parameters passed, the size of the bloom filter is calculated
func NewMemBloomFilterWithParameters(numItems uint, errorRate float64) (*BloomFilter, error) {
	size := max(util.CalculateFilterSize(numItems, errorRate), 1)
	numHashes := util.CalculateNumHashes(size, numItems)
	filter := NewWithCapacity(size, WithMaxBits(size))
	if err := filter.Grow(size); err != nil {
		return nil, err
	}
	return NewBloomFilterWithBitSet(size, numHashes, filter, "")
}

// NewRedisBloomFilterWithParameters creates and returns a new Redis backed BloomFilter
// sized like NewMemBloomFilterWithParameters.
// metadataKey is created using a random alpha-numeric generator which can be retrieved using
// GetMetadataKey() method
func NewRedisBloomFilterWithParameters(ctx context.Context, numItems uint, errorRate float64) (*BloomFilter, error) {
	size := max(util.CalculateFilterSize(numItems, errorRate), 1)
	numHashes := util.CalculateNumHashes(size, numItems)
	filter, err := NewBitSetRedis(ctx, size)
	if err != nil {
		return nil, err
	}
	client, err := getRedisClient()
	if err != nil {
		return nil, err
	}
	metadataKey := util.GenerateRandomString(16)
	metadata := map[string]interface{}{
		"size":      size,
		"numHashes": numHashes,
		"bitsetKey": filter.Key(),
	}
	if err := client.HSet(ctx, metadataKey, metadata).Err(); err != nil {
		return nil, fmt.Errorf("bitvec: error while creating bloom filter redis: %w", err)
	}
	return NewBloomFilterWithBitSet(size, numHashes, filter, metadataKey)
}

// NewRedisBloomFilterFromKey is used to create a new Redis backed BloomFilter from the
// _metadataKey_ (the Redis key used to store the metadata about the bloom filter) passed
// For this to work, value should be present in Redis at _key_
func NewRedisBloomFilterFromKey(ctx context.Context, metadataKey string) (*BloomFilter, error) {
	client, err := getRedisClient()
	if err != nil {
		return nil, err
	}
	values, err := client.HGetAll(ctx, metadataKey).Result()
	if err != nil {
		return nil, fmt.Errorf("bitvec: error while fetching hash from redis: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("bitvec: no bloom filter metadata at key %s", metadataKey)
	}
	size, err := strconv.ParseUint(values["size"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bitvec: invalid bloom filter size: %w", err)
	}
	numHashes, err := strconv.ParseUint(values["numHashes"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bitvec: invalid bloom filter hash count: %w", err)
	}
	filter, err := BitSetRedisFromKey(ctx, values["bitsetKey"])
	if err != nil {
		return nil, err
	}
	return &BloomFilter{
		size:        uint(size),
		numHashes:   uint(numHashes),
		filter:      filter,
		metadataKey: metadataKey,
	}, nil
}

func (bloomFilter *BloomFilter) indexes(data []byte) []uint {
	hashes := getHashes(data)
	indexes := make([]uint, bloomFilter.numHashes)
	for i := range indexes {
		indexes[i] = bloomFilter.getIndex(hashes, uint64(i))
	}
	return indexes
}

// Insert writes new _data_ in the bloom filter
func (bloomFilter *BloomFilter) Insert(ctx context.Context, data []byte) error {
	if IsBitSetMem(bloomFilter.filter) {
		bloomFilter.lock.Lock()
		defer bloomFilter.lock.Unlock()
	}
	_, err := bloomFilter.filter.InsertMulti(ctx, bloomFilter.indexes(data))
	return err
}

// Lookup returns true if the corresponding bits in the bitset for _data_ are set,
// otherwise false
func (bloomFilter *BloomFilter) Lookup(ctx context.Context, data []byte) (bool, error) {
	if IsBitSetMem(bloomFilter.filter) {
		bloomFilter.lock.RLock()
		defer bloomFilter.lock.RUnlock()
	}
	result, err := bloomFilter.filter.HasMulti(ctx, bloomFilter.indexes(data))
	if err != nil {
		return false, err
	}
	for _, ok := range result {
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// InsertString accepts string value as _data_ for inserting into the Bloom filter
func (bloomFilter *BloomFilter) InsertString(ctx context.Context, data string) error {
	return bloomFilter.Insert(ctx, []byte(data))
}

// LookupString accepts string value as _data_ to lookup the Bloom filter
func (bloomFilter *BloomFilter) LookupString(ctx context.Context, data string) (bool, error) {
	return bloomFilter.Lookup(ctx, []byte(data))
}

// GetCap returns the size of the bloom filter
func (bloomFilter *BloomFilter) GetCap() uint {
	return bloomFilter.size
}

// GetNumHashes returns the number of hash functions used in the bloom filter
func (bloomFilter *BloomFilter) GetNumHashes() uint {
	return bloomFilter.numHashes
}

// GetBitSet returns the internal bitset.
func (bloomFilter *BloomFilter) GetBitSet() IBitSet {
	return bloomFilter.filter
}

// GetMetadataKey returns the Redis key used to store the metadata about the Redis
// backed Bloom filter
func (bloomFilter *BloomFilter) GetMetadataKey() string {
	return bloomFilter.metadataKey
}

// BloomPositiveRate returns the false positive error rate of the filter
func (bloomFilter *BloomFilter) BloomPositiveRate(ctx context.Context) (float64, error) {
	length, err := bloomFilter.filter.BitCount(ctx)
	if err != nil {
		return 0, err
	}
	return math.Pow(1-math.Exp(-float64(length)/float64(bloomFilter.size)), float64(bloomFilter.numHashes)), nil
}

// Equals checks if two BloomFilter's are equal
func (aFilter *BloomFilter) Equals(ctx context.Context, bFilter *BloomFilter) (bool, error) {
	if aFilter.size != bFilter.size || aFilter.numHashes != bFilter.numHashes {
		return false, nil
	}
	return aFilter.filter.Equals(ctx, bFilter.filter)
}

// internal type used to marshal/unmarshal BloomFilter
type bloomFilterType struct {
	M uint    `json:"m"`
	K uint    `json:"k"`
	B *BitSet `json:"b"`
}

// Export JSON marshals an in-memory BloomFilter and returns a byte slice
// containing the data. Redis backed filters already live in redis.
func (bloomFilter *BloomFilter) Export() ([]byte, error) {
	b, ok := bloomFilter.filter.(*BitSet)
	if !ok {
		return nil, fmt.Errorf("bitvec: export doesn't support bitset redis")
	}
	bloomFilter.lock.RLock()
	defer bloomFilter.lock.RUnlock()
	return json.Marshal(bloomFilterType{bloomFilter.size, bloomFilter.numHashes, b})
}

// Import JSON unmarshals the _data_ into the BloomFilter, replacing its
// bitset with an in-memory one
func (bloomFilter *BloomFilter) Import(data []byte) error {
	f := bloomFilterType{B: New()}
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f.B == nil {
		return fmt.Errorf("%w: bloom filter without bitset", ErrInvalidFormat)
	}
	if err := checkFilterParameters(f.M, f.K, f.B); err != nil {
		return err
	}
	bloomFilter.lock.Lock()
	defer bloomFilter.lock.Unlock()
	bloomFilter.size = f.M
	bloomFilter.numHashes = f.K
	bloomFilter.filter = f.B
	return nil
}

// WriteTo writes the BloomFilter onto the specified _stream_ and returns the
// number of bytes written.
// It can be used to write to disk (using a file stream) or to network.
// It's not implemented for Redis backed Bloom filter (BitSetRedis) as data for
// a Redis backed Bloom Filter is already there in Redis.
func (bloomFilter *BloomFilter) WriteTo(stream io.Writer) (int64, error) {
	b, ok := bloomFilter.filter.(*BitSet)
	if !ok {
		return 0, fmt.Errorf("bitvec: stream write doesn't support bitset redis")
	}
	bloomFilter.lock.RLock()
	defer bloomFilter.lock.RUnlock()
	err := binary.Write(stream, binary.BigEndian, uint64(bloomFilter.size))
	if err != nil {
		return 0, err
	}
	err = binary.Write(stream, binary.BigEndian, uint64(bloomFilter.numHashes))
	if err != nil {
		return 0, err
	}
	numBytes, err := b.WriteTo(stream)
	return numBytes + int64(2*binary.Size(uint64(0))), err
}

// ReadFrom reads the BloomFilter from the specified _stream_ and returns the
// number of bytes read.
// It can be used to read from disk (using a file stream) or from network.
// NewRedisBloomFilterFromKey should be used for Redis backed filters.
func (bloomFilter *BloomFilter) ReadFrom(stream io.Reader) (int64, error) {
	var size, numHashes uint64
	err := binary.Read(stream, binary.BigEndian, &size)
	if err != nil {
		return 0, err
	}
	err = binary.Read(stream, binary.BigEndian, &numHashes)
	if err != nil {
		return 0, err
	}
	bitSet := New()
	numBytes, err := bitSet.ReadFrom(stream)
	if err != nil {
		return 0, err
	}
	if size > uint64(math.MaxUint) || numHashes > uint64(math.MaxUint) {
		return 0, fmt.Errorf("%w: bloom filter parameters overflow", ErrInvalidFormat)
	}
	if err := checkFilterParameters(uint(size), uint(numHashes), bitSet); err != nil {
		return 0, err
	}
	bloomFilter.lock.Lock()
	defer bloomFilter.lock.Unlock()
	bloomFilter.size = uint(size)
	bloomFilter.numHashes = uint(numHashes)
	bloomFilter.filter = bitSet
	return numBytes + int64(2*binary.Size(uint64(0))), nil
}

// checkFilterParameters validates decoded filter parameters the way
// NewBloomFilterWithBitSet validates constructor arguments.
func checkFilterParameters(size, numHashes uint, filter IBitSet) error {
	if size == 0 || numHashes == 0 {
		return fmt.Errorf("%w: bloom filter with size %d and %d hashes", ErrInvalidFormat, size, numHashes)
	}
	if filter.Size() < size {
		return fmt.Errorf("%w: bitset of %d bits is smaller than filter size %d", ErrInvalidFormat, filter.Size(), size)
	}
	return nil
}

func getHashes(data []byte) [2]uint64 {
	hash1, hash2 := metro.Hash128(data, bloomSeed)
	return [2]uint64{hash1, hash2}
}

// getIndex derives the i-th index with enhanced double hashing.
func (bloomFilter *BloomFilter) getIndex(hashes [2]uint64, i uint64) uint {
	return uint((hashes[0] + i*hashes[1] + (i*i*i-i)/6) % uint64(bloomFilter.size))
}
