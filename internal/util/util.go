/*
Package util holds small helpers shared by the bitvec packages: redis key
generation, byte bit-order conversion and filter sizing.
*/
package util

import (
	"encoding/binary"
	"math"
	"math/bits"
	"math/rand"
	"sync"
	"time"
)

var (
	srcMu sync.Mutex
	src   = rand.NewSource(time.Now().UnixNano())
)

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

// GenerateRandomString returns a random string of _n_ ASCII letters. It is
// used to name redis keys that the caller didn't choose.
func GenerateRandomString(n int) string {
	srcMu.Lock()
	defer srcMu.Unlock()
	b := make([]byte, n)
	// A src.Int63() generates 63 random bits, enough for letterIdxMax characters!
	for i, cache, remain := n-1, src.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}
	return string(b)
}

// WordsToRedisBytes lays out _words_ the way redis stores a bitmap: bit i
// lives in byte i/8 at position 7-i%8, i.e. most significant bit first.
func WordsToRedisBytes(words []uint64) []byte {
	out := make([]byte, len(words)*8)
	for i, w := range words {
		binary.LittleEndian.PutUint64(out[i*8:], w)
	}
	for i := range out {
		out[i] = bits.Reverse8(out[i])
	}
	return out
}

// RedisBytesToWords is the inverse of WordsToRedisBytes. A trailing partial
// word is zero padded.
func RedisBytesToWords(data []byte) []uint64 {
	words := make([]uint64, (len(data)+7)/8)
	var buf [8]byte
	for i := range words {
		clear(buf[:])
		copy(buf[:], data[i*8:])
		for j := range buf {
			buf[j] = bits.Reverse8(buf[j])
		}
		words[i] = binary.LittleEndian.Uint64(buf[:])
	}
	return words
}

// TrimZeroBytes drops trailing zero bytes.
func TrimZeroBytes(data []byte) []byte {
	n := len(data)
	for n > 0 && data[n-1] == 0 {
		n--
	}
	return data[:n]
}

// CalculateFilterSize returns the number of bits a bloom filter needs to hold
// _length_ items with false positive rate _errorRate_.
func CalculateFilterSize(length uint, errorRate float64) uint {
	return uint(math.Ceil(-((float64(length) * math.Log(errorRate)) / math.Pow(math.Log(2), 2))))
}

// CalculateNumHashes returns the optimal number of hash functions for a
// bloom filter of _size_ bits holding _length_ items.
func CalculateNumHashes(size, length uint) uint {
	if length == 0 {
		return 1
	}
	return uint(math.Ceil(float64(size) / float64(length) * math.Log(2)))
}
