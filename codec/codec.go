// Package codec stores bitsets in a compact, optionally compressed form.
//
// Format:
//
//	[magic "BVC1"][type uint8][uncompressed size uint32][stored size uint32][payload]
//
// The payload is the BitSet.MarshalBinary encoding, compressed with LZ4 or
// ZSTD. A stored size of 0 means the payload is kept uncompressed because
// compression didn't pay off.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/kwertop/bitvec"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used.
type CompressionType uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD compression (better ratio on sparse sets).
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("CompressionType(%d)", uint8(c))
	}
}

// ParseCompressionType maps "none", "lz4" and "zstd" to a CompressionType.
func ParseCompressionType(s string) (CompressionType, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("codec: unknown compression %q", s)
	}
}

var magic = [4]byte{'B', 'V', 'C', '1'}

const headerSize = len(magic) + 1 + 4 + 4

// ErrCorrupt is returned when the data is not a valid encoding.
var ErrCorrupt = errors.New("codec: corrupt bitset encoding")

// Upper bounds on the expansion of a compressed payload. An LZ4 match byte
// extends a match by at most 255 bytes; a 4 byte ZSTD RLE block expands to
// one 128KiB block.
const (
	maxLZ4Ratio  = 256
	maxZSTDRatio = 32 << 10
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil,
		zstd.WithDecoderMaxMemory(math.MaxUint32),
		zstd.WithDecodeAllCapLimit(true))
}

// Marshal encodes _b_ with the given compression.
func Marshal(b *bitvec.BitSet, compressionType CompressionType) ([]byte, error) {
	raw, err := b.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if uint64(len(raw)) > math.MaxUint32 {
		return nil, fmt.Errorf("codec: bitset of %d bytes exceeds the 4GiB block limit", len(raw))
	}

	var compressed []byte
	switch compressionType {
	case CompressionNone:
	case CompressionLZ4:
		compressed = make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("codec: lz4: %w", err)
		}
		// n == 0 means incompressible.
		compressed = compressed[:n]
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, fmt.Errorf("codec: zstd: %w", err)
		}
		compressed = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("codec: unknown compression %v", compressionType)
	}

	// Keep the raw payload when compression doesn't help (ratio > 0.9).
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(raw))*0.9 {
		compressed = nil
	}

	out := make([]byte, headerSize, headerSize+max(len(compressed), len(raw)))
	copy(out, magic[:])
	out[4] = byte(compressionType)
	binary.LittleEndian.PutUint32(out[5:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(out[9:], uint32(len(compressed)))
	if compressed == nil {
		return append(out, raw...), nil
	}
	return append(out, compressed...), nil
}

// Unmarshal decodes data produced by Marshal into a new bitset configured
// with _opts_.
func Unmarshal(data []byte, opts ...bitvec.Option) (*bitvec.BitSet, error) {
	if len(data) < headerSize || !bytes.Equal(data[:len(magic)], magic[:]) {
		return nil, ErrCorrupt
	}
	compressionType := CompressionType(data[4])
	rawSize := binary.LittleEndian.Uint32(data[5:])
	storedSize := binary.LittleEndian.Uint32(data[9:])
	payload := data[headerSize:]

	b := bitvec.New(opts...)
	// 8 bytes of word count, then the words.
	if words := uint64(rawSize) / 8; uint64(rawSize) > 8 && words-1 > uint64(b.MaxWords()) {
		return nil, &bitvec.GrowthError{Requested: uint(words - 1), Limit: b.MaxWords()}
	}

	var raw []byte
	if storedSize == 0 {
		if uint64(len(payload)) != uint64(rawSize) {
			return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(payload), rawSize)
		}
		raw = payload
	} else {
		if uint64(len(payload)) != uint64(storedSize) {
			return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(payload), storedSize)
		}
		var err error
		raw, err = decompress(payload, rawSize, compressionType)
		if err != nil {
			return nil, err
		}
	}

	if err := b.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return b, nil
}

func decompress(payload []byte, rawSize uint32, compressionType CompressionType) ([]byte, error) {
	ratio := uint64(maxLZ4Ratio)
	if compressionType == CompressionZSTD {
		ratio = maxZSTDRatio
	}
	if uint64(rawSize) > uint64(len(payload))*ratio {
		return nil, fmt.Errorf("%w: %d payload bytes can't expand to %d", ErrCorrupt, len(payload), rawSize)
	}
	switch compressionType {
	case CompressionLZ4:
		raw := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
		}
		if uint32(n) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return raw, nil
	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, fmt.Errorf("codec: zstd: %w", err)
		}
		defer zstdDecoderPool.Put(dec)
		raw, err := dec.DecodeAll(payload, make([]byte, 0, rawSize))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
		}
		if uint32(len(raw)) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %v", ErrCorrupt, compressionType)
	}
}

// Encode writes the Marshal encoding of _b_ to _w_.
func Encode(w io.Writer, b *bitvec.BitSet, compressionType CompressionType) error {
	data, err := Marshal(b, compressionType)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode reads one encoded bitset from _r_. It reads exactly the bytes of
// that bitset, so several encodings can follow each other on a stream.
func Decode(r io.Reader, opts ...bitvec.Option) (*bitvec.BitSet, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrCorrupt, err)
	}
	if !bytes.Equal(header[:len(magic)], magic[:]) {
		return nil, ErrCorrupt
	}
	n := binary.LittleEndian.Uint32(header[9:])
	if n == 0 {
		n = binary.LittleEndian.Uint32(header[5:])
	}
	var buf bytes.Buffer
	buf.Write(header)
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return nil, fmt.Errorf("%w: reading payload: %w", ErrCorrupt, err)
	}
	return Unmarshal(buf.Bytes(), opts...)
}
