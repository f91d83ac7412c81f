package bitvec

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// readChunkWords bounds the allocation done ahead of the data actually read,
// so a corrupt header can't make ReadFrom allocate a huge slice up front.
const readChunkWords = 1 << 12

// BinaryStorageSize returns the number of bytes WriteTo produces.
func (b *BitSet) BinaryStorageSize() int {
	return int(wordBytes) * (len(b.words) + 1)
}

// WriteTo writes the bitset onto _stream_: the word count followed by the
// words, all as big-endian uint64. It returns the number of bytes written.
func (b *BitSet) WriteTo(stream io.Writer) (int64, error) {
	w := bufio.NewWriter(stream)
	var buf [wordBytes]byte
	var n int64
	binary.BigEndian.PutUint64(buf[:], uint64(len(b.words)))
	m, err := w.Write(buf[:])
	n += int64(m)
	if err != nil {
		return n, err
	}
	for _, word := range b.words {
		binary.BigEndian.PutUint64(buf[:], word)
		m, err = w.Write(buf[:])
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, w.Flush()
}

// ReadFrom replaces the content of the bitset with the data read from
// _stream_ in the format written by WriteTo. It returns the number of bytes
// read and never reads past the encoded words. The options of the receiver,
// including its growth limit, are kept.
func (b *BitSet) ReadFrom(stream io.Reader) (int64, error) {
	var buf [wordBytes]byte
	var n int64
	m, err := io.ReadFull(stream, buf[:])
	n += int64(m)
	if err != nil {
		return n, fmt.Errorf("%w: reading length: %w", ErrInvalidFormat, err)
	}
	count := binary.BigEndian.Uint64(buf[:])
	if count > uint64(b.limit()) {
		return n, &GrowthError{Requested: uint(min(count, uint64(overflowWords))), Limit: b.limit()}
	}
	words := make([]uint64, 0, min(count, readChunkWords))
	chunk := make([]byte, int(wordBytes)*int(min(count, readChunkWords)))
	for read := uint64(0); read < count; {
		k := min(count-read, readChunkWords)
		m, err = io.ReadFull(stream, chunk[:k*uint64(wordBytes)])
		n += int64(m)
		if err != nil {
			return n, fmt.Errorf("%w: reading words %d..%d of %d: %w", ErrInvalidFormat, read, read+k, count, err)
		}
		for j := uint64(0); j < k; j++ {
			words = append(words, binary.BigEndian.Uint64(chunk[j*uint64(wordBytes):]))
		}
		read += k
	}
	if !b.configured {
		b.configure(nil)
	}
	b.words = words
	return n, nil
}

// MarshalBinary encodes the bitset in the WriteTo format.
func (b *BitSet) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(b.BinaryStorageSize())
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes data produced by MarshalBinary.
func (b *BitSet) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	if _, err := b.ReadFrom(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidFormat, r.Len())
	}
	return nil
}

// MarshalJSON encodes the bitset as a JSON string holding the base64 (URL
// alphabet) encoding of its binary form.
func (b *BitSet) MarshalJSON() ([]byte, error) {
	data, err := b.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return json.Marshal(base64.URLEncoding.EncodeToString(data))
}

// UnmarshalJSON decodes data produced by MarshalJSON.
func (b *BitSet) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return b.UnmarshalBinary(raw)
}
