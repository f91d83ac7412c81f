package codec

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/kwertop/bitvec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sparseBitSet(t *testing.T) *bitvec.BitSet {
	t.Helper()
	b := bitvec.New()
	for i := uint(0); i < 200000; i += 997 {
		require.NoError(t, b.Set(i))
	}
	return b
}

func TestRoundTrip(t *testing.T) {
	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(ct.String(), func(t *testing.T) {
			b := sparseBitSet(t)
			data, err := Marshal(b, ct)
			require.NoError(t, err)
			assert.Equal(t, byte(ct), data[4])

			got, err := Unmarshal(data)
			require.NoError(t, err)
			assert.True(t, b.Equal(got))
		})
	}
}

func TestCompressionShrinksSparseSets(t *testing.T) {
	b := sparseBitSet(t)
	raw, err := Marshal(b, CompressionNone)
	require.NoError(t, err)
	for _, ct := range []CompressionType{CompressionLZ4, CompressionZSTD} {
		data, err := Marshal(b, ct)
		require.NoError(t, err)
		assert.Less(t, len(data), len(raw)/2, ct.String())
	}
}

func TestIncompressibleKeptRaw(t *testing.T) {
	b, err := bitvec.From([]uint64{0x9e3779b97f4a7c15})
	require.NoError(t, err)
	data, err := Marshal(b, CompressionZSTD)
	require.NoError(t, err)
	// stored size 0 marks a raw payload
	assert.Equal(t, []byte{0, 0, 0, 0}, data[9:13])
	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, b.Equal(got))
}

func TestEmptyBitSet(t *testing.T) {
	data, err := Marshal(bitvec.New(), CompressionLZ4)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestUnmarshalCorrupt(t *testing.T) {
	b := sparseBitSet(t)
	data, err := Marshal(b, CompressionZSTD)
	require.NoError(t, err)

	_, err = Unmarshal(data[:5])
	require.ErrorIs(t, err, ErrCorrupt)

	badMagic := append([]byte{}, data...)
	badMagic[0] = 'X'
	_, err = Unmarshal(badMagic)
	require.ErrorIs(t, err, ErrCorrupt)

	_, err = Unmarshal(data[:len(data)-1])
	require.ErrorIs(t, err, ErrCorrupt)

	badPayload := append([]byte{}, data...)
	for i := headerSize; i < len(badPayload); i++ {
		badPayload[i] = 0xff
	}
	_, err = Unmarshal(badPayload)
	require.ErrorIs(t, err, ErrCorrupt)

	badType := append([]byte{}, data...)
	badType[4] = 9
	_, err = Unmarshal(badType)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestUnmarshalAppliesOptions(t *testing.T) {
	b := bitvec.New()
	require.NoError(t, b.Set(5000))
	data, err := Marshal(b, CompressionLZ4)
	require.NoError(t, err)
	_, err = Unmarshal(data, bitvec.WithMaxBits(128))
	require.ErrorIs(t, err, bitvec.ErrTooLarge)
}

func forgedHeader(ct CompressionType, rawSize uint32, payload []byte) []byte {
	data := make([]byte, headerSize, headerSize+len(payload))
	copy(data, magic[:])
	data[4] = byte(ct)
	binary.LittleEndian.PutUint32(data[5:], rawSize)
	binary.LittleEndian.PutUint32(data[9:], uint32(len(payload)))
	return append(data, payload...)
}

func TestUnmarshalOversizedHeader(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	for _, ct := range []CompressionType{CompressionLZ4, CompressionZSTD} {
		_, err := Unmarshal(forgedHeader(ct, 1<<31, payload))
		require.ErrorIs(t, err, ErrCorrupt, ct.String())

		_, err = Unmarshal(forgedHeader(ct, 1<<31, payload), bitvec.WithMaxBits(1024))
		require.ErrorIs(t, err, bitvec.ErrTooLarge, ct.String())
	}

	b := sparseBitSet(t)
	data, err := Marshal(b, CompressionZSTD)
	require.NoError(t, err)
	short := append([]byte{}, data...)
	binary.LittleEndian.PutUint32(short[5:], binary.LittleEndian.Uint32(data[5:])-8)
	_, err = Unmarshal(short)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestEncodeDecodeStream(t *testing.T) {
	first := sparseBitSet(t)
	second := bitvec.New()
	require.NoError(t, second.Set(3))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, first, CompressionZSTD))
	require.NoError(t, Encode(&buf, second, CompressionNone))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.True(t, first.Equal(got))
	got, err = Decode(&buf)
	require.NoError(t, err)
	assert.True(t, second.Equal(got))

	_, err = Decode(&buf)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestParseCompressionType(t *testing.T) {
	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		parsed, err := ParseCompressionType(ct.String())
		require.NoError(t, err)
		assert.Equal(t, ct, parsed)
	}
	_, err := ParseCompressionType("snappy")
	require.Error(t, err)
	_, err = Marshal(bitvec.New(), CompressionType(7))
	require.Error(t, err)
	assert.Equal(t, "CompressionType(7)", CompressionType(7).String())
}
