package varint

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarint_RoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 2, 0x7F, 0x80, 0x81, 0xFF, 0x100,
		0x3FFF, 0x4000, 60, 127, 128, 300, 1<<21 - 1, 1 << 21,
		1<<35 + 7, math.MaxUint32, math.MaxUint64 - 1, math.MaxUint64,
	}

	for _, v := range values {
		buf := Append(nil, v)
		assert.Equal(t, Len(v), len(buf), "Len mismatch for %d", v)

		got, n, err := Uvarint(buf)
		require.NoError(t, err, "decoding %d", v)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n, "consumed byte count for %d", v)

		// Same result through the io.ByteReader path.
		got, err = ReadUvarint(bytes.NewReader(buf))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVarint_Truncated(t *testing.T) {
	for _, v := range []uint64{0x80, 0x4000, math.MaxUint64} {
		full := Append(nil, v)
		for cut := 0; cut < len(full); cut++ {
			_, _, err := Uvarint(full[:cut])
			assert.ErrorIs(t, err, ErrTruncated, "value %d cut at %d", v, cut)
		}
	}

	// A mid-value truncation through a reader is ErrTruncated, not EOF.
	full := Append(nil, 0x4000)
	_, err := ReadUvarint(bytes.NewReader(full[:1]))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestVarint_CleanEOF(t *testing.T) {
	_, err := ReadUvarint(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
}

func TestVarint_Overflow(t *testing.T) {
	// Eleven continuation groups can never fit in 64 bits.
	long := bytes.Repeat([]byte{0x80}, 10)
	long = append(long, 0x01)
	_, _, err := Uvarint(long)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = ReadUvarint(bytes.NewReader(long))
	assert.ErrorIs(t, err, ErrOverflow)

	// Ten groups whose top group carries more than one bit also overflow.
	top := append(bytes.Repeat([]byte{0xFF}, 9), 0x02)
	_, _, err = Uvarint(top)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestVarint_Write(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, 300)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, Append(nil, 300), buf.Bytes())
}
