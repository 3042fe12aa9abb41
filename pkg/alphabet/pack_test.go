package alphabet

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packAll(t *testing.T, seqs ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	p := NewPacker(&buf)
	for _, s := range seqs {
		require.NoError(t, p.Write([]byte(s)))
	}
	require.NoError(t, p.Flush())
	return buf.Bytes()
}

func TestPacker_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		seq  string
	}{
		{"empty", ""},
		{"single", "A"},
		{"even", "ACGT"},
		{"odd", "ACGTN"},
		{"ambiguity codes", "ACGTRYSWKMBDHVN-"},
		{"long homopolymer", string(bytes.Repeat([]byte{'A'}, 1001))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			packed := packAll(t, tc.seq)
			assert.Equal(t, PackedLen(uint64(len(tc.seq))), uint64(len(packed)))

			u := NewUnpacker(bytes.NewReader(packed), DNA)
			got, err := u.Next(uint64(len(tc.seq)))
			require.NoError(t, err)
			assert.Equal(t, tc.seq, string(got))
		})
	}
}

func TestPacker_NibbleOrder(t *testing.T) {
	// First symbol occupies the high nibble: A=8, C=4 packs to 0x84.
	packed := packAll(t, "AC")
	require.Equal(t, []byte{0x84}, packed)

	// A trailing odd symbol pads the low nibble with zero.
	packed = packAll(t, "ACG")
	require.Equal(t, []byte{0x84, 0x20}, packed)
}

func TestPacker_LowercaseInput(t *testing.T) {
	packed := packAll(t, "acgt")
	u := NewUnpacker(bytes.NewReader(packed), DNA)
	got, err := u.Next(4)
	require.NoError(t, err)
	// Case is not preserved by the symbol codec.
	assert.Equal(t, "ACGT", string(got))
}

func TestPacker_InvalidSymbol(t *testing.T) {
	p := NewPacker(io.Discard)
	require.NoError(t, p.Write([]byte("ACG")))
	err := p.Write([]byte("TAX"))
	var invalid *InvalidSymbolError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, byte('X'), invalid.Symbol)
	assert.Equal(t, int64(5), invalid.Offset)
}

func TestUnpacker_CrossRecordCarry(t *testing.T) {
	// Two odd-length records packed continuously share a middle byte.
	packed := packAll(t, "ACG", "TTA")
	require.Len(t, packed, 3)

	u := NewUnpacker(bytes.NewReader(packed), DNA)
	first, err := u.Next(3)
	require.NoError(t, err)
	assert.Equal(t, "ACG", string(first))

	second, err := u.Next(3)
	require.NoError(t, err)
	assert.Equal(t, "TTA", string(second))
}

func TestUnpacker_Truncated(t *testing.T) {
	packed := packAll(t, "ACGTACGT")
	u := NewUnpacker(bytes.NewReader(packed[:2]), DNA)
	_, err := u.Next(8)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestUnpacker_RNA(t *testing.T) {
	packed := packAll(t, "ACGU")
	u := NewUnpacker(bytes.NewReader(packed), RNA)
	got, err := u.Next(4)
	require.NoError(t, err)
	assert.Equal(t, "ACGU", string(got))
}
