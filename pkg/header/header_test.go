package header

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequenceio/naf/pkg/alphabet"
)

func TestHeader_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		hdr  Header
	}{
		{
			name: "defaults",
			hdr:  Default(),
		},
		{
			name: "v1 dna",
			hdr: Header{
				Version:    VersionV1,
				Flags:      Flags(0).With(FlagID).With(FlagLength).With(FlagSequence),
				Separator:  ' ',
				LineLength: 80,
				Records:    12,
			},
		},
		{
			name: "v2 protein all streams",
			hdr: Header{
				Version:      VersionV2,
				SequenceType: alphabet.Protein,
				Flags: Flags(0).With(FlagTitle).With(FlagID).With(FlagComment).
					With(FlagLength).With(FlagSequence).With(FlagMask).With(FlagQuality),
				Separator:  '|',
				LineLength: 0,
				Records:    1 << 20,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tc.hdr.Write(&buf))

			got, err := Read(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, tc.hdr, got)
		})
	}
}

func TestHeader_Magic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Write(&buf))
	assert.Equal(t, []byte{0x01, 0xF9, 0xEC}, buf.Bytes()[:3])
}

func TestHeader_BadMagic(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte(">seq1 some fasta\nACGT\n")))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = Read(bytes.NewReader([]byte{0x01}))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestHeader_UnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Write(&buf))
	raw := buf.Bytes()
	raw[3] = 9

	_, err := Read(bytes.NewReader(raw))
	var unsupported *UnsupportedVersionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, uint8(9), unsupported.Version)
}

func TestHeader_ExtendedFlagRejected(t *testing.T) {
	h := Default()
	h.Flags = h.Flags.With(FlagExtended)
	var buf bytes.Buffer
	require.NoError(t, h.Write(&buf))

	_, err := Read(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extended")
}

func TestHeader_V1ImpliesDNA(t *testing.T) {
	h := Header{Version: VersionV1, SequenceType: alphabet.Protein, Separator: ' '}
	assert.Error(t, h.Write(&bytes.Buffer{}))

	// A v1 header has no sequence type byte; it decodes as DNA.
	h = Header{Version: VersionV1, Separator: ' ', LineLength: 60}
	var buf bytes.Buffer
	require.NoError(t, h.Write(&buf))
	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, alphabet.DNA, got.SequenceType)
}

func TestHeader_Truncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Write(&buf))
	raw := buf.Bytes()

	for cut := 3; cut < len(raw); cut++ {
		_, err := Read(bytes.NewReader(raw[:cut]))
		assert.Error(t, err, "cut at %d", cut)
	}
}

func TestFlags(t *testing.T) {
	f := Flags(0).With(FlagID).With(FlagLength)
	assert.True(t, f.Test(FlagID))
	assert.True(t, f.Test(FlagLength))
	assert.False(t, f.Test(FlagMask))

	f = f.Without(FlagID)
	assert.False(t, f.Test(FlagID))

	assert.Equal(t, "none", Flags(0).String())
	assert.Equal(t, "id,length,sequence",
		Flags(0).With(FlagSequence).With(FlagID).With(FlagLength).String())
}
