package fasta

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequenceio/naf/pkg/archive"
	"github.com/sequenceio/naf/pkg/mask"
)

func readAll(t *testing.T, input string) []*archive.Record {
	t.Helper()
	r := NewReader(strings.NewReader(input), ' ')
	var records []*archive.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		records = append(records, rec)
	}
	return records
}

func TestReader_Fasta(t *testing.T) {
	input := ">seq1 first sequence\nACGT\nACGT\n>seq2\nTTTT\n"
	records := readAll(t, input)
	require.Len(t, records, 2)

	assert.Equal(t, "seq1", records[0].ID)
	assert.Equal(t, "first sequence", records[0].Title)
	assert.Equal(t, "ACGTACGT", string(records[0].Sequence))
	assert.Equal(t, uint64(8), records[0].Length)
	assert.Empty(t, records[0].Mask)

	assert.Equal(t, "seq2", records[1].ID)
	assert.Empty(t, records[1].Title)
	assert.Equal(t, "TTTT", string(records[1].Sequence))
}

func TestReader_FastaSoftMask(t *testing.T) {
	records := readAll(t, ">s\nACGTacgtNNnn\n")
	require.Len(t, records, 1)
	assert.Equal(t, "ACGTACGTNNNN", string(records[0].Sequence))
	assert.Equal(t, []mask.Region{{Start: 4, End: 8}, {Start: 10, End: 12}}, records[0].Mask)
}

func TestReader_FastaNoTrailingNewline(t *testing.T) {
	records := readAll(t, ">s desc\nACGT")
	require.Len(t, records, 1)
	assert.Equal(t, "ACGT", string(records[0].Sequence))
}

func TestReader_FastaEmptyRecord(t *testing.T) {
	records := readAll(t, ">a\nACGT\n>empty\n>b\nTT\n")
	require.Len(t, records, 3)
	assert.Equal(t, "empty", records[1].ID)
	assert.Equal(t, uint64(0), records[1].Length)
	assert.Empty(t, records[1].Sequence)
}

func TestReader_Fastq(t *testing.T) {
	input := "@read1 lane1\nACGT\n+\nIIII\n@read2\nTT\n+\n##\n"
	r := NewReader(strings.NewReader(input), ' ')

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, FormatFastq, r.Format())
	assert.Equal(t, "read1", rec.ID)
	assert.Equal(t, "lane1", rec.Title)
	assert.Equal(t, "ACGT", string(rec.Sequence))
	assert.Equal(t, "IIII", string(rec.Quality))

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "read2", rec.ID)
	assert.Equal(t, "##", string(rec.Quality))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_FastqQualityMismatch(t *testing.T) {
	r := NewReader(strings.NewReader("@read1\nACGT\n+\nII\n"), ' ')
	_, err := r.Next()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "quality")
}

func TestReader_NotSequenceText(t *testing.T) {
	r := NewReader(strings.NewReader("hello world\n"), ' ')
	_, err := r.Next()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestWriter_FastaWrapping(t *testing.T) {
	rec := &archive.Record{
		ID:       "seq1",
		Title:    "wrapped",
		Sequence: []byte("ACGTACGTACGT"),
		Length:   12,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, ' ', 5)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Flush())
	assert.Equal(t, ">seq1 wrapped\nACGTA\nCGTAC\nGT\n", buf.String())
}

func TestWriter_FastaMasked(t *testing.T) {
	rec := &archive.Record{
		ID:       "s",
		Sequence: []byte("ACGTACGT"),
		Mask:     []mask.Region{{Start: 2, End: 6}},
		Length:   8,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, ' ', 0)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Flush())
	assert.Equal(t, ">s\nACgtacGT\n", buf.String())
}

func TestWriter_Fastq(t *testing.T) {
	rec := &archive.Record{
		ID:       "read1",
		Length:   4,
		Quality:  []byte("IIII"),
		Sequence: []byte("ACGT"),
	}

	var buf bytes.Buffer
	w := NewFastqWriter(&buf, ' ')
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Flush())
	assert.Equal(t, "@read1\nACGT\n+\nIIII\n", buf.String())
}

func TestRoundTrip_TextToArchiveToText(t *testing.T) {
	input := ">chr1 test chromosome\nACGTACGTAC\ngtacgtNNNN\nACGT\n>chr2\nTTTTTTTTTT\n"

	parsed := readAll(t, input)
	require.Len(t, parsed, 2)

	var out bytes.Buffer
	w := NewWriter(&out, ' ', 10)
	for _, rec := range parsed {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Flush())
	assert.Equal(t, input, out.String())
}
