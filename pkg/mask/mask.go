// Package mask encodes the soft-mask (lowercase) regions of a sequence
// as alternating run lengths.
//
// A record's mask is a list of varint run lengths, alternating between
// unmasked and masked state and always starting with an unmasked run —
// a record that begins masked starts with a zero-length run. The runs
// sum to exactly the record length. Masked regions in real data are
// long and contiguous (assembly gaps, repeat-masked spans), so this is
// close to entropy-optimal and trivial to decode.
package mask

import (
	"fmt"
	"io"

	"github.com/sequenceio/naf/pkg/varint"
)

// Region is a half-open [Start, End) interval of masked symbols.
type Region struct {
	Start uint64
	End   uint64
}

// Len returns the number of symbols the region covers.
func (r Region) Len() uint64 {
	return r.End - r.Start
}

// LengthMismatchError reports mask runs that do not sum to the record's
// declared sequence length.
type LengthMismatchError struct {
	Declared uint64 // record length from the length stream
	Sum      uint64 // cumulative run length at the point of failure
	Record   uint64 // record index, for diagnostics
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("mask runs for record %d sum to %d, declared length is %d",
		e.Record, e.Sum, e.Declared)
}

// AppendRuns appends the run-length encoding of regions over a sequence
// of length total to buf. Regions must be sorted, non-overlapping and
// within [0, total); adjacent regions should be merged by the caller.
func AppendRuns(buf []byte, regions []Region, total uint64) []byte {
	var pos uint64
	for _, reg := range regions {
		buf = varint.Append(buf, reg.Start-pos)
		buf = varint.Append(buf, reg.Len())
		pos = reg.End
	}
	if pos < total || len(regions) == 0 {
		buf = varint.Append(buf, total-pos)
	}
	return buf
}

// RegionsFromCase derives masked regions from letter case: lowercase
// symbols are masked. This is how FASTA input carries soft-masking.
func RegionsFromCase(seq []byte) []Region {
	var regions []Region
	var open bool
	var start uint64
	for i, b := range seq {
		masked := b >= 'a' && b <= 'z'
		if masked && !open {
			start = uint64(i)
			open = true
		} else if !masked && open {
			regions = append(regions, Region{Start: start, End: uint64(i)})
			open = false
		}
	}
	if open {
		regions = append(regions, Region{Start: start, End: uint64(len(seq))})
	}
	return regions
}

// Apply lowercases the masked regions of seq in place.
func Apply(seq []byte, regions []Region) {
	for _, reg := range regions {
		for i := reg.Start; i < reg.End && i < uint64(len(seq)); i++ {
			if seq[i] >= 'A' && seq[i] <= 'Z' {
				seq[i] |= 0x20
			}
		}
	}
}

// ReadRuns decodes one record's runs from r: varints are consumed until
// their sum reaches length. Overshooting the declared length or running
// out of input first is a LengthMismatchError. record is only used for
// error context.
func ReadRuns(r io.ByteReader, length uint64, record uint64) ([]Region, error) {
	var regions []Region
	var pos uint64
	masked := false
	for pos < length || (pos == 0 && length == 0 && !masked) {
		run, err := varint.ReadUvarint(r)
		if err != nil {
			return nil, &LengthMismatchError{Declared: length, Sum: pos, Record: record}
		}
		if run > length-pos {
			return nil, &LengthMismatchError{Declared: length, Sum: pos + run, Record: record}
		}
		if masked && run > 0 {
			regions = append(regions, Region{Start: pos, End: pos + run})
		}
		pos += run
		masked = !masked
		if length == 0 {
			break
		}
	}
	return regions, nil
}
