// Package archive assembles and decomposes NAF records from the
// per-field stream blocks of an archive: the header declares which
// streams exist, and record N is the Nth element of every active
// stream read in lockstep.
package archive

import (
	"github.com/sequenceio/naf/pkg/mask"
)

// Record is one logical sequence entry. Which fields carry data is
// governed by the archive flags: a field whose stream is absent stays
// at its zero value on decode and must stay at its zero value on
// encode.
type Record struct {
	ID      string // identifier (accession), no whitespace
	Title   string // descriptive title, the defline remainder
	Comment string // free-form annotation

	// Length is the symbol count. When writing with a sequence stream
	// it may be left zero and is derived from Sequence.
	Length uint64

	Sequence []byte        // symbols, uppercase; case lives in Mask
	Mask     []mask.Region // soft-masked spans, sorted, non-overlapping
	Quality  []byte        // one score byte per symbol
}

// Masked returns a copy of the record sequence with masked regions
// lowercased, the form FASTA output uses.
func (r *Record) Masked() []byte {
	if len(r.Mask) == 0 {
		return r.Sequence
	}
	seq := make([]byte, len(r.Sequence))
	copy(seq, r.Sequence)
	mask.Apply(seq, r.Mask)
	return seq
}

// Name joins the id and title with the archive's name separator,
// reconstructing the original defline.
func (r *Record) Name(sep byte) string {
	if r.Title == "" {
		return r.ID
	}
	if r.ID == "" {
		return r.Title
	}
	return r.ID + string(sep) + r.Title
}
