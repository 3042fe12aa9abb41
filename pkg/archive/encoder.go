package archive

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/sequenceio/naf/pkg/alphabet"
	"github.com/sequenceio/naf/pkg/block"
	"github.com/sequenceio/naf/pkg/header"
	"github.com/sequenceio/naf/pkg/mask"
	"github.com/sequenceio/naf/pkg/varint"
)

// EncoderConfig declares, up front, what an archive will contain. The
// flags are fixed for the lifetime of the archive and every record
// written must match them.
type EncoderConfig struct {
	Version      uint8 // 0 selects version 2
	SequenceType alphabet.SequenceType
	Flags        header.Flags
	Separator    byte   // 0 selects the default separator
	LineLength   uint64 // original wrap width recorded in the header
	Level        int    // zstd level, 0 = library default
}

// Encoder accumulates records into per-stream buffers and, on Close,
// compresses each active stream into its own block after the header.
// It is not safe for concurrent use.
type Encoder struct {
	w      io.Writer
	hdr    header.Header
	comp   block.Compressor
	closed bool
	count  uint64

	titles   bytes.Buffer
	ids      bytes.Buffer
	comments bytes.Buffer
	lengths  bytes.Buffer
	seqs     bytes.Buffer
	masks    bytes.Buffer
	quals    bytes.Buffer

	packer *alphabet.Packer // nucleotide archives only
}

// NewEncoder prepares an encoder writing to w. Nothing is written until
// Close; a failed Close leaves w in an unspecified state, so callers
// needing atomicity should write to a temporary sink and rename.
func NewEncoder(w io.Writer, cfg EncoderConfig) (*Encoder, error) {
	hdr := header.Header{
		Version:      cfg.Version,
		SequenceType: cfg.SequenceType,
		Flags:        cfg.Flags,
		Separator:    cfg.Separator,
		LineLength:   cfg.LineLength,
	}
	if hdr.Version == 0 {
		hdr.Version = header.VersionV2
	}
	if hdr.Separator == 0 {
		hdr.Separator = header.DefaultSeparator
	}
	if hdr.Version == header.VersionV1 && hdr.SequenceType != alphabet.DNA {
		return nil, formatErr(fmt.Errorf("%w: version 1 archives hold DNA only", ErrInconsistentFlags))
	}
	if err := checkFlags(hdr.Flags); err != nil {
		return nil, err
	}
	if hdr.Flags.Test(header.FlagExtended) {
		return nil, formatErr(fmt.Errorf("%w: extended flag is reserved", ErrInconsistentFlags))
	}

	comp, err := block.NewCompressor(cfg.Level)
	if err != nil {
		return nil, err
	}

	e := &Encoder{w: w, hdr: hdr, comp: comp}
	if hdr.Flags.Test(header.FlagSequence) && hdr.SequenceType.IsNucleotide() {
		e.packer = alphabet.NewPacker(&e.seqs)
	}
	return e, nil
}

// Header returns the header the encoder will write, with the record
// count as of now.
func (e *Encoder) Header() header.Header {
	hdr := e.hdr
	hdr.Records = e.count
	return hdr
}

// Write appends one record to the archive's stream buffers. Fields not
// declared in the archive flags must be empty; supplying one fails with
// an UnexpectedFieldError rather than silently dropping the data.
func (e *Encoder) Write(rec *Record) error {
	if e.closed {
		return usageErr(fmt.Errorf("encoder: %w", ErrAlreadyClosed))
	}
	length, err := e.check(rec)
	if err != nil {
		return err
	}

	flags := e.hdr.Flags
	if flags.Test(header.FlagID) {
		e.ids.WriteString(rec.ID)
		e.ids.WriteByte(0)
	}
	if flags.Test(header.FlagTitle) {
		e.titles.WriteString(rec.Title)
		e.titles.WriteByte(0)
	}
	if flags.Test(header.FlagComment) {
		e.comments.WriteString(rec.Comment)
		e.comments.WriteByte(0)
	}
	if flags.Test(header.FlagLength) {
		e.lengths.Write(varint.Append(nil, length))
	}
	if flags.Test(header.FlagSequence) {
		if e.packer != nil {
			if err := e.packer.Write(rec.Sequence); err != nil {
				return dataErr(e.count, "sequence", err)
			}
		} else {
			e.seqs.Write(rec.Sequence)
		}
	}
	if flags.Test(header.FlagMask) {
		e.masks.Write(mask.AppendRuns(nil, rec.Mask, length))
	}
	if flags.Test(header.FlagQuality) {
		e.quals.Write(rec.Quality)
	}

	e.count++
	return nil
}

// check validates rec against the archive flags and returns its
// effective length. Every check runs before Write touches a stream
// buffer, so a rejected record leaves the encoder unchanged.
func (e *Encoder) check(rec *Record) (uint64, error) {
	flags := e.hdr.Flags
	if rec.ID != "" && !flags.Test(header.FlagID) {
		return 0, usageErr(&UnexpectedFieldError{Field: "id"})
	}
	if rec.Title != "" && !flags.Test(header.FlagTitle) {
		return 0, usageErr(&UnexpectedFieldError{Field: "title"})
	}
	if rec.Comment != "" && !flags.Test(header.FlagComment) {
		return 0, usageErr(&UnexpectedFieldError{Field: "comment"})
	}
	if rec.Sequence != nil && !flags.Test(header.FlagSequence) {
		return 0, usageErr(&UnexpectedFieldError{Field: "sequence"})
	}
	if rec.Mask != nil && !flags.Test(header.FlagMask) {
		return 0, usageErr(&UnexpectedFieldError{Field: "mask"})
	}
	if rec.Quality != nil && !flags.Test(header.FlagQuality) {
		return 0, usageErr(&UnexpectedFieldError{Field: "quality"})
	}

	// NUL terminates these strings on the wire and newline would split
	// them on the FASTA defline, so neither may appear in the data.
	for _, s := range []struct{ name, value string }{
		{"id", rec.ID}, {"title", rec.Title}, {"comment", rec.Comment},
	} {
		if strings.ContainsAny(s.value, "\x00\n") {
			return 0, usageErr(fmt.Errorf("%s contains a NUL or newline byte", s.name))
		}
	}

	length := rec.Length
	if flags.Test(header.FlagSequence) {
		if rec.Length != 0 && rec.Length != uint64(len(rec.Sequence)) {
			return 0, usageErr(fmt.Errorf("%w: declared length %d, sequence has %d symbols",
				ErrInconsistentFlags, rec.Length, len(rec.Sequence)))
		}
		length = uint64(len(rec.Sequence))
		if e.packer != nil {
			for i, b := range rec.Sequence {
				if _, err := alphabet.CodeOf(b, int64(i)); err != nil {
					return 0, dataErr(e.count, "sequence", err)
				}
			}
		}
	} else if rec.Length != 0 && !flags.Test(header.FlagLength) {
		return 0, usageErr(&UnexpectedFieldError{Field: "length"})
	}

	if flags.Test(header.FlagQuality) && uint64(len(rec.Quality)) != length {
		return 0, usageErr(fmt.Errorf("%w: quality has %d scores for %d symbols",
			ErrInconsistentFlags, len(rec.Quality), length))
	}
	if flags.Test(header.FlagMask) {
		var pos uint64
		for _, reg := range rec.Mask {
			if reg.Start < pos || reg.End <= reg.Start || reg.End > length {
				return 0, usageErr(fmt.Errorf("%w: mask region [%d,%d) invalid for length %d",
					ErrInconsistentFlags, reg.Start, reg.End, length))
			}
			pos = reg.End
		}
	}
	return length, nil
}

// Close compresses each active stream and writes the header followed by
// the stream blocks in their fixed order. Closing twice is an error,
// not a silent no-op.
func (e *Encoder) Close() error {
	if e.closed {
		return usageErr(fmt.Errorf("encoder: %w", ErrAlreadyClosed))
	}
	e.closed = true

	if e.packer != nil {
		if err := e.packer.Flush(); err != nil {
			return err
		}
	}

	hdr := e.hdr
	hdr.Records = e.count
	if err := hdr.Write(e.w); err != nil {
		return err
	}

	for _, flag := range header.StreamOrder {
		if !hdr.Flags.Test(flag) {
			continue
		}
		if err := block.Write(e.w, e.comp, e.buffer(flag).Bytes()); err != nil {
			return fmt.Errorf("%w: writing %s block: %w", ErrStream, flag, err)
		}
	}
	return nil
}

func (e *Encoder) buffer(flag header.Flag) *bytes.Buffer {
	switch flag {
	case header.FlagTitle:
		return &e.titles
	case header.FlagID:
		return &e.ids
	case header.FlagComment:
		return &e.comments
	case header.FlagLength:
		return &e.lengths
	case header.FlagSequence:
		return &e.seqs
	case header.FlagMask:
		return &e.masks
	case header.FlagQuality:
		return &e.quals
	}
	return nil
}
