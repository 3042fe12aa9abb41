// Package header reads and writes the fixed-layout preamble of a NAF
// archive: magic signature, format version, content flags and the mode
// parameters needed to reconstruct the original text form.
package header

import (
	"fmt"
	"io"

	"github.com/sequenceio/naf/pkg/alphabet"
	"github.com/sequenceio/naf/pkg/block"
	"github.com/sequenceio/naf/pkg/varint"
)

// Magic is the NAF file signature.
var Magic = []byte{0x01, 0xF9, 0xEC}

// Format versions understood by this codec. Version 1 archives carry no
// sequence-type byte and always hold DNA.
const (
	VersionV1 = 1
	VersionV2 = 2
)

// Defaults mirror the reference implementation.
const (
	DefaultSeparator  = ' '
	DefaultLineLength = 60
)

// Errors
var (
	ErrBadMagic = &FormatError{"not a NAF archive: bad magic signature"}
)

// FormatError represents a malformed or unsupported archive preamble
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// UnsupportedVersionError reports an archive written by a newer codec.
type UnsupportedVersionError struct {
	Version uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported NAF format version %d", e.Version)
}

// Header is the decoded preamble of one archive. It is immutable for
// the lifetime of the archive.
type Header struct {
	Version      uint8
	SequenceType alphabet.SequenceType
	Flags        Flags
	Separator    byte   // splits a combined id+title name field
	LineLength   uint64 // original text wrap width, 0 = unwrapped
	Records      uint64 // declared record count
}

// Default returns a header with the reference defaults: version 2, DNA,
// no flags set.
func Default() Header {
	return Header{
		Version:      VersionV2,
		SequenceType: alphabet.DNA,
		Separator:    DefaultSeparator,
		LineLength:   DefaultLineLength,
	}
}

// Read parses a header from r in strict order: magic, version,
// sequence type (version 2 only), flags, separator, line length and
// record count.
func Read(r block.Source) (Header, error) {
	var h Header

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return h, ErrBadMagic
	}
	for i, b := range Magic {
		if magic[i] != b {
			return h, ErrBadMagic
		}
	}

	version, err := r.ReadByte()
	if err != nil {
		return h, &FormatError{"truncated header: missing format version"}
	}
	switch version {
	case VersionV1:
		h.SequenceType = alphabet.DNA
	case VersionV2:
		st, err := r.ReadByte()
		if err != nil {
			return h, &FormatError{"truncated header: missing sequence type"}
		}
		if st > uint8(alphabet.Text) {
			return h, &FormatError{fmt.Sprintf("unknown sequence type %d", st)}
		}
		h.SequenceType = alphabet.SequenceType(st)
	default:
		return h, &UnsupportedVersionError{Version: version}
	}
	h.Version = version

	flags, err := r.ReadByte()
	if err != nil {
		return h, &FormatError{"truncated header: missing flags"}
	}
	h.Flags = Flags(flags)
	if h.Flags.Test(FlagExtended) {
		return h, &FormatError{"extended flag set: archive uses format extensions this codec does not understand"}
	}

	sep, err := r.ReadByte()
	if err != nil {
		return h, &FormatError{"truncated header: missing name separator"}
	}
	h.Separator = sep

	if h.LineLength, err = varint.ReadUvarint(r); err != nil {
		return h, &FormatError{"truncated header: missing line length"}
	}
	if h.Records, err = varint.ReadUvarint(r); err != nil {
		return h, &FormatError{"truncated header: missing record count"}
	}
	return h, nil
}

// Write emits the header to w, mirroring Read exactly.
func (h Header) Write(w io.Writer) error {
	switch h.Version {
	case VersionV1:
		if h.SequenceType != alphabet.DNA {
			return &FormatError{"version 1 archives can only hold DNA sequences"}
		}
	case VersionV2:
	default:
		return &UnsupportedVersionError{Version: h.Version}
	}
	buf := make([]byte, 0, 16)
	buf = append(buf, Magic...)
	buf = append(buf, h.Version)
	if h.Version == VersionV2 {
		buf = append(buf, byte(h.SequenceType))
	}
	buf = append(buf, byte(h.Flags), h.Separator)
	buf = varint.Append(buf, h.LineLength)
	buf = varint.Append(buf, h.Records)
	_, err := w.Write(buf)
	return err
}
