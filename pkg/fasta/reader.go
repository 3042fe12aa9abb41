// Package fasta bridges NAF records and the FASTA/FASTQ text formats:
// parsing text input into records for encoding, and rendering decoded
// records back with the original line wrapping and soft-mask casing.
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/sequenceio/naf/pkg/archive"
	"github.com/sequenceio/naf/pkg/mask"
)

// Format identifies the detected input text format.
type Format uint8

const (
	FormatFasta Format = iota
	FormatFastq
)

// ParseError reports malformed input with its line number.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Reader parses FASTA or FASTQ text into records. Lowercase sequence
// letters become soft-mask regions; the stored sequence is uppercased.
// The format is detected from the first non-empty line.
type Reader struct {
	br      *bufio.Reader
	sep     byte
	line    int
	format  Format
	sniffed bool

	// FASTA parsing is one record ahead: the defline that terminates a
	// record is held here for the next call.
	pendingName []byte
	havePending bool
	eof         bool
}

// NewReader returns a Reader over r. sep splits a defline into id and
// title, usually a space.
func NewReader(r io.Reader, sep byte) *Reader {
	return &Reader{br: bufio.NewReader(r), sep: sep}
}

// Format reports the detected input format. Valid after the first Next.
func (r *Reader) Format() Format {
	return r.format
}

func (r *Reader) readLine() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if len(line) > 0 {
		r.line++
	}
	line = bytes.TrimRight(line, "\r\n")
	if err == io.EOF {
		r.eof = true
		if len(line) == 0 {
			return nil, io.EOF
		}
		return line, nil
	}
	return line, err
}

// Next parses and returns the next record, or io.EOF after the last.
func (r *Reader) Next() (*archive.Record, error) {
	if !r.sniffed {
		if err := r.sniff(); err != nil {
			return nil, err
		}
	}
	if r.format == FormatFastq {
		return r.nextFastq()
	}
	return r.nextFasta()
}

// sniff detects the format from the first non-empty line, which is held
// as the pending defline.
func (r *Reader) sniff() error {
	for {
		line, err := r.readLine()
		if err != nil {
			return err
		}
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '>':
			r.format = FormatFasta
		case '@':
			r.format = FormatFastq
		default:
			return &ParseError{Line: r.line, Message: "input is neither FASTA nor FASTQ"}
		}
		r.pendingName = line
		r.havePending = true
		r.sniffed = true
		return nil
	}
}

// splitName splits a defline body into id and title on the separator.
func (r *Reader) splitName(body []byte) (string, string) {
	if i := bytes.IndexByte(body, r.sep); i >= 0 {
		return string(body[:i]), string(body[i+1:])
	}
	return string(body), ""
}

func (r *Reader) nextFasta() (*archive.Record, error) {
	if !r.havePending {
		return nil, io.EOF
	}
	rec := &archive.Record{}
	rec.ID, rec.Title = r.splitName(r.pendingName[1:])
	r.havePending = false

	var seq []byte
	for !r.eof {
		line, err := r.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			r.pendingName = line
			r.havePending = true
			break
		}
		seq = append(seq, line...)
	}

	rec.Mask = mask.RegionsFromCase(seq)
	rec.Sequence = bytes.ToUpper(seq)
	rec.Length = uint64(len(seq))
	return rec, nil
}

func (r *Reader) nextFastq() (*archive.Record, error) {
	if !r.havePending {
		if r.eof {
			return nil, io.EOF
		}
		line, err := r.readLine()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		if len(line) == 0 || line[0] != '@' {
			return nil, &ParseError{Line: r.line, Message: "expected '@' record header"}
		}
		r.pendingName = line
	}
	r.havePending = false

	rec := &archive.Record{}
	rec.ID, rec.Title = r.splitName(r.pendingName[1:])

	seq, err := r.readLine()
	if err != nil {
		return nil, &ParseError{Line: r.line, Message: "record truncated: missing sequence"}
	}
	plus, err := r.readLine()
	if err != nil || len(plus) == 0 || plus[0] != '+' {
		return nil, &ParseError{Line: r.line, Message: "record truncated: missing '+' separator"}
	}
	qual, err := r.readLine()
	if err != nil {
		return nil, &ParseError{Line: r.line, Message: "record truncated: missing quality"}
	}
	if len(qual) != len(seq) {
		return nil, &ParseError{
			Line:    r.line,
			Message: fmt.Sprintf("quality has %d symbols, sequence has %d", len(qual), len(seq)),
		}
	}

	// Case carries no meaning in FASTQ, so no mask is derived.
	rec.Sequence = bytes.ToUpper(seq)
	rec.Quality = append([]byte(nil), qual...)
	rec.Length = uint64(len(seq))
	return rec, nil
}
