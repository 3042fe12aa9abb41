// Package varint implements the base-128 variable-length integer
// encoding used throughout NAF archives for lengths and run lengths.
//
// Each byte carries seven data bits; the high bit signals that more
// bytes follow. Groups are emitted least-significant first. Only
// non-negative values are representable.
package varint

import (
	"io"
)

// MaxLen is the maximum number of bytes a uint64 varint occupies.
const MaxLen = 10

// Errors
var (
	ErrTruncated = &CodingError{"truncated varint: input ended before terminating byte"}
	ErrOverflow  = &CodingError{"varint overflows 64 bits"}
)

// CodingError represents a varint encoding or decoding error
type CodingError struct {
	Message string
}

func (e *CodingError) Error() string {
	return e.Message
}

// Append appends the varint encoding of x to buf and returns the
// extended slice.
func Append(buf []byte, x uint64) []byte {
	for x >= 0x80 {
		buf = append(buf, byte(x)|0x80)
		x >>= 7
	}
	return append(buf, byte(x))
}

// Len returns the number of bytes Append would write for x.
func Len(x uint64) int {
	n := 1
	for x >= 0x80 {
		x >>= 7
		n++
	}
	return n
}

// Uvarint decodes a varint from the front of b, returning the value and
// the number of bytes consumed. It returns ErrTruncated if b ends
// before a terminating byte and ErrOverflow if the encoding does not
// fit in 64 bits.
func Uvarint(b []byte) (uint64, int, error) {
	var x uint64
	var s uint
	for i, c := range b {
		if i == MaxLen {
			return 0, 0, ErrOverflow
		}
		if c < 0x80 {
			if i == MaxLen-1 && c > 1 {
				return 0, 0, ErrOverflow
			}
			return x | uint64(c)<<s, i + 1, nil
		}
		x |= uint64(c&0x7F) << s
		s += 7
	}
	return 0, 0, ErrTruncated
}

// ReadUvarint decodes a varint from r. An EOF before the first byte is
// reported as io.EOF so callers can distinguish a clean stream end from
// a mid-value truncation, which is reported as ErrTruncated.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	var x uint64
	var s uint
	for i := 0; ; i++ {
		c, err := r.ReadByte()
		if err != nil {
			if i == 0 && err == io.EOF {
				return 0, io.EOF
			}
			return 0, ErrTruncated
		}
		if i == MaxLen {
			return 0, ErrOverflow
		}
		if c < 0x80 {
			if i == MaxLen-1 && c > 1 {
				return 0, ErrOverflow
			}
			return x | uint64(c)<<s, nil
		}
		x |= uint64(c&0x7F) << s
		s += 7
	}
}

// Write writes the varint encoding of x to w and returns the number of
// bytes written.
func Write(w io.Writer, x uint64) (int, error) {
	var scratch [MaxLen]byte
	buf := Append(scratch[:0], x)
	return w.Write(buf)
}
