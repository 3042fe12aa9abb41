package alphabet

import (
	"io"
)

// Packer packs nucleotide symbols into 4-bit codes, two per byte with
// the first symbol in the high nibble. Packing is continuous: record
// boundaries do not realign to a byte, so a record may start mid-byte.
// Flush must be called once after the final symbol to emit a trailing
// half-filled byte, padded with a zero nibble.
type Packer struct {
	w       io.Writer
	buf     []byte
	half    byte
	pending bool
	offset  int64 // symbols consumed so far, for error reporting
}

// NewPacker returns a Packer emitting packed bytes to w.
func NewPacker(w io.Writer) *Packer {
	return &Packer{w: w, buf: make([]byte, 0, 512)}
}

// Write packs the symbols in seq and flushes complete bytes to the
// underlying writer. Invalid symbols fail with InvalidSymbolError.
func (p *Packer) Write(seq []byte) error {
	for _, b := range seq {
		code, err := CodeOf(b, p.offset)
		if err != nil {
			return err
		}
		p.offset++
		if p.pending {
			p.buf = append(p.buf, p.half<<4|code)
			p.pending = false
		} else {
			p.half = code
			p.pending = true
		}
	}
	if len(p.buf) > 0 {
		if _, err := p.w.Write(p.buf); err != nil {
			return err
		}
		p.buf = p.buf[:0]
	}
	return nil
}

// Flush writes the final half byte, if any. The Packer must not be
// written to afterwards.
func (p *Packer) Flush() error {
	if !p.pending {
		return nil
	}
	p.pending = false
	_, err := p.w.Write([]byte{p.half << 4})
	return err
}

// PackedLen returns the number of bytes needed to pack n symbols.
func PackedLen(n uint64) uint64 {
	return (n + 1) / 2
}

// Unpacker is the inverse of Packer: it reads packed bytes from r and
// produces symbol runs of caller-chosen lengths, carrying the unused
// low nibble across calls so that consecutive records unpack correctly
// from a continuous stream.
type Unpacker struct {
	r       io.Reader
	typ     SequenceType
	half    byte
	pending bool
	scratch []byte
}

// NewUnpacker returns an Unpacker decoding symbols of the given
// nucleotide type from r.
func NewUnpacker(r io.Reader, t SequenceType) *Unpacker {
	return &Unpacker{r: r, typ: t, scratch: make([]byte, 4096)}
}

// Next decodes exactly n symbols. It returns io.ErrUnexpectedEOF if the
// packed stream ends first. n comes from untrusted input, so the output
// grows with the bytes actually read rather than being allocated up
// front.
func (u *Unpacker) Next(n uint64) ([]byte, error) {
	var out []byte
	if u.pending && n > 0 {
		out = append(out, BaseOf(u.half, u.typ))
		u.pending = false
		n--
	}
	odd := n%2 == 1
	for need := PackedLen(n); need > 0; {
		buf := u.scratch
		if uint64(len(buf)) > need {
			buf = buf[:need]
		}
		if _, err := io.ReadFull(u.r, buf); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		need -= uint64(len(buf))
		last := need == 0
		for i, b := range buf {
			out = append(out, BaseOf(b>>4, u.typ))
			if last && odd && i == len(buf)-1 {
				// Odd count: keep the low nibble for the next record.
				u.half = b & 0x0F
				u.pending = true
			} else {
				out = append(out, BaseOf(b&0x0F, u.typ))
			}
		}
	}
	return out, nil
}
