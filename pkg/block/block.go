// Package block reads and writes the compressed stream blocks that make
// up the body of a NAF archive.
//
// Each active logical stream is stored as one block: the uncompressed
// size (varint), the compressed size (varint), then a single zstd frame
// of exactly that many bytes. The explicit compressed size lets a
// reader skip a block it does not need without decompressing it.
package block

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/sequenceio/naf/pkg/varint"
)

// MaxBlockSize bounds the sizes a block prefix may declare. The prefix
// varints are untrusted input, so a corrupt value must never drive an
// allocation.
const MaxBlockSize = 1 << 40

// Errors
var (
	ErrCorrupt = &BlockError{"corrupt block: decompressed size does not match declared size"}
)

// BlockError represents a block framing or decompression failure
type BlockError struct {
	Message string
}

func (e *BlockError) Error() string {
	return e.Message
}

// Compressor compresses one stream buffer into one self-contained
// frame. Implementations wrap a third-party compression library.
type Compressor interface {
	// Compress appends the compressed form of src to dst.
	Compress(dst, src []byte) []byte
}

type zstdCompressor struct {
	enc *zstd.Encoder
}

func (z *zstdCompressor) Compress(dst, src []byte) []byte {
	return z.enc.EncodeAll(src, dst)
}

// NewCompressor returns the default zstd Compressor. level follows
// zstd.EncoderLevel; zero selects the library default.
func NewCompressor(level int) (Compressor, error) {
	opts := []zstd.EOption{zstd.WithEncoderConcurrency(1)}
	if level != 0 {
		opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevel(level)))
	}
	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, err
	}
	return &zstdCompressor{enc: enc}, nil
}

// Write emits one block for the uncompressed stream buffer data.
func Write(w io.Writer, c Compressor, data []byte) error {
	compressed := c.Compress(nil, data)
	if _, err := varint.Write(w, uint64(len(data))); err != nil {
		return err
	}
	if _, err := varint.Write(w, uint64(len(compressed))); err != nil {
		return err
	}
	_, err := w.Write(compressed)
	return err
}

// Header is the size prefix of one block.
type Header struct {
	OriginalSize   uint64
	CompressedSize uint64
}

// ReadHeader decodes a block's size prefix from r.
func ReadHeader(r io.ByteReader) (Header, error) {
	orig, err := varint.ReadUvarint(r)
	if err != nil {
		return Header{}, err
	}
	comp, err := varint.ReadUvarint(r)
	if err != nil {
		if err == io.EOF {
			err = varint.ErrTruncated
		}
		return Header{}, err
	}
	if orig > MaxBlockSize || comp > MaxBlockSize {
		return Header{}, &BlockError{fmt.Sprintf(
			"corrupt block: prefix declares %d uncompressed / %d compressed bytes", orig, comp)}
	}
	return Header{OriginalSize: orig, CompressedSize: comp}, nil
}

// Source is the byte source blocks are read from. *bufio.Reader and
// *bytes.Reader both satisfy it.
type Source interface {
	io.Reader
	io.ByteReader
}

// Skip reads a block's size prefix and discards its compressed payload
// without decompressing it. It returns the header for reporting.
func Skip(r Source) (Header, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return Header{}, err
	}
	if _, err := io.CopyN(io.Discard, r, int64(hdr.CompressedSize)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Header{}, err
	}
	return hdr, nil
}

// Reader decompresses one block incrementally. The compressed payload
// is held in memory; decompressed bytes are produced on demand, so a
// large stream never needs to be materialized in full.
type Reader struct {
	hdr Header
	zr  *zstd.Decoder
	br  *bytes.Reader
}

// NewReader reads one block's size prefix and compressed payload from r
// and returns a streaming Reader over the uncompressed bytes.
func NewReader(r Source) (*Reader, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	// A short read here is tolerated: the missing tail may belong to a
	// truncated final block, and that must only fail once a consumer
	// actually needs the missing bytes. The buffer grows with the bytes
	// the source actually holds, not with the declared size.
	var payload bytes.Buffer
	if _, err := io.CopyN(&payload, r, int64(hdr.CompressedSize)); err != nil && err != io.EOF {
		return nil, err
	}
	br := bytes.NewReader(payload.Bytes())
	zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &Reader{hdr: hdr, zr: zr, br: br}, nil
}

// Header returns the block's size prefix.
func (r *Reader) Header() Header {
	return r.hdr
}

// Read implements io.Reader over the uncompressed stream.
func (r *Reader) Read(p []byte) (int, error) {
	return r.zr.Read(p)
}

// Bytes materializes the whole uncompressed stream. It fails with
// ErrCorrupt if the frame does not decompress to the declared size.
func (r *Reader) Bytes() ([]byte, error) {
	// The declared size is untrusted; read what the frame actually
	// holds and compare after the fact.
	out, err := io.ReadAll(r)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, ErrCorrupt
		}
		return nil, err
	}
	if uint64(len(out)) != r.hdr.OriginalSize {
		return nil, ErrCorrupt
	}
	return out, nil
}

// Close releases the decompressor. Safe to call more than once.
func (r *Reader) Close() {
	if r.zr != nil {
		r.zr.Close()
		r.zr = nil
	}
}

// String formats a header for diagnostics.
func (h Header) String() string {
	if h.OriginalSize == 0 || h.OriginalSize == h.CompressedSize {
		return fmt.Sprintf("%d bytes", h.OriginalSize)
	}
	return fmt.Sprintf("%d / %d bytes (%.1f%%)",
		h.CompressedSize, h.OriginalSize,
		float64(h.CompressedSize)*100/float64(h.OriginalSize))
}
