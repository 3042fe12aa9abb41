package archive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sequenceio/naf/pkg/alphabet"
	"github.com/sequenceio/naf/pkg/block"
	"github.com/sequenceio/naf/pkg/header"
	"github.com/sequenceio/naf/pkg/mask"
	"github.com/sequenceio/naf/pkg/varint"
)

// DecoderConfig selects which optional fields a Decoder materializes.
// Skipped streams are never decompressed; their blocks are passed over
// using the compressed size in the block prefix. Lengths are always
// decoded when present, since they demarcate the other streams.
type DecoderConfig struct {
	SkipTitle    bool
	SkipID       bool
	SkipComment  bool
	SkipSequence bool
	SkipMask     bool
	SkipQuality  bool
}

// Decoder reads an archive sequentially and produces its records as a
// lazy, forward-only sequence. It is not safe for concurrent use.
type Decoder struct {
	hdr      header.Header
	cfg      DecoderConfig
	produced uint64
	closed   bool

	titles   *bufio.Reader
	ids      *bufio.Reader
	comments *bufio.Reader
	lengths  *bufio.Reader
	seqs     *bufio.Reader
	masks    *bufio.Reader
	quals    *bufio.Reader

	unpacker *alphabet.Unpacker // nucleotide archives only
	blocks   []*block.Reader    // owned decompressors, released on Close
}

// NewDecoder parses the archive header from r, opens one stream reader
// per active, wanted block and positions the decoder at record zero.
// The source is consumed sequentially; r need not be seekable.
func NewDecoder(r io.Reader, cfg DecoderConfig) (*Decoder, error) {
	src := bufio.NewReader(r)

	hdr, err := header.Read(src)
	if err != nil {
		return nil, formatErr(err)
	}
	if err := checkFlags(hdr.Flags); err != nil {
		return nil, err
	}

	d := &Decoder{hdr: hdr, cfg: cfg}
	for _, flag := range header.StreamOrder {
		if !hdr.Flags.Test(flag) {
			continue
		}
		if d.skips(flag) {
			if _, err := block.Skip(src); err != nil {
				d.Close()
				return nil, streamErr(0, flag.String(), fmt.Errorf("%w: %v", ErrTruncatedArchive, err))
			}
			continue
		}
		br, err := block.NewReader(src)
		if err != nil {
			d.Close()
			return nil, streamErr(0, flag.String(), fmt.Errorf("%w: %v", ErrTruncatedArchive, err))
		}
		d.blocks = append(d.blocks, br)
		buf := bufio.NewReader(br)
		switch flag {
		case header.FlagTitle:
			d.titles = buf
		case header.FlagID:
			d.ids = buf
		case header.FlagComment:
			d.comments = buf
		case header.FlagLength:
			d.lengths = buf
		case header.FlagSequence:
			d.seqs = buf
		case header.FlagMask:
			d.masks = buf
		case header.FlagQuality:
			d.quals = buf
		}
	}
	if d.seqs != nil && hdr.SequenceType.IsNucleotide() {
		d.unpacker = alphabet.NewUnpacker(d.seqs, hdr.SequenceType)
	}
	return d, nil
}

// checkFlags rejects flag combinations that cannot be demarcated into
// records: sequence, mask and quality streams are sliced per record by
// the length stream.
func checkFlags(f header.Flags) error {
	needLength := f.Test(header.FlagSequence) || f.Test(header.FlagMask) || f.Test(header.FlagQuality)
	if needLength && !f.Test(header.FlagLength) {
		return formatErr(fmt.Errorf("%w: sequence, mask and quality streams require the length stream", ErrInconsistentFlags))
	}
	return nil
}

func (d *Decoder) skips(flag header.Flag) bool {
	switch flag {
	case header.FlagTitle:
		return d.cfg.SkipTitle
	case header.FlagID:
		return d.cfg.SkipID
	case header.FlagComment:
		return d.cfg.SkipComment
	case header.FlagSequence:
		return d.cfg.SkipSequence
	case header.FlagMask:
		return d.cfg.SkipMask
	case header.FlagQuality:
		return d.cfg.SkipQuality
	}
	return false
}

// Header returns the archive header.
func (d *Decoder) Header() header.Header {
	return d.hdr
}

// Next decodes and returns the next record. After the declared record
// count has been produced it returns io.EOF. Any active stream ending
// early fails the whole archive; a partial record is never returned.
func (d *Decoder) Next() (*Record, error) {
	if d.closed {
		return nil, usageErr(fmt.Errorf("decoder: %w", ErrAlreadyClosed))
	}
	if d.produced >= d.hdr.Records {
		return nil, io.EOF
	}

	rec := &Record{}
	var err error
	if d.ids != nil {
		if rec.ID, err = d.readString(d.ids, "id"); err != nil {
			return nil, err
		}
	}
	if d.titles != nil {
		if rec.Title, err = d.readString(d.titles, "title"); err != nil {
			return nil, err
		}
	}
	if d.comments != nil {
		if rec.Comment, err = d.readString(d.comments, "comment"); err != nil {
			return nil, err
		}
	}
	if d.lengths != nil {
		rec.Length, err = varint.ReadUvarint(d.lengths)
		switch {
		case err == nil:
		case errors.Is(err, varint.ErrOverflow):
			return nil, dataErr(d.produced, "length", err)
		default:
			return nil, streamErr(d.produced, "length", fmt.Errorf("%w: %v", ErrTruncatedArchive, err))
		}
		if rec.Length > math.MaxInt64 {
			return nil, dataErr(d.produced, "length", fmt.Errorf("implausible record length %d", rec.Length))
		}
	}
	if d.seqs != nil {
		if rec.Sequence, err = d.readSequence(rec.Length); err != nil {
			return nil, err
		}
		if d.lengths == nil {
			rec.Length = uint64(len(rec.Sequence))
		}
	}
	if d.masks != nil {
		rec.Mask, err = mask.ReadRuns(d.masks, rec.Length, d.produced)
		if err != nil {
			return nil, dataErr(d.produced, "mask", err)
		}
	}
	if d.quals != nil {
		// The length is untrusted, so the buffer grows with the bytes
		// the stream actually yields.
		var quals bytes.Buffer
		if _, err := io.CopyN(&quals, d.quals, int64(rec.Length)); err != nil {
			return nil, streamErr(d.produced, "quality", fmt.Errorf("%w: %v", ErrTruncatedArchive, err))
		}
		rec.Quality = quals.Bytes()
	}

	d.produced++
	return rec, nil
}

func (d *Decoder) readString(r *bufio.Reader, stream string) (string, error) {
	s, err := r.ReadBytes(0)
	if err != nil {
		return "", streamErr(d.produced, stream, fmt.Errorf("%w: %v", ErrTruncatedArchive, err))
	}
	return string(bytes.TrimSuffix(s, []byte{0})), nil
}

func (d *Decoder) readSequence(length uint64) ([]byte, error) {
	if d.unpacker != nil {
		seq, err := d.unpacker.Next(length)
		if err != nil {
			return nil, streamErr(d.produced, "sequence", fmt.Errorf("%w: %v", ErrTruncatedArchive, err))
		}
		return seq, nil
	}
	var seq bytes.Buffer
	if _, err := io.CopyN(&seq, d.seqs, int64(length)); err != nil {
		return nil, streamErr(d.produced, "sequence", fmt.Errorf("%w: %v", ErrTruncatedArchive, err))
	}
	return seq.Bytes(), nil
}

// Close releases the per-stream decompressors. It is safe to call
// repeatedly; the decoder cannot be used afterwards.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	for _, b := range d.blocks {
		b.Close()
	}
	d.blocks = nil
	return nil
}
