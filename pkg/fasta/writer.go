package fasta

import (
	"bufio"
	"io"

	"github.com/sequenceio/naf/pkg/archive"
)

// Writer renders records as FASTA or FASTQ text.
type Writer struct {
	bw    *bufio.Writer
	sep   byte
	wrap  int // FASTA line width, 0 = single line per record
	fastq bool
}

// NewWriter returns a FASTA writer wrapping sequence lines at wrap
// columns. sep joins id and title on the defline.
func NewWriter(w io.Writer, sep byte, wrap uint64) *Writer {
	return &Writer{bw: bufio.NewWriter(w), sep: sep, wrap: int(wrap)}
}

// NewFastqWriter returns a FASTQ writer. FASTQ is unwrapped.
func NewFastqWriter(w io.Writer, sep byte) *Writer {
	return &Writer{bw: bufio.NewWriter(w), sep: sep, fastq: true}
}

// Write renders one record.
func (w *Writer) Write(rec *archive.Record) error {
	if w.fastq {
		return w.writeFastq(rec)
	}
	return w.writeFasta(rec)
}

func (w *Writer) writeFasta(rec *archive.Record) error {
	w.bw.WriteByte('>')
	w.bw.WriteString(rec.Name(w.sep))
	w.bw.WriteByte('\n')

	seq := rec.Masked()
	if w.wrap <= 0 {
		w.bw.Write(seq)
		return w.bw.WriteByte('\n')
	}
	for len(seq) > 0 {
		n := w.wrap
		if n > len(seq) {
			n = len(seq)
		}
		w.bw.Write(seq[:n])
		if err := w.bw.WriteByte('\n'); err != nil {
			return err
		}
		seq = seq[n:]
	}
	if rec.Length == 0 {
		return w.bw.WriteByte('\n')
	}
	return nil
}

func (w *Writer) writeFastq(rec *archive.Record) error {
	w.bw.WriteByte('@')
	w.bw.WriteString(rec.Name(w.sep))
	w.bw.WriteByte('\n')
	w.bw.Write(rec.Masked())
	w.bw.WriteString("\n+\n")
	w.bw.Write(rec.Quality)
	return w.bw.WriteByte('\n')
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}
