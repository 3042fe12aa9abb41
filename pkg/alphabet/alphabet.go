// Package alphabet maps sequence symbols to the compact codes stored in
// NAF archives and packs them two to a byte for nucleotide data.
package alphabet

import (
	"fmt"
)

// SequenceType identifies the symbol set stored in an archive.
type SequenceType uint8

const (
	DNA     SequenceType = 0 // ACGT plus IUPAC ambiguity codes and gaps
	RNA     SequenceType = 1 // as DNA, with U in place of T
	Protein SequenceType = 2 // single-letter amino acids, stored unpacked
	Text    SequenceType = 3 // arbitrary bytes, stored unpacked
)

// IsNucleotide reports whether sequences of this type are stored as
// packed 4-bit codes rather than raw bytes.
func (t SequenceType) IsNucleotide() bool {
	return t == DNA || t == RNA
}

func (t SequenceType) String() string {
	switch t {
	case DNA:
		return "dna"
	case RNA:
		return "rna"
	case Protein:
		return "protein"
	case Text:
		return "text"
	}
	return fmt.Sprintf("sequencetype(%d)", uint8(t))
}

// ParseSequenceType maps the textual names accepted on the command line
// back to a SequenceType.
func ParseSequenceType(s string) (SequenceType, error) {
	switch s {
	case "dna":
		return DNA, nil
	case "rna":
		return RNA, nil
	case "protein":
		return Protein, nil
	case "text":
		return Text, nil
	}
	return 0, fmt.Errorf("unknown sequence type %q", s)
}

// InvalidSymbolError reports a symbol or code outside the active
// alphabet, with its position in the stream.
type InvalidSymbolError struct {
	Symbol byte  // offending input byte or 4-bit code
	Offset int64 // symbol index within the sequence stream
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid symbol %q at sequence offset %d", e.Symbol, e.Offset)
}

// The 4-bit nucleotide code is a bitmask over the four bases:
// A=8, C=4, G=2, T=1. Ambiguity codes are the union of their bases,
// '-' is 0 and N is 15. Index i of codeToBase is the base whose
// code is i.
const codeToBase = "-TGKCYSBAWRDMHVN"

// baseToCode is the inverse table over all 256 byte values; 0xFF marks
// bytes outside the alphabet. Lowercase letters map like their
// uppercase forms (case is carried by the mask stream, not here).
var baseToCode [256]byte

func init() {
	for i := range baseToCode {
		baseToCode[i] = 0xFF
	}
	for code := 0; code < len(codeToBase); code++ {
		b := codeToBase[code]
		baseToCode[b] = byte(code)
		baseToCode[b|0x20] = byte(code) // lowercase
	}
	// RNA spells T as U.
	baseToCode['U'] = baseToCode['T']
	baseToCode['u'] = baseToCode['T']
}

// CodeOf returns the 4-bit code for a nucleotide symbol, or an
// InvalidSymbolError if the byte is outside the alphabet.
func CodeOf(b byte, offset int64) (byte, error) {
	c := baseToCode[b]
	if c == 0xFF {
		return 0, &InvalidSymbolError{Symbol: b, Offset: offset}
	}
	return c, nil
}

// BaseOf returns the symbol for a 4-bit code. RNA mode substitutes U
// for T. Codes are 4 bits by construction so every value is valid.
func BaseOf(code byte, t SequenceType) byte {
	b := codeToBase[code&0x0F]
	if t == RNA && b == 'T' {
		return 'U'
	}
	return b
}
