package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sequenceio/naf/pkg/alphabet"
	"github.com/sequenceio/naf/pkg/archive"
	"github.com/sequenceio/naf/pkg/fasta"
	"github.com/sequenceio/naf/pkg/header"
)

var (
	packOutput string
	packType   string
	packWrap   uint64
	packLevel  int
)

// packCmd represents the pack command
var packCmd = &cobra.Command{
	Use:   "pack <input.fa>",
	Short: "Pack a FASTA/FASTQ file into a NAF archive",
	Long: `Pack a FASTA or FASTQ file into a NAF archive. The input
format is detected from the first record; FASTQ input stores a quality
stream, FASTA input stores a soft-mask stream derived from lowercase
letters. Use "-" to read from stdin.

Example:
  naf pack -o genome.naf genome.fa`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		seqType := cfg.SequenceTypeValue()
		if cmd.Flags().Changed("type") {
			if seqType, err = alphabet.ParseSequenceType(packType); err != nil {
				return err
			}
		}
		wrap := cfg.LineLength
		if cmd.Flags().Changed("line-length") {
			wrap = packWrap
		}
		level := cfg.Level
		if cmd.Flags().Changed("level") {
			level = packLevel
		}

		out, err := createOutput(packOutput, args[0], ".naf")
		if err != nil {
			return err
		}
		defer out.Close()

		reader := fasta.NewReader(in, cfg.SeparatorByte())
		first, err := reader.Next()
		if err == io.EOF {
			return fmt.Errorf("no records in %s", args[0])
		}
		if err != nil {
			return err
		}

		flags := header.Flags(0).
			With(header.FlagTitle).
			With(header.FlagID).
			With(header.FlagLength).
			With(header.FlagSequence)
		if reader.Format() == fasta.FormatFastq {
			flags = flags.With(header.FlagQuality)
		} else {
			flags = flags.With(header.FlagMask)
		}

		enc, err := archive.NewEncoder(out, archive.EncoderConfig{
			SequenceType: seqType,
			Flags:        flags,
			Separator:    cfg.SeparatorByte(),
			LineLength:   wrap,
			Level:        level,
		})
		if err != nil {
			return err
		}

		for rec := first; ; {
			if err := enc.Write(rec); err != nil {
				return err
			}
			if rec, err = reader.Next(); err == io.EOF {
				break
			} else if err != nil {
				return err
			}
		}
		if err := enc.Close(); err != nil {
			return err
		}

		fmt.Printf("packed %d records\n", enc.Header().Records)
		return nil
	},
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func createOutput(output, input, suffix string) (*os.File, error) {
	if output == "" {
		output = input + suffix
		if input == "-" {
			return nil, fmt.Errorf("an output path is required when reading stdin")
		}
	}
	if output == "-" {
		return os.Stdout, nil
	}
	return os.Create(output)
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "output path (default: input + .naf)")
	packCmd.Flags().StringVar(&packType, "type", "dna", "sequence type: dna, rna, protein or text")
	packCmd.Flags().Uint64Var(&packWrap, "line-length", header.DefaultLineLength, "FASTA wrap width recorded in the archive")
	packCmd.Flags().IntVar(&packLevel, "level", 0, "zstd compression level (0 = default)")
}
