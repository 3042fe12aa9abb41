package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sequenceio/naf/pkg/archive"
	"github.com/sequenceio/naf/pkg/fasta"
	"github.com/sequenceio/naf/pkg/header"
)

var (
	unpackOutput string
	unpackFastq  bool
)

// unpackCmd represents the unpack command
var unpackCmd = &cobra.Command{
	Use:   "unpack <input.naf>",
	Short: "Unpack a NAF archive to FASTA or FASTQ",
	Long: `Unpack a NAF archive back to text. Output is FASTA wrapped at
the line length recorded in the archive; pass --fastq to emit FASTQ
from an archive that stores qualities.

Example:
  naf unpack genome.naf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		dec, err := archive.NewDecoder(in, archive.DecoderConfig{})
		if err != nil {
			return err
		}
		defer dec.Close()

		hdr := dec.Header()
		if unpackFastq && !hdr.Flags.Test(header.FlagQuality) {
			return fmt.Errorf("%s stores no quality stream", args[0])
		}

		out := cmd.OutOrStdout()
		if unpackOutput != "" && unpackOutput != "-" {
			f, err := os.Create(unpackOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		var w *fasta.Writer
		if unpackFastq {
			w = fasta.NewFastqWriter(out, hdr.Separator)
		} else {
			w = fasta.NewWriter(out, hdr.Separator, hdr.LineLength)
		}

		for {
			rec, err := dec.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(unpackCmd)
	unpackCmd.Flags().StringVarP(&unpackOutput, "output", "o", "", "output path (default: stdout)")
	unpackCmd.Flags().BoolVar(&unpackFastq, "fastq", false, "emit FASTQ instead of FASTA")
}
