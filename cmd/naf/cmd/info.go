package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sequenceio/naf/pkg/block"
	"github.com/sequenceio/naf/pkg/header"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <input.naf>",
	Short: "Show archive header and block sizes",
	Long: `Show the header of an archive and the compressed/uncompressed
size of each stream block. No block is decompressed.

Example:
  naf info genome.naf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		src := bufio.NewReader(in)
		hdr, err := header.Read(src)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "format version: %d\n", hdr.Version)
		fmt.Fprintf(out, "sequence type:  %s\n", hdr.SequenceType)
		fmt.Fprintf(out, "flags:          %s\n", hdr.Flags)
		fmt.Fprintf(out, "separator:      %q\n", hdr.Separator)
		fmt.Fprintf(out, "line length:    %d\n", hdr.LineLength)
		fmt.Fprintf(out, "records:        %d\n", hdr.Records)

		for _, flag := range header.StreamOrder {
			if !hdr.Flags.Test(flag) {
				continue
			}
			bh, err := block.Skip(src)
			if err != nil {
				return fmt.Errorf("%s block: %w", flag, err)
			}
			fmt.Fprintf(out, "%-8s block: %s\n", flag, bh)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
