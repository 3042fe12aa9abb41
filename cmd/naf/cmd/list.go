package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sequenceio/naf/pkg/archive"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <input.naf>",
	Short: "List record ids and lengths",
	Long: `List the id and length of every record in an archive. Only
the id and length streams are decompressed; sequence, mask and quality
blocks are skipped, so listing a large archive is cheap.

Example:
  naf list genome.naf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		dec, err := archive.NewDecoder(in, archive.DecoderConfig{
			SkipTitle:    true,
			SkipComment:  true,
			SkipSequence: true,
			SkipMask:     true,
			SkipQuality:  true,
		})
		if err != nil {
			return err
		}
		defer dec.Close()

		out := cmd.OutOrStdout()
		for {
			rec, err := dec.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%d\n", rec.ID, rec.Length)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
