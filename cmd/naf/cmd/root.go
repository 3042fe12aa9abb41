package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sequenceio/naf/pkg/config"
)

var (
	cfgPath string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "naf",
	Short: "naf - Nucleotide Archive Format tool",
	Long: `naf packs FASTA/FASTQ sequence collections into Nucleotide
Archive Format (NAF) files and unpacks them again. NAF stores each
record field (ids, titles, lengths, sequences, masks, qualities) as an
independently compressed stream, so listing an archive never touches
the sequence data.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			cfg = config.DefaultConfig()
			return nil
		}
		loaded, err := config.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML defaults file")
}
