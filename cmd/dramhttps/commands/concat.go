package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dramhttps/cmd/dramhttps/opts"
	"github.com/walteh/dramhttps/pkg/fasta"
	"gitlab.com/tozd/go/errors"
)

// DefaultConcatOutput is the output file name when --output is not given
const DefaultConcatOutput = "Concatenated_Unmerged.fasta"

// NewConcatCmd creates a new concat command
func NewConcatCmd(opts *opts.RootOpts) *cobra.Command {
	var forward, reverse, output string

	cmd := &cobra.Command{
		Use:   "concat",
		Short: "Join paired FASTA reads with a run of ten Ns",
		Long: `Concat streams two FASTA files and writes one record per pair: the forward ID with
the forward sequence, NNNNNNNNNN, then the reverse sequence. Reads are paired by position
and the output stops at the end of the shorter file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "concat").Logger().WithContext(cmd.Context())

			fwd, err := os.Open(forward)
			if err != nil {
				return errors.Errorf("opening forward reads: %w", err)
			}
			defer fwd.Close()

			rev, err := os.Open(reverse)
			if err != nil {
				return errors.Errorf("opening reverse reads: %w", err)
			}
			defer rev.Close()

			out, err := os.Create(output)
			if err != nil {
				return errors.Errorf("creating output: %w", err)
			}

			n, err := fasta.ConcatenatePairs(ctx, fwd, rev, out)
			if cerr := out.Close(); err == nil && cerr != nil {
				err = errors.Errorf("closing output: %w", cerr)
			}
			if err != nil {
				return err
			}

			opts.Console.Successf("wrote %d pairs to %s", n, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&forward, "forward", "", "forward reads (FASTA)")
	cmd.Flags().StringVar(&reverse, "reverse", "", "reverse reads (FASTA)")
	cmd.Flags().StringVarP(&output, "output", "o", DefaultConcatOutput, "output file")
	_ = cmd.MarkFlagRequired("forward")
	_ = cmd.MarkFlagRequired("reverse")

	return cmd
}
