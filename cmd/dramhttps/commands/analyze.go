package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/dramhttps/cmd/dramhttps/opts"
	"github.com/walteh/dramhttps/pkg/operation"
)

// NewAnalyzeCmd creates a new analyze command
func NewAnalyzeCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "List ftp:// references in the target",
		Long: `Analyze scans database_processing.py for ftp:// URLs and prints each distinct one.
Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd.Context(), opts, operation.ModeAnalyze)
		},
	}

	return cmd
}
