package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/dramhttps/cmd/dramhttps/opts"
	"github.com/walteh/dramhttps/pkg/operation"
)

// NewRestoreCmd creates a new restore command
func NewRestoreCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Put the pristine copy of the target back",
		Long: `Restore copies <target>.original over the target and verifies the result.
If no pristine copy exists nothing is changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd.Context(), opts, operation.ModeRestore)
		},
	}

	return cmd
}
