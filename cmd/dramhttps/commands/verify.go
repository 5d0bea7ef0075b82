package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/dramhttps/cmd/dramhttps/opts"
	"github.com/walteh/dramhttps/pkg/operation"
)

// NewVerifyCmd creates a new verify command
func NewVerifyCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the target for remaining ftp:// references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd.Context(), opts, operation.ModeVerify)
		},
	}

	return cmd
}
