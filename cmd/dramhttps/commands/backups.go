package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/dramhttps/cmd/dramhttps/opts"
	"gitlab.com/tozd/go/errors"
)

// NewBackupsCmd creates a new backups command
func NewBackupsCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List timestamped backups of the target, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := opts.Operator(ctx)
			if err != nil {
				return err
			}

			snapshots, err := op.Backups(ctx)
			if err != nil {
				return errors.Errorf("listing backups: %w", err)
			}

			opts.Console.LogBackups(ctx, snapshots)
			return nil
		},
	}

	return cmd
}
