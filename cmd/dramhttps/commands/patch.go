package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/dramhttps/cmd/dramhttps/opts"
	"github.com/walteh/dramhttps/pkg/operation"
)

// NewPatchCmd creates a new patch command
func NewPatchCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		dryRun   bool
		noBackup bool
	)

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Rewrite ftp:// URLs to https:// and apply known fixes",
		Long: `Patch rewrites the target in place.
It will:
1. Scan for ftp:// references and stop if there are none
2. Back up the target (unless --no-backup)
3. Apply the URL rules, then the bug-fix rules
4. Re-scan and warn about any ftp:// references left

With --dry-run the changes are shown as a diff and nothing is written.
Exits 2 when references remain after patching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := operation.ModeApply
			switch {
			case dryRun:
				mode = operation.ModePreview
			case noBackup:
				mode = operation.ModeApplyNoBackup
			}
			return runMode(cmd.Context(), opts, mode)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the changes without writing them")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip the backup step")

	return cmd
}
