package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dramhttps/cmd/dramhttps/commands"
	"github.com/walteh/dramhttps/cmd/dramhttps/opts"
	"github.com/walteh/dramhttps/pkg/config"
	"github.com/walteh/dramhttps/pkg/log"
)

// newRootOpts creates a new rootOpts with initialized dependencies
func newRootOpts(ctx context.Context, out io.Writer) *opts.RootOpts {
	return &opts.RootOpts{
		Locator:    &config.PythonLocator{},
		Out:        out,
		Console:    log.New(out, zerolog.InfoLevel),
		UserLogger: log.NewUserLogger(ctx, out),
	}
}

// newRootCmd builds the command tree around o
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dramhttps",
		Short: "Move DRAM database downloads from ftp:// to https://",
		Long: `dramhttps rewrites the hardcoded ftp:// download URLs in DRAM's
database_processing.py to their https:// equivalents, applies a few known source
fixes, and keeps a pristine copy so the change can be undone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(setupLogging(cmd.Context(), o))
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewAnalyzeCmd(o),
		commands.NewPatchCmd(o),
		commands.NewRestoreCmd(o),
		commands.NewVerifyCmd(o),
		commands.NewBackupsCmd(o),
		commands.NewRulesCmd(o),
		commands.NewConcatCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (.yaml, .hcl or .json); defaults to "+config.DefaultConfigName+" if present")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.Overrides.DramPath, "dram-path", "", "mag_annotator package directory")
	cmd.PersistentFlags().StringVar(&o.Overrides.Target, "target", "", "file to patch; overrides --dram-path")
	cmd.PersistentFlags().StringVar(&o.Overrides.BackupRoot, "backup-root", "", "directory for timestamped backups (default ~/"+config.DefaultBackupDir+")")
}

// setupLogging applies --debug to the context logger and the console loggers
func setupLogging(ctx context.Context, o *opts.RootOpts) context.Context {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
		o.Console = log.New(o.Out, level)
	}
	logger := zerolog.Ctx(ctx).Level(level)
	ctx = logger.WithContext(ctx)
	o.UserLogger = log.NewUserLogger(ctx, o.Out)
	return ctx
}
