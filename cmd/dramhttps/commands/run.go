package commands

import (
	"context"

	"github.com/walteh/dramhttps/cmd/dramhttps/opts"
	"github.com/walteh/dramhttps/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// runMode runs one mode, prints its report and records the exit code
func runMode(ctx context.Context, o *opts.RootOpts, mode operation.Mode) error {
	op, err := o.Operator(ctx)
	if err != nil {
		return err
	}

	report, err := operation.Run(ctx, op, mode)
	if err != nil {
		return errors.Errorf("running %s: %w", mode, err)
	}

	o.Console.LogReport(ctx, report)
	o.UserLogger.LogOutcome(mode, report.Outcome)
	o.ExitCode = report.Outcome.ExitCode()

	return nil
}
