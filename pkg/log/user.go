package log

import (
	"context"
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/dramhttps/pkg/operation"
)

// 📢 UserLogger prints the one-line verdict of each command
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
}

// 🎯 NewUserLogger creates a new user logger writing to out
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

// 📝 LogOutcome prints the outcome of a mode with a matching prefix
func (u *UserLogger) LogOutcome(mode operation.Mode, outcome operation.Outcome) {
	var printer *pterm.PrefixPrinter
	var description string
	switch outcome {
	case operation.OutcomeNoOp:
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "💤"})
		description = string(mode) + ": nothing to do"
	case operation.OutcomeSuccess:
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"})
		description = string(mode) + ": done"
	case operation.OutcomeWarning:
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"})
		description = string(mode) + ": finished with warnings"
	default:
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
		description = string(mode) + ": unknown outcome"
	}

	printer.WithWriter(u.out).Println(description)

	u.log.Debug().
		Str("mode", string(mode)).
		Str("outcome", outcome.String()).
		Int("exit_code", outcome.ExitCode()).
		Msg("operation finished")
}

// 📝 LogFailure prints a failed command
func (u *UserLogger) LogFailure(mode operation.Mode, err error) {
	pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).WithWriter(u.out).Println(string(mode) + ": " + err.Error())
	u.log.Error().Err(err).Str("mode", string(mode)).Msg("operation failed")
}
