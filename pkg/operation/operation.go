// Package operation wires the analyzer, backup manager, applier and verifier into the
// invocation modes the command line exposes.
package operation

import (
	"context"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/dramhttps/pkg/analyze"
	"github.com/walteh/dramhttps/pkg/backup"
	"github.com/walteh/dramhttps/pkg/patch"
	"github.com/walteh/dramhttps/pkg/rules"
	"github.com/walteh/dramhttps/pkg/verify"
	"gitlab.com/tozd/go/errors"
)

// ErrConfiguration marks a target that is missing or cannot be used
var ErrConfiguration = errors.Base("configuration error")

// 🎯 Operator runs one invocation mode against a single target.
//
// Operators do no locking. Running two invocations against the same target at once is a
// last-writer-wins race; callers must run at most one at a time per target.
type Operator interface {
	// Analyze reports legacy references without touching anything
	Analyze(ctx context.Context) (*Report, error)
	// Preview runs the rules in memory and reports what would change
	Preview(ctx context.Context) (*Report, error)
	// Apply rewrites the target, optionally backing it up first, then verifies it
	Apply(ctx context.Context, withBackup bool) (*Report, error)
	// Restore puts the pristine copy back and verifies the result
	Restore(ctx context.Context) (*Report, error)
	// Verify checks the target for residue
	Verify(ctx context.Context) (*Report, error)
	// Backups lists the timestamped backups of the target
	Backups(ctx context.Context) ([]backup.Snapshot, error)
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Target is the absolute path of the file under management
	Target string
	// BackupRoot holds the timestamped backups
	BackupRoot string
	// Rules is the rule set to apply
	Rules *rules.Set
	// Clock names timestamped backups; defaults to time.Now
	Clock func() time.Time
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Target == "" {
		return nil, errors.WithMessage(ErrConfiguration, "target is required")
	}
	if opts.BackupRoot == "" {
		return nil, errors.WithMessage(ErrConfiguration, "backup root is required")
	}
	if opts.Rules == nil {
		return nil, errors.WithMessage(ErrConfiguration, "rules are required")
	}

	info, err := os.Stat(opts.Target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WithMessagef(ErrConfiguration, "target %s does not exist", opts.Target)
		}
		return nil, errors.Errorf("checking target: %w", err)
	}
	if info.IsDir() {
		return nil, errors.WithMessagef(ErrConfiguration, "target %s is a directory", opts.Target)
	}

	var backupOpts []backup.Option
	if opts.Clock != nil {
		backupOpts = append(backupOpts, backup.WithClock(opts.Clock))
	}

	analyzer := analyze.New(opts.Target)
	return &operator{
		target:   opts.Target,
		analyzer: analyzer,
		backups:  backup.NewManager(opts.Target, opts.BackupRoot, backupOpts...),
		applier:  patch.New(opts.Target, opts.Rules),
		verifier: verify.New(analyzer),
	}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	target   string
	analyzer *analyze.Analyzer
	backups  *backup.Manager
	applier  *patch.Applier
	verifier *verify.Verifier
}

func (o *operator) newReport(mode Mode) *Report {
	return &Report{
		Mode:         mode,
		Target:       o.target,
		PristinePath: o.backups.PristinePath(),
	}
}

// Analyze implements Operator.Analyze
func (o *operator) Analyze(ctx context.Context) (*Report, error) {
	report := o.newReport(ModeAnalyze)

	analysis, err := o.analyzer.DetectLegacyReferences(ctx)
	if err != nil {
		return nil, errors.Errorf("analyzing target: %w", err)
	}
	report.Analysis = analysis

	if analysis.Empty() {
		report.Outcome = OutcomeNoOp
	} else {
		report.Outcome = OutcomeSuccess
	}
	return report, nil
}

// Preview implements Operator.Preview. Neither the target nor any snapshot is written.
func (o *operator) Preview(ctx context.Context) (*Report, error) {
	return o.run(ctx, ModePreview, true, false)
}

// Apply implements Operator.Apply
func (o *operator) Apply(ctx context.Context, withBackup bool) (*Report, error) {
	mode := ModeApply
	if !withBackup {
		mode = ModeApplyNoBackup
	}
	return o.run(ctx, mode, false, withBackup)
}

func (o *operator) run(ctx context.Context, mode Mode, previewOnly, withBackup bool) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	report, err := o.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	report.Mode = mode

	if report.Analysis.Empty() {
		logger.Debug().Str("target", o.target).Msg("no legacy references, nothing to do")
		report.Outcome = OutcomeNoOp
		return report, nil
	}

	if withBackup {
		path, err := o.backups.CreateBackup(ctx)
		if err != nil {
			return nil, errors.Errorf("backing up target: %w", err)
		}
		report.BackupPath = path
	}

	result, err := o.applier.Apply(ctx, previewOnly)
	if err != nil {
		return nil, errors.Errorf("applying patch: %w", err)
	}
	report.Patch = result

	if !result.Changed() {
		report.Outcome = OutcomeNoOp
		return report, nil
	}

	if previewOnly {
		report.Outcome = OutcomeSuccess
		return report, nil
	}

	if err := o.verifyInto(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Restore implements Operator.Restore
func (o *operator) Restore(ctx context.Context) (*Report, error) {
	report := o.newReport(ModeRestore)

	restored, err := o.backups.RestoreBackup(ctx)
	if err != nil {
		return nil, errors.Errorf("restoring target: %w", err)
	}
	report.Restored = restored

	if !restored {
		report.Outcome = OutcomeNoOp
		return report, nil
	}

	if err := o.verifyInto(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Verify implements Operator.Verify
func (o *operator) Verify(ctx context.Context) (*Report, error) {
	report, err := o.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	report.Mode = ModeVerify

	if err := o.verifyInto(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Backups implements Operator.Backups
func (o *operator) Backups(ctx context.Context) ([]backup.Snapshot, error) {
	snapshots, err := o.backups.ListBackups(ctx)
	if err != nil {
		return nil, errors.Errorf("listing backups: %w", err)
	}
	return snapshots, nil
}

func (o *operator) verifyInto(ctx context.Context, report *Report) error {
	verification, err := o.verifier.Verify(ctx)
	if err != nil {
		return errors.Errorf("verifying target: %w", err)
	}
	report.Verification = verification

	if verification.Clean {
		report.Outcome = OutcomeSuccess
	} else {
		report.Outcome = OutcomeWarning
	}
	return nil
}
