package log

import (
	"context"

	"github.com/walteh/dramhttps/pkg/operation"
)

// 📋 LogReport prints every step an invocation ran, in order
func (l *Logger) LogReport(ctx context.Context, r *operation.Report) {
	l.Header(string(r.Mode))

	if r.Analysis != nil {
		l.LogAnalysis(ctx, r.Target, r.Analysis)
		l.LogNewline()
	}

	if r.BackupPath != "" {
		l.Infof("backup written to %s", r.BackupPath)
	}

	if r.Patch != nil {
		for _, c := range r.Patch.Changes {
			l.LogChange(ctx, c)
		}
		if r.Patch.Preview && r.Patch.Changed() {
			l.LogNewline()
			l.LogDiff(r.Patch.Diff())
		}
		if r.Patch.Changed() {
			l.LogNewline()
		}
	}

	if r.Mode == operation.ModeRestore {
		if r.Restored {
			l.Successf("restored %s from %s", r.Target, r.PristinePath)
		} else {
			l.Warningf("no pristine copy at %s, nothing restored", r.PristinePath)
		}
	}

	l.LogVerification(ctx, r.Verification)
}
