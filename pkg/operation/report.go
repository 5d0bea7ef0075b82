package operation

import (
	"github.com/walteh/dramhttps/pkg/analyze"
	"github.com/walteh/dramhttps/pkg/patch"
	"github.com/walteh/dramhttps/pkg/verify"
)

// 🚦 Outcome is the tri-state result of an invocation
type Outcome int

const (
	OutcomeNoOp    Outcome = iota // nothing to do
	OutcomeSuccess                // work done, target verified clean
	OutcomeWarning                // work done, legacy references remain
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeNoOp:
		return "no-op"
	case OutcomeSuccess:
		return "success"
	case OutcomeWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// ExitCode maps an outcome to a process exit status
func (o Outcome) ExitCode() int {
	if o == OutcomeWarning {
		return 2
	}
	return 0
}

// 🧭 Mode names an invocation mode
type Mode string

const (
	ModeAnalyze       Mode = "analyze"
	ModePreview       Mode = "preview"
	ModeApply         Mode = "apply"
	ModeApplyNoBackup Mode = "apply-no-backup"
	ModeRestore       Mode = "restore"
	ModeVerify        Mode = "verify"
)

// 📋 Report collects everything one invocation observed. Fields for steps that did not
// run are left zero.
type Report struct {
	Mode         Mode
	Outcome      Outcome
	Target       string
	PristinePath string

	Analysis     *analyze.Report
	BackupPath   string
	Patch        *patch.Result
	Verification *verify.Verification
	Restored     bool
}
