package operation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name        string
		mode        Mode
		wantOutcome Outcome
		wantError   string
	}{
		{name: "analyze", mode: ModeAnalyze, wantOutcome: OutcomeSuccess},
		{name: "preview", mode: ModePreview, wantOutcome: OutcomeSuccess},
		{name: "apply", mode: ModeApply, wantOutcome: OutcomeSuccess},
		{name: "apply_no_backup", mode: ModeApplyNoBackup, wantOutcome: OutcomeSuccess},
		{name: "restore", mode: ModeRestore, wantOutcome: OutcomeNoOp},
		{name: "verify", mode: ModeVerify, wantOutcome: OutcomeWarning},
		{name: "unknown", mode: Mode("bogus"), wantError: `unknown mode "bogus"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := createTestEnv(t, unpatched)

			report, err := Run(env.ctx, env.op, tt.mode)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, report.Mode)
			assert.Equal(t, tt.wantOutcome, report.Outcome)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	env := createTestEnv(t, unpatched)
	ctx, cancel := context.WithCancel(env.ctx)
	cancel()

	_, err := Run(ctx, env.op, ModeApply)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation cancelled")
	assert.Equal(t, unpatched, env.read(t))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "no-op", OutcomeNoOp.String())
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "warning", OutcomeWarning.String())
	assert.Equal(t, "unknown", Outcome(42).String())

	assert.Equal(t, 0, OutcomeNoOp.ExitCode())
	assert.Equal(t, 0, OutcomeSuccess.ExitCode())
	assert.Equal(t, 2, OutcomeWarning.ExitCode())
}
