// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/dramhttps/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

const unpatched = `KOFAM_URL = 'ftp://ftp.genome.jp/pub/db/kofam/profiles.tar.gz'
PFAM_URL = 'ftp://ftp.ebi.ac.uk/pub/databases/Pfam/current_release/Pfam-A.hmm.dat.gz'
def process_vogdb(hmm_dir):
    return glob(path.join(hmm_dir, 'VOG*.hmm'))
`

const patched = `KOFAM_URL = 'https://www.genome.jp/ftp/pub/db/kofam/profiles.tar.gz'
PFAM_URL = 'https://ftp.ebi.ac.uk/pub/databases/Pfam/current_release/Pfam-A.hmm.dat.gz'
def process_vogdb(hmm_dir):
    return glob(path.join(hmm_dir, 'hmm', 'VOG*.hmm'))
`

type testEnv struct {
	ctx    context.Context
	target string
	root   string
	op     Operator
}

func createTestEnv(t *testing.T, content string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	target := filepath.Join(dir, "mag_annotator", "database_processing.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte(content), 0o644))

	root := filepath.Join(dir, "DRAM_backups")
	op, err := New(Options{
		Target:     target,
		BackupRoot: root,
		Rules:      rules.Default(),
		Clock:      func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local) },
	})
	require.NoError(t, err)

	return &testEnv{
		ctx:    zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background()),
		target: target,
		root:   root,
		op:     op,
	}
}

func (e *testEnv) read(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(e.target)
	require.NoError(t, err)
	return string(b)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "file.py")
	require.NoError(t, os.WriteFile(existing, nil, 0o644))

	tests := []struct {
		name          string
		opts          Options
		expectedError string
	}{
		{
			name:          "missing_target",
			opts:          Options{BackupRoot: dir, Rules: rules.Default()},
			expectedError: "target is required",
		},
		{
			name:          "missing_backup_root",
			opts:          Options{Target: existing, Rules: rules.Default()},
			expectedError: "backup root is required",
		},
		{
			name:          "missing_rules",
			opts:          Options{Target: existing, BackupRoot: dir},
			expectedError: "rules are required",
		},
		{
			name:          "target_does_not_exist",
			opts:          Options{Target: filepath.Join(dir, "nope.py"), BackupRoot: dir, Rules: rules.Default()},
			expectedError: "does not exist",
		},
		{
			name:          "target_is_directory",
			opts:          Options{Target: dir, BackupRoot: dir, Rules: rules.Default()},
			expectedError: "is a directory",
		},
		{
			name: "valid",
			opts: Options{Target: existing, BackupRoot: dir, Rules: rules.Default()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := New(tt.opts)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.True(t, errors.Is(err, ErrConfiguration), "configuration errors are tagged")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, op)
		})
	}
}

func TestApply(t *testing.T) {
	env := createTestEnv(t, unpatched)

	report, err := env.op.Apply(env.ctx, true)
	require.NoError(t, err)

	assert.Equal(t, ModeApply, report.Mode)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, 2, report.Analysis.Total)
	assert.Equal(t, filepath.Join(env.root, "20250102_030405", "database_processing.py"), report.BackupPath)
	require.NotNil(t, report.Patch)
	assert.Len(t, report.Patch.Changes, 3)
	assert.True(t, report.Patch.Written)
	require.NotNil(t, report.Verification)
	assert.True(t, report.Verification.Clean)
	assert.Equal(t, 2, report.Verification.Secure.Total)

	assert.Equal(t, patched, env.read(t))

	pristine, err := os.ReadFile(report.PristinePath)
	require.NoError(t, err)
	assert.Equal(t, unpatched, string(pristine))
}

func TestApply_SecondRunIsNoOp(t *testing.T) {
	env := createTestEnv(t, unpatched)

	_, err := env.op.Apply(env.ctx, true)
	require.NoError(t, err)
	afterFirst := env.read(t)

	report, err := env.op.Apply(env.ctx, true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoOp, report.Outcome)
	assert.Nil(t, report.Patch, "applier does not run when nothing is detected")
	assert.Empty(t, report.BackupPath, "no backup is taken for a no-op")
	assert.Equal(t, afterFirst, env.read(t))
}

func TestApply_WithoutBackup(t *testing.T) {
	env := createTestEnv(t, unpatched)

	report, err := env.op.Apply(env.ctx, false)
	require.NoError(t, err)
	assert.Equal(t, ModeApplyNoBackup, report.Mode)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Empty(t, report.BackupPath)

	_, err = os.Stat(report.PristinePath)
	assert.True(t, os.IsNotExist(err), "no pristine copy is made")
	_, err = os.Stat(env.root)
	assert.True(t, os.IsNotExist(err), "backup root is not created")
}

func TestApply_ResidueIsWarning(t *testing.T) {
	env := createTestEnv(t, "A = 'ftp://ftp.genome.jp/a'\nB = 'ftp://mirror.unknown.org/b'\n")

	report, err := env.op.Apply(env.ctx, true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWarning, report.Outcome)
	assert.True(t, report.Patch.Written)
	assert.False(t, report.Verification.Clean)
	assert.Equal(t, []string{"ftp://mirror.unknown.org/b"}, report.Verification.Legacy.Distinct)
	assert.Equal(t, 2, OutcomeWarning.ExitCode())
}

func TestApply_LegacyButNoRuleMatches(t *testing.T) {
	env := createTestEnv(t, "B = 'ftp://mirror.unknown.org/b'\n")

	report, err := env.op.Apply(env.ctx, false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoOp, report.Outcome)
	assert.False(t, report.Patch.Changed())
	assert.Equal(t, "B = 'ftp://mirror.unknown.org/b'\n", env.read(t))
}

func TestPreview(t *testing.T) {
	env := createTestEnv(t, unpatched)

	report, err := env.op.Preview(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, ModePreview, report.Mode)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.True(t, report.Patch.Preview)
	assert.False(t, report.Patch.Written)
	assert.Equal(t, patched, report.Patch.After)
	assert.Nil(t, report.Verification)

	assert.Equal(t, unpatched, env.read(t), "target is untouched")
	_, err = os.Stat(report.PristinePath)
	assert.True(t, os.IsNotExist(err), "no snapshot is written")
}

func TestRestore(t *testing.T) {
	t.Run("nothing_to_restore", func(t *testing.T) {
		env := createTestEnv(t, patched)

		report, err := env.op.Restore(env.ctx)
		require.NoError(t, err)
		assert.Equal(t, OutcomeNoOp, report.Outcome)
		assert.False(t, report.Restored)
		assert.Nil(t, report.Verification)
		assert.Equal(t, patched, env.read(t))
	})

	t.Run("round_trip", func(t *testing.T) {
		env := createTestEnv(t, unpatched)

		_, err := env.op.Apply(env.ctx, true)
		require.NoError(t, err)
		require.Equal(t, patched, env.read(t))

		report, err := env.op.Restore(env.ctx)
		require.NoError(t, err)
		assert.True(t, report.Restored)
		assert.Equal(t, unpatched, env.read(t))
		assert.Equal(t, OutcomeWarning, report.Outcome, "restored original has ftp references again")
		assert.Equal(t, 2, report.Verification.Legacy.Total)
	})
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantOutcome Outcome
		wantClean   bool
	}{
		{name: "https_only", content: patched, wantOutcome: OutcomeSuccess, wantClean: true},
		{name: "unpatched", content: unpatched, wantOutcome: OutcomeWarning, wantClean: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := createTestEnv(t, tt.content)

			report, err := env.op.Verify(env.ctx)
			require.NoError(t, err)
			assert.Equal(t, ModeVerify, report.Mode)
			assert.Equal(t, tt.wantOutcome, report.Outcome)
			assert.Equal(t, tt.wantClean, report.Verification.Clean)
			assert.Equal(t, tt.content, env.read(t))
		})
	}
}

func TestAnalyze(t *testing.T) {
	env := createTestEnv(t, patched)

	report, err := env.op.Analyze(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoOp, report.Outcome)
	assert.True(t, report.Analysis.Empty())
}

func TestBackups(t *testing.T) {
	env := createTestEnv(t, unpatched)

	snapshots, err := env.op.Backups(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	_, err = env.op.Apply(env.ctx, true)
	require.NoError(t, err)

	snapshots, err = env.op.Backups(env.ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, filepath.Join(env.root, "20250102_030405", "database_processing.py"), snapshots[0].Path)
}

func TestApply_TargetRemovedAfterConstruction(t *testing.T) {
	env := createTestEnv(t, unpatched)
	require.NoError(t, os.Remove(env.target))

	_, err := env.op.Apply(env.ctx, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyzing target")
}
