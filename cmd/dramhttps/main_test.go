package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/dramhttps/pkg/config"
	"github.com/walteh/dramhttps/pkg/rules"
)

const unpatched = `KOFAM_URL = 'ftp://ftp.genome.jp/pub/db/kofam/profiles.tar.gz'
PFAM_URL = 'ftp://ftp.ebi.ac.uk/pub/databases/Pfam/current_release/Pfam-A.hmm.dat.gz'
`

func TestExecute(t *testing.T) {
	color.NoColor = true
	pterm.DisableStyling()
	defer func() {
		color.NoColor = false
		pterm.EnableStyling()
	}()

	dir := t.TempDir()
	t.Setenv("HOME", dir)

	pkgDir := filepath.Join(dir, "mag_annotator")
	target := filepath.Join(pkgDir, "database_processing.py")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	require.NoError(t, os.WriteFile(target, []byte(unpatched), 0o644))

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	run := func(args ...string) (int, string) {
		out := &bytes.Buffer{}
		code := execute(ctx, append(args, "--dram-path", pkgDir), out)
		return code, out.String()
	}

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantOutput string
	}{
		{name: "analyze_finds_references", args: []string{"analyze"}, wantCode: 0, wantOutput: "2 ftp:// references"},
		{name: "verify_before_patch_warns", args: []string{"verify"}, wantCode: 2, wantOutput: "finished with warnings"},
		{name: "dry_run_shows_diff", args: []string{"patch", "--dry-run"}, wantCode: 0, wantOutput: "+ KOFAM_URL = 'https://www.genome.jp/ftp/pub/db/kofam/profiles.tar.gz'"},
		{name: "patch", args: []string{"patch"}, wantCode: 0, wantOutput: "apply: done"},
		{name: "second_patch_is_noop", args: []string{"patch"}, wantCode: 0, wantOutput: "apply: nothing to do"},
		{name: "verify_after_patch", args: []string{"verify"}, wantCode: 0, wantOutput: "verified: 0 ftp:// references"},
		{name: "backups", args: []string{"backups"}, wantCode: 0, wantOutput: filepath.Join(dir, "DRAM_backups")},
		{name: "restore", args: []string{"restore"}, wantCode: 2, wantOutput: "restored " + target},
		{name: "bad_mode_flag", args: []string{"patch", "--bogus"}, wantCode: 1, wantOutput: "unknown flag"},
	}

	// steps build on each other
	for _, tt := range tests {
		code, out := run(tt.args...)
		assert.Equal(t, tt.wantCode, code, "%s: exit code", tt.name)
		assert.Contains(t, out, tt.wantOutput, "%s: output", tt.name)
	}

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, unpatched, string(got), "restore puts the original back")
}

func TestExecute_MissingTarget(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	dir := t.TempDir()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	out := &bytes.Buffer{}
	code := execute(ctx, []string{"analyze", "--dram-path", filepath.Join(dir, "nope"), "--backup-root", dir}, out)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "target file not found")
}

func TestVersionCmd(t *testing.T) {
	out := &bytes.Buffer{}
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	code := execute(ctx, []string{"version"}, out)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "dramhttps ")
	assert.Contains(t, out.String(), fmt.Sprintf("rules: %d url, %d bug", len(rules.Default().URL()), len(rules.Default().Bug())))
	assert.Contains(t, out.String(), "patches database_processing.py")
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name     string
		info     *VersionInfo
		expected string
	}{
		{
			name: "release",
			info: &VersionInfo{Version: "v1.2.0", Revision: "abc123", GoVersion: "go1.23.5", Platform: "linux/amd64", URLRules: 7, BugRules: 1, DefaultTarget: "database_processing.py", ConfigFile: ".dramhttps.yaml"},
			expected: "dramhttps v1.2.0 (abc123) go1.23.5 linux/amd64\n" +
				"rules: 7 url, 1 bug\n" +
				"patches database_processing.py, reads .dramhttps.yaml when present\n",
		},
		{
			name: "no_revision",
			info: &VersionInfo{Version: "dev", GoVersion: "go1.23.5", Platform: "darwin/arm64", DefaultTarget: "x.py", ConfigFile: "c.yaml"},
			expected: "dramhttps dev go1.23.5 darwin/arm64\n" +
				"rules: 0 url, 0 bug\n" +
				"patches x.py, reads c.yaml when present\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatVersion(tt.info))
		})
	}
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, len(rules.Default().URL()), info.URLRules)
	assert.Equal(t, len(rules.Default().Bug()), info.BugRules)
	assert.Equal(t, config.DefaultTargetName, info.DefaultTarget)
	assert.NotEmpty(t, info.Version)
}

func TestExecute_CommentOnlyDefaultConfig(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".dramhttps.yaml"), []byte("# nothing configured yet\n"), 0o644))
	target := filepath.Join(dir, "database_processing.py")
	require.NoError(t, os.WriteFile(target, []byte(unpatched), 0o644))

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	out := &bytes.Buffer{}
	code := execute(ctx, []string{"analyze", "--target", target, "--backup-root", dir}, out)
	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "2 ftp:// references")
}
