package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/dramhttps/pkg/analyze"
	"github.com/walteh/dramhttps/pkg/patch"
	"github.com/walteh/dramhttps/pkg/rules"
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantLegacy int
		wantSecure int
		wantClean  bool
	}{
		{
			name:       "clean",
			content:    "a = 'https://www.genome.jp/ftp/x'\nb = 'https://bcb.unl.edu/dbCAN2/y'\n",
			wantSecure: 2,
			wantClean:  true,
		},
		{
			name:       "residue_is_not_an_error",
			content:    "a = 'ftp://unknown.example.org/x'\nb = 'https://bcb.unl.edu/dbCAN2/y'\n",
			wantLegacy: 1,
			wantSecure: 1,
			wantClean:  false,
		},
		{
			name:      "empty_file",
			content:   "",
			wantClean: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			target := filepath.Join(t.TempDir(), "database_processing.py")
			require.NoError(t, os.WriteFile(target, []byte(tt.content), 0o644))

			result, err := New(analyze.New(target)).Verify(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLegacy, result.Legacy.Total)
			assert.Equal(t, tt.wantSecure, result.Secure.Total)
			assert.Equal(t, tt.wantClean, result.Clean)
		})
	}
}

func TestVerify_AfterPatch(t *testing.T) {
	ctx := context.Background()
	target := filepath.Join(t.TempDir(), "database_processing.py")
	require.NoError(t, os.WriteFile(target, []byte("ftp://ftp.genome.jp/pub/x.hmm"), 0o644))

	analyzer := analyze.New(target)
	before, err := analyzer.DetectSecureReferences(ctx)
	require.NoError(t, err)

	_, err = patch.New(target, rules.Default()).Apply(ctx, false)
	require.NoError(t, err)

	result, err := New(analyzer).Verify(ctx)
	require.NoError(t, err)
	assert.True(t, result.Clean)
	assert.Equal(t, 0, result.Legacy.Total)
	assert.GreaterOrEqual(t, result.Secure.Total, before.Total)
}

func TestVerify_MissingTarget(t *testing.T) {
	_, err := New(analyze.New(filepath.Join(t.TempDir(), "nope.py"))).Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning for legacy references")
}
