package verify

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/dramhttps/pkg/analyze"
	"gitlab.com/tozd/go/errors"
)

// ✅ Verification is the postcondition check result.
// Clean is false when legacy references remain; that is a warning, not an error.
type Verification struct {
	Legacy *analyze.Report
	Secure *analyze.Report
	Clean  bool
}

// Verifier re-scans the target after a patch
type Verifier struct {
	analyzer *analyze.Analyzer
}

// New creates a Verifier reading through analyzer
func New(analyzer *analyze.Analyzer) *Verifier {
	return &Verifier{analyzer: analyzer}
}

// Verify counts remaining legacy and current secure references in the target.
// Only I/O failures are returned as errors.
func (v *Verifier) Verify(ctx context.Context) (*Verification, error) {
	legacy, err := v.analyzer.DetectLegacyReferences(ctx)
	if err != nil {
		return nil, errors.Errorf("scanning for legacy references: %w", err)
	}

	secure, err := v.analyzer.DetectSecureReferences(ctx)
	if err != nil {
		return nil, errors.Errorf("scanning for secure references: %w", err)
	}

	result := &Verification{
		Legacy: legacy,
		Secure: secure,
		Clean:  legacy.Empty(),
	}

	event := zerolog.Ctx(ctx).Debug()
	if !result.Clean {
		event = zerolog.Ctx(ctx).Warn().Strs("residue", legacy.Distinct)
	}
	event.
		Int("legacy", legacy.Total).
		Int("secure", secure.Total).
		Bool("clean", result.Clean).
		Msg("verified target")

	return result, nil
}
