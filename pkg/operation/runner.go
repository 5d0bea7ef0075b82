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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Run dispatches mode to the matching Operator method.
// Every mode runs synchronously; there is nothing to overlap within one target.
func Run(ctx context.Context, op Operator, mode Mode) (*Report, error) {
	logger := zerolog.Ctx(ctx).With().Str("mode", string(mode)).Logger()
	ctx = logger.WithContext(ctx)

	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("operation cancelled: %w", err)
	}

	var (
		report *Report
		err    error
	)
	switch mode {
	case ModeAnalyze:
		report, err = op.Analyze(ctx)
	case ModePreview:
		report, err = op.Preview(ctx)
	case ModeApply:
		report, err = op.Apply(ctx, true)
	case ModeApplyNoBackup:
		report, err = op.Apply(ctx, false)
	case ModeRestore:
		report, err = op.Restore(ctx)
	case ModeVerify:
		report, err = op.Verify(ctx)
	default:
		return nil, errors.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("outcome", report.Outcome.String()).Msg("operation complete")
	return report, nil
}
