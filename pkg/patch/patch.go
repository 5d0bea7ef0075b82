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

package patch

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/dramhttps/pkg/rules"
	"github.com/walteh/dramhttps/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📝 Result describes one apply pass
type Result struct {
	Changes []text.Change
	Before  string
	After   string
	Preview bool // nothing was written because the pass was a preview
	Written bool // the target was overwritten with After
}

// Changed reports whether any rule fired
func (r *Result) Changed() bool {
	return len(r.Changes) > 0
}

// Replacements returns the total match count across all rules
func (r *Result) Replacements() int {
	n := 0
	for _, c := range r.Changes {
		n += c.Count
	}
	return n
}

// Diff renders the line diff between the original and transformed text
func (r *Result) Diff() string {
	return text.LineDiff(r.Before, r.After)
}

// 🔧 Applier rewrites the target in place using a rule set
type Applier struct {
	target   string
	rules    *rules.Set
	replacer *text.RegexpReplacer
}

// New creates an Applier for target
func New(target string, set *rules.Set) *Applier {
	return &Applier{
		target:   target,
		rules:    set,
		replacer: text.NewRegexpReplacer(),
	}
}

// Apply reads the target once, runs every rule over it in order, and writes the result
// back in a single write when at least one rule fired and previewOnly is false.
func (a *Applier) Apply(ctx context.Context, previewOnly bool) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	f, err := os.Open(a.target)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", a.target, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", a.target, err)
	}

	replaced, err := a.replacer.ReplaceText(ctx, f, a.rules.All())
	if err != nil {
		return nil, errors.Errorf("applying rules: %w", err)
	}

	result := &Result{
		Changes: replaced.Changes,
		Before:  string(replaced.OriginalContent),
		After:   string(replaced.ModifiedContent),
		Preview: previewOnly,
	}

	if !result.Changed() {
		logger.Debug().Str("target", a.target).Msg("no rule matched")
		return result, nil
	}

	if previewOnly {
		logger.Debug().Str("target", a.target).Int("rules", len(result.Changes)).Msg("preview only, not writing")
		return result, nil
	}

	if err := os.WriteFile(a.target, replaced.ModifiedContent, info.Mode().Perm()); err != nil {
		return nil, errors.Errorf("writing %s: %w", a.target, err)
	}
	result.Written = true

	logger.Debug().
		Str("target", a.target).
		Int("rules", len(result.Changes)).
		Int("replacements", result.Replacements()).
		Msg("target patched")

	return result, nil
}
