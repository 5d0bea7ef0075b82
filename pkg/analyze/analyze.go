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

// Package analyze scans the target file for URL references without modifying it.
package analyze

import (
	"context"
	"os"
	"regexp"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Detection patterns. These match the scheme generically and are independent of the
// rewrite rules, so they also catch hosts no rule covers.
var (
	DefaultLegacyPattern = regexp.MustCompile(`ftp://[^\s'"]+`)
	DefaultSecurePattern = regexp.MustCompile(`https://[^\s'"]+`)
)

// 📊 Report lists what a scan found
type Report struct {
	Distinct []string // unique matches, in first-seen order
	Total    int      // every match, duplicates included
}

// Empty reports whether nothing matched
func (r *Report) Empty() bool {
	return r == nil || r.Total == 0
}

// Scan runs re over text
func Scan(text string, re *regexp.Regexp) *Report {
	matches := re.FindAllString(text, -1)
	report := &Report{Total: len(matches)}
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		report.Distinct = append(report.Distinct, m)
	}
	return report
}

// 🔍 Analyzer reads the target and reports legacy and secure scheme references
type Analyzer struct {
	target string
	legacy *regexp.Regexp
	secure *regexp.Regexp
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithLegacyPattern overrides the legacy scheme detection pattern
func WithLegacyPattern(re *regexp.Regexp) Option {
	return func(a *Analyzer) { a.legacy = re }
}

// WithSecurePattern overrides the new scheme detection pattern
func WithSecurePattern(re *regexp.Regexp) Option {
	return func(a *Analyzer) { a.secure = re }
}

// New creates an Analyzer bound to target
func New(target string, opts ...Option) *Analyzer {
	a := &Analyzer{
		target: target,
		legacy: DefaultLegacyPattern,
		secure: DefaultSecurePattern,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Target returns the file this analyzer reads
func (a *Analyzer) Target() string {
	return a.target
}

// DetectLegacyReferences reports every legacy scheme URL in the target
func (a *Analyzer) DetectLegacyReferences(ctx context.Context) (*Report, error) {
	return a.detect(ctx, a.legacy, "legacy")
}

// DetectSecureReferences reports every new scheme URL in the target
func (a *Analyzer) DetectSecureReferences(ctx context.Context) (*Report, error) {
	return a.detect(ctx, a.secure, "secure")
}

func (a *Analyzer) detect(ctx context.Context, re *regexp.Regexp, kind string) (*Report, error) {
	content, err := os.ReadFile(a.target)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", a.target, err)
	}

	report := Scan(string(content), re)

	zerolog.Ctx(ctx).Debug().
		Str("target", a.target).
		Str("kind", kind).
		Int("total", report.Total).
		Int("distinct", len(report.Distinct)).
		Msg("scanned target")

	return report, nil
}
