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

package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/dramhttps/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📏 RuleConfig is an extra rewrite rule supplied by the user
type RuleConfig struct {
	Category    string `json:"category" yaml:"category" hcl:"category"`
	Pattern     string `json:"pattern" yaml:"pattern" hcl:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement" hcl:"replacement"`
	Reference   string `json:"reference,omitempty" yaml:"reference,omitempty" hcl:"reference,optional"`
}

// 📚 Config is the on-disk configuration. Every field is optional.
type Config struct {
	// DramPath is the mag_annotator package directory
	DramPath string `json:"dram_path,omitempty" yaml:"dram_path,omitempty" hcl:"dram_path,optional"`
	// Target overrides DramPath/<DefaultTargetName>
	Target string `json:"target,omitempty" yaml:"target,omitempty" hcl:"target,optional"`
	// BackupRoot overrides ~/DRAM_backups
	BackupRoot string `json:"backup_root,omitempty" yaml:"backup_root,omitempty" hcl:"backup_root,optional"`
	// Rules are appended to the shipped rule set
	Rules []RuleConfig `json:"rules,omitempty" yaml:"rules,omitempty" hcl:"rule,block"`
}

// 🎯 LoadConfig loads the configuration from a file, choosing the parser by extension
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	cfg, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOptional is LoadConfig, except a missing file yields an empty Config
func LoadOptional(ctx context.Context, path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
		return &Config{}, nil
	}
	return LoadConfig(ctx, path)
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	for i, r := range cfg.Rules {
		if _, err := rules.ParseCategory(r.Category); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
		if strings.TrimSpace(r.Pattern) == "" {
			return errors.Errorf("rule %d: pattern is required", i)
		}
	}
	return nil
}

// ExtraRules converts the configured rules into rules.Rule values
func (cfg *Config) ExtraRules() ([]rules.Rule, error) {
	out := make([]rules.Rule, 0, len(cfg.Rules))
	for i, r := range cfg.Rules {
		category, err := rules.ParseCategory(r.Category)
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}
		out = append(out, rules.Rule{
			Category:    category,
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
			Reference:   r.Reference,
		})
	}
	return out, nil
}

// RuleSet returns the shipped rules extended with the configured ones
func (cfg *Config) RuleSet() (*rules.Set, error) {
	extra, err := cfg.ExtraRules()
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return rules.Default(), nil
	}
	set, err := rules.Default().With(extra...)
	if err != nil {
		return nil, errors.Errorf("building rule set: %w", err)
	}
	return set, nil
}
