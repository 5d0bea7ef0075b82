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

package rules

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Category tags a rule with the kind of change it makes
type Category int

const (
	CategoryURL Category = iota // transport scheme rewrite
	CategoryBug                 // targeted source fix
)

// String returns the short tag used in change reports
func (c Category) String() string {
	switch c {
	case CategoryURL:
		return "URL"
	case CategoryBug:
		return "BUG"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory maps a config tag ("url", "bug") to a Category
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "url":
		return CategoryURL, nil
	case "bug", "bugfix", "bug_fix":
		return CategoryBug, nil
	default:
		return 0, errors.Errorf("unknown rule category %q", s)
	}
}

// 📏 Rule is a single pattern -> replacement pair.
//
// Pattern uses RE2 syntax and is matched against the whole file text, not line by line.
// Replacement is inserted literally; "$1" style expansion is not performed.
type Rule struct {
	Category    Category
	Pattern     string
	Replacement string
	Reference   string // optional note, usually an upstream issue link
}

// Compile compiles the rule's pattern
func (r Rule) Compile() (*regexp.Regexp, error) {
	if r.Pattern == "" {
		return nil, errors.New("pattern is required")
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return nil, errors.Errorf("compiling pattern %q: %w", r.Pattern, err)
	}
	return re, nil
}

// Validate checks the rule compiles and that its replacement cannot be matched by its
// own pattern. The second condition is what makes a second apply pass a no-op.
func (r Rule) Validate() error {
	re, err := r.Compile()
	if err != nil {
		return err
	}
	if re.MatchString(r.Replacement) {
		return errors.Errorf("replacement %q matches its own pattern %q", r.Replacement, r.Pattern)
	}
	return nil
}

// 📚 Set is the ordered, categorized rule collection.
//
// URL rules always run before bug rules. A rule author adding a bug fix that depends on
// URL-shaped text must write its pattern against the already rewritten form.
type Set struct {
	url []Rule
	bug []Rule
}

// New builds a validated Set. Each rule must carry the category of the list it is in.
func New(url, bug []Rule) (*Set, error) {
	s := &Set{
		url: append([]Rule(nil), url...),
		bug: append([]Rule(nil), bug...),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// URL returns a copy of the URL rules in application order
func (s *Set) URL() []Rule {
	return append([]Rule(nil), s.url...)
}

// Bug returns a copy of the bug-fix rules in application order
func (s *Set) Bug() []Rule {
	return append([]Rule(nil), s.bug...)
}

// All returns every rule in application order: URL rules, then bug-fix rules
func (s *Set) All() []Rule {
	all := make([]Rule, 0, len(s.url)+len(s.bug))
	all = append(all, s.url...)
	all = append(all, s.bug...)
	return all
}

// Len returns the number of rules in the set
func (s *Set) Len() int {
	return len(s.url) + len(s.bug)
}

// Validate checks every rule in the set
func (s *Set) Validate() error {
	check := func(list []Rule, want Category) error {
		for i, r := range list {
			if r.Category != want {
				return errors.Errorf("%s rule %d: category is %s", want, i, r.Category)
			}
			if err := r.Validate(); err != nil {
				return errors.Errorf("%s rule %d: %w", want, i, err)
			}
		}
		return nil
	}
	if err := check(s.url, CategoryURL); err != nil {
		return err
	}
	if err := check(s.bug, CategoryBug); err != nil {
		return err
	}
	return s.validateCrossRules()
}

// validateCrossRules rejects a set where one rule's replacement is matched by any pattern
// in the set. Such rules feed each other and a second apply pass would change the text again.
func (s *Set) validateCrossRules() error {
	type indexed struct {
		rule  Rule
		index int
		re    *regexp.Regexp
	}

	var all []indexed
	for _, list := range [][]Rule{s.url, s.bug} {
		for i, r := range list {
			re, err := r.Compile()
			if err != nil {
				return err
			}
			all = append(all, indexed{rule: r, index: i, re: re})
		}
	}

	for _, from := range all {
		for _, to := range all {
			if to.re.MatchString(from.rule.Replacement) {
				return errors.Errorf("%s rule %d: replacement %q matches the pattern of %s rule %d",
					from.rule.Category, from.index, from.rule.Replacement, to.rule.Category, to.index)
			}
		}
	}
	return nil
}

// With returns a new Set with extra rules appended to the end of their category list
func (s *Set) With(extra ...Rule) (*Set, error) {
	url, bug := s.URL(), s.Bug()
	for _, r := range extra {
		switch r.Category {
		case CategoryURL:
			url = append(url, r)
		case CategoryBug:
			bug = append(bug, r)
		default:
			return nil, errors.Errorf("rule %q: unknown category %d", r.Pattern, r.Category)
		}
	}
	return New(url, bug)
}
