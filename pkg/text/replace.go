package text

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/dramhttps/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 🧾 Change records one rule that fired during a replacement pass
type Change struct {
	Category    rules.Category
	Pattern     string
	Replacement string
	Count       int
}

// ReplacementResult is the outcome of applying a rule list to some content
type ReplacementResult struct {
	OriginalContent  []byte
	ModifiedContent  []byte
	Changes          []Change
	ReplacementCount int
	WasModified      bool
}

// RegexpReplacer applies rules in order, each over the output of the previous one
type RegexpReplacer struct{}

// NewRegexpReplacer creates a new RegexpReplacer
func NewRegexpReplacer() *RegexpReplacer {
	return &RegexpReplacer{}
}

// ReplaceText reads all of content and applies every rule to it
func (r *RegexpReplacer) ReplaceText(ctx context.Context, content io.Reader, rs []rules.Rule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	return r.ReplaceString(ctx, string(originalContent), rs)
}

// ReplaceString is ReplaceText for content already in memory
func (r *RegexpReplacer) ReplaceString(ctx context.Context, content string, rs []rules.Rule) (*ReplacementResult, error) {
	logger := zerolog.Ctx(ctx)

	result := &ReplacementResult{
		OriginalContent: []byte(content),
	}

	current := content
	for i, rule := range rs {
		re, err := rule.Compile()
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}

		count := len(re.FindAllStringIndex(current, -1))
		if count == 0 {
			continue
		}

		current = re.ReplaceAllLiteralString(current, rule.Replacement)
		result.Changes = append(result.Changes, Change{
			Category:    rule.Category,
			Pattern:     rule.Pattern,
			Replacement: rule.Replacement,
			Count:       count,
		})
		result.ReplacementCount += count

		logger.Debug().
			Str("category", rule.Category.String()).
			Str("pattern", rule.Pattern).
			Int("count", count).
			Msg("rule matched")
	}

	result.WasModified = len(result.Changes) > 0
	result.ModifiedContent = []byte(current)
	return result, nil
}
