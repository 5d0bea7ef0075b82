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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/dramhttps/pkg/analyze"
	"github.com/walteh/dramhttps/pkg/backup"
	"github.com/walteh/dramhttps/pkg/rules"
	"github.com/walteh/dramhttps/pkg/text"
	"github.com/walteh/dramhttps/pkg/verify"
)

// 🎨 Display configuration
const (
	itemIndent    = 4  // spaces to indent list entries
	categoryWidth = 5  // Width for rule category
	patternWidth  = 45 // Width for rule pattern
	countWidth    = 6  // Width for replacement count
)

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger. Console lines are mirrored to zerolog at debug level.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatChange formats a rule application for display
func (l *Logger) formatChange(c text.Change) string {
	categoryColor := color.FgBlue
	if c.Category == rules.CategoryBug {
		categoryColor = color.FgMagenta
	}

	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", itemIndent, ""),
		color.New(color.FgGreen).Sprint("⟳"),
		color.New(categoryColor).Sprint(fmt.Sprintf("%-*s", categoryWidth, c.Category.String())),
		fmt.Sprintf("%-*s", patternWidth, truncate(c.Pattern, patternWidth)),
		fmt.Sprintf("%*d", countWidth, c.Count),
		color.New(color.Faint).Sprint("→ "+c.Replacement))
}

// 📝 LogChange logs one applied rule
func (l *Logger) LogChange(ctx context.Context, c text.Change) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatChange(c))

	l.zlog.Debug().
		Str("category", c.Category.String()).
		Str("pattern", c.Pattern).
		Str("replacement", c.Replacement).
		Int("count", c.Count).
		Msg("rule applied")
}

// 📝 LogAnalysis prints the legacy references found in target
func (l *Logger) LogAnalysis(ctx context.Context, target string, r *analyze.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "[analyzing %s]\n", color.New(color.FgCyan).Sprint(target))

	if r == nil || r.Empty() {
		fmt.Fprintf(l.console, "%s%s\n", strings.Repeat(" ", itemIndent), color.New(color.Faint).Sprint("no ftp:// references"))
		return
	}

	fmt.Fprintf(l.console, "%s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d ftp:// references", r.Total),
		color.New(color.Faint).Sprintf("• %d distinct", len(r.Distinct)))
	for _, u := range r.Distinct {
		fmt.Fprintf(l.console, "%s%s %s\n", strings.Repeat(" ", itemIndent), color.New(color.FgYellow).Sprint("-"), u)
	}

	l.zlog.Debug().
		Str("target", target).
		Int("total", r.Total).
		Int("distinct", len(r.Distinct)).
		Msg("analysis")
}

// 📝 LogDiff prints a line diff, removals in red and additions in green
func (l *Logger) LogDiff(diff string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(l.console, color.New(color.FgRed).Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(l.console, color.New(color.FgGreen).Sprint(line))
		default:
			fmt.Fprintln(l.console, line)
		}
	}
}

// 📝 LogVerification prints the post-patch scan
func (l *Logger) LogVerification(ctx context.Context, v *verify.Verification) {
	if v == nil {
		return
	}

	secure := 0
	if v.Secure != nil {
		secure = v.Secure.Total
	}

	if v.Clean {
		l.Successf("verified: 0 ftp:// references, %d https:// references", secure)
		return
	}

	l.Warningf("verified: %d ftp:// references remain, %d https:// references", v.Legacy.Total, secure)
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range v.Legacy.Distinct {
		fmt.Fprintf(l.console, "%s%s %s\n", strings.Repeat(" ", itemIndent), color.New(color.FgRed).Sprint("✗"), u)
	}
}

// 📝 LogBackups prints snapshots newest first
func (l *Logger) LogBackups(ctx context.Context, snapshots []backup.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(snapshots) == 0 {
		fmt.Fprintf(l.console, "%s%s\n", strings.Repeat(" ", itemIndent), color.New(color.Faint).Sprint("no backups"))
		return
	}
	for _, s := range snapshots {
		fmt.Fprintf(l.console, "%s%s %s %s\n",
			strings.Repeat(" ", itemIndent),
			color.New(color.FgCyan).Sprint("•"),
			color.New(color.FgYellow).Sprint(s.TakenAt.Format(backup.TimestampLayout)),
			s.Path)
	}
	l.zlog.Debug().Int("count", len(snapshots)).Msg("backups listed")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("dramhttps")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Debug().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// truncate counts runes so multi-byte text is never split
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
