package config

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dramhttps/pkg/operation"
)

const (
	// DefaultTargetName is the module inside mag_annotator that carries the database URLs
	DefaultTargetName = "database_processing.py"
	// DefaultBackupDir is created under the user's home directory
	DefaultBackupDir = "DRAM_backups"
	// DefaultConfigName is looked up in the working directory when --config is not given
	DefaultConfigName = ".dramhttps.yaml"
)

// ErrTargetNotFound is a configuration error for a target path with no file behind it
var ErrTargetNotFound = errors.BaseWrap(operation.ErrConfiguration, "target file not found")

// 🔍 Locator finds the installed mag_annotator package directory
type Locator interface {
	LocatePackage(ctx context.Context) (string, error)
}

// LocatorFunc adapts a plain function to Locator
type LocatorFunc func(ctx context.Context) (string, error)

func (f LocatorFunc) LocatePackage(ctx context.Context) (string, error) {
	return f(ctx)
}

// Overrides are command-line values. They win over the config file.
type Overrides struct {
	DramPath   string
	Target     string
	BackupRoot string
}

// Resolved is the final set of paths an operation works on
type Resolved struct {
	Target     string
	BackupRoot string
}

// 🎯 Resolve picks the target file and backup root.
//
// Target precedence: --target, config target, --dram-path, config dram_path, locator.
// Backup root precedence: --backup-root, config backup_root, ~/DRAM_backups.
func Resolve(ctx context.Context, cfg *Config, flags Overrides, loc Locator) (*Resolved, error) {
	logger := zerolog.Ctx(ctx)
	if cfg == nil {
		cfg = &Config{}
	}

	target, err := resolveTarget(ctx, cfg, flags, loc)
	if err != nil {
		return nil, err
	}

	target, err = expandHome(target)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WithMessagef(ErrTargetNotFound, "%s", target)
		}
		return nil, errors.Errorf("checking target: %w", err)
	}
	if info.IsDir() {
		return nil, errors.WithMessagef(operation.ErrConfiguration, "target %s is a directory", target)
	}

	root := firstNonEmpty(flags.BackupRoot, cfg.BackupRoot)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Errorf("finding home directory: %w", err)
		}
		root = filepath.Join(home, DefaultBackupDir)
	}
	root, err = expandHome(root)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("target", target).Str("backup_root", root).Msg("resolved paths")

	return &Resolved{Target: target, BackupRoot: root}, nil
}

func resolveTarget(ctx context.Context, cfg *Config, flags Overrides, loc Locator) (string, error) {
	if t := firstNonEmpty(flags.Target, cfg.Target); t != "" {
		return t, nil
	}
	if dir := firstNonEmpty(flags.DramPath, cfg.DramPath); dir != "" {
		return filepath.Join(dir, DefaultTargetName), nil
	}
	if loc == nil {
		return "", errors.WithMessage(operation.ErrConfiguration, "no target given and no locator available")
	}
	dir, err := loc.LocatePackage(ctx)
	if err != nil {
		return "", errors.Errorf("locating mag_annotator: %w", err)
	}
	return filepath.Join(dir, DefaultTargetName), nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("expanding %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// 🐍 PythonLocator asks the active Python interpreter where mag_annotator is installed
type PythonLocator struct {
	// Interpreters are tried in order. Empty means python3 then python.
	Interpreters []string
}

const locateScript = "import os, mag_annotator; print(os.path.dirname(mag_annotator.__file__))"

func (l *PythonLocator) LocatePackage(ctx context.Context) (string, error) {
	logger := zerolog.Ctx(ctx)

	interpreters := l.Interpreters
	if len(interpreters) == 0 {
		interpreters = []string{"python3", "python"}
	}

	var lastErr error
	for _, py := range interpreters {
		bin, err := exec.LookPath(py)
		if err != nil {
			lastErr = err
			continue
		}
		out, err := exec.CommandContext(ctx, bin, "-c", locateScript).Output()
		if err != nil {
			logger.Debug().Err(err).Str("interpreter", bin).Msg("mag_annotator import failed")
			lastErr = err
			continue
		}
		dir := strings.TrimSpace(string(out))
		if dir != "" {
			logger.Debug().Str("interpreter", bin).Str("dir", dir).Msg("located mag_annotator")
			return dir, nil
		}
	}

	if lastErr == nil {
		lastErr = errors.New("interpreter printed nothing")
	}
	return "", errors.Errorf("mag_annotator is not importable (activate the DRAM environment or pass --dram-path): %w", lastErr)
}
