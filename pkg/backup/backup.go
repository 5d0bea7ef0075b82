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

package backup

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// PristineSuffix marks the untouched original kept next to the target
	PristineSuffix = ".original"

	// TimestampLayout names each timestamped backup directory
	TimestampLayout = "20060102_150405"
)

// 📸 Snapshot is one timestamped copy of the target
type Snapshot struct {
	Path    string
	TakenAt time.Time
}

// 💾 Manager owns the snapshots of a single target file.
//
// Two kinds of snapshot are kept: a pristine copy next to the target, written once and never
// overwritten, and an archival copy per backup under backupRoot/<timestamp>/.
type Manager struct {
	target     string
	backupRoot string
	now        func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces time.Now for naming timestamped backups
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// 🏭 NewManager creates a Manager for target storing timestamped copies under backupRoot
func NewManager(target, backupRoot string, opts ...Option) *Manager {
	m := &Manager{
		target:     filepath.Clean(target),
		backupRoot: filepath.Clean(backupRoot),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PristinePath returns where the untouched original lives
func (m *Manager) PristinePath() string {
	return m.target + PristineSuffix
}

// BackupRoot returns the directory holding timestamped backups
func (m *Manager) BackupRoot() string {
	return m.backupRoot
}

// HasPristine reports whether a pristine snapshot exists
func (m *Manager) HasPristine() (bool, error) {
	return fileExists(m.PristinePath())
}

// CreateBackup copies the target into a new timestamped directory and, on the first call
// for this target, also saves the pristine copy. It returns the timestamped path.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	logger := zerolog.Ctx(ctx)

	dir := filepath.Join(m.backupRoot, m.now().Format(TimestampLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Errorf("creating backup directory: %w", err)
	}

	backupPath := filepath.Join(dir, filepath.Base(m.target))
	if err := copyFile(m.target, backupPath); err != nil {
		return "", errors.Errorf("creating backup: %w", err)
	}
	logger.Debug().Str("path", backupPath).Msg("timestamped backup written")

	hasPristine, err := m.HasPristine()
	if err != nil {
		return "", err
	}
	if !hasPristine {
		if err := copyFile(m.target, m.PristinePath()); err != nil {
			return "", errors.Errorf("saving pristine copy: %w", err)
		}
		logger.Debug().Str("path", m.PristinePath()).Msg("pristine copy written")
	}

	return backupPath, nil
}

// RestoreBackup overwrites the target with the pristine copy. It returns false, and leaves
// the target alone, when no pristine copy exists.
func (m *Manager) RestoreBackup(ctx context.Context) (bool, error) {
	hasPristine, err := m.HasPristine()
	if err != nil {
		return false, err
	}
	if !hasPristine {
		zerolog.Ctx(ctx).Debug().Str("path", m.PristinePath()).Msg("no pristine copy to restore")
		return false, nil
	}

	if err := copyFile(m.PristinePath(), m.target); err != nil {
		return false, errors.Errorf("restoring from pristine copy: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("from", m.PristinePath()).Str("to", m.target).Msg("restored target")
	return true, nil
}

// ListBackups returns the timestamped backups of this target, newest first.
// Directories whose names are not timestamps are ignored.
func (m *Manager) ListBackups(ctx context.Context) ([]Snapshot, error) {
	exists, err := fileExists(m.backupRoot)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(m.backupRoot), "*/*", doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("listing backups: %w", err)
	}

	base := filepath.Base(m.target)
	snapshots := make([]Snapshot, 0, len(matches))
	for _, match := range matches {
		if path.Base(match) != base {
			continue
		}
		stamp := filepath.Base(filepath.Dir(filepath.FromSlash(match)))
		takenAt, err := time.ParseInLocation(TimestampLayout, stamp, time.Local)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("dir", stamp).Msg("skipping non-backup directory")
			continue
		}
		snapshots = append(snapshots, Snapshot{
			Path:    filepath.Join(m.backupRoot, filepath.FromSlash(match)),
			TakenAt: takenAt,
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].TakenAt.After(snapshots[j].TakenAt)
	})
	return snapshots, nil
}

func fileExists(name string) (bool, error) {
	_, err := os.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("checking %s: %w", name, err)
}

// copyFile copies src over dst, keeping src's permission bits
func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("reading source file info: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file: %w", err)
	}

	if err := destination.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}

	return nil
}
