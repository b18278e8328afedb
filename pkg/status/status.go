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

package status

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome is what happened to a file or entry during a run
type Outcome int

const (
	OutcomeUnknown   Outcome = iota
	OutcomeSynced            // Destination was written
	OutcomeUnchanged         // Destination already matched
	OutcomeWouldSync         // Preview only, destination differs
	OutcomeSkipped           // Nothing was attempted, see Reason
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeSynced:
		return "synced"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeWouldSync:
		return "would-sync"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Counts reports whether the outcome adds to the run total
func (o Outcome) Counts() bool {
	return o == OutcomeSynced || o == OutcomeWouldSync
}

// 📄 EntryResult records one manifest entry
type EntryResult struct {
	Source      string
	Destination string
	IsDir       bool
	Transformed bool
	Outcome     Outcome
	Files       int    // Files synced (or that would be) for this entry
	Reason      string // Set when Outcome is OutcomeSkipped
}

// 📈 Summary is the result of one run
type Summary struct {
	DryRun  bool
	Entries []EntryResult
}

// Total is the number of files synced, or that would be in a preview
func (s *Summary) Total() int {
	total := 0
	for _, e := range s.Entries {
		total += e.Files
	}
	return total
}

// Count returns how many entries ended with the given outcome
func (s *Summary) Count(o Outcome) int {
	n := 0
	for _, e := range s.Entries {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

// Changed reports whether a real run wrote anything
func (s *Summary) Changed() bool {
	return !s.DryRun && s.Total() > 0
}

// 🔧 Manager owns writes into the package tree and tracks entry results
type Manager struct {
	fs        billy.Filesystem
	formatter FileFormatter
	dryRun    bool

	mu      sync.Mutex
	entries []EntryResult
}

// 🏭 New creates a new status manager over the package filesystem
func New(fs billy.Filesystem, dryRun bool) *Manager {
	return &Manager{
		fs:        fs,
		formatter: NewDefaultFileFormatter(),
		dryRun:    dryRun,
	}
}

// DryRun reports whether the manager is in preview mode
func (m *Manager) DryRun() bool {
	return m.dryRun
}

// Filesystem is the package tree writes go to
func (m *Manager) Filesystem() billy.Filesystem {
	return m.fs
}

// 💾 WriteFile creates parent directories and writes content atomically.
// An existing destination keeps its mode; a new one gets perm.
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte, perm os.FileMode) error {
	if m.dryRun {
		return errors.Errorf("refusing to write %s in dry-run mode", path)
	}

	if err := m.mkdirParent(path); err != nil {
		return err
	}

	if info, err := m.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	return m.WriteFileAtomic(ctx, path, content, perm)
}

// 📋 CopyFile writes content with the source file's mode and, where the
// filesystem supports it, its modification time
func (m *Manager) CopyFile(ctx context.Context, path string, content []byte, src os.FileInfo) error {
	if m.dryRun {
		return errors.Errorf("refusing to copy to %s in dry-run mode", path)
	}

	if err := m.mkdirParent(path); err != nil {
		return err
	}

	if err := m.WriteFileAtomic(ctx, path, content, src.Mode().Perm()); err != nil {
		return err
	}

	return m.Preserve(ctx, path, src)
}

func (m *Manager) mkdirParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}
	return nil
}

// 🔒 WriteFileAtomic writes to a temp file next to path and renames it over
// path, so readers never see a partial file.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte, perm os.FileMode) error {
	tempPath := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.pkgsync-%d", filepath.Base(path), time.Now().UnixNano()))

	f, err := m.fs.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		m.fs.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		m.fs.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := m.fs.Rename(tempPath, path); err != nil {
		m.fs.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

// ⏱️ Preserve copies a source mode and modification time onto path when the
// filesystem supports it
func (m *Manager) Preserve(ctx context.Context, path string, info os.FileInfo) error {
	ch, ok := m.fs.(billy.Change)
	if !ok {
		zerolog.Ctx(ctx).Trace().Str("path", path).Msg("filesystem cannot change metadata, keeping write time")
		return nil
	}
	if err := ch.Chmod(path, info.Mode().Perm()); err != nil {
		return errors.Errorf("setting mode on %s: %w", path, err)
	}
	if err := ch.Chtimes(path, info.ModTime(), info.ModTime()); err != nil {
		return errors.Errorf("setting times on %s: %w", path, err)
	}
	return nil
}

// 📝 Track records an entry result
func (m *Manager) Track(ctx context.Context, res EntryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, res)
	zerolog.Ctx(ctx).Debug().
		Str("source", res.Source).
		Str("destination", res.Destination).
		Str("outcome", res.Outcome.String()).
		Int("files", res.Files).
		Msg(m.formatter.FormatEntry(res))
}

// Summary returns the results tracked so far
func (m *Manager) Summary() *Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]EntryResult, len(m.entries))
	copy(entries, m.entries)
	return &Summary{DryRun: m.dryRun, Entries: entries}
}
