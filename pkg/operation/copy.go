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
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pkgsync/pkg/digest"
	"github.com/walteh/pkgsync/pkg/log"
	"github.com/walteh/pkgsync/pkg/status"
)

// 📁 SyncTree mirrors every non-ignored file under src into dst. Files are
// only added or overwritten. It returns how many files were synced, or would
// be in a preview.
func SyncTree(ctx context.Context, env *Env, src, dst string) (int, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := env.Root.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			env.Logger.Warningf("Source directory not found: %s", src)
			return 0, nil
		}
		return 0, errors.Errorf("checking %s: %w", src, err)
	}

	count := 0
	err := util.Walk(env.Root, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return errors.Errorf("sync cancelled: %w", err)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}

		if info.IsDir() {
			if rel != "." && env.Ignore.Match(path, rel) {
				logger.Trace().Str("dir", path).Msg("skipping ignored directory")
				return filepath.SkipDir
			}
			return nil
		}

		if env.Ignore.Match(path, rel) {
			logger.Trace().Str("file", path).Msg("skipping ignored file")
			return nil
		}

		info, ok := regularFile(env, path, info)
		if !ok {
			return nil
		}

		synced, err := syncTreeFile(ctx, env, path, filepath.Join(dst, rel), rel, info)
		if err != nil {
			return err
		}
		if synced {
			count++
		}
		return nil
	})
	if err != nil {
		return count, errors.Errorf("syncing directory %s: %w", src, err)
	}

	return count, nil
}

// regularFile resolves symlinks to the file they point at. Anything that is
// not a regular file in the end is skipped.
func regularFile(env *Env, path string, info os.FileInfo) (os.FileInfo, bool) {
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := env.Root.Stat(path)
		if err != nil {
			return nil, false
		}
		info = target
	}
	return info, info.Mode().IsRegular()
}

func syncTreeFile(ctx context.Context, env *Env, src, dst, rel string, info os.FileInfo) (bool, error) {
	pkg := env.Status.Filesystem()

	same, err := digest.Equal(env.Root, src, pkg, dst)
	if err != nil {
		return false, errors.Errorf("comparing %s: %w", rel, err)
	}

	if same {
		if env.Verbose {
			env.Logger.LogFileOperation(ctx, log.FileOperation{Label: rel, Outcome: status.OutcomeUnchanged, Path: dst})
		}
		return false, nil
	}

	if env.Preview() {
		env.Logger.LogFileOperation(ctx, log.FileOperation{Label: rel, Outcome: status.OutcomeWouldSync, Path: dst})
		return true, nil
	}

	data, err := util.ReadFile(env.Root, src)
	if err != nil {
		return false, errors.Errorf("reading %s: %w", src, err)
	}

	if err := env.Status.CopyFile(ctx, dst, data, info); err != nil {
		return false, errors.Errorf("copying %s: %w", rel, err)
	}

	if env.Verbose {
		env.Logger.LogFileOperation(ctx, log.FileOperation{Label: rel, Outcome: status.OutcomeSynced, Path: dst})
	}
	return true, nil
}
