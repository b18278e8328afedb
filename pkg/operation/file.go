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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pkgsync/pkg/digest"
	"github.com/walteh/pkgsync/pkg/log"
	"github.com/walteh/pkgsync/pkg/status"
	"github.com/walteh/pkgsync/pkg/transform"
)

const defaultFileMode = 0644

// 📄 SyncFile brings one package file in line with its root source, passing
// the text through tr when it is set. It reports whether the destination was
// written, or would be in a preview.
func SyncFile(ctx context.Context, env *Env, src, dst string, tr transform.Transformer) (bool, error) {
	logger := zerolog.Ctx(ctx)

	data, err := util.ReadFile(env.Root, src)
	if err != nil {
		return false, errors.Errorf("reading %s: %w", src, err)
	}

	text := strings.ToValidUTF8(string(data), "\uFFFD")

	if tr != nil {
		res := tr.Transform(text)
		for _, note := range res.Notes {
			env.Logger.Note(note)
		}
		logger.Debug().
			Str("source", src).
			Strs("applied", res.Applied).
			Bool("short_circuited", res.ShortCircuited).
			Msg("transformed")
		text = res.Text
	}

	content := []byte(text)

	current, err := digest.Of(env.Status.Filesystem(), dst)
	if err != nil {
		return false, errors.Errorf("hashing destination %s: %w", dst, err)
	}

	if digest.Sum(content) == current {
		if env.Verbose {
			env.Logger.LogFileOperation(ctx, log.FileOperation{Label: filepath.Base(src), Outcome: status.OutcomeUnchanged, Path: dst})
		}
		return false, nil
	}

	if env.Preview() {
		env.Logger.LogFileOperation(ctx, log.FileOperation{
			Label:   fmt.Sprintf("%s → %s", src, dst),
			Outcome: status.OutcomeWouldSync,
			Path:    dst,
		})
		return true, nil
	}

	if err := env.Status.WriteFile(ctx, dst, content, defaultFileMode); err != nil {
		return false, errors.Errorf("writing %s: %w", dst, err)
	}

	env.Logger.LogFileOperation(ctx, log.FileOperation{Label: filepath.Base(src), Outcome: status.OutcomeSynced, Path: dst})
	return true, nil
}
