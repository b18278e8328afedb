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
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pkgsync/pkg/log"
)

// 🔍 Status previews a run without printing it and reports whether any file
// is out of date
func (o *operator) Status(ctx context.Context) (bool, error) {
	logger := zerolog.Ctx(ctx)

	quiet := log.NewWithLogger(io.Discard, *logger)
	summary, err := o.run(ctx, o.env(quiet, true))
	if err != nil {
		return false, errors.Errorf("checking status: %w", err)
	}

	if total := summary.Total(); total > 0 {
		logger.Debug().Int("stale", total).Msg("package is out of date")
		return true, nil
	}

	logger.Debug().Msg("package is up to date")
	return false, nil
}
