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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pkgsync/pkg/config"
	"github.com/walteh/pkgsync/pkg/log"
	"github.com/walteh/pkgsync/pkg/status"
	"github.com/walteh/pkgsync/pkg/transform"
)

// 🔄 Sync runs every manifest entry in order
func (o *operator) Sync(ctx context.Context) (*status.Summary, error) {
	cfg := o.opts.Config
	o.opts.Logger.Header(cfg.Root, cfg.PackageDir(), o.opts.DryRun)

	summary, err := o.run(ctx, o.env(o.opts.Logger, o.opts.DryRun))
	if err != nil {
		return nil, err
	}

	o.opts.Logger.Summary(summary, o.packageName())
	return summary, nil
}

func (o *operator) run(ctx context.Context, env *Env) (*status.Summary, error) {
	logger := zerolog.Ctx(ctx)
	cfg := o.opts.Config

	for _, entry := range cfg.Entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("sync cancelled: %w", err)
		}

		res, err := o.syncEntry(ctx, env, entry)
		if err != nil {
			return nil, errors.Errorf("syncing %s: %w", entry.Source, err)
		}
		env.Status.Track(ctx, res)
	}

	summary := env.Status.Summary()
	logger.Debug().Int("total", summary.Total()).Bool("dry_run", summary.DryRun).Msg("sync complete")
	return summary, nil
}

func (o *operator) syncEntry(ctx context.Context, env *Env, entry config.Entry) (status.EntryResult, error) {
	res := status.EntryResult{
		Source:      entry.Source,
		Destination: entry.Destination,
		Transformed: entry.Transform != "",
	}

	if o.opts.Config.Excluded(entry) {
		env.Logger.Warningf("%s targets excluded path %s, syncing anyway", entry.Source, entry.Destination)
	}

	info, err := env.Root.Stat(entry.Source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			env.Logger.Warningf("Source not found: %s", entry.Source)
			res.Outcome = status.OutcomeSkipped
			res.Reason = "source not found"
			return res, nil
		}
		return res, errors.Errorf("checking source: %w", err)
	}

	env.Logger.StartEntry(ctx, log.EntryOperation{Source: entry.Source, Destination: entry.Destination, Transformed: res.Transformed})

	if info.IsDir() {
		if res.Transformed {
			env.Logger.Warningf("transform %s does not apply to directory %s", entry.Transform, entry.Source)
			res.Transformed = false
		}

		n, err := SyncTree(ctx, env, entry.Source, entry.Destination)
		if err != nil {
			return res, err
		}
		res.IsDir = true
		res.Files = n
		res.Outcome = outcome(n > 0, env.Preview())
	} else {
		var tr transform.Transformer
		if res.Transformed {
			t, ok := transform.Lookup(entry.Transform)
			if !ok {
				return res, errors.Errorf("unknown transform %q", entry.Transform)
			}
			tr = t
		}

		changed, err := SyncFile(ctx, env, entry.Source, entry.Destination, tr)
		if err != nil {
			return res, err
		}
		if changed {
			res.Files = 1
		}
		res.Outcome = outcome(changed, env.Preview())
	}

	env.Logger.EndEntry(ctx, res)
	return res, nil
}

func outcome(changed, preview bool) status.Outcome {
	switch {
	case !changed:
		return status.OutcomeUnchanged
	case preview:
		return status.OutcomeWouldSync
	default:
		return status.OutcomeSynced
	}
}
