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
package main

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/pkgsync/pkg/log"
)

// errOutOfDate is returned by the status command when a sync would write files
var errOutOfDate = errors.New("package is out of date, run pkgsync to update it")

func newStatusCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the package tree is out of date",
		Long: `Status previews a sync without printing it. It exits with an error when
any file would be written, which makes it usable as a CI check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := opts.operator(ctx)
			if err != nil {
				return err
			}

			stale, err := op.Status(ctx)
			if err != nil {
				return err
			}
			if stale {
				return errOutOfDate
			}

			log.FromContext(ctx).Success("package is up to date")
			return nil
		},
	}
}
