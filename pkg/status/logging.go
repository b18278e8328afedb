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
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent = 2 // spaces to indent file lines under their entry
)

// 🎯 FormatFileOperation formats a file line for the console, colored by outcome
func FormatFileOperation(f FileFormatter, label string, o Outcome) string {
	msg := f.FormatFile(label, o)

	switch o {
	case OutcomeSynced:
		msg = color.GreenString(msg)
	case OutcomeWouldSync:
		msg = color.YellowString(msg)
	case OutcomeSkipped:
		msg = color.RedString(msg)
	default:
		msg = color.HiBlackString(msg)
	}

	return strings.Repeat(" ", fileIndent) + msg
}
