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
	"fmt"
)

// 🎨 FileFormatter defines the interface for formatting sync messages
type FileFormatter interface {
	// FormatFile formats one file line; label is a path or "src → dst"
	FormatFile(label string, o Outcome) string
	// FormatEntryHeader formats the line that opens a manifest entry
	FormatEntryHeader(source string, transformed bool) string
	// FormatEntry formats a finished entry
	FormatEntry(res EntryResult) string
	// FormatSummary formats the run total
	FormatSummary(total int, dryRun bool) string
	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFile formats a file operation message with emojis
func (f *DefaultFileFormatter) FormatFile(label string, o Outcome) string {
	switch o {
	case OutcomeSynced:
		return fmt.Sprintf("✅ Synced: %s", label)
	case OutcomeUnchanged:
		return fmt.Sprintf("⏭️  %s (unchanged)", label)
	case OutcomeWouldSync:
		return fmt.Sprintf("📝 Would sync: %s", label)
	case OutcomeSkipped:
		return fmt.Sprintf("⚠️  Skipped: %s", label)
	default:
		return fmt.Sprintf("❔ %s", label)
	}
}

func (f *DefaultFileFormatter) FormatEntryHeader(source string, transformed bool) string {
	if transformed {
		return fmt.Sprintf("📁 %s (with transforms)", source)
	}
	return fmt.Sprintf("📁 %s", source)
}

// FormatEntry formats a finished entry for the structured log
func (f *DefaultFileFormatter) FormatEntry(res EntryResult) string {
	switch {
	case res.Outcome == OutcomeSkipped && res.Reason != "":
		return fmt.Sprintf("%s: skipped (%s)", res.Source, res.Reason)
	case res.IsDir:
		return fmt.Sprintf("%s: %s (%d files)", res.Source, res.Outcome, res.Files)
	default:
		return fmt.Sprintf("%s: %s", res.Source, res.Outcome)
	}
}

// FormatSummary formats the run total
func (f *DefaultFileFormatter) FormatSummary(total int, dryRun bool) string {
	if dryRun {
		return fmt.Sprintf("📊 Would sync %d file(s)", total)
	}
	return fmt.Sprintf("✅ Synced %d file(s)", total)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
