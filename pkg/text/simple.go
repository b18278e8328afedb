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

package text

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔄 ReplacementRule is a whole-text substring replacement with optional guards
type ReplacementRule struct {
	Name     string // Identifies the rule in results
	FromText string // Exact text to replace
	ToText   string // Replacement text

	// RequireText, when set, must be present in the text for the rule to run
	RequireText string
	// UnlessText, when set, disables the rule if already present in the text
	UnlessText string
}

// 📋 ReplacementResult describes what a set of rules did to some text
type ReplacementResult struct {
	OriginalContent  string
	ModifiedContent  string
	ReplacementCount int
	WasModified      bool
	Applied          []string // Names of rules that changed the text, in order
}

// SimpleTextReplacer applies rules with strings.ReplaceAll, one after another
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText applies each rule in order to the output of the previous one
func (r *SimpleTextReplacer) ReplaceText(content string, rules []ReplacementRule) *ReplacementResult {
	result := &ReplacementResult{
		OriginalContent: content,
		ModifiedContent: content,
	}

	currentContent := content
	for _, rule := range rules {
		if rule.FromText == "" {
			continue
		}
		if rule.RequireText != "" && !strings.Contains(currentContent, rule.RequireText) {
			continue
		}
		if rule.UnlessText != "" && strings.Contains(currentContent, rule.UnlessText) {
			continue
		}

		count := strings.Count(currentContent, rule.FromText)
		if count == 0 {
			continue
		}

		newContent := strings.ReplaceAll(currentContent, rule.FromText, rule.ToText)
		if newContent != currentContent {
			result.WasModified = true
			result.ReplacementCount += count
			result.Applied = append(result.Applied, rule.Name)
		}

		currentContent = newContent
	}

	result.ModifiedContent = currentContent
	return result
}

// ValidateRules rejects rules that could never match or would not be idempotent
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if rule.Name == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		// a replacement that reintroduces its own pattern grows on every run
		if rule.FromText != rule.ToText && strings.Contains(rule.ToText, rule.FromText) && rule.UnlessText == "" {
			return errors.Errorf("rule %q: to_text contains from_text and no unless_text guard is set", rule.Name)
		}
	}
	return nil
}
