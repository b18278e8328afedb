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

package transform

import (
	"slices"
	"strings"
)

// 📜 Lines is the line-indexed view line rules match against
type Lines []string

// NextNonBlank returns the index of the first non-blank line after i
func (l Lines) NextNonBlank(i int) (int, bool) {
	for j := i + 1; j < len(l); j++ {
		if strings.TrimSpace(l[j]) != "" {
			return j, true
		}
	}
	return 0, false
}

// 🎯 LineRule rewrites the line at i, possibly looking ahead.
// On a match it returns the output lines and how many input lines they replace.
type LineRule interface {
	Name() string
	Match(lines Lines, i int) (replacement []string, consumed int, ok bool)
}

// 🔁 LinePass folds a set of rules over the lines of a text. The first rule
// that matches at a position wins; unmatched lines pass through.
type LinePass struct {
	rules []LineRule
}

// NewLinePass creates a pass that tries rules in order
func NewLinePass(rules ...LineRule) *LinePass {
	return &LinePass{rules: rules}
}

// Run applies the pass and returns the new text and the names of the rules that fired
func (p *LinePass) Run(text string) (string, []string) {
	lines := Lines(strings.Split(text, "\n"))
	out := make([]string, 0, len(lines)+1)
	var applied []string

	for i := 0; i < len(lines); {
		replacement, consumed, name := p.step(lines, i)
		if consumed == 0 {
			out = append(out, lines[i])
			i++
			continue
		}
		out = append(out, replacement...)
		if !slices.Equal(replacement, []string(lines[i:i+consumed])) {
			applied = append(applied, name)
		}
		i += consumed
	}

	return strings.Join(out, "\n"), applied
}

func (p *LinePass) step(lines Lines, i int) ([]string, int, string) {
	for _, rule := range p.rules {
		if replacement, consumed, ok := rule.Match(lines, i); ok && consumed > 0 {
			return replacement, consumed, rule.Name()
		}
	}
	return nil, 0, ""
}

// ➕ insertAfterMarker inserts a line between a marker comment and the block
// opener that immediately follows it.
type insertAfterMarker struct {
	name   string
	marker string // whole-line match, surrounding whitespace ignored
	opener string // whole-line match on the very next line
	insert string
}

func (r *insertAfterMarker) Name() string { return r.name }

func (r *insertAfterMarker) Match(lines Lines, i int) ([]string, int, bool) {
	if strings.TrimSpace(lines[i]) != r.marker {
		return nil, 0, false
	}
	if i+1 >= len(lines) || strings.TrimSpace(lines[i+1]) != r.opener {
		return nil, 0, false
	}

	insert := r.insert
	if strings.HasSuffix(lines[i], "\r") {
		insert += "\r"
	}

	return []string{lines[i], insert, lines[i+1]}, 2, true
}

// 📦 replaceInLine swaps one substring for another on any line containing it
type replaceInLine struct {
	name     string
	from, to string
}

func (r *replaceInLine) Name() string { return r.name }

func (r *replaceInLine) Match(lines Lines, i int) ([]string, int, bool) {
	if !strings.Contains(lines[i], r.from) {
		return nil, 0, false
	}
	return []string{strings.ReplaceAll(lines[i], r.from, r.to)}, 1, true
}

// 🛡️ guardCondition widens a conditional so it also checks availability.
//
// The line must satisfy matches and must not contain skipIf. When uses is
// set, the next non-blank line must contain it as well.
type guardCondition struct {
	name     string
	matches  func(line string) bool
	skipIf   string
	uses     string
	from, to string
	// trimRight drops trailing whitespace (but keeps a CR) before rewriting
	trimRight bool
}

func (r *guardCondition) Name() string { return r.name }

func (r *guardCondition) Match(lines Lines, i int) ([]string, int, bool) {
	line := lines[i]
	if !r.matches(line) || (r.skipIf != "" && strings.Contains(line, r.skipIf)) {
		return nil, 0, false
	}

	if r.uses != "" {
		j, ok := lines.NextNonBlank(i)
		if !ok || !strings.Contains(lines[j], r.uses) {
			return nil, 0, false
		}
	}

	if r.trimRight {
		cr := strings.HasSuffix(line, "\r")
		line = strings.TrimRight(line, " \t\r\n\v\f")
		if cr {
			line += "\r"
		}
	}

	return []string{strings.ReplaceAll(line, r.from, r.to)}, 1, true
}

func containing(s string) func(string) bool {
	return func(line string) bool { return strings.Contains(line, s) }
}

func trimmedPrefix(s string) func(string) bool {
	return func(line string) bool { return strings.HasPrefix(strings.TrimSpace(line), s) }
}
