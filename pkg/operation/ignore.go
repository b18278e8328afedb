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
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// 🙈 IgnoreMatcher decides which files inside a synced directory are build
// artifacts. Markers match as substrings; globs use doublestar syntax.
type IgnoreMatcher struct {
	markers []string
	globs   []string
}

// NewIgnoreMatcher creates a matcher from markers and doublestar globs
func NewIgnoreMatcher(markers, globs []string) *IgnoreMatcher {
	return &IgnoreMatcher{markers: markers, globs: globs}
}

// Match reports whether a root-relative path should be skipped.
// rel is the same path relative to the directory being synced.
func (m *IgnoreMatcher) Match(path, rel string) bool {
	path = filepath.ToSlash(path)
	for _, marker := range m.markers {
		if strings.Contains(path, marker) {
			return true
		}
	}

	rel = filepath.ToSlash(rel)
	for _, pattern := range m.globs {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}

	return false
}
