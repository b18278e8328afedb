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

// Package transform derives the package form of a source file from its root form.
//
// A transform is a pure function of the input text built from independent
// line rules and guarded substring rules. Every rule checks whether its edit
// is already present, so running a transform over its own output is a no-op.
package transform

import (
	"sort"
	"sync"
)

// 🔄 Transformer rewrites the full text of one file
type Transformer interface {
	Transform(text string) Result
}

// 📋 Result is the output of a transform and what happened along the way
type Result struct {
	Text string
	// Applied lists the rules that changed the text, in the order they fired
	Applied []string
	// ShortCircuited is set when the guard rewrites were skipped because the
	// text already carries their output
	ShortCircuited bool
	// Notes are human readable remarks for the console
	Notes []string
}

// Changed reports whether any rule modified the text
func (r Result) Changed() bool {
	return len(r.Applied) > 0
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Transformer{}
)

// 📝 Register makes a transformer available under id
func Register(id string, t Transformer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[id] = t
}

// 🎯 Lookup returns the transformer registered under id
func Lookup(id string) (Transformer, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[id]
	return t, ok
}

// IDs lists the registered transform ids, sorted
func IDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
