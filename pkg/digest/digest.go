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

// Package digest fingerprints file content so unchanged files are never rewritten.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"gitlab.com/tozd/go/errors"
)

// 🔑 Digest is the hex sha256 of a file's full byte content
type Digest string

// Absent is the digest of a path that does not exist. No real content hashes to it.
const Absent Digest = ""

// IsAbsent reports whether d stands for a missing file
func (d Digest) IsAbsent() bool {
	return d == Absent
}

// 🔍 Sum digests in-memory content
func Sum(content []byte) Digest {
	hash := sha256.Sum256(content)
	return Digest(hex.EncodeToString(hash[:]))
}

// 📄 Of digests the file at path. A missing file yields Absent and no error.
func Of(fs billy.Basic, path string) (Digest, error) {
	f, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Absent, nil
		}
		return Absent, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return Absent, errors.Errorf("reading %s: %w", path, err)
	}

	return Digest(hex.EncodeToString(hash.Sum(nil))), nil
}

// ⚖️ Equal compares two files by digest. Two missing files are equal.
func Equal(fsA billy.Basic, pathA string, fsB billy.Basic, pathB string) (bool, error) {
	a, err := Of(fsA, pathA)
	if err != nil {
		return false, err
	}
	b, err := Of(fsB, pathB)
	if err != nil {
		return false, err
	}
	return a == b, nil
}
