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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ OSFilesystem is an osfs tree that also implements billy.Change, so
// copies can keep their source mode and modification time
type OSFilesystem struct {
	billy.Filesystem
	root string
}

var _ billy.Change = (*OSFilesystem)(nil)

// NewOSFilesystem opens dir on the host filesystem
func NewOSFilesystem(dir string) *OSFilesystem {
	return &OSFilesystem{Filesystem: osfs.New(dir), root: dir}
}

func (fs *OSFilesystem) hostPath(name string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(name, "/")))
	if !filepath.IsLocal(rel) {
		return "", errors.Errorf("path %q is outside %s", name, fs.root)
	}
	return filepath.Join(fs.root, rel), nil
}

// Chmod changes the mode of the named file
func (fs *OSFilesystem) Chmod(name string, mode os.FileMode) error {
	p, err := fs.hostPath(name)
	if err != nil {
		return err
	}
	return os.Chmod(p, mode)
}

// Lchown changes the owner of the named file without following links
func (fs *OSFilesystem) Lchown(name string, uid, gid int) error {
	p, err := fs.hostPath(name)
	if err != nil {
		return err
	}
	return os.Lchown(p, uid, gid)
}

// Chown changes the owner of the named file
func (fs *OSFilesystem) Chown(name string, uid, gid int) error {
	p, err := fs.hostPath(name)
	if err != nil {
		return err
	}
	return os.Chown(p, uid, gid)
}

// Chtimes changes the access and modification times of the named file
func (fs *OSFilesystem) Chtimes(name string, atime time.Time, mtime time.Time) error {
	p, err := fs.hostPath(name)
	if err != nil {
		return err
	}
	return os.Chtimes(p, atime, mtime)
}
