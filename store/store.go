/**
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
'License'); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at
http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
'AS IS' BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/
// Package store reads and writes project descriptors through afs so the
// same code path serves local files and any other afs backed location.
package store

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/viant/afs"
	afsfile "github.com/viant/afs/file"
)

const BackupSuffix = ".backup"

var ErrNotFound = errors.New("file not found")

type Store struct {
	fs   afs.Service
	mode os.FileMode
}

func New() *Store {
	return &Store{
		fs:   afs.New(),
		mode: afsfile.DefaultFileOsMode,
	}
}

func (s *Store) Exists(ctx context.Context, location string) (bool, error) {
	ok, err := s.fs.Exists(ctx, location)
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", location)
	}
	return ok, nil
}

// Load returns the full contents of location. A missing file yields
// ErrNotFound.
func (s *Store) Load(ctx context.Context, location string) ([]byte, error) {
	ok, err := s.Exists(ctx, location)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrap(ErrNotFound, location)
	}
	rc, err := s.fs.OpenURL(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", location)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", location)
	}
	return data, nil
}

func BackupPath(location string) string {
	return location + BackupSuffix
}

// Backup writes data, the bytes read from location, to its backup sibling
// and returns the backup's location. An older backup is replaced.
func (s *Store) Backup(ctx context.Context, location string, data []byte) (string, error) {
	backup := BackupPath(location)
	if err := s.fs.Upload(ctx, backup, s.fileMode(ctx, location), bytes.NewReader(data)); err != nil {
		return "", errors.Wrapf(err, "write backup %s", backup)
	}
	log.Debug().Str("backup", backup).Int("bytes", len(data)).Msg("backup written")
	return backup, nil
}

// tempPath keeps the extension of location: afs treats a move between
// names with different extensions as a move into a directory.
func tempPath(location string) string {
	dir, name := path.Split(strings.TrimSuffix(location, "/"))
	ext := path.Ext(name)
	return dir + "." + strings.TrimSuffix(name, ext) + ".tmp" + ext
}

// fileMode returns the permission bits of an existing location, or the
// store default when it does not exist yet.
func (s *Store) fileMode(ctx context.Context, location string) os.FileMode {
	if ok, _ := s.fs.Exists(ctx, location); !ok {
		return s.mode
	}
	obj, err := s.fs.Object(ctx, location)
	if err != nil || obj.Mode().Perm() == 0 {
		return s.mode
	}
	return obj.Mode().Perm()
}

// Save replaces location with data. The content goes to a hidden sibling
// first and is moved into place, so readers never see a half written file.
// The permissions of the replaced file are kept.
func (s *Store) Save(ctx context.Context, location string, data []byte) error {
	tmp := tempPath(location)
	if err := s.fs.Upload(ctx, tmp, s.fileMode(ctx, location), bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "write %s", tmp)
	}
	if err := s.fs.Move(ctx, tmp, location); err != nil {
		_ = s.fs.Delete(ctx, tmp)
		return errors.Wrapf(err, "replace %s", location)
	}
	log.Debug().Str("path", location).Int("bytes", len(data)).Msg("project written")
	return nil
}
