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
package patch

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/soapywu/xcbundle/pbxproj"
)

const executableBits os.FileMode = 0111

// BinaryStatus describes one bundled binary in the source tree.
type BinaryStatus struct {
	Name       string
	Path       string
	Exists     bool
	FileType   string
	Executable bool
	Err        error
}

// InspectBinaries stats each named binary under dir and reads its Mach-O
// header. Missing or unreadable files are reported, not returned as errors.
func InspectBinaries(dir string, names []string) []BinaryStatus {
	statuses := make([]BinaryStatus, 0, len(names))
	for _, name := range names {
		status := BinaryStatus{Name: name, Path: filepath.Join(dir, name)}
		info, err := os.Stat(status.Path)
		if err != nil {
			if !os.IsNotExist(err) {
				status.Err = err
			}
			statuses = append(statuses, status)
			continue
		}
		status.Exists = true
		status.Executable = info.Mode().Perm()&executableBits == executableBits
		status.FileType, status.Err = pbxproj.DetectFileType(status.Path)
		statuses = append(statuses, status)
	}
	return statuses
}

// MakeExecutable adds u+x, g+x and o+x to each named binary under dir and
// returns the names whose mode changed. Failures are collected so one bad
// file does not stop the others.
func MakeExecutable(dir string, names []string) ([]string, error) {
	var changed []string
	var result *multierror.Error
	for _, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "stat %s", path))
			continue
		}
		mode := info.Mode().Perm()
		if mode&executableBits == executableBits {
			continue
		}
		if err := os.Chmod(path, mode|executableBits); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "chmod %s", path))
			continue
		}
		log.Debug().Str("path", path).Stringer("mode", mode|executableBits).Msg("made executable")
		changed = append(changed, name)
	}
	return changed, result.ErrorOrNil()
}
