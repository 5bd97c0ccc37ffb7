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

package pbxproj

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/blacktop/go-macho"
	"github.com/blacktop/go-macho/types"
	"github.com/pkg/errors"
	"github.com/soapywu/xcbundle/pegparser"
)

const (
	DEFAULT_SOURCETREE  = "\"<group>\""
	DEFAULT_GROUP       = "Resources"
	FOLDER_FILETYPE     = "folder"
	EXECUTABLE_FILETYPE = "compiled.mach-o.executable"
	DEFAULT_FILETYPE    = EXECUTABLE_FILETYPE
)

var FILETYPE_BY_EXTENSION = map[string]string{
	"a":        "archive.ar",
	"bundle":   "wrapper.plug-in",
	"dylib":    "compiled.mach-o.dylib",
	"json":     "text.json",
	"markdown": "text",
	"md":       "net.daringfireball.markdown",
	"plist":    "text.plist.xml",
	"py":       "text.script.python",
	"sh":       "text.script.sh",
	"txt":      "text",
	"zip":      "archive.zip",
}

var GROUP_BY_FILETYPE = map[string]string{
	"archive.ar":            "Frameworks",
	"compiled.mach-o.dylib": "Frameworks",
}

const DEFAULT_ENCODING_VALUE = 4

var ENCODING_BY_FILETYPE = map[string]int{
	"text":               DEFAULT_ENCODING_VALUE,
	"text.json":          DEFAULT_ENCODING_VALUE,
	"text.plist.xml":     DEFAULT_ENCODING_VALUE,
	"text.script.python": DEFAULT_ENCODING_VALUE,
	"text.script.sh":     DEFAULT_ENCODING_VALUE,
}

var FILETYPE_BY_MACHO_TYPE = map[types.HeaderFileType]string{
	types.MH_EXECUTE: EXECUTABLE_FILETYPE,
	types.MH_DYLIB:   "compiled.mach-o.dylib",
	types.MH_BUNDLE:  "compiled.mach-o.bundle",
	types.MH_OBJECT:  "compiled.mach-o.objfile",
}

var unquotedRegex = regexp.MustCompile(`(^")|("$)`)

func unquoted(text string) string {
	if text == "" {
		return text
	}
	return unquotedRegex.ReplaceAllString(text, "")
}

// Unquoted strips the surrounding quotes of a raw descriptor scalar.
func Unquoted(text string) string {
	return unquoted(text)
}

type PbxFileOptions struct {
	LastKnownFileType string
	SourceTree        string
	Group             string
	Folder            bool
	// ProbeDir is the on-disk directory holding the file. When set and the
	// type cannot be told from the extension, the file's Mach-O header is
	// read.
	ProbeDir string
}

type PbxFile struct {
	Basename          string
	FileRef           string
	Uuid              string
	LastKnownFileType string
	Group             string
	Path              string
	SourceTree        string
	FileEncoding      int
}

func NewPbxFile(filePath string, options PbxFileOptions) *PbxFile {
	pbxfile := PbxFile{}
	pbxfile.Basename = path.Base(filepath.ToSlash(filePath))
	pbxfile.Path = filepath.ToSlash(filePath)

	if options.LastKnownFileType != "" {
		pbxfile.LastKnownFileType = options.LastKnownFileType
	} else {
		pbxfile.LastKnownFileType = pbxfile.detectType(options)
	}

	if options.Group != "" {
		pbxfile.Group = options.Group
	} else {
		pbxfile.Group = pbxfile.defaultGroup()
	}

	if options.SourceTree != "" {
		pbxfile.SourceTree = options.SourceTree
	} else {
		pbxfile.SourceTree = DEFAULT_SOURCETREE
	}

	pbxfile.FileEncoding = ENCODING_BY_FILETYPE[pbxfile.LastKnownFileType]
	return &pbxfile
}

func (pbxfile *PbxFile) detectType(options PbxFileOptions) string {
	if options.Folder {
		return FOLDER_FILETYPE
	}

	if ext := filepath.Ext(pbxfile.Basename); len(ext) > 1 {
		if filetype, found := FILETYPE_BY_EXTENSION[ext[1:]]; found {
			return filetype
		}
	}

	if options.ProbeDir != "" {
		filetype, err := DetectFileType(filepath.Join(options.ProbeDir, pbxfile.Basename))
		if err == nil {
			return filetype
		}
	}
	return DEFAULT_FILETYPE
}

func (pbxfile *PbxFile) defaultGroup() string {
	groupName, ok := GROUP_BY_FILETYPE[pbxfile.LastKnownFileType]
	if !ok {
		return DEFAULT_GROUP
	}
	return groupName
}

// DetectFileType reads the Mach-O header of the file at filePath and returns
// the matching Xcode file type. Universal binaries are typed by their first
// slice.
func DetectFileType(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", filePath)
	}
	return DetectFileTypeBytes(data)
}

func DetectFileTypeBytes(data []byte) (string, error) {
	if fat, err := macho.NewFatFile(bytes.NewReader(data)); err == nil {
		if len(fat.Arches) == 0 || fat.Arches[0].File == nil {
			return "", errors.New("universal binary without slices")
		}
		return machoFileType(fat.Arches[0].File.Type), nil
	}

	m, err := macho.NewFile(bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "not a Mach-O file")
	}
	return machoFileType(m.Type), nil
}

func machoFileType(t types.HeaderFileType) string {
	if filetype, ok := FILETYPE_BY_MACHO_TYPE[t]; ok {
		return filetype
	}
	return "compiled.mach-o"
}

func newPbxFileReferenceObj(pbxfile *PbxFile) pegparser.Object {
	obj := pegparser.NewObjectWithData([]pegparser.SliceItem{
		pegparser.NewObjectItem("isa", "PBXFileReference"),
	})
	if pbxfile.FileEncoding != 0 {
		obj.Set("fileEncoding", toIntString(pbxfile.FileEncoding))
	}
	obj.Set("lastKnownFileType", Quote(pbxfile.LastKnownFileType))
	obj.Set("path", Quote(pbxfile.Path))
	obj.Set("sourceTree", pbxfile.SourceTree)
	return obj
}

func pbxBuildFileObj(pbxfile *PbxFile) pegparser.Object {
	obj := pegparser.NewObject()
	obj.Set("isa", "PBXBuildFile")
	obj.Set("fileRef", pbxfile.FileRef)
	obj.Set(toCommentKey("fileRef"), pbxFileReferenceComment(pbxfile))
	return obj
}

func pbxGroupChild(pbxfile *PbxFile) CommentValue {
	return CommentValue{
		Value:   pbxfile.FileRef,
		Comment: pbxFileReferenceComment(pbxfile),
	}
}

func pbxBuildPhaseObj(pbxfile *PbxFile) pegparser.Object {
	return CommentValue{
		Value:   pbxfile.Uuid,
		Comment: longComment(pbxfile),
	}.ToObject()
}

func pbxFileReferenceComment(pbxfile *PbxFile) string {
	if pbxfile.Basename != "" {
		return pbxfile.Basename
	}
	return path.Base(pbxfile.Path)
}

func longComment(pbxfile *PbxFile) string {
	return pbxFileReferenceComment(pbxfile) + " in " + pbxfile.Group
}
