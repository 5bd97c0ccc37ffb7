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
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/soapywu/xcbundle/pegparser"
)

const UUID_LENGTH = 24

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrObjectNotFound  = errors.New("object not found")
	ErrListNotFound    = errors.New("list not found")
)

type CommentValue struct {
	Value   string
	Comment string
}

func (c CommentValue) ToObject() pegparser.Object {
	return pegparser.NewObjectWithData([]pegparser.SliceItem{
		pegparser.NewObjectItem("value", c.Value),
		pegparser.NewObjectItem("comment", c.Comment),
	})
}

type PbxProject struct {
	filePath                string
	pbxContents             pegparser.Object
	topProjectSection       pegparser.Object
	pbxObjectSection        pegparser.Object
	pbxProjectSection       pegparser.Object
	pbxGroupSection         pegparser.Object
	pbxBuildFileSection     pegparser.Object
	pbxFileReferenceSection pegparser.Object
	pbxNativeTargetSection  pegparser.Object
	uuids                   map[string]struct{}
	newUuid                 func() (uuid.UUID, error)
}

func NewPbxProject(filename string) PbxProject {
	return PbxProject{
		filePath: filename,
		uuids:    make(map[string]struct{}),
		newUuid:  uuid.NewV4,
	}
}

func (p *PbxProject) FilePath() string {
	return p.filePath
}

func (p *PbxProject) Contents() pegparser.Object {
	return p.pbxContents
}

// Parse reads and parses the project file from disk.
func (p *PbxProject) Parse() error {
	data, err := os.ReadFile(p.filePath)
	if err != nil {
		return errors.Wrap(err, "read project")
	}
	return p.ParseBytes(data)
}

func (p *PbxProject) ParseBytes(data []byte) error {
	contents, err := pegparser.ParseReader(p.filePath, bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "parse project")
	}
	p.pbxContents = contents.(pegparser.Object)
	p.initSections()
	p.buildExistUuids()
	return nil
}

func (p *PbxProject) Dump(writer io.Writer) error {
	buffer := bytes.NewBuffer([]byte{})
	jsonEncoder := json.NewEncoder(buffer)
	jsonEncoder.SetEscapeHTML(false)
	jsonEncoder.SetIndent("", "  ")
	if err := jsonEncoder.Encode(p.Contents()); err != nil {
		return errors.Wrap(err, "encode project")
	}
	_, err := writer.Write(buffer.Bytes())
	return err
}

func (p *PbxProject) initSections() {
	p.topProjectSection = p.pbxContents.GetObject(pegparser.ProjectKey)
	p.pbxObjectSection = p.topProjectSection.GetObject(pegparser.ObjectsKey)
	p.pbxProjectSection = p.pbxObjectSection.GetObject("PBXProject")
	p.pbxGroupSection = p.pbxObjectSection.GetObject("PBXGroup")
	p.pbxBuildFileSection = p.pbxObjectSection.GetObject("PBXBuildFile")
	p.pbxFileReferenceSection = p.pbxObjectSection.GetObject("PBXFileReference")
	p.pbxNativeTargetSection = p.pbxObjectSection.GetObject("PBXNativeTarget")
}

func isUuid(key string) bool {
	if len(key) != UUID_LENGTH {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func (p *PbxProject) buildExistUuids() {
	uuids := make(map[string]struct{})
	p.pbxObjectSection.Foreach(func(_ string, v interface{}) pegparser.IterateActionType {
		section, ok := v.(pegparser.Object)
		if !ok {
			return pegparser.IterateActionContinue
		}
		section.ForeachWithFilter(func(key string, _ interface{}) pegparser.IterateActionType {
			if isUuid(key) {
				uuids[key] = struct{}{}
			}
			return pegparser.IterateActionContinue
		}, nonCommentsFilter)
		return pegparser.IterateActionContinue
	})

	p.uuids = uuids
}

// GenerateUuid returns a fresh 24 character uppercase hex identifier that
// collides neither with the parsed objects nor with earlier results.
func (p *PbxProject) GenerateUuid() string {
	for {
		u, err := p.newUuid()
		if err != nil {
			// the random source is broken; fall back to a time based id
			u = uuid.Must(uuid.NewV1())
		}
		newUUID := strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[0:UUID_LENGTH])

		if _, found := p.uuids[newUUID]; found {
			continue
		}
		p.uuids[newUUID] = struct{}{}
		return newUUID
	}
}

func (p *PbxProject) HasUuid(id string) bool {
	_, found := p.uuids[id]
	return found
}

func (p *PbxProject) HasSection(isa string) bool {
	return p.pbxObjectSection.Has(isa)
}

// Section returns the records of one isa. A missing section yields an empty
// detached Object.
func (p *PbxProject) Section(isa string) pegparser.Object {
	return p.pbxObjectSection.GetObject(isa)
}

// AddSectionAfter creates an empty isa section placed right behind the
// anchor section. It fails when the anchor does not exist and returns the
// existing section when there already is one.
func (p *PbxProject) AddSectionAfter(isa, anchor string) (pegparser.Object, error) {
	if p.HasSection(isa) {
		return p.Section(isa), nil
	}
	if !p.HasSection(anchor) {
		return pegparser.Object{}, errors.Wrapf(ErrSectionNotFound, "%s", anchor)
	}
	section := pegparser.NewObject()
	p.pbxObjectSection.InsertAfter(anchor, isa, section)
	log.Debug().Str("section", isa).Str("after", anchor).Msg("created section")
	return section, nil
}

// AddObject appends a record to an existing section.
func (p *PbxProject) AddObject(isa, key, comment string, obj pegparser.Object) error {
	if !p.HasSection(isa) {
		return errors.Wrapf(ErrSectionNotFound, "%s", isa)
	}
	section := p.Section(isa)
	section.Set(key, obj)
	if comment != "" {
		section.Set(toCommentKey(key), comment)
	}
	p.uuids[key] = struct{}{}
	log.Debug().Str("isa", isa).Str("id", key).Str("comment", comment).Msg("added object")
	return nil
}

func (p *PbxProject) GetObject(isa, key string) (pegparser.Object, error) {
	section := p.Section(isa)
	value, ok := section.Get(key)
	if section.IsEmpty() || !ok {
		return pegparser.Object{}, errors.Wrapf(ErrObjectNotFound, "%s %s", isa, key)
	}
	obj, ok := value.(pegparser.Object)
	if !ok {
		return pegparser.Object{}, errors.Wrapf(ErrObjectNotFound, "%s %s is not a record", isa, key)
	}
	return obj, nil
}

func (p *PbxProject) ObjectComment(isa, key string) string {
	return p.Section(isa).GetString(toCommentKey(key))
}

func (p *PbxProject) getFirstProject() pegparser.ObjectWithUUID {
	uuid := ""
	project := pegparser.NewObject()
	p.pbxProjectSection.ForeachWithFilter(func(key string, value interface{}) pegparser.IterateActionType {
		uuid = key
		project = value.(pegparser.Object)
		return pegparser.IterateActionBreak
	}, nonCommentsFilter)

	return pegparser.ObjectWithUUID{
		UUID:   uuid,
		Object: project,
	}
}

// ProjectObject returns the PBXProject record with the given id, or the
// first one when key is empty.
func (p *PbxProject) ProjectObject(key string) (pegparser.ObjectWithUUID, error) {
	if key == "" {
		project := p.getFirstProject()
		if project.UUID == "" {
			return project, errors.Wrap(ErrObjectNotFound, "PBXProject")
		}
		return project, nil
	}
	obj, err := p.GetObject("PBXProject", key)
	if err != nil {
		return pegparser.ObjectWithUUID{}, err
	}
	return pegparser.ObjectWithUUID{UUID: key, Object: obj}, nil
}

// MainGroupKey follows the project's mainGroup attribute.
func (p *PbxProject) MainGroupKey(projectKey string) (string, error) {
	project, err := p.ProjectObject(projectKey)
	if err != nil {
		return "", err
	}
	mainGroup := project.GetString("mainGroup")
	if mainGroup == "" {
		return "", errors.Wrapf(ErrObjectNotFound, "mainGroup of project %s", project.UUID)
	}
	return mainGroup, nil
}

func (p *PbxProject) findTargetKey(name string) (targetKey string) {
	p.pbxNativeTargetSection.ForeachWithFilter(func(key string, value interface{}) pegparser.IterateActionType {
		target, ok := value.(pegparser.Object)
		if ok && unquoted(target.GetString("name")) == name {
			targetKey = key
			return pegparser.IterateActionBreak
		}
		return pegparser.IterateActionContinue
	}, nonCommentsFilter)
	return
}

// TargetKey resolves a native target by id, falling back to its name.
func (p *PbxProject) TargetKey(key, name string) (string, error) {
	if key != "" {
		if _, err := p.GetObject("PBXNativeTarget", key); err == nil {
			return key, nil
		}
	}
	if name != "" {
		if found := p.findTargetKey(name); found != "" {
			return found, nil
		}
	}
	return "", errors.Wrapf(ErrObjectNotFound, "PBXNativeTarget %s %s", key, name)
}

// AddToTargetBuildPhases appends phase to the target's buildPhases. The list
// must exist and be non-empty. It reports false when phase is already there.
func (p *PbxProject) AddToTargetBuildPhases(targetKey string, phase CommentValue) (bool, error) {
	target, err := p.GetObject("PBXNativeTarget", targetKey)
	if err != nil {
		return false, err
	}
	phases, ok := target.GetArray("buildPhases")
	if !ok || len(phases) == 0 {
		return false, errors.Wrapf(ErrListNotFound, "buildPhases of %s", targetKey)
	}
	return addToObjectListOnlyNotExist(target, "buildPhases", phase.ToObject(), sameListValue), nil
}

func (p *PbxProject) AddToPbxFileReferenceSection(pbxfile *PbxFile) error {
	return p.AddObject("PBXFileReference", pbxfile.FileRef, pbxFileReferenceComment(pbxfile), newPbxFileReferenceObj(pbxfile))
}

func (p *PbxProject) AddToPbxBuildFileSection(pbxfile *PbxFile) error {
	return p.AddObject("PBXBuildFile", pbxfile.Uuid, longComment(pbxfile), pbxBuildFileObj(pbxfile))
}

// HasFileReference reports whether a file reference with the given path and
// type exists.
func (p *PbxProject) HasFileReference(filePath, filetype string) bool {
	found := false
	p.pbxFileReferenceSection.ForeachWithFilter(func(_ string, value interface{}) pegparser.IterateActionType {
		ref, ok := value.(pegparser.Object)
		if !ok {
			return pegparser.IterateActionContinue
		}
		if unquoted(ref.GetString("path")) == filePath && unquoted(ref.GetString("lastKnownFileType")) == filetype {
			found = true
			return pegparser.IterateActionBreak
		}
		return pegparser.IterateActionContinue
	}, nonCommentsFilter)
	return found
}

// AddPbxGroup defines a group record with the given children.
func (p *PbxProject) AddPbxGroup(key, name, groupPath string, children []CommentValue) error {
	childList := make([]interface{}, 0, len(children))
	for _, child := range children {
		childList = append(childList, child.ToObject())
	}
	group := pegparser.NewObjectWithData([]pegparser.SliceItem{
		pegparser.NewObjectItem("isa", "PBXGroup"),
		pegparser.NewObjectItem("children", childList),
	})
	if groupPath != "" {
		group.Set("path", Quote(groupPath))
	} else {
		group.Set("name", Quote(name))
	}
	group.Set("sourceTree", DEFAULT_SOURCETREE)
	return p.AddObject("PBXGroup", key, name, group)
}

// AddToPbxGroupChildren appends child to a group's children unless present.
func (p *PbxProject) AddToPbxGroupChildren(groupKey string, child CommentValue) (bool, error) {
	group, err := p.GetObject("PBXGroup", groupKey)
	if err != nil {
		return false, err
	}
	if _, ok := group.GetArray("children"); !ok {
		return false, errors.Wrapf(ErrListNotFound, "children of %s", groupKey)
	}
	return addToObjectListOnlyNotExist(group, "children", child.ToObject(), sameListValue), nil
}

// AddToPbxResourcesBuildPhase puts pbxfile's build file first in the phase's
// files list unless it is already listed.
func (p *PbxProject) AddToPbxResourcesBuildPhase(phaseKey string, pbxfile *PbxFile) (bool, error) {
	phase, err := p.GetObject("PBXResourcesBuildPhase", phaseKey)
	if err != nil {
		return false, err
	}
	files, ok := phase.GetArray("files")
	if !ok {
		return false, errors.Wrapf(ErrListNotFound, "files of %s", phaseKey)
	}
	if listContains(files, pbxfile.Uuid) {
		return false, nil
	}
	prependToObjectList(phase, "files", pbxBuildPhaseObj(pbxfile))
	return true, nil
}

type ShellScriptBuildPhaseOptions struct {
	Name        string
	InputPaths  []string
	OutputPaths []string
	ShellPath   string
	ShellScript string
}

// PbxShellScriptBuildPhaseObj builds a shell script phase record. The script
// is plain text; quoting and escaping happen here.
func PbxShellScriptBuildPhaseObj(options ShellScriptBuildPhaseOptions) pegparser.Object {
	shellPath := options.ShellPath
	if shellPath == "" {
		shellPath = "/bin/sh"
	}
	quoteAll := func(paths []string) []interface{} {
		list := make([]interface{}, 0, len(paths))
		for _, p := range paths {
			list = append(list, Quote(p))
		}
		return list
	}
	return pegparser.NewObjectWithData([]pegparser.SliceItem{
		pegparser.NewObjectItem("isa", "PBXShellScriptBuildPhase"),
		pegparser.NewObjectItem("buildActionMask", "2147483647"),
		pegparser.NewObjectItem("files", []interface{}{}),
		pegparser.NewObjectItem("inputFileListPaths", []interface{}{}),
		pegparser.NewObjectItem("inputPaths", quoteAll(options.InputPaths)),
		pegparser.NewObjectItem("name", Quote(options.Name)),
		pegparser.NewObjectItem("outputFileListPaths", []interface{}{}),
		pegparser.NewObjectItem("outputPaths", quoteAll(options.OutputPaths)),
		pegparser.NewObjectItem("runOnlyForDeploymentPostprocessing", "0"),
		pegparser.NewObjectItem("shellPath", shellPath),
		pegparser.NewObjectItem("shellScript", `"`+escapeScript(options.ShellScript)+`"`),
	})
}

func escapeScript(script string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`).Replace(script)
}
