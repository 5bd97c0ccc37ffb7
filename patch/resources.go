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
	"bytes"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/soapywu/xcbundle/config"
	"github.com/soapywu/xcbundle/pbxproj"
)

const (
	StepFileReferences = "add file references"
	StepGroups         = "define resource groups"
	StepMainGroup      = "attach resources to main group"
	StepResourcesPhase = "copy resources in build phase"
)

// ResourcesPresent reports whether the resources folder is already part of
// the project, either by the textual markers or by a folder reference with
// the resources path.
func ResourcesPresent(data []byte, project *pbxproj.PbxProject, cfg config.Config) bool {
	if bytes.Contains(data, []byte(cfg.ResourcesDir+"/"+cfg.BinDir)) ||
		bytes.Contains(data, []byte(cfg.ResourcesDir+" folder")) {
		return true
	}
	return project != nil && project.HasFileReference(cfg.ResourcesDir, pbxproj.FOLDER_FILETYPE)
}

type resourceIDs struct {
	resourcesRef   string
	binRef         string
	executableRefs []string
	buildFile      string
	resourcesGroup string
	binGroup       string
}

func newResourceIDs(project *pbxproj.PbxProject, names []string) resourceIDs {
	ids := resourceIDs{
		resourcesRef: project.GenerateUuid(),
		binRef:       project.GenerateUuid(),
	}
	for range names {
		ids.executableRefs = append(ids.executableRefs, project.GenerateUuid())
	}
	ids.buildFile = project.GenerateUuid()
	ids.resourcesGroup = project.GenerateUuid()
	ids.binGroup = project.GenerateUuid()
	return ids
}

// BundleResources adds the resources folder with its bin directory and
// executables to the project tree and to the target's resources phase.
func BundleResources(project *pbxproj.PbxProject, cfg config.Config) *Report {
	report := &Report{Utility: UtilityBundle, Path: project.FilePath()}
	ids := newResourceIDs(project, cfg.ResourceNames)
	log.Debug().Strs("ids", ids.all()).Msg("generated identifiers")

	resources := pbxproj.NewPbxFile(cfg.ResourcesDir, pbxproj.PbxFileOptions{Folder: true, Group: cfg.ResourcesDir})
	resources.FileRef = ids.resourcesRef
	resources.Uuid = ids.buildFile
	bin := pbxproj.NewPbxFile(cfg.BinDir, pbxproj.PbxFileOptions{Folder: true})
	bin.FileRef = ids.binRef

	var executables []*pbxproj.PbxFile
	for i, name := range cfg.ResourceNames {
		file := pbxproj.NewPbxFile(name, pbxproj.PbxFileOptions{ProbeDir: cfg.SourceBinDir()})
		file.FileRef = ids.executableRefs[i]
		executables = append(executables, file)
	}

	if err := addFileReferences(project, append([]*pbxproj.PbxFile{resources, bin}, executables...)); err != nil {
		// without file references every later step would dangle
		report.skip(StepFileReferences, err)
		dangling := errors.New("no file references to attach")
		report.skip(StepGroups, dangling)
		report.skip(StepMainGroup, dangling)
		report.skip(StepResourcesPhase, dangling)
		return report
	}
	report.done(StepFileReferences)

	groupsDefined := false
	if err := addGroups(project, ids, bin, executables, cfg); err != nil {
		report.skip(StepGroups, err)
	} else {
		groupsDefined = true
		report.done(StepGroups)
	}

	if groupsDefined {
		addToMainGroup(project, report, ids.resourcesGroup, cfg)
	} else {
		report.skip(StepMainGroup, errors.Errorf("no %s group to attach", cfg.ResourcesDir))
	}

	addToResourcesPhase(project, report, resources, cfg)
	return report
}

func (ids resourceIDs) all() []string {
	all := []string{ids.resourcesRef, ids.binRef}
	all = append(all, ids.executableRefs...)
	return append(all, ids.buildFile, ids.resourcesGroup, ids.binGroup)
}

func addFileReferences(project *pbxproj.PbxProject, files []*pbxproj.PbxFile) error {
	if !project.HasSection("PBXFileReference") {
		return errors.Wrap(pbxproj.ErrSectionNotFound, "PBXFileReference")
	}
	for _, file := range files {
		if err := project.AddToPbxFileReferenceSection(file); err != nil {
			return err
		}
	}
	return nil
}

func addGroups(project *pbxproj.PbxProject, ids resourceIDs, bin *pbxproj.PbxFile, executables []*pbxproj.PbxFile, cfg config.Config) error {
	if !project.HasSection("PBXGroup") {
		return errors.Wrap(pbxproj.ErrSectionNotFound, "PBXGroup")
	}
	binChild := pbxproj.CommentValue{Value: ids.binGroup, Comment: bin.Basename}
	if err := project.AddPbxGroup(ids.resourcesGroup, cfg.ResourcesDir, cfg.ResourcesDir, []pbxproj.CommentValue{binChild}); err != nil {
		return err
	}
	children := make([]pbxproj.CommentValue, 0, len(executables))
	for _, file := range executables {
		children = append(children, pbxproj.CommentValue{Value: file.FileRef, Comment: file.Basename})
	}
	return project.AddPbxGroup(ids.binGroup, cfg.BinDir, cfg.BinDir, children)
}

func addToMainGroup(project *pbxproj.PbxProject, report *Report, groupID string, cfg config.Config) {
	mainGroup, err := project.MainGroupKey(cfg.ProjectObject)
	if err != nil {
		report.skip(StepMainGroup, err)
		return
	}
	added, err := project.AddToPbxGroupChildren(mainGroup, pbxproj.CommentValue{Value: groupID, Comment: cfg.ResourcesDir})
	switch {
	case err != nil:
		report.skip(StepMainGroup, err)
	case added:
		report.done(StepMainGroup)
	default:
		report.present(StepMainGroup)
	}
}

func addToResourcesPhase(project *pbxproj.PbxProject, report *Report, resources *pbxproj.PbxFile, cfg config.Config) {
	if !project.HasSection("PBXBuildFile") {
		report.skip(StepResourcesPhase, errors.Wrap(pbxproj.ErrSectionNotFound, "PBXBuildFile"))
		return
	}
	added, err := project.AddToPbxResourcesBuildPhase(cfg.ResourcesPhase, resources)
	if err != nil {
		report.skip(StepResourcesPhase, err)
		return
	}
	if !added {
		report.present(StepResourcesPhase)
		return
	}
	if err := project.AddToPbxBuildFileSection(resources); err != nil {
		report.skip(StepResourcesPhase, err)
		return
	}
	report.done(StepResourcesPhase)
}
