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
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/soapywu/xcbundle/config"
	"github.com/soapywu/xcbundle/pbxproj"
)

const (
	shellScriptIsa = "PBXShellScriptBuildPhase"
	// new shell script sections are placed behind the resources phases so
	// the script runs on copied files
	shellScriptAnchorIsa = "PBXResourcesBuildPhase"
)

const (
	StepShellScriptPhase = "add shell script build phase"
	StepTargetWiring     = "attach build phase to target"
)

// PermissionScript returns the shell script that marks the bundled binaries
// executable inside the built product.
func PermissionScript(binDir string, names []string) string {
	dir := fmt.Sprintf(`${TARGET_BUILD_DIR}/${UNLOCALIZED_RESOURCES_FOLDER_PATH}/%s`, binDir)
	var b strings.Builder
	b.WriteString("# Fix permissions for bundled binaries\n")
	fmt.Fprintf(&b, "if [ -d \"%s\" ]; then\n", dir)
	for _, name := range names {
		fmt.Fprintf(&b, "    chmod +x \"%s/%s\"\n", dir, name)
	}
	b.WriteString("    echo \"Fixed binary permissions\"\n")
	b.WriteString("else\n")
	b.WriteString("    echo \"No bundled binaries found\"\n")
	b.WriteString("fi")
	return b.String()
}

// PermissionsPresent reports whether the phase name occurs anywhere in the
// descriptor text.
func PermissionsPresent(data []byte, cfg config.Config) bool {
	return cfg.PhaseName != "" && bytes.Contains(data, []byte(cfg.PhaseName))
}

// FixPermissions adds the permission fixing shell script phase and attaches
// it to the target. Each step that lacks its anchor is skipped and reported.
func FixPermissions(project *pbxproj.PbxProject, cfg config.Config) *Report {
	report := &Report{Utility: UtilityPermissions, Path: project.FilePath()}

	phaseID := project.GenerateUuid()
	reserved := project.GenerateUuid()
	log.Debug().Str("phase", phaseID).Str("reserved", reserved).Msg("generated identifiers")

	if !project.HasSection(shellScriptIsa) {
		if _, err := project.AddSectionAfter(shellScriptIsa, shellScriptAnchorIsa); err != nil {
			report.skip(StepShellScriptPhase, err)
			report.skip(StepTargetWiring, errors.Errorf("no %s record to attach", cfg.PhaseName))
			return report
		}
	}

	phase := pbxproj.PbxShellScriptBuildPhaseObj(pbxproj.ShellScriptBuildPhaseOptions{
		Name:        cfg.PhaseName,
		ShellScript: PermissionScript(cfg.BinDir, cfg.ResourceNames),
	})
	if err := project.AddObject(shellScriptIsa, phaseID, cfg.PhaseName, phase); err != nil {
		report.skip(StepShellScriptPhase, err)
		report.skip(StepTargetWiring, errors.Errorf("no %s record to attach", cfg.PhaseName))
		return report
	}
	report.done(StepShellScriptPhase)

	targetKey, err := project.TargetKey(cfg.TargetIdentifier, cfg.TargetName)
	if err != nil {
		report.skip(StepTargetWiring, err)
		return report
	}
	added, err := project.AddToTargetBuildPhases(targetKey, pbxproj.CommentValue{Value: phaseID, Comment: cfg.PhaseName})
	switch {
	case err != nil:
		report.skip(StepTargetWiring, err)
	case added:
		report.done(StepTargetWiring)
	default:
		report.present(StepTargetWiring)
	}
	return report
}

// HumanList joins names the way the status lines print them: "a, b, and c".
func HumanList(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}
