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
// Package pbxtest holds project descriptors for tests.
package pbxtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Project is an app project in exactly the layout Xcode writes, so it
// survives a parse and write cycle byte for byte. It has no shell script
// phases.
const Project = `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {

/* Begin PBXBuildFile section */
		F8522F0B2E588C4300B30F2A /* yt_dlp_MAXApp.swift in Sources */ = {isa = PBXBuildFile; fileRef = F8522F0A2E588C4300B30F2A /* yt_dlp_MAXApp.swift */; };
		F8522F0D2E588C4300B30F2A /* ContentView.swift in Sources */ = {isa = PBXBuildFile; fileRef = F8522F0C2E588C4300B30F2A /* ContentView.swift */; };
		F8522F0F2E588C4300B30F2A /* Assets.xcassets in Resources */ = {isa = PBXBuildFile; fileRef = F8522F0E2E588C4300B30F2A /* Assets.xcassets */; };
/* End PBXBuildFile section */

/* Begin PBXFileReference section */
		F8522F072E588C4300B30F2A /* yt-dlp-MAX.app */ = {isa = PBXFileReference; explicitFileType = wrapper.application; includeInIndex = 0; path = "yt-dlp-MAX.app"; sourceTree = BUILT_PRODUCTS_DIR; };
		F8522F0A2E588C4300B30F2A /* yt_dlp_MAXApp.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = yt_dlp_MAXApp.swift; sourceTree = "<group>"; };
		F8522F0C2E588C4300B30F2A /* ContentView.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = ContentView.swift; sourceTree = "<group>"; };
		F8522F0E2E588C4300B30F2A /* Assets.xcassets */ = {isa = PBXFileReference; lastKnownFileType = folder.assetcatalog; path = Assets.xcassets; sourceTree = "<group>"; };
/* End PBXFileReference section */

/* Begin PBXFrameworksBuildPhase section */
		F8522F042E588C4300B30F2A /* Frameworks */ = {
			isa = PBXFrameworksBuildPhase;
			buildActionMask = 2147483647;
			files = (
			);
			runOnlyForDeploymentPostprocessing = 0;
		};
/* End PBXFrameworksBuildPhase section */

/* Begin PBXGroup section */
		F8522EFD2E588C4300B30F2A = {
			isa = PBXGroup;
			children = (
				F8522F092E588C4300B30F2A /* yt-dlp-MAX */,
				F8522F082E588C4300B30F2A /* Products */,
			);
			sourceTree = "<group>";
		};
		F8522F082E588C4300B30F2A /* Products */ = {
			isa = PBXGroup;
			children = (
				F8522F072E588C4300B30F2A /* yt-dlp-MAX.app */,
			);
			name = Products;
			sourceTree = "<group>";
		};
		F8522F092E588C4300B30F2A /* yt-dlp-MAX */ = {
			isa = PBXGroup;
			children = (
				F8522F0A2E588C4300B30F2A /* yt_dlp_MAXApp.swift */,
				F8522F0C2E588C4300B30F2A /* ContentView.swift */,
				F8522F0E2E588C4300B30F2A /* Assets.xcassets */,
			);
			path = "yt-dlp-MAX";
			sourceTree = "<group>";
		};
/* End PBXGroup section */

/* Begin PBXNativeTarget section */
		F8522F062E588C4300B30F2A /* yt-dlp-MAX */ = {
			isa = PBXNativeTarget;
			buildConfigurationList = F8522F162E588C4400B30F2A /* Build configuration list for PBXNativeTarget "yt-dlp-MAX" */;
			buildPhases = (
				F8522F032E588C4300B30F2A /* Sources */,
				F8522F042E588C4300B30F2A /* Frameworks */,
				F8522F052E588C4300B30F2A /* Resources */,
			);
			buildRules = (
			);
			dependencies = (
			);
			name = "yt-dlp-MAX";
			productName = "yt-dlp-MAX";
			productReference = F8522F072E588C4300B30F2A /* yt-dlp-MAX.app */;
			productType = "com.apple.product-type.application";
		};
/* End PBXNativeTarget section */

/* Begin PBXProject section */
		F8522EFE2E588C4300B30F2A /* Project object */ = {
			isa = PBXProject;
			attributes = {
				BuildIndependentTargetsInParallel = 1;
				LastSwiftUpdateCheck = 1640;
				LastUpgradeCheck = 1640;
				TargetAttributes = {
					F8522F062E588C4300B30F2A = {
						CreatedOnToolsVersion = 16.4;
					};
				};
			};
			buildConfigurationList = F8522F022E588C4300B30F2A /* Build configuration list for PBXProject "yt-dlp-MAX" */;
			developmentRegion = en;
			hasScannedForEncodings = 0;
			knownRegions = (
				en,
				Base,
			);
			mainGroup = F8522EFD2E588C4300B30F2A;
			productRefGroup = F8522F082E588C4300B30F2A /* Products */;
			projectDirPath = "";
			projectRoot = "";
			targets = (
				F8522F062E588C4300B30F2A /* yt-dlp-MAX */,
			);
		};
/* End PBXProject section */

/* Begin PBXResourcesBuildPhase section */
		F8522F052E588C4300B30F2A /* Resources */ = {
			isa = PBXResourcesBuildPhase;
			buildActionMask = 2147483647;
			files = (
				F8522F0F2E588C4300B30F2A /* Assets.xcassets in Resources */,
			);
			runOnlyForDeploymentPostprocessing = 0;
		};
/* End PBXResourcesBuildPhase section */

/* Begin PBXSourcesBuildPhase section */
		F8522F032E588C4300B30F2A /* Sources */ = {
			isa = PBXSourcesBuildPhase;
			buildActionMask = 2147483647;
			files = (
				F8522F0D2E588C4300B30F2A /* ContentView.swift in Sources */,
				F8522F0B2E588C4300B30F2A /* yt_dlp_MAXApp.swift in Sources */,
			);
			runOnlyForDeploymentPostprocessing = 0;
		};
/* End PBXSourcesBuildPhase section */

/* Begin XCBuildConfiguration section */
		F8522F142E588C4400B30F2A /* Debug */ = {
			isa = XCBuildConfiguration;
			buildSettings = {
				ALWAYS_SEARCH_USER_PATHS = NO;
				"CODE_SIGN_IDENTITY[sdk=macosx*]" = "-";
				GCC_PREPROCESSOR_DEFINITIONS = (
					"DEBUG=1",
					"$(inherited)",
				);
				MACOSX_DEPLOYMENT_TARGET = 14.0;
				SDKROOT = macosx;
				SWIFT_ACTIVE_COMPILATION_CONDITIONS = "DEBUG $(inherited)";
			};
			name = Debug;
		};
		F8522F152E588C4400B30F2A /* Release */ = {
			isa = XCBuildConfiguration;
			buildSettings = {
				ALWAYS_SEARCH_USER_PATHS = NO;
				"CODE_SIGN_IDENTITY[sdk=macosx*]" = "-";
				MACOSX_DEPLOYMENT_TARGET = 14.0;
				SDKROOT = macosx;
				SWIFT_COMPILATION_MODE = wholemodule;
			};
			name = Release;
		};
		F8522F172E588C4400B30F2A /* Debug */ = {
			isa = XCBuildConfiguration;
			buildSettings = {
				ASSETCATALOG_COMPILER_APPICON_NAME = AppIcon;
				CODE_SIGN_STYLE = Automatic;
				LD_RUNPATH_SEARCH_PATHS = (
					"$(inherited)",
					"@executable_path/../Frameworks",
				);
				PRODUCT_BUNDLE_IDENTIFIER = "com.example.yt-dlp-MAX";
				PRODUCT_NAME = "$(TARGET_NAME)";
				SWIFT_VERSION = 5.0;
			};
			name = Debug;
		};
		F8522F182E588C4400B30F2A /* Release */ = {
			isa = XCBuildConfiguration;
			buildSettings = {
				ASSETCATALOG_COMPILER_APPICON_NAME = AppIcon;
				CODE_SIGN_STYLE = Automatic;
				LD_RUNPATH_SEARCH_PATHS = (
					"$(inherited)",
					"@executable_path/../Frameworks",
				);
				PRODUCT_BUNDLE_IDENTIFIER = "com.example.yt-dlp-MAX";
				PRODUCT_NAME = "$(TARGET_NAME)";
				SWIFT_VERSION = 5.0;
			};
			name = Release;
		};
/* End XCBuildConfiguration section */

/* Begin XCConfigurationList section */
		F8522F022E588C4300B30F2A /* Build configuration list for PBXProject "yt-dlp-MAX" */ = {
			isa = XCConfigurationList;
			buildConfigurations = (
				F8522F142E588C4400B30F2A /* Debug */,
				F8522F152E588C4400B30F2A /* Release */,
			);
			defaultConfigurationIsVisible = 0;
			defaultConfigurationName = Release;
		};
		F8522F162E588C4400B30F2A /* Build configuration list for PBXNativeTarget "yt-dlp-MAX" */ = {
			isa = XCConfigurationList;
			buildConfigurations = (
				F8522F172E588C4400B30F2A /* Debug */,
				F8522F182E588C4400B30F2A /* Release */,
			);
			defaultConfigurationIsVisible = 0;
			defaultConfigurationName = Release;
		};
/* End XCConfigurationList section */
	};
	rootObject = F8522EFE2E588C4300B30F2A /* Project object */;
}
`

// Minimal carries only the records the bundler and the injector look up,
// with empty PBXBuildFile and PBXFileReference sections.
const Minimal = `// !$*UTF8*$!
{
	archiveVersion = 1;
	classes = {
	};
	objectVersion = 56;
	objects = {

/* Begin PBXBuildFile section */
/* End PBXBuildFile section */

/* Begin PBXFileReference section */
/* End PBXFileReference section */

/* Begin PBXGroup section */
		F8522EFD2E588C4300B30F2A = {
			isa = PBXGroup;
			children = (
			);
			sourceTree = "<group>";
		};
/* End PBXGroup section */

/* Begin PBXNativeTarget section */
		F8522F062E588C4300B30F2A /* yt-dlp-MAX */ = {
			isa = PBXNativeTarget;
			buildPhases = (
				F8522F052E588C4300B30F2A /* Resources */,
			);
			name = "yt-dlp-MAX";
		};
/* End PBXNativeTarget section */

/* Begin PBXProject section */
		F8522EFE2E588C4300B30F2A /* Project object */ = {
			isa = PBXProject;
			mainGroup = F8522EFD2E588C4300B30F2A;
			targets = (
				F8522F062E588C4300B30F2A /* yt-dlp-MAX */,
			);
		};
/* End PBXProject section */

/* Begin PBXResourcesBuildPhase section */
		F8522F052E588C4300B30F2A /* Resources */ = {
			isa = PBXResourcesBuildPhase;
			files = (
			);
		};
/* End PBXResourcesBuildPhase section */
	};
	rootObject = F8522EFE2E588C4300B30F2A /* Project object */;
}
`

const (
	TargetID         = "F8522F062E588C4300B30F2A"
	ProjectObjectID  = "F8522EFE2E588C4300B30F2A"
	MainGroupID      = "F8522EFD2E588C4300B30F2A"
	ResourcesPhaseID = "F8522F052E588C4300B30F2A"
)

// ShellScriptSection is a PBXShellScriptBuildPhase section with one phase,
// laid out as Xcode places it behind the resources phases.
const ShellScriptSection = `
/* Begin PBXShellScriptBuildPhase section */
		F8522F202E588C4400B30F2A /* Lint */ = {
			isa = PBXShellScriptBuildPhase;
			buildActionMask = 2147483647;
			files = (
			);
			inputPaths = (
			);
			name = Lint;
			outputPaths = (
			);
			runOnlyForDeploymentPostprocessing = 0;
			shellPath = /bin/sh;
			shellScript = "swiftlint\n";
		};
/* End PBXShellScriptBuildPhase section */
`

const resourcesEnd = "/* End PBXResourcesBuildPhase section */\n"

// WithShellScriptSection returns Project with ShellScriptSection in place.
func WithShellScriptSection() string {
	return strings.Replace(Project, resourcesEnd, resourcesEnd+ShellScriptSection, 1)
}

// WithoutSection drops the whole section of one isa from text.
func WithoutSection(text, isa string) string {
	begin := "\n/* Begin " + isa + " section */\n"
	end := "/* End " + isa + " section */\n"
	start := strings.Index(text, begin)
	stop := strings.Index(text, end)
	if start < 0 || stop < 0 {
		return text
	}
	return text[:start] + text[stop+len(end):]
}

// WriteProject stores text as an xcodeproj bundle's project.pbxproj under a
// fresh temporary directory and returns its path.
func WriteProject(t testing.TB, text string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "App.xcodeproj")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "project.pbxproj")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
