package patch

import (
	"context"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/soapywu/xcbundle/config"
	"github.com/soapywu/xcbundle/pbxproj"
	"github.com/soapywu/xcbundle/pbxproj/pbxtest"
	"github.com/soapywu/xcbundle/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(path string) config.Config {
	cfg := config.Default()
	cfg.ProjectPath = path
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

var recordDefinition = regexp.MustCompile(`(?m)^\t\t([0-9A-F]{24})\b`)

func assertUniqueIdentifiers(t *testing.T, text string) {
	t.Helper()
	seen := map[string]bool{}
	for _, match := range recordDefinition.FindAllStringSubmatch(text, -1) {
		assert.False(t, seen[match[1]], "identifier %s defined twice", match[1])
		seen[match[1]] = true
	}
}

func TestFixPermissionsCreatesSection(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)
	runner := NewRunner(store.New(), testConfig(path))

	report, err := runner.FixPermissions(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Written)
	assert.True(t, report.FullyPatched())
	assert.Empty(t, report.Backup)
	assert.Equal(t, []Step{
		{Name: StepShellScriptPhase, Status: StepDone},
		{Name: StepTargetWiring, Status: StepDone},
	}, report.Steps)

	out := readFile(t, path)
	require.NoError(t, pbxproj.Validate([]byte(out)))
	assert.Equal(t, 1, strings.Count(out, "/* Begin PBXShellScriptBuildPhase section */"))
	assert.Equal(t, 1, strings.Count(out, "/* End PBXShellScriptBuildPhase section */"))
	assert.Contains(t, out, "/* End PBXResourcesBuildPhase section */\n\n/* Begin PBXShellScriptBuildPhase section */\n")
	assert.Contains(t, out, "\t\t\tname = \"Fix Binary Permissions\";\n")
	assert.Contains(t, out, `chmod +x \"${TARGET_BUILD_DIR}/${UNLOCALIZED_RESOURCES_FOLDER_PATH}/bin/ffprobe\"\n`)
	assert.Regexp(t, `F8522F052E588C4300B30F2A /\* Resources \*/,\n\t\t\t\t[0-9A-F]{24} /\* Fix Binary Permissions \*/,\n\t\t\t\);`, out)
	assertUniqueIdentifiers(t, out)

	_, err = os.Stat(store.BackupPath(path))
	assert.True(t, os.IsNotExist(err))
}

func TestFixPermissionsAppendsToExistingSection(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.WithShellScriptSection())
	runner := NewRunner(store.New(), testConfig(path))

	report, err := runner.FixPermissions(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Written)

	out := readFile(t, path)
	assert.Equal(t, 1, strings.Count(out, "/* Begin PBXShellScriptBuildPhase section */"))
	lint := strings.Index(out, "/* Lint */ = {")
	phase := strings.Index(out, "/* Fix Binary Permissions */ = {")
	end := strings.Index(out, "/* End PBXShellScriptBuildPhase section */")
	assert.True(t, lint < phase && phase < end)
}

func TestFixPermissionsIsIdempotent(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)
	cfg := testConfig(path)
	cfg.Backup = true
	runner := NewRunner(store.New(), cfg)

	_, err := runner.FixPermissions(context.Background())
	require.NoError(t, err)
	patched := readFile(t, path)

	report, err := runner.FixPermissions(context.Background())
	require.NoError(t, err)
	assert.True(t, report.AlreadyPresent)
	assert.False(t, report.Written)
	assert.Equal(t, patched, readFile(t, path))
	assert.Equal(t, patched, readFile(t, report.Backup))
}

func TestBundleResources(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)
	runner := NewRunner(store.New(), testConfig(path))

	report, err := runner.BundleResources(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Written)
	assert.True(t, report.FullyPatched(), "%v", report.Err())
	assert.Equal(t, store.BackupPath(path), report.Backup)
	assert.Equal(t, pbxtest.Project, readFile(t, report.Backup))

	out := readFile(t, path)
	require.NoError(t, pbxproj.Validate([]byte(out)))
	assert.Equal(t, 1, strings.Count(out, "/* Resources */ = {isa = PBXFileReference; lastKnownFileType = folder; path = Resources; sourceTree = \"<group>\"; };"))
	assert.Equal(t, 1, strings.Count(out, "/* bin */ = {isa = PBXFileReference; lastKnownFileType = folder; path = bin; sourceTree = \"<group>\"; };"))
	assert.Equal(t, 3, strings.Count(out, "lastKnownFileType = \"compiled.mach-o.executable\";"))
	assert.Contains(t, out, "/* yt-dlp */ = {isa = PBXFileReference; lastKnownFileType = \"compiled.mach-o.executable\"; path = \"yt-dlp\"; sourceTree = \"<group>\"; };")
	assert.Contains(t, out, "/* ffmpeg */ = {isa = PBXFileReference; lastKnownFileType = \"compiled.mach-o.executable\"; path = ffmpeg; sourceTree = \"<group>\"; };")
	assert.Regexp(t, `[0-9A-F]{24} /\* Resources in Resources \*/ = \{isa = PBXBuildFile; fileRef = [0-9A-F]{24} /\* Resources \*/; \};`, out)
	assert.Regexp(t, `files = \(\n\t\t\t\t[0-9A-F]{24} /\* Resources in Resources \*/,\n\t\t\t\tF8522F0F2E588C4300B30F2A`, out)
	assert.Regexp(t, `F8522F082E588C4300B30F2A /\* Products \*/,\n\t\t\t\t[0-9A-F]{24} /\* Resources \*/,\n`, out)
	assert.Regexp(t, `/\* bin \*/ = \{\n\t\t\tisa = PBXGroup;\n\t\t\tchildren = \(\n\t\t\t\t[0-9A-F]{24} /\* yt-dlp \*/,\n\t\t\t\t[0-9A-F]{24} /\* ffmpeg \*/,\n\t\t\t\t[0-9A-F]{24} /\* ffprobe \*/,\n\t\t\t\);\n\t\t\tpath = bin;`, out)
	assertUniqueIdentifiers(t, out)

	// second run backs up the patched file and changes nothing
	again, err := runner.BundleResources(context.Background())
	require.NoError(t, err)
	assert.True(t, again.AlreadyPresent)
	assert.Equal(t, out, readFile(t, path))
	assert.Equal(t, out, readFile(t, again.Backup))
}

func TestBundleResourcesIntoEmptySections(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Minimal)
	runner := NewRunner(store.New(), testConfig(path))

	report, err := runner.BundleResources(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Written)
	assert.True(t, report.FullyPatched(), "%v", report.Err())

	out := readFile(t, path)
	require.NoError(t, pbxproj.Validate([]byte(out)))
	assert.Equal(t, 1, strings.Count(out, "/* Resources */ = {isa = PBXFileReference; lastKnownFileType = folder; path = Resources; sourceTree = \"<group>\"; };"))
	assert.Equal(t, 1, strings.Count(out, "/* bin */ = {isa = PBXFileReference; lastKnownFileType = folder; path = bin; sourceTree = \"<group>\"; };"))
	assert.Equal(t, 3, strings.Count(out, "lastKnownFileType = \"compiled.mach-o.executable\";"))
	assert.Equal(t, 1, strings.Count(out, "isa = PBXBuildFile;"))
	for _, name := range []string{"yt-dlp", "ffmpeg", "ffprobe"} {
		assert.Equal(t, 1, strings.Count(out, "/* "+name+" */ = {isa = PBXFileReference;"), name)
	}
	assert.Regexp(t, `files = \(\n\t\t\t\t[0-9A-F]{24} /\* Resources in Resources \*/,\n\t\t\t\);`, out)
	assertUniqueIdentifiers(t, out)
}

func TestFixPermissionsKeepsEmptySections(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Minimal)
	runner := NewRunner(store.New(), testConfig(path))

	report, err := runner.FixPermissions(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Written)
	assert.True(t, report.FullyPatched(), "%v", report.Err())

	out := readFile(t, path)
	assert.Contains(t, out, "\n/* Begin PBXBuildFile section */\n/* End PBXBuildFile section */\n")
	assert.Contains(t, out, "\n/* Begin PBXFileReference section */\n/* End PBXFileReference section */\n")
	assert.Contains(t, out, "/* End PBXResourcesBuildPhase section */\n\n/* Begin PBXShellScriptBuildPhase section */\n")
}

func TestApply(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)
	runner := NewRunner(store.New(), testConfig(path))

	reports, err := runner.Apply(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, UtilityBundle, reports[0].Utility)
	assert.Equal(t, UtilityPermissions, reports[1].Utility)

	out := readFile(t, path)
	require.NoError(t, pbxproj.Validate([]byte(out)))
	assertUniqueIdentifiers(t, out)

	reports, err = runner.Apply(context.Background())
	require.NoError(t, err)
	for _, report := range reports {
		assert.True(t, report.AlreadyPresent, report.Utility)
	}
	assert.Equal(t, out, readFile(t, path))
}

func TestStrictAbortsWithoutWriting(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)
	cfg := testConfig(path)
	cfg.ResourcesPhase = "AAAAAAAAAAAAAAAAAAAAAAAA"
	cfg.Strict = true

	report, err := NewRunner(store.New(), cfg).BundleResources(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStrict)
	assert.ErrorIs(t, err, pbxproj.ErrObjectNotFound)
	assert.False(t, report.Written)
	assert.Equal(t, pbxtest.Project, readFile(t, path))
}

func TestPartialPatchIsReported(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)
	cfg := testConfig(path)
	cfg.ResourcesPhase = "AAAAAAAAAAAAAAAAAAAAAAAA"

	report, err := NewRunner(store.New(), cfg).BundleResources(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Written)
	assert.False(t, report.FullyPatched())
	require.Len(t, report.Skipped(), 1)
	assert.Equal(t, StepResourcesPhase, report.Skipped()[0].Name)
	assert.Error(t, report.Err())

	out := readFile(t, path)
	assert.NotContains(t, out, "Resources in Resources")
}

func TestFixPermissionsWithoutAnchor(t *testing.T) {
	text := pbxtest.WithoutSection(pbxtest.Project, "PBXResourcesBuildPhase")
	path := pbxtest.WriteProject(t, text)
	runner := NewRunner(store.New(), testConfig(path))

	report, err := runner.FixPermissions(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Written)
	assert.Len(t, report.Skipped(), 2)
	assert.Equal(t, text, readFile(t, path))
}

func TestDryRun(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)
	cfg := testConfig(path)
	cfg.DryRun = true

	report, err := NewRunner(store.New(), cfg).BundleResources(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Written)
	assert.Empty(t, report.Backup)
	assert.Contains(t, report.Diff, "--- "+path)
	assert.Contains(t, report.Diff, "+\t\t\t\t")
	assert.Equal(t, pbxtest.Project, readFile(t, path))

	_, err = os.Stat(store.BackupPath(path))
	assert.True(t, os.IsNotExist(err))
}

func TestMissingProject(t *testing.T) {
	runner := NewRunner(store.New(), testConfig(t.TempDir()+"/App.xcodeproj/project.pbxproj"))
	_, err := runner.FixPermissions(context.Background())
	assert.ErrorIs(t, err, ErrProjectNotFound)
	_, err = runner.Check(context.Background())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestCheck(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)
	runner := NewRunner(store.New(), testConfig(path))

	status, err := runner.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, status.ResourcesPresent)
	assert.False(t, status.PermissionsPresent)
	assert.NoError(t, status.ValidErr)
	require.Len(t, status.Binaries, 3)
	assert.False(t, status.Binaries[0].Exists)

	_, err = runner.Apply(context.Background())
	require.NoError(t, err)
	status, err = runner.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, status.ResourcesPresent)
	assert.True(t, status.PermissionsPresent)
}
