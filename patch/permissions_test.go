package patch

import (
	"testing"

	"github.com/soapywu/xcbundle/config"
	"github.com/soapywu/xcbundle/pbxproj"
	"github.com/soapywu/xcbundle/pbxproj/pbxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionScript(t *testing.T) {
	expected := `# Fix permissions for bundled binaries
if [ -d "${TARGET_BUILD_DIR}/${UNLOCALIZED_RESOURCES_FOLDER_PATH}/bin" ]; then
    chmod +x "${TARGET_BUILD_DIR}/${UNLOCALIZED_RESOURCES_FOLDER_PATH}/bin/yt-dlp"
    chmod +x "${TARGET_BUILD_DIR}/${UNLOCALIZED_RESOURCES_FOLDER_PATH}/bin/ffmpeg"
    chmod +x "${TARGET_BUILD_DIR}/${UNLOCALIZED_RESOURCES_FOLDER_PATH}/bin/ffprobe"
    echo "Fixed binary permissions"
else
    echo "No bundled binaries found"
fi`
	assert.Equal(t, expected, PermissionScript("bin", []string{"yt-dlp", "ffmpeg", "ffprobe"}))
}

func TestHumanList(t *testing.T) {
	assert.Equal(t, "", HumanList(nil))
	assert.Equal(t, "yt-dlp", HumanList([]string{"yt-dlp"}))
	assert.Equal(t, "yt-dlp and ffmpeg", HumanList([]string{"yt-dlp", "ffmpeg"}))
	assert.Equal(t, "yt-dlp, ffmpeg, and ffprobe", HumanList([]string{"yt-dlp", "ffmpeg", "ffprobe"}))
}

func TestFixPermissionsUnknownTarget(t *testing.T) {
	project := pbxproj.NewPbxProject("project.pbxproj")
	require.NoError(t, project.ParseBytes([]byte(pbxtest.Project)))

	cfg := config.Default()
	cfg.TargetIdentifier = "AAAAAAAAAAAAAAAAAAAAAAAA"
	cfg.TargetName = "Other"

	report := FixPermissions(&project, cfg)
	require.Len(t, report.Steps, 2)
	assert.Equal(t, StepDone, report.Steps[0].Status)
	assert.Equal(t, StepSkipped, report.Steps[1].Status)
	assert.ErrorIs(t, report.Err(), pbxproj.ErrObjectNotFound)
}

func TestResourcesPresent(t *testing.T) {
	cfg := config.Default()
	assert.True(t, ResourcesPresent([]byte("path = Resources/bin;"), nil, cfg))
	assert.True(t, ResourcesPresent([]byte("/* Resources folder */"), nil, cfg))
	assert.False(t, ResourcesPresent([]byte(pbxtest.Project), nil, cfg))
	assert.True(t, PermissionsPresent([]byte(`name = "Fix Binary Permissions";`), cfg))
}

func TestBundleResourcesWithoutFileReferences(t *testing.T) {
	project := pbxproj.NewPbxProject("project.pbxproj")
	require.NoError(t, project.ParseBytes([]byte(pbxtest.WithoutSection(pbxtest.Project, "PBXFileReference"))))

	report := BundleResources(&project, config.Default())
	assert.False(t, report.Changed())
	require.Len(t, report.Skipped(), 4)
	assert.ErrorIs(t, report.Steps[0].Err, pbxproj.ErrSectionNotFound)
	var names []string
	for _, step := range report.Skipped() {
		names = append(names, step.Name)
	}
	assert.Equal(t, []string{StepFileReferences, StepGroups, StepMainGroup, StepResourcesPhase}, names)
}

func TestPermissionsPresentNeedsPhaseName(t *testing.T) {
	cfg := config.Default()
	assert.False(t, PermissionsPresent([]byte(pbxtest.Project), cfg))
	assert.True(t, PermissionsPresent([]byte(pbxtest.Project+cfg.PhaseName), cfg))

	cfg.PhaseName = ""
	assert.False(t, PermissionsPresent([]byte(pbxtest.Project), cfg))
}
