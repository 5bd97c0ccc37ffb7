package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/soapywu/xcbundle/pbxproj/pbxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	root := NewRootCommand("test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestBundleCommand(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)

	out, err := runCommand(t, "bundle", "--project", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Backed up project file to "+path+".backup\n")
	assert.Contains(t, out, "✓ Successfully added Resources folder to Xcode project\n")
	assert.Contains(t, out, "⚠️  Note: You still need to:\n")
	assert.Contains(t, out, "   1. Open the project in Xcode\n")
	assert.Contains(t, out, "   3. Check Build Phases → Copy Bundle Resources includes Resources folder\n")
	assert.Contains(t, out, "   4. Add the 'Fix Binary Permissions' build phase script\n")
	assert.Contains(t, out, "✓ Project fully patched by bundle\n")

	out, err = runCommand(t, "bundle", "--project", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Resources folder appears to already be in the project\n")
}

func TestFixPermissionsCommand(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)

	out, err := runCommand(t, "fix-permissions", "--project", path)
	require.NoError(t, err)
	assert.Equal(t, "✓ Successfully added 'Fix Binary Permissions' build phase\n"+
		"✓ The build phase will run after copying resources\n"+
		"✓ It will ensure yt-dlp, ffmpeg, and ffprobe are executable\n"+
		"✓ Project fully patched by fix-permissions\n", out)

	before, err := os.ReadFile(path)
	require.NoError(t, err)
	out, err = runCommand(t, "fix-permissions", "--project", path)
	require.NoError(t, err)
	assert.Equal(t, "✓ 'Fix Binary Permissions' build phase already exists\n", out)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMissingProjectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "App.xcodeproj", "project.pbxproj")
	_, err := runCommand(t, "fix-permissions", "--project", path)
	require.Error(t, err)
	assert.Equal(t, "project.pbxproj not found at "+path, err.Error())
}

func TestStrictFromConfigFile(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.WithoutSection(pbxtest.Project, "PBXResourcesBuildPhase"))
	file := filepath.Join(t.TempDir(), "xcbundle.yaml")
	require.NoError(t, os.WriteFile(file, []byte("strict: true\nproject_path: "+path+"\n"), 0644))

	out, err := runCommand(t, "--config", file, "fix-permissions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partially patched")
	assert.Contains(t, out, "⚠️  Skipped add shell script build phase:")
}

func TestDryRunCommand(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)

	out, err := runCommand(t, "apply", "--project", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "--- "+path)
	assert.Contains(t, out, "Dry run: "+path+" was not written")
	assert.NotContains(t, out, "Backed up")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pbxtest.Project, string(data))
}

func TestCheckAndDumpCommands(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)
	_, err := runCommand(t, "apply", "--project", path)
	require.NoError(t, err)

	out, err := runCommand(t, "check", "--project", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Resources folder is in the project\n")
	assert.Contains(t, out, "✓ 'Fix Binary Permissions' build phase exists\n")
	assert.Contains(t, out, "✓ Project reads as an OpenStep property list\n")
	assert.Contains(t, out, "⚠️  yt-dlp: missing\n")

	out, err = runCommand(t, "dump", "--project", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"headComment": "!$*UTF8*$!"`)
}

func TestFixPermsLocalCommand(t *testing.T) {
	path := pbxtest.WriteProject(t, pbxtest.Project)
	binDir := filepath.Join(filepath.Dir(filepath.Dir(path)), "Resources", "bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))
	for _, name := range []string{"yt-dlp", "ffmpeg", "ffprobe"} {
		require.NoError(t, os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\n"), 0644))
	}

	out, err := runCommand(t, "fix-perms-local", "--project", path)
	require.NoError(t, err)
	assert.Equal(t, "✓ Made yt-dlp executable\n✓ Made ffmpeg executable\n✓ Made ffprobe executable\n", out)

	out, err = runCommand(t, "fix-perms-local", "--project", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already executable")
}
