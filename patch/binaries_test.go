package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeExecutable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yt-dlp"), []byte("#!/bin/sh\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ffmpeg"), []byte("#!/bin/sh\n"), 0755))

	changed, err := MakeExecutable(dir, []string{"yt-dlp", "ffmpeg", "ffprobe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffprobe")
	assert.Equal(t, []string{"yt-dlp"}, changed)

	info, err := os.Stat(filepath.Join(dir, "yt-dlp"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	statuses := InspectBinaries(dir, []string{"yt-dlp", "ffprobe"})
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Exists)
	assert.True(t, statuses[0].Executable)
	assert.Error(t, statuses[0].Err, "a shell script is not Mach-O")
	assert.False(t, statuses[1].Exists)
	assert.NoError(t, statuses[1].Err)
}
