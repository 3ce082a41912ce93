package benchmark

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/perflab-ai/modelbench/sysmon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLog() Log {
	return Log{
		{
			Iteration:     0,
			Before:        sysmon.Sample{CPUPercent: 10.5, MemoryPercent: 40.25, Timestamp: 1700000000.125},
			After:         sysmon.Sample{CPUPercent: 55.0, MemoryPercent: 40.5, Timestamp: 1700000000.25},
			InferenceTime: 0.0123,
		},
		{
			Iteration:     1,
			Before:        sysmon.Sample{CPUPercent: 52.0, MemoryPercent: 40.5, Timestamp: 1700000000.5},
			After:         sysmon.Sample{CPUPercent: 60.0, MemoryPercent: 40.75, Timestamp: 1700000000.625},
			InferenceTime: 0.0119,
		},
	}
}

func TestSaveLogRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log := sampleLog()

	path, err := SaveLog(dir, "resnet18", log)
	require.NoError(t, err)

	loaded, err := LoadLog(path)
	require.NoError(t, err)
	assert.Equal(t, log, loaded)
}

func TestSaveLogFilename(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveLog(dir, "mobilenet_v2", sampleLog())
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^metrics_log_mobilenet_v2_\d{8}_\d{6}_\d+\.json$`)
	assert.Regexp(t, pattern, filepath.Base(path))
}

func TestSaveLogCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	_, err := SaveLog(dir, "alexnet", sampleLog())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadLogMissingFile(t *testing.T) {
	_, err := LoadLog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestListLogs(t *testing.T) {
	dir := t.TempDir()

	_, err := SaveLog(dir, "resnet18", sampleLog())
	require.NoError(t, err)
	_, err = SaveLog(dir, "alexnet", sampleLog())
	require.NoError(t, err)

	// Files not matching the pattern are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	names, err := ListLogs(dir)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.True(t, sortedStrings(names))
	for _, name := range names {
		assert.Contains(t, name, "metrics_log_")
	}
}

func TestListLogsMissingDir(t *testing.T) {
	names, err := ListLogs(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
