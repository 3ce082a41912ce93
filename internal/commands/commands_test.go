package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/perflab-ai/modelbench/benchmark"
	"github.com/perflab-ai/modelbench/models"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores flag values changed by a previous Execute; cobra keeps
// flag state on the shared command objects between test runs.
func resetFlags(t *testing.T) {
	t.Helper()
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), runCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				require.NoError(t, f.Value.Set(f.DefValue))
				f.Changed = false
			}
		})
	}
}

func TestRunUnknownModelFails(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	rootCmd.SetArgs([]string{
		"run",
		"--model", "resnet152",
		"--iterations", "1",
		"--save-logs",
		"--logs-dir", dir,
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnknownModel))

	// No inference ran, so no log file may exist either.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"negative batch size", []string{"--batch-size=-1", "--iterations", "1"}},
		{"zero batch size", []string{"--batch-size", "0", "--iterations", "1"}},
		{"zero iterations", []string{"--batch-size", "1", "--iterations", "0"}},
		{"negative iterations", []string{"--batch-size", "1", "--iterations=-5"}},
		{"negative mock delay", []string{"--batch-size", "1", "--iterations", "1", "--mock-delay=-0.5"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetFlags(t)
			dir := t.TempDir()
			args := append([]string{
				"run",
				"--model", "mobilenet_v2",
				"--save-logs",
				"--logs-dir", dir,
				"--mock-delay", "0",
			}, tc.args...)
			rootCmd.SetArgs(args)

			require.Error(t, rootCmd.Execute())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestRunSavesLog(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	rootCmd.SetArgs([]string{
		"run",
		"--model", "mobilenet_v2",
		"--iterations", "2",
		"--batch-size", "1",
		"--save-logs",
		"--logs-dir", dir,
	})

	require.NoError(t, rootCmd.Execute())

	files, err := benchmark.ListLogs(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	log, err := benchmark.LoadLog(filepath.Join(dir, files[0]))
	require.NoError(t, err)
	assert.Len(t, log, 2)
}

func TestRunWithoutSaveWritesNothing(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	rootCmd.SetArgs([]string{
		"run",
		"--model", "mobilenet_v2",
		"--iterations", "1",
		"--batch-size", "1",
		"--save-logs=false",
		"--logs-dir", dir,
	})

	require.NoError(t, rootCmd.Execute())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunModelNameIsCaseInsensitive(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	rootCmd.SetArgs([]string{
		"run",
		"--model", "AlexNet",
		"--iterations", "1",
		"--batch-size", "1",
		"--save-logs",
		"--logs-dir", dir,
	})

	require.NoError(t, rootCmd.Execute())

	files, err := benchmark.ListLogs(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "alexnet")
}
