package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// LogFilePattern matches the files SaveLog writes.
const LogFilePattern = "metrics_log_*.json"

// SaveLog persists a run's log under dir, creating it if absent, and
// returns the written path. The filename carries the model name, a
// second-resolution timestamp, and the writer's PID so concurrent runs of
// the same model cannot collide.
func SaveLog(dir, model string, log Log) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating logs directory")
	}

	name := fmt.Sprintf("metrics_log_%s_%s_%d.json",
		model, time.Now().Format("20060102_150405"), os.Getpid())
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshaling log")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "writing log file")
	}
	return path, nil
}

// LoadLog reads a log file written by SaveLog.
func LoadLog(path string) (Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading log file")
	}

	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, errors.Wrap(err, "unmarshaling log file")
	}
	return log, nil
}

// ListLogs returns the base names of log files under dir, sorted. A missing
// directory yields an empty list, not an error.
func ListLogs(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, LogFilePattern))
	if err != nil {
		return nil, errors.Wrap(err, "listing log files")
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}
