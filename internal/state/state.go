// Package state manages the single small file that records git-trim's
// only piece of process-external mutable state: the epoch seconds of the
// last successful remote update.
package state

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FileName is the state file's name under the repository's administrative
// (".git") directory.
const FileName = "trim-last-update"

// Path returns the state file path under gitDir (the repository's ".git"
// directory, or the bare repository root).
func Path(gitDir string) string {
	return filepath.Join(gitDir, FileName)
}

// LastUpdate reads the recorded last-update time. ok is false when the file
// is absent or unparseable; callers then treat the update as overdue.
func LastUpdate(gitDir string) (t time.Time, ok bool) {
	data, err := os.ReadFile(Path(gitDir))
	if err != nil {
		return time.Time{}, false
	}
	epoch, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(epoch, 0), true
}

// RecordUpdate writes now as the last-update time. Called only after a
// successful remote update.
func RecordUpdate(gitDir string, now time.Time) error {
	data := []byte(strconv.FormatInt(now.Unix(), 10))
	return os.WriteFile(Path(gitDir), data, 0o644)
}

// Overdue reports whether an update should run, given the configured
// interval. An interval of zero always disables the check.
func Overdue(gitDir string, interval time.Duration, now time.Time) bool {
	if interval <= 0 {
		return false
	}
	last, ok := LastUpdate(gitDir)
	if !ok {
		return true
	}
	return now.Sub(last) >= interval
}
