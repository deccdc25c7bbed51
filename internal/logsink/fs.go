package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MakeModuleDirs creates the run directory for one module invocation and
// returns its path:
//
//	<base>/<module>/<DD.MM.YYYY>/<module>[_keystore]_<HH-MM-SS>
func MakeModuleDirs(base, module string, keystore bool) (string, error) {
	dir := filepath.Join(base, module, runDirName(module, keystore, time.Now()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	return dir, nil
}

// runDirName is the date/run part of a run directory, relative to <base>/<module>.
func runDirName(module string, keystore bool, at time.Time) string {
	run := module
	if keystore {
		run += "_keystore"
	}
	return filepath.Join(at.Format("02.01.2006"), run+"_"+at.Format("15-04-05"))
}

// OpenAppend opens path for appending, creating it owner-only.
func OpenAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
