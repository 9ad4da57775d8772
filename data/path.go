package data

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// ErrNoCaller is returned when the calling source file cannot be determined.
var ErrNoCaller = errors.New("cannot determine caller")

// GetPath returns the absolute form of file. Relative paths are resolved
// against the directory of the Go source file that calls GetPath.
func GetPath(file string) (string, error) {
	return GetPathDepth(file, 1)
}

// GetPathDepth is GetPath with relative paths resolved against the caller
// depth frames above the immediate caller (0 is the immediate caller).
func GetPathDepth(file string, depth int) (string, error) {
	if filepath.IsAbs(file) {
		return filepath.Clean(file), nil
	}

	_, caller, _, ok := runtime.Caller(depth + 1)
	if !ok {
		return "", ErrNoCaller
	}
	return filepath.Abs(filepath.Join(filepath.Dir(caller), file))
}

// IsFilePath reports whether path names an existing regular file on the OS
// filesystem.
func IsFilePath(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
