// Package filex resolves local file references (photo URIs captured on the
// device) and prepares the client's data directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileScheme = "file://"

// EnsureDir creates dir (and parents) if needed and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// LocalPath reports whether ref points to a file on this device and returns
// its path. "file://" references are always local; bare paths are local when
// the file exists. Anything else (storage keys, remote URLs) is not.
func LocalPath(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if strings.HasPrefix(ref, fileScheme) {
		return strings.TrimPrefix(ref, fileScheme), true
	}
	if strings.Contains(ref, "://") {
		return "", false
	}
	fi, err := os.Stat(ref)
	if err != nil || fi.IsDir() {
		return "", false
	}
	return ref, true
}
