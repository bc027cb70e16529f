package filepathparser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ParsePath expands a leading ~/ and returns the absolute form of path.
func ParsePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		dirname, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to resolve home directory")
		}
		path = filepath.Join(dirname, path[2:])
	}

	return filepath.Abs(path)
}

// IsVacant reports whether path is absent or an empty directory. A regular file is never vacant.
func IsVacant(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to stat %s", path)
	}
	if !info.IsDir() {
		return false, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", path)
	}
	return len(entries) == 0, nil
}
