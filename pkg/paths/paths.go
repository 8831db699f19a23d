// Package paths contains the path resolution rules shared by the
// deployment pipeline and the import command.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotr/pkg/errors"
)

// BackupExt is the extension appended to a destination file before it is
// overwritten. Backups are single-generation: a later deploy replaces any
// prior backup unconditionally.
const BackupExt = "dotrbak"

// GetHomeDirectory returns the user's home directory.
// It first tries os.UserHomeDir(), then falls back to the HOME environment
// variable. If both fail, it returns an error rather than using dangerous
// defaults.
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	homeDir = os.Getenv("HOME")
	if homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrIO, "unable to determine home directory: neither os.UserHomeDir() nor HOME environment variable are available")
}

// ExpandHome expands the ~ character to the user's home directory.
// Returns an error if home directory cannot be determined.
func ExpandHome(path string) (string, error) {
	if path == "~" {
		return GetHomeDirectory()
	}

	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		homeDir, err := GetHomeDirectory()
		if err != nil {
			return "", err
		}
		return homeDir + path[1:], nil
	}

	return path, nil
}

// Resolve turns a config path into an absolute one. Absolute paths pass
// through, ~ paths expand to the home directory, everything else is taken
// relative to the repository root.
func Resolve(path, root string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if strings.HasPrefix(path, "~") {
		return ExpandHome(path)
	}
	abs, err := filepath.Abs(filepath.Join(root, path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "cannot resolve path %q", path)
	}
	return abs, nil
}

// NormalizeHome rewrites an absolute path under the home directory to use
// the ~ prefix, so imported destinations stay portable across machines.
func NormalizeHome(path string) string {
	homeDir, err := GetHomeDirectory()
	if err != nil {
		return path
	}
	if path == homeDir {
		return "~"
	}
	if strings.HasPrefix(path, homeDir+string(filepath.Separator)) {
		return "~" + path[len(homeDir):]
	}
	return path
}

// BackupPath returns the sibling backup path for a destination file
func BackupPath(dest string) string {
	return dest + "." + BackupExt
}

// IsBackup reports whether the given path is one of our backup files
func IsBackup(path string) bool {
	return strings.HasSuffix(path, "."+BackupExt)
}

// PackageName derives a package name from an imported path. The name is the
// last path component with any leading dot stripped, a trailing -version
// suffix removed, '-' and '.' replaced by '_', and a d_ or f_ prefix for
// directories and files respectively.
func PackageName(path string, isDir bool) string {
	base := filepath.Base(filepath.Clean(path))
	name := strings.TrimLeft(base, ".")

	if pos := strings.LastIndex(name, "-"); pos > 0 {
		name = name[:pos]
	}

	prefix := "f_"
	if isDir {
		prefix = "d_"
	}
	name = prefix + name
	return strings.NewReplacer("-", "_", ".", "_").Replace(name)
}
