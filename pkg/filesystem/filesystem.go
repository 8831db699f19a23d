// Package filesystem provides the filesystem abstraction used by dotr.
// Production code runs on the OS implementation; tests typically use the
// afero-backed one with an in-memory filesystem.
package filesystem

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// FS is the filesystem interface required for dotr operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.FileInfo, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// WalkFiles walks root recursively and calls fn for every regular file,
// passing its path relative to root. Entries are visited in lexical order
// so callers get deterministic unit ordering.
func WalkFiles(fsys FS, root string, fn func(rel string, info fs.FileInfo) error) error {
	return walkFiles(fsys, root, "", fn)
}

func walkFiles(fsys FS, root, rel string, fn func(rel string, info fs.FileInfo) error) error {
	entries, err := fsys.ReadDir(filepath.Join(root, rel))
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		entryRel := filepath.Join(rel, entry.Name())
		if entry.IsDir() {
			if err := walkFiles(fsys, root, entryRel, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(entryRel, entry); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether the given path exists on the filesystem
func Exists(fsys FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}

// IsDir reports whether the given path exists and is a directory
func IsDir(fsys FS, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.IsDir()
}

// CopyFile copies a single file byte-for-byte, creating parent directories
// of dst as needed.
func CopyFile(fsys FS, src, dst string) error {
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return fsys.WriteFile(dst, data, 0644)
}
