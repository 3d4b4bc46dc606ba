// Package storage materializes files into the local working directories the
// dashboard serves from.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Exists reports whether path names an existing regular file
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CopyIfAbsent copies src to dst unless dst already exists, in which case it
// is left untouched and copied is false. The content is staged in a temp file
// next to dst and linked into place, so concurrent callers racing on the same
// dst never observe a partial file and never clobber each other.
func CopyIfAbsent(src, dst string) (copied bool, err error) {
	if Exists(dst) {
		return false, nil
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return false, fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("failed to create staging file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return false, fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return false, fmt.Errorf("failed to flush staging file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("failed to close staging file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return false, fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Link(tmpPath, dst); err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		// Filesystems without hard links fall back to rename.
		if Exists(dst) {
			return false, nil
		}
		if err := os.Rename(tmpPath, dst); err != nil {
			return false, fmt.Errorf("failed to move file into place: %w", err)
		}
	}
	return true, nil
}
