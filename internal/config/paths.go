package config

import (
	"os"
	"path/filepath"
)

// SearchRoots returns the directories relative dataset candidates and
// visualization sources are resolved against: the executable's directory
// first, then the working directory
func SearchRoots() []string {
	var roots []string
	if exe, err := os.Executable(); err == nil {
		roots = append(roots, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		roots = append(roots, wd)
	}
	if len(roots) == 0 {
		roots = append(roots, ".")
	}
	return roots
}

// ExpandPaths resolves each relative path against every root, in path order
// then root order. Absolute paths pass through. Duplicates are dropped.
func ExpandPaths(paths, roots []string) []string {
	if len(roots) == 0 {
		roots = []string{"."}
	}

	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range paths {
		if filepath.IsAbs(p) {
			add(filepath.Clean(p))
			continue
		}
		for _, root := range roots {
			if abs, err := filepath.Abs(filepath.Join(root, p)); err == nil {
				add(abs)
			}
		}
	}
	return out
}
