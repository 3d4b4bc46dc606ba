package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPaths_EveryRootInOrder(t *testing.T) {
	got := ExpandPaths([]string{"../plots", "/abs/images", "out"}, []string{"/srv/bin", "/home/dev/app"})

	assert.Equal(t, []string{
		"/srv/plots", "/home/dev/plots",
		"/abs/images",
		"/srv/bin/out", "/home/dev/app/out",
	}, got)
}

func TestExpandPaths_DropsDuplicates(t *testing.T) {
	got := ExpandPaths([]string{"plots", "./plots"}, []string{"/app", "/app/"})
	assert.Equal(t, []string{"/app/plots"}, got)
}

func TestSearchRoots_IncludeWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	roots := SearchRoots()
	assert.Contains(t, roots, wd)

	// a directory written relative to the working directory is among the expansions
	expanded := ExpandPaths([]string{"../plots"}, roots)
	assert.Contains(t, expanded, filepath.Join(filepath.Dir(wd), "plots"))
}
