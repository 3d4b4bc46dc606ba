package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyIfAbsent_CopiesOnce(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.csv")
	dst := filepath.Join(dir, "nested", "dst.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b\n1,2\n"), 0o644))

	copied, err := CopyIfAbsent(src, dst)
	require.NoError(t, err)
	assert.True(t, copied)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))

	// A second call must leave the existing file alone, even if the source changed.
	require.NoError(t, os.WriteFile(src, []byte("changed"), 0o644))
	before, err := os.Stat(dst)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	copied, err = CopyIfAbsent(src, dst)
	require.NoError(t, err)
	assert.False(t, copied)

	after, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestCopyIfAbsent_ConcurrentCallersAgree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "image.png")
	dst := filepath.Join(dir, "served", "image.png")
	payload := make([]byte, 64*1024)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(src, payload, 0o644))

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			copied, err := CopyIfAbsent(src, dst)
			assert.NoError(t, err)
			results[i] = copied
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging files must be cleaned up")
}

func TestCopyIfAbsent_MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := CopyIfAbsent(filepath.Join(dir, "missing.csv"), filepath.Join(dir, "dst.csv"))
	require.Error(t, err)
	assert.False(t, Exists(filepath.Join(dir, "dst.csv")))
}
