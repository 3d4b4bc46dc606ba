package screenshot

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapturer struct {
	visited []string
	failOn  string
}

func (f *fakeCapturer) Capture(_ context.Context, url string) ([]byte, error) {
	f.visited = append(f.visited, url)
	if url == f.failOn {
		return nil, stderrors.New("navigation failed")
	}
	return []byte("png:" + url), nil
}

func TestDriver_CapturesDefaultPages(t *testing.T) {
	out := filepath.Join(t.TempDir(), "screenshots")
	capturer := &fakeCapturer{}

	written, err := NewDriver(capturer, "http://localhost:5000/", out).Run(context.Background(), DefaultPages)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"http://localhost:5000/",
		"http://localhost:5000/histograms",
		"http://localhost:5000/scatter",
		"http://localhost:5000/visualizations",
	}, capturer.visited)
	require.Len(t, written, 4)

	data, err := os.ReadFile(filepath.Join(out, "scatter.png"))
	require.NoError(t, err)
	assert.Equal(t, "png:http://localhost:5000/scatter", string(data))
}

func TestDriver_StopsAtFirstFailure(t *testing.T) {
	out := t.TempDir()
	capturer := &fakeCapturer{failOn: "http://host/histograms"}

	written, err := NewDriver(capturer, "http://host", out).Run(context.Background(), DefaultPages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http://host/histograms")
	assert.Equal(t, []string{filepath.Join(out, "dashboard.png")}, written)
	assert.Len(t, capturer.visited, 2)

	_, statErr := os.Stat(filepath.Join(out, "scatter.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDriver_URL(t *testing.T) {
	d := NewDriver(nil, "http://host:8080//", "")
	assert.Equal(t, "http://host:8080/scatter", d.URL(Page{Path: "/scatter"}))
	assert.Equal(t, "http://host:8080/scatter", d.URL(Page{Path: "scatter"}))
	assert.Equal(t, "http://host:8080/", d.URL(Page{Path: "/"}))
}

func TestNewChromeCapturer_RejectsEmptyViewport(t *testing.T) {
	_, err := NewChromeCapturer(context.Background(), Options{Width: 0, Height: 1080})
	assert.Error(t, err)
}
