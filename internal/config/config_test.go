package config

import (
	"testing"
	"time"

	"countrydash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_DIR", "DATASET_FILE", "DATASET_CANDIDATES", "STATIC_DIR",
		"VISUALIZATION_SOURCES", "SCREENSHOT_WAIT", "SCREENSHOT_WIDTH", "SCREENSHOT_HEIGHT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "country_data.csv", cfg.Data.FileName)
	assert.Equal(t, DefaultDatasetCandidates, cfg.Data.Candidates)
	assert.Equal(t, DefaultVisualizationSources, cfg.Gallery.Sources)
	assert.Equal(t, 2*time.Second, cfg.Screenshot.Wait)
	assert.Equal(t, 1920, cfg.Screenshot.Width)
	assert.Equal(t, 1080, cfg.Screenshot.Height)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("DATASET_CANDIDATES", " a.csv, ,b.csv ")
	t.Setenv("SCREENSHOT_WAIT", "500ms")
	t.Setenv("SCREENSHOT_WIDTH", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.Server.Port)
	assert.Equal(t, []string{"a.csv", "b.csv"}, cfg.Data.Candidates)
	assert.Equal(t, 500*time.Millisecond, cfg.Screenshot.Wait)
	assert.Equal(t, 1920, cfg.Screenshot.Width, "unparsable ints fall back to the default")
}

func TestLoad_RejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "http")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_RejectsNonPositiveScreenshotSize(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SCREENSHOT_HEIGHT", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screenshot dimensions")
}
