package dataset

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"countrydash/adapters/tabular"
	"countrydash/internal/config"
	"countrydash/internal/errors"
	"countrydash/internal/storage"
)

// LoaderConfig tells the loader where the working copy lives and where to
// look for the source file when the working copy is absent.
type LoaderConfig struct {
	DataDir  string
	FileName string
	// Candidates are tried in order; relative entries are resolved against
	// each of SearchRoots in turn.
	Candidates     []string
	SearchRoots    []string
	NumericColumns []string
}

// Loader materializes and parses the country dataset
type Loader struct {
	config LoaderConfig
}

// NewLoader creates a loader, defaulting the numeric column set
func NewLoader(config LoaderConfig) *Loader {
	if config.NumericColumns == nil {
		config.NumericColumns = NumericColumns
	}
	return &Loader{config: config}
}

// TargetPath is the working copy the dataset is parsed from
func (l *Loader) TargetPath() string {
	return filepath.Join(l.config.DataDir, l.config.FileName)
}

// Load returns the dataset. It never returns nil: on any failure the returned
// dataset is empty and err explains why.
func (l *Loader) Load() (*Dataset, error) {
	start := time.Now()

	target, err := l.EnsureTarget()
	if err != nil {
		return Empty(), err
	}

	records, err := tabular.NewDataReader(target).ReadRecords()
	if err != nil {
		return Empty(), errors.Wrap(err, "failed to parse dataset")
	}

	ds, err := FromRecords(records, l.config.NumericColumns)
	if err != nil {
		return Empty(), errors.Wrap(err, "failed to build dataset")
	}

	log.Printf("[Loader] Loaded data from %s", target)
	log.Printf("[Loader] Dataset shape: (%d, %d) in %.2fms", ds.Len(), len(ds.Columns()),
		float64(time.Since(start).Nanoseconds())/1e6)
	return ds, nil
}

// EnsureTarget makes sure the working copy exists, copying it from the first
// matching candidate when it does not. An existing working copy is never
// rewritten.
func (l *Loader) EnsureTarget() (string, error) {
	target := l.TargetPath()
	if err := os.MkdirAll(l.config.DataDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create data directory %s", l.config.DataDir)
	}

	if storage.Exists(target) {
		return target, nil
	}

	source, err := l.locateSource()
	if err != nil {
		return "", err
	}

	copied, err := storage.CopyIfAbsent(source, target)
	if err != nil {
		return "", errors.Wrap(err, "failed to copy dataset")
	}
	if copied {
		log.Printf("[Loader] Copied data file from %s to %s", source, target)
	}
	return target, nil
}

// locateSource returns the first candidate that exists
func (l *Loader) locateSource() (string, error) {
	for _, candidate := range l.candidatePaths() {
		if storage.Exists(candidate) {
			return candidate, nil
		}
	}
	return "", errors.NotFound(fmt.Sprintf("%s in any expected location", l.config.FileName))
}

// candidatePaths expands the candidate list against the search roots, keeping
// candidate order first
func (l *Loader) candidatePaths() []string {
	return config.ExpandPaths(l.config.Candidates, l.config.SearchRoots)
}
