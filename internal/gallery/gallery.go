// Package gallery builds the catalog of pre-rendered visualization images
// shown on the visualizations page.
package gallery

import (
	"html/template"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"countrydash/internal/errors"
	"countrydash/internal/storage"

	"golang.org/x/sync/singleflight"
)

// DefaultURLPrefix is where the served image directory is mounted
const DefaultURLPrefix = "/static/visualizations"

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".svg": true}

// Config locates the served image directory and the directories images are
// copied from when it is empty
type Config struct {
	ServedDir string
	Sources   []string
	URLPrefix string
}

// Item is one gallery entry
type Item struct {
	Title       string
	ImagePath   string
	Description string
	// Notes is the rendered markdown sidecar, when one exists
	Notes template.HTML
	// Fallback marks an entry synthesized for an otherwise empty category
	Fallback bool
}

// Catalog groups the gallery into its three sections. An image may appear in
// more than one section.
type Catalog struct {
	Regional     []Item
	Distribution []Item
	Correlation  []Item
}

// IsEmpty reports whether no section has any item
func (c Catalog) IsEmpty() bool {
	return len(c.Regional) == 0 && len(c.Distribution) == 0 && len(c.Correlation) == 0
}

// Builder discovers images and turns them into a Catalog
type Builder struct {
	config Config
	group  singleflight.Group
}

// NewBuilder creates a builder
func NewBuilder(config Config) *Builder {
	if config.URLPrefix == "" {
		config.URLPrefix = DefaultURLPrefix
	}
	config.URLPrefix = strings.TrimSuffix(config.URLPrefix, "/")
	return &Builder{config: config}
}

// ServedDir is the directory images are served from
func (b *Builder) ServedDir() string {
	return b.config.ServedDir
}

// Build syncs the served directory and classifies what it holds. The catalog
// is recomputed on every call.
func (b *Builder) Build() (Catalog, error) {
	images, err := b.Sync()
	if err != nil {
		return Catalog{}, err
	}

	catalog := Classify(images, b.config.URLPrefix, b.notes)
	var fallback string
	if len(images) > 0 {
		fallback = imageURL(b.config.URLPrefix, images[0])
	}
	catalog.fillEmptySections(fallback)
	return catalog, nil
}

// Sync returns the image file names in the served directory, first copying
// images in from the source directories when it has none. Concurrent calls
// share one sync.
func (b *Builder) Sync() ([]string, error) {
	v, err, _ := b.group.Do("sync", func() (interface{}, error) {
		return b.sync()
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (b *Builder) sync() ([]string, error) {
	if err := os.MkdirAll(b.config.ServedDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", b.config.ServedDir)
	}

	images, err := listImages(b.config.ServedDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", b.config.ServedDir)
	}
	if len(images) > 0 {
		return images, nil
	}

	sources := make(map[string]string)
	for _, dir := range b.config.Sources {
		found, err := listImages(dir)
		if err != nil {
			continue
		}
		for _, name := range found {
			if _, ok := sources[name]; !ok {
				sources[name] = filepath.Join(dir, name)
			}
		}
	}

	for name, src := range sources {
		dst := filepath.Join(b.config.ServedDir, name)
		if _, err := storage.CopyIfAbsent(src, dst); err != nil {
			log.Printf("[Gallery] Error copying %s: %v", name, err)
			delete(sources, name)
			continue
		}
		log.Printf("[Gallery] Copied %s to %s", name, dst)

		sidecar := notesPath(src)
		if storage.Exists(sidecar) {
			if _, err := storage.CopyIfAbsent(sidecar, notesPath(dst)); err != nil {
				log.Printf("[Gallery] Error copying notes for %s: %v", name, err)
			}
		}
	}

	images = make([]string, 0, len(sources))
	for name := range sources {
		images = append(images, name)
	}
	sort.Strings(images)
	return images, nil
}

// notes renders the markdown sidecar of an image, if any
func (b *Builder) notes(image string) template.HTML {
	data, err := os.ReadFile(notesPath(filepath.Join(b.config.ServedDir, image)))
	if err != nil {
		return ""
	}
	return RenderNotes(data)
}

// listImages returns image file names in dir, sorted. A missing dir is an error.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			images = append(images, entry.Name())
		}
	}
	return images, nil
}

func notesPath(image string) string {
	return strings.TrimSuffix(image, filepath.Ext(image)) + ".md"
}

func imageURL(prefix, name string) string {
	return path.Join(prefix, url.PathEscape(name))
}
