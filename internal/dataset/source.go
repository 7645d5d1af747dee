// Package dataset locates, downloads, caches and decodes the two datasets
// the query engine serves: MDN browser-compat-data and web-features.
//
// A dataset comes either from a local file or from a URL. Downloads are
// stored zstd-compressed in the cache directory and reused on later starts;
// Pull refreshes them with a conditional GET.
package dataset

import (
	"fmt"
	"path/filepath"

	"webcompat/internal/config"
	"webcompat/internal/paths"
)

// Dataset names, also used as cache file stems and fetch-record keys.
const (
	BCD         = "bcd"
	WebFeatures = "web-features"
)

// SourceKind tells where a dataset is read from.
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceURL  SourceKind = "url"
)

// Source is one configured dataset location.
type Source struct {
	Name string
	Path string
	URL  string
}

// Kind returns SourceFile when a path is set, SourceURL otherwise.
func (s Source) Kind() SourceKind {
	if s.Path != "" {
		return SourceFile
	}
	return SourceURL
}

// Location returns the path or URL the dataset is read from.
func (s Source) Location() string {
	if s.Path != "" {
		return s.Path
	}
	return s.URL
}

func (s Source) validate() error {
	if s.Path == "" && s.URL == "" {
		return fmt.Errorf("dataset %s: either path or url must be provided", s.Name)
	}
	return nil
}

// Sources returns the configured BCD and web-features sources, in that order.
func Sources(cfg *config.Config) []Source {
	return []Source{
		{Name: BCD, Path: cfg.Datasets.BCD.Path, URL: cfg.Datasets.BCD.URL},
		{Name: WebFeatures, Path: cfg.Datasets.WebFeatures.Path, URL: cfg.Datasets.WebFeatures.URL},
	}
}

// CacheDir resolves the configured cache directory, defaulting to the cache
// directory under the webcompat home.
func CacheDir(cfg *config.Config) (string, error) {
	if cfg.Datasets.CacheDir != "" {
		return paths.ExpandHome(cfg.Datasets.CacheDir)
	}
	return paths.GetCacheDir()
}

func cachePath(dir, name string) string {
	return filepath.Join(dir, name+".json.zst")
}
