package dataset

import (
	"os"
	"time"

	"webcompat/internal/storage"
)

// Info describes where a dataset comes from and the state of its cache.
type Info struct {
	Name       string                `json:"name" yaml:"name"`
	Kind       SourceKind            `json:"kind" yaml:"kind"`
	Source     string                `json:"source" yaml:"source"`
	CachePath  string                `json:"cachePath,omitempty" yaml:"cachePath,omitempty"`
	Cached     bool                  `json:"cached" yaml:"cached"`
	CacheBytes int64                 `json:"cacheBytes,omitempty" yaml:"cacheBytes,omitempty"`
	CachedAt   *time.Time            `json:"cachedAt,omitempty" yaml:"cachedAt,omitempty"`
	LastFetch  *storage.DatasetFetch `json:"lastFetch,omitempty" yaml:"lastFetch,omitempty"`
}

// Info reports every configured dataset without reading its contents.
func (l *Loader) Info() []Info {
	infos := make([]Info, 0, len(l.sources))
	for _, src := range l.sources {
		info := Info{Name: src.Name, Kind: src.Kind(), Source: src.Location()}

		if src.Kind() == SourceURL {
			info.CachePath = cachePath(l.cacheDir, src.Name)
			if st, err := os.Stat(info.CachePath); err == nil {
				modTime := st.ModTime().UTC()
				info.Cached = true
				info.CacheBytes = st.Size()
				info.CachedAt = &modTime
			}
			info.LastFetch = l.previousFetch(src)
		}

		infos = append(infos, info)
	}
	return infos
}
