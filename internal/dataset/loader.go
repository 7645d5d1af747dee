package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"webcompat/internal/bcd"
	"webcompat/internal/config"
	"webcompat/internal/storage"
	"webcompat/internal/version"
	"webcompat/internal/webfeatures"
)

// FetchStore persists download validators between runs.
type FetchStore interface {
	GetDatasetFetch(name string) (*storage.DatasetFetch, bool, error)
	PutDatasetFetch(f storage.DatasetFetch) error
}

// Loader reads datasets from their configured sources.
type Loader struct {
	sources  []Source
	cacheDir string
	client   *http.Client
	store    FetchStore
	logger   *slog.Logger
}

// NewLoader creates a loader for the datasets in cfg. store may be nil, in
// which case every pull is unconditional.
func NewLoader(cfg *config.Config, store FetchStore, logger *slog.Logger) (*Loader, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sources := Sources(cfg)
	for _, s := range sources {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}

	dir, err := CacheDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}

	timeout := time.Duration(cfg.Datasets.FetchTimeoutSeconds) * time.Second
	return &Loader{
		sources:  sources,
		cacheDir: dir,
		client:   &http.Client{Timeout: timeout},
		store:    store,
		logger:   logger,
	}, nil
}

// Datasets holds both decoded datasets.
type Datasets struct {
	BCD         *bcd.Data
	WebFeatures *webfeatures.Data
}

// LoadAll decodes both datasets in parallel. URL sources are downloaded
// first if they are not cached yet.
func (l *Loader) LoadAll(ctx context.Context) (*Datasets, error) {
	var out Datasets
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return l.load(ctx, BCD, func(r io.Reader) error {
			data, err := bcd.Decode(r)
			out.BCD = data
			return err
		})
	})
	g.Go(func() error {
		return l.load(ctx, WebFeatures, func(r io.Reader) error {
			data, err := webfeatures.Decode(r)
			out.WebFeatures = data
			return err
		})
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *Loader) source(name string) (Source, error) {
	for _, s := range l.sources {
		if s.Name == name {
			return s, nil
		}
	}
	return Source{}, fmt.Errorf("unknown dataset %q", name)
}

// load opens one dataset and hands its decompressed stream to decode.
func (l *Loader) load(ctx context.Context, name string, decode func(io.Reader) error) error {
	src, err := l.source(name)
	if err != nil {
		return err
	}

	path := src.Path
	if src.Kind() == SourceURL {
		path = cachePath(l.cacheDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if _, err := l.pull(ctx, src); err != nil {
				return err
			}
		}
	}

	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s dataset: %w", name, err)
	}
	defer f.Close()

	r, err := Decompress(f)
	if err != nil {
		return fmt.Errorf("read %s dataset: %w", name, err)
	}
	defer r.Close()

	if err := decode(r); err != nil {
		return fmt.Errorf("load %s dataset from %s: %w", name, src.Location(), err)
	}

	l.logger.Info("Dataset loaded",
		"dataset", name,
		"source", src.Location(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// PullStatus describes the outcome of a pull.
type PullStatus string

const (
	PullDownloaded  PullStatus = "downloaded"
	PullNotModified PullStatus = "not-modified"
	PullLocal       PullStatus = "local"
)

// PullResult reports what Pull did for one dataset.
type PullResult struct {
	Name   string     `json:"name"`
	Source string     `json:"source"`
	Status PullStatus `json:"status"`
	Bytes  int64      `json:"bytes,omitempty"`
	SHA256 string     `json:"sha256,omitempty"`
}

// Pull refreshes every URL dataset in the cache. File sources are reported
// as local and left alone.
func (l *Loader) Pull(ctx context.Context) ([]PullResult, error) {
	results := make([]PullResult, 0, len(l.sources))
	for _, src := range l.sources {
		if src.Kind() == SourceFile {
			results = append(results, PullResult{Name: src.Name, Source: src.Path, Status: PullLocal})
			continue
		}
		res, err := l.pull(ctx, src)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// pull downloads src into the cache, sending the stored validators when a
// cached copy exists.
func (l *Loader) pull(ctx context.Context, src Source) (PullResult, error) {
	result := PullResult{Name: src.Name, Source: src.URL}
	target := cachePath(l.cacheDir, src.Name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return result, fmt.Errorf("fetch %s: %w", src.Name, err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	prev := l.previousFetch(src)
	if prev != nil && fileExists(target) {
		if prev.ETag != "" {
			req.Header.Set("If-None-Match", prev.ETag)
		}
		if prev.LastModified != "" {
			req.Header.Set("If-Modified-Since", prev.LastModified)
		}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("fetch %s: %w", src.Name, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		result.Status = PullNotModified
		if prev != nil {
			result.Bytes = prev.Bytes
			result.SHA256 = prev.SHA256
		}
		l.logger.Info("Dataset not modified", "dataset", src.Name)
		return result, nil
	case http.StatusOK:
	default:
		return result, fmt.Errorf("fetch %s: unexpected status %d", src.Name, resp.StatusCode)
	}

	n, sum, err := l.writeCache(target, resp.Body)
	if err != nil {
		return result, fmt.Errorf("cache %s: %w", src.Name, err)
	}

	result.Status = PullDownloaded
	result.Bytes = n
	result.SHA256 = sum

	if l.store != nil {
		err := l.store.PutDatasetFetch(storage.DatasetFetch{
			Name:         src.Name,
			URL:          src.URL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			SHA256:       sum,
			Bytes:        n,
		})
		if err != nil {
			l.logger.Warn("Failed to record dataset fetch", "dataset", src.Name, "error", err)
		}
	}

	l.logger.Info("Dataset downloaded", "dataset", src.Name, "bytes", n)
	return result, nil
}

// previousFetch returns the stored record for src if it was made for the
// same URL.
func (l *Loader) previousFetch(src Source) *storage.DatasetFetch {
	if l.store == nil {
		return nil
	}
	prev, ok, err := l.store.GetDatasetFetch(src.Name)
	if err != nil {
		l.logger.Warn("Failed to read dataset fetch record", "dataset", src.Name, "error", err)
		return nil
	}
	if !ok || prev.URL != src.URL {
		return nil
	}
	return prev
}

// writeCache stores body zstd-compressed at target via a temporary file.
// Compressed bodies are decompressed first so the checksum covers the JSON.
func (l *Loader) writeCache(target string, body io.Reader) (int64, string, error) {
	if err := os.MkdirAll(l.cacheDir, 0o755); err != nil {
		return 0, "", err
	}

	plain, err := Decompress(body)
	if err != nil {
		return 0, "", err
	}
	defer plain.Close()

	tmp, err := os.CreateTemp(l.cacheDir, ".download-*")
	if err != nil {
		return 0, "", err
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	n, err := compressTo(tmp, io.TeeReader(plain, h))
	if err != nil {
		_ = tmp.Close()
		return 0, "", err
	}
	if err := tmp.Close(); err != nil {
		return 0, "", err
	}
	if n == 0 {
		return 0, "", fmt.Errorf("empty response body")
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
