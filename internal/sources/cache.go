package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/genomelift/genomelift/internal/genome"
	"github.com/genomelift/genomelift/internal/liftover"
)

// FsCache stores downloaded resources under root/namespace/key
type FsCache struct {
	root   string
	client *http.Client
}

// NewFsCache creates a cache rooted at the passed directory. A nil
// client falls back to http.DefaultClient
func NewFsCache(root string, client *http.Client) *FsCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &FsCache{root: root, client: client}
}

// Path is where the resource lives (or will live) on disk
func (c *FsCache) Path(r Resource) string {
	return filepath.Join(c.root, r.Namespace, filepath.FromSlash(r.Key))
}

// Ensure returns the local path of the resource, downloading it first
// if it isn't cached yet. Downloads go to a temp file and are renamed
// into place so an interrupted fetch never leaves a truncated entry
func (c *FsCache) Ensure(ctx context.Context, r Resource) (string, error) {
	path := c.Path(r)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	slog.Info("fetching chain file", "url", r.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return "", err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", r.URL, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %s", r.URL, res.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".fetch-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, res.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("fetch %s: %w", r.URL, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Load fetches (or reuses) a chain file and parses it
func Load(ctx context.Context, cache *FsCache, r Resource) (*liftover.Liftover[genome.NamedContig, genome.NamedContig], error) {
	path, err := cache.Ensure(ctx, r)
	if err != nil {
		return nil, err
	}
	return liftover.ReadFile(path)
}
