// Package transfer downloads archives and keeps them in a two-tier cache:
// a process-lifetime memory map and one file per URL on disk. The memory
// tier answers repeat fetches within a run, the disk tier across runs.
package transfer

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/dvalero/meffhist/internal/domain"
	"go.uber.org/zap"
)

// cacheDirName is the fixed subdirectory created under the host settings
// path for persistent archive files.
const cacheDirName = "meff-cache"

type Cache struct {
	client *http.Client
	dir    string
	logger *zap.Logger

	mu  sync.Mutex
	mem map[string][]byte
}

// NewCache builds a cache rooted at settingsPath/meff-cache. The directory
// is created lazily on first persist.
func NewCache(settingsPath string, timeout time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		client: &http.Client{Timeout: timeout},
		dir:    filepath.Join(settingsPath, cacheDirName),
		logger: logger,
		mem:    make(map[string][]byte),
	}
}

// BaseSettingsPath is the default host-supplied settings root, used when
// the configuration leaves the cache directory empty.
func BaseSettingsPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return home
}

// Dir returns the persistent cache directory.
func (c *Cache) Dir() string { return c.dir }

// Fetch returns the archive bytes for rawURL. The memory tier wins
// outright; otherwise the archive is downloaded and arbitrated against
// any existing disk copy by modification time, the newer side winning.
// Any non-200 response or transport failure is a *domain.TransferError.
func (c *Cache) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.mem[rawURL]; ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.TransferError{URL: rawURL, Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.TransferError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.TransferError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransferError{URL: rawURL, Err: err}
	}

	local, err := c.localPath(rawURL)
	if err != nil {
		return nil, err
	}

	// Disk beats remote only when its mtime is strictly newer than the
	// server's Last-Modified.
	fromDisk := false
	if fi, statErr := os.Stat(local); statErr == nil {
		if remote, parseErr := http.ParseTime(resp.Header.Get("Last-Modified")); parseErr == nil && fi.ModTime().After(remote) {
			if cached, readErr := os.ReadFile(local); readErr == nil {
				data = cached
				fromDisk = true
			}
		}
	}

	if fromDisk {
		c.logger.Debug("serving archive from disk cache", zap.String("url", rawURL), zap.String("file", local))
	} else {
		if err := c.persist(local, data); err != nil {
			c.logger.Warn("failed to persist archive", zap.String("file", local), zap.Error(err))
		}
		c.logger.Debug("downloaded archive", zap.String("url", rawURL), zap.Int("bytes", len(data)))
	}

	c.mem[rawURL] = data
	return data, nil
}

func (c *Cache) localPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &domain.TransferError{URL: rawURL, Err: err}
	}
	return filepath.Join(c.dir, path.Base(u.Path)), nil
}

func (c *Cache) persist(local string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(local, data, 0o644)
}
