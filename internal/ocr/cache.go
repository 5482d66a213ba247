package ocr

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/invoice-agent/backend/internal/logger"
	"github.com/invoice-agent/backend/internal/models"
)

// Cache is a disk-backed OCR result cache keyed by source URL. Entries
// are msgpack-encoded and expire after the TTL.
type Cache struct {
	dir string
	ttl time.Duration
}

type cacheEntry struct {
	URL      string            `msgpack:"url"`
	Result   *models.OCRResult `msgpack:"result"`
	CachedAt time.Time         `msgpack:"cached_at"`
}

// NewCache creates the cache directory if needed. A non-positive ttl
// means entries never expire.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Get returns the cached result for the URL if present and fresh.
func (c *Cache) Get(url string) (*models.OCRResult, bool) {
	data, err := os.ReadFile(c.path(url))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		logger.Sugar.Warnw("dropping corrupt cache entry", "url", url, "error", err)
		os.Remove(c.path(url))
		return nil, false
	}

	if c.ttl > 0 && time.Since(entry.CachedAt) > c.ttl {
		os.Remove(c.path(url))
		return nil, false
	}
	return entry.Result, true
}

// Put stores the result for the URL. Failures are logged, not fatal:
// the cache is an optimization.
func (c *Cache) Put(url string, result *models.OCRResult) {
	entry := cacheEntry{URL: url, Result: result, CachedAt: time.Now()}
	data, err := msgpack.Marshal(&entry)
	if err != nil {
		logger.Sugar.Warnw("encoding cache entry failed", "url", url, "error", err)
		return
	}
	if err := os.WriteFile(c.path(url), data, 0644); err != nil {
		logger.Sugar.Warnw("writing cache entry failed", "url", url, "error", err)
	}
}

func (c *Cache) path(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".msgpack")
}
