package compiler

import (
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gbe-labs/compgen/internal/manifest"
)

// DefaultCacheSize bounds the number of files a ScanCache remembers.
const DefaultCacheSize = 1024

type cachedScan struct {
	modTime time.Time
	size    int64
	decl    *manifest.Declaration
}

// ScanCache remembers the declaration of each file keyed by path, and
// rescans a file only when its size or modification time changes. Scan
// errors are never cached.
type ScanCache struct {
	entries *lru.Cache[string, cachedScan]
}

// NewScanCache returns a cache holding at most size files.
func NewScanCache(size int) (*ScanCache, error) {
	c, err := lru.New[string, cachedScan](size)
	if err != nil {
		return nil, fmt.Errorf("creating scan cache: %w", err)
	}
	return &ScanCache{entries: c}, nil
}

// Scan returns the declaration of path, reading the file only if it changed
// since the last call.
func (c *ScanCache) Scan(path string) (*manifest.Declaration, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	if hit, ok := c.entries.Get(path); ok && hit.size == info.Size() && hit.modTime.Equal(info.ModTime()) {
		return hit.decl, nil
	}

	decl, err := manifest.ScanFile(path)
	if err != nil {
		c.entries.Remove(path)
		return nil, err
	}
	c.entries.Add(path, cachedScan{modTime: info.ModTime(), size: info.Size(), decl: decl})
	return decl, nil
}

// Len returns the number of cached files.
func (c *ScanCache) Len() int { return c.entries.Len() }
