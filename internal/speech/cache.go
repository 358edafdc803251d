package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// CacheOption configures the AudioCache.
type CacheOption func(*AudioCache)

// WithCacheDir enables the filesystem layer under dir.
func WithCacheDir(dir string) CacheOption {
	return func(c *AudioCache) {
		c.dir = dir
	}
}

// WithDiskWrite controls whether new entries are written to disk. Existing
// files are still read when false.
func WithDiskWrite(enabled bool) CacheOption {
	return func(c *AudioCache) {
		c.diskWrite = enabled
	}
}

// WithMaxEntries bounds the in-memory layer. The oldest entry is evicted
// first. Zero means unbounded.
func WithMaxEntries(n int) CacheOption {
	return func(c *AudioCache) {
		c.maxEntries = n
	}
}

// AudioCache stores synthesized audio in memory and, optionally, on disk.
// Keys are sha256(voice + ":" + text), so switching voices misses cleanly.
// A nil *AudioCache is a valid cache that never hits.
type AudioCache struct {
	voice      string
	dir        string
	diskWrite  bool
	maxEntries int
	log        *logger.Logger

	mu      sync.Mutex
	entries map[string][]byte
	order   []string
	hits    int64
	misses  int64
}

// NewAudioCache creates a cache for the given voice.
func NewAudioCache(voice string, log *logger.Logger, opts ...CacheOption) *AudioCache {
	c := &AudioCache{
		voice:      voice,
		diskWrite:  true,
		maxEntries: 256,
		log:        log,
		entries:    make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dir != "" && c.diskWrite {
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			log.Error("cache: creating %s: %v", c.dir, err)
		}
	}
	return c
}

// Get returns cached audio for text, checking memory then disk.
func (c *AudioCache) Get(text string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	key := c.key(text)

	c.mu.Lock()
	data, ok := c.entries[key]
	if ok {
		c.hits++
	}
	c.mu.Unlock()
	if ok {
		return data, true
	}

	if c.dir != "" {
		if data, err := os.ReadFile(c.path(key)); err == nil {
			c.mu.Lock()
			c.storeLocked(key, data)
			c.hits++
			c.mu.Unlock()
			c.log.Debug("cache hit (disk): %s", truncate(text, 40))
			return data, true
		}
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

// Put stores audio for text in memory, and on disk when enabled.
func (c *AudioCache) Put(text string, audio []byte) {
	if c == nil {
		return
	}
	key := c.key(text)

	c.mu.Lock()
	c.storeLocked(key, audio)
	c.mu.Unlock()

	if c.dir != "" && c.diskWrite {
		if err := os.WriteFile(c.path(key), audio, 0o644); err != nil {
			c.log.Error("cache: disk write failed: %v", err)
		}
	}
}

// Has reports whether text is cached in memory or on disk.
func (c *AudioCache) Has(text string) bool {
	if c == nil {
		return false
	}
	key := c.key(text)

	c.mu.Lock()
	_, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return true
	}
	if c.dir == "" {
		return false
	}
	_, err := os.Stat(c.path(key))
	return err == nil
}

// Len returns the number of in-memory entries.
func (c *AudioCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *AudioCache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *AudioCache) storeLocked(key string, audio []byte) {
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = audio
	for c.maxEntries > 0 && len(c.order) > c.maxEntries {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

func (c *AudioCache) key(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}

func (c *AudioCache) path(key string) string {
	return filepath.Join(c.dir, key+".wav")
}
