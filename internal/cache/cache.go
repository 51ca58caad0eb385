// Package cache stores the diagnostics of previously linted files on disk,
// keyed by a digest of everything that can change them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/phobologic/rustlint/internal/diag"
)

// schemaVersion is bumped when the entry format changes.
const schemaVersion uint16 = 1

// Digest identifies one linted file state.
type Digest [sha256.Size]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Key hashes a file's path and content together with the configuration
// fingerprint and the tool version. Any change to one of them misses.
func Key(path string, content, fingerprint []byte, version string) Digest {
	h := sha256.New()
	for _, part := range [][]byte{[]byte(version), fingerprint, []byte(path), content} {
		fmt.Fprintf(h, "%d:", len(part))
		h.Write(part)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Entry is what is stored for one file.
type Entry struct {
	Schema  uint16        `msgpack:"schema"`
	Path    string        `msgpack:"path"`
	Records []diag.Record `msgpack:"records"`
}

// Cache is a directory of msgpack entries. A nil *Cache is a valid cache
// that never hits. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns $XDG_CACHE_HOME/app, or ~/.cache/app.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// Open creates dir if needed and returns a cache stored there.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	s := key.String()
	return filepath.Join(c.dir, s[:2], s+".mp")
}

// Get returns the records stored under key. An entry written by another
// schema version is a miss.
func (c *Cache) Get(key Digest) ([]diag.Record, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	if e.Schema != schemaVersion {
		return nil, false, nil
	}
	if e.Records == nil {
		e.Records = []diag.Record{}
	}
	return e.Records, true, nil
}

// Put stores records under key, replacing any previous entry atomically.
func (c *Cache) Put(key Digest, path string, records []diag.Record) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	e := Entry{Schema: schemaVersion, Path: path, Records: records}
	if err := msgpack.NewEncoder(f).Encode(&e); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
