// Package cache persists code-generation output keyed by a Generator's
// hash_generators structural hash, so a repeated build of a structurally
// unchanged root skips re-emission entirely.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is the Payload schema a caller should stamp on entries
// it writes; Get already rejects any other version as a miss.
const SchemaVersion uint16 = 1

const schemaVersion = SchemaVersion

// DiskCache stores emitted SystemVerilog by structural hash. Safe for
// concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is what DiskCache persists for one root Generator's hash.
type Payload struct {
	Schema     uint16
	RootName   string
	Hash       uint64
	Source     string
	DebugStamp bool // whether Source was emitted with Generator.Debug set
}

// Open initializes a disk cache rooted at the standard XDG cache
// location under app's name, creating it on first use.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(hash uint64) string {
	var raw [8]byte
	for i := range raw {
		raw[i] = byte(hash >> (8 * (7 - i)))
	}
	return filepath.Join(c.dir, "modules", hex.EncodeToString(raw[:])+".mp")
}

// Put writes payload for hash, replacing any prior entry atomically.
func (c *DiskCache) Put(hash uint64, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(hash)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload cached for hash. The bool return is false (with
// a nil error) when nothing is cached yet.
func (c *DiskCache) Get(hash uint64) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(hash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != schemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll invalidates every cached entry, used after a schema bump.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := fmt.Sprintf("%s.old-%s", c.dir, time.Now().Format("20060102150405"))
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
