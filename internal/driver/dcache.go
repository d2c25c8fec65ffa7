package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"ddl/internal/source"
)

// Current schema version - increment when Snapshot format changes
const diskCacheSchemaVersion uint16 = 1

// Snapshot is what a cache keeps of a unit that evaluated without errors.
type Snapshot struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path string

	// Files read from disk by the unit (root first) and their content hashes
	FilePaths  []string
	FileHashes []Digest

	Consts  int
	Printed string
}

func snapshotOf(res *Result) *Snapshot {
	s := &Snapshot{
		Schema:  diskCacheSchemaVersion,
		Path:    res.Path,
		Printed: res.Printed,
	}
	if res.Eval != nil {
		s.Consts = len(res.Eval.Consts)
	}
	for _, f := range res.Files {
		if f.Flags&source.FileVirtual != 0 {
			continue
		}
		s.FilePaths = append(s.FilePaths, f.Path)
		s.FileHashes = append(s.FileHashes, f.Hash)
	}
	return s
}

// fresh reports whether every file of the snapshot still has its hash.
func (s *Snapshot) fresh() bool {
	if s.Schema != diskCacheSchemaVersion || len(s.FilePaths) != len(s.FileHashes) {
		return false
	}
	fs := source.NewFileSet()
	for i, path := range s.FilePaths {
		id, err := fs.Load(path, 0)
		if err != nil || fs.Get(id).Hash != s.FileHashes[i] {
			return false
		}
	}
	return true
}

// DiskCache хранит снимки вычисленных юнитов по UnitKey на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens a cache in dir, or in the user cache directory under
// app when dir is empty.
func OpenDiskCache(dir, app string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "units", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a snapshot to the disk cache.
func (c *DiskCache) Put(key Digest, s *Snapshot) error {
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
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(s); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Get reads and deserializes a snapshot from the disk cache. A snapshot of
// another schema is a miss.
func (c *DiskCache) Get(key Digest, out *Snapshot) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var s Snapshot
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return false, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	*out = s
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
