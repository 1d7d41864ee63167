// Package cache persists per-file scan results on disk, keyed by an xxhash
// of the file's content. A cache hit skips rule matching and canary/dynamic-
// import scanning for that file; parsing still runs every time, since the
// driver needs a live Source to participate in the corpus-wide TF-IDF pass
// regardless of whether its bulletins come from a fresh evaluation or a
// cached one.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/Syntox32/scout/internal/evaluate"
)

// Entry is what gets persisted for one source file.
type Entry struct {
	ContentHash uint64              `json:"content_hash"`
	Bulletins   []evaluate.Bulletin `json:"bulletins"`
	AlertsFunc  int                 `json:"alerts_functions"`
	AlertsImp   int                 `json:"alerts_imports"`
}

// Store is a directory of cache entries, one JSON file per content hash.
type Store struct {
	dir string
}

// Open returns a Store rooted at dir, creating it if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Hash computes the key a Store uses for a file's content.
func Hash(content []byte) uint64 {
	return xxhash.Sum64(content)
}

func (s *Store) path(hash uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%016x.json", hash))
}

// Lookup returns the cached entry for hash, if one exists.
func (s *Store) Lookup(hash uint64) (Entry, bool) {
	data, err := os.ReadFile(s.path(hash))
	if err != nil {
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, false
	}
	if e.ContentHash != hash {
		return Entry{}, false
	}
	return e, true
}

// Save writes sa's flagged findings to the cache under hash. Density is not
// persisted: it depends on the corpus-wide TF-IDF weights of the run that
// produced it, which a later run is not guaranteed to reproduce.
func (s *Store) Save(hash uint64, sa *evaluate.SourceAnalysis) error {
	e := Entry{
		ContentHash: hash,
		Bulletins:   sa.Bulletins,
		AlertsFunc:  sa.AlertsFunctions,
		AlertsImp:   sa.AlertsImports,
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache: marshal entry: %w", err)
	}
	tmp := s.path(hash) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cache: write %s: %w", tmp, err)
	}
	return os.Rename(tmp, s.path(hash))
}
