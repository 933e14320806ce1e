package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aeeint/lego/internal/models"
)

// Store persists one entity collection as a JSON array in a single file.
// The key function yields the identity key used for deduplication.
//
// Merging is read-everything, union in memory, rewrite-everything. The
// rewrite goes through a temp file and rename so a crash mid-write cannot
// truncate the previous store, but concurrent writers are not serialized;
// callers must not run two merges against the same file at once.
type Store[T any] struct {
	path string
	key  func(T) string
}

func New[T any](path string, key func(T) string) *Store[T] {
	return &Store[T]{path: path, key: key}
}

// NewDealStore opens the Deal collection at path, keyed by link.
func NewDealStore(path string) *Store[models.Deal] {
	return New(path, func(d models.Deal) string { return d.Link })
}

// NewSaleStore opens the Sale collection at path, keyed by identity hash.
func NewSaleStore(path string) *Store[models.Sale] {
	return New(path, func(s models.Sale) string { return s.Identity })
}

// Load reads the persisted collection. A missing or unreadable file
// degrades to an empty collection with a warning: the next save starts
// the store fresh rather than failing the whole run.
func (s *Store[T]) Load() []T {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read persisted collection, starting fresh", "path", s.path, "error", err)
		}
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("Persisted collection is corrupt, starting fresh", "path", s.path, "error", err)
		return nil
	}
	return items
}

// Save rewrites the whole collection. Write failures are fatal for the
// run and returned to the caller; the previous file survives intact.
func (s *Store[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write collection to %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Merge unions the persisted collection with batch, keyed by identity,
// first-occurrence-wins: an existing record is never overwritten by a
// later duplicate, and duplicates inside the batch collapse to the first.
// It returns the persisted total and how many batch records were new.
func (s *Store[T]) Merge(batch []T) (total, added int, err error) {
	existing := s.Load()

	seen := make(map[string]struct{}, len(existing)+len(batch))
	merged := make([]T, 0, len(existing)+len(batch))
	for _, item := range existing {
		k := s.key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, item)
	}
	for _, item := range batch {
		k := s.key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, item)
		added++
	}

	if err := s.Save(merged); err != nil {
		return 0, 0, err
	}
	return len(merged), added, nil
}
