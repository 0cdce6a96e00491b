package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	apperrors "github.com/cducdev/learn-english/internal/errors"
	"github.com/cducdev/learn-english/internal/models"
)

// WrongItemStore is a durable, deduplicated collection of incorrectly
// answered questions and vocabulary entries. The key-indexed map makes
// dedup O(1) and enforces one-entry-per-key structurally. The store loads
// once at construction and saves on every mutation; growth is unbounded.
type WrongItemStore struct {
	mu     sync.RWMutex
	kv     KV
	items  map[string]models.WrongItem
	logger *slog.Logger
}

func NewWrongItemStore(ctx context.Context, kv KV, logger *slog.Logger) (*WrongItemStore, error) {
	raw, err := kv.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("load", "*", err)
	}

	items := make(map[string]models.WrongItem, len(raw))
	for key, data := range raw {
		var item models.WrongItem
		if err := json.Unmarshal(data, &item); err != nil {
			// A corrupt entry is skipped rather than taking the store down.
			logger.Warn("Skipping unreadable wrong item", "key", key, "error", err)
			continue
		}
		items[key] = item
	}

	logger.Info("Wrong item store loaded", "count", len(items))

	return &WrongItemStore{
		kv:     kv,
		items:  items,
		logger: logger,
	}, nil
}

// Add records item unless its key is already present. A duplicate key is a
// no-op, so the first incorrect grading of a key wins and `recorded_at`
// keeps its original value.
func (s *WrongItemStore) Add(ctx context.Context, item models.WrongItem) error {
	key := item.Key()
	if key == "" {
		return apperrors.NewValidationError("item", "wrong item has no key", item.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; exists {
		return nil
	}

	data, err := json.Marshal(item)
	if err != nil {
		return apperrors.NewPersistenceError("encode", key, err)
	}
	if err := s.kv.Put(ctx, key, data); err != nil {
		// The durable write failed but the caller's in-memory results are
		// still valid; surface the error without mutating state.
		return apperrors.NewPersistenceError("put", key, err)
	}

	s.items[key] = item
	s.logger.Info("Wrong item recorded", "key", key, "kind", item.Kind)
	return nil
}

// Remove deletes the entry with the given key. Removing an absent key is a
// no-op.
func (s *WrongItemStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; !exists {
		return nil
	}

	if err := s.kv.Delete(ctx, key); err != nil {
		return apperrors.NewPersistenceError("delete", key, err)
	}

	delete(s.items, key)
	s.logger.Info("Wrong item removed", "key", key)
	return nil
}

// List returns all entries, most recently recorded first.
func (s *WrongItemStore) List() []models.WrongItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WrongItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].Key() < out[j].Key()
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out
}

// Len returns the number of stored entries.
func (s *WrongItemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the entry for key, if present.
func (s *WrongItemStore) Get(key string) (models.WrongItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[key]
	return item, ok
}
