// Package store owns durable state: the wrong-item collection and the
// vocabulary reference table. All reads and writes of the persistence
// substrate go through this package; no other component touches it.
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KV is the durable key-value persistence port. It is scoped to the local
// actor and survives process restarts. Each Put/Delete touches exactly one
// key; no multi-key transaction is required.
type KV interface {
	LoadAll(ctx context.Context) (map[string][]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type kvEntry struct {
	Key       string         `gorm:"primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

// gormKV implements KV on a single gorm-managed table.
type gormKV struct {
	db *gorm.DB
}

func NewGormKV(db *gorm.DB) (KV, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return &gormKV{db: db}, nil
}

func (s *gormKV) LoadAll(ctx context.Context) (map[string][]byte, error) {
	var entries []kvEntry
	if err := s.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load kv entries: %w", err)
	}

	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

func (s *gormKV) Put(ctx context.Context, key string, value []byte) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Save(&entry).Error
}

func (s *gormKV) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error
}

// MemoryKV is an in-memory KV for tests and for running without a
// database. Contents do not survive a restart.
type MemoryKV struct {
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) LoadAll(_ context.Context) (map[string][]byte, error) {
	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		cp := make([]byte, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}
