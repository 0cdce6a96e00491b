package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cducdev/learn-english/internal/models"
)

// VocabularyRepository reads the vocabulary reference table. Entries are
// read-only from the engine's point of view; Seed only runs at startup.
type VocabularyRepository struct {
	db *gorm.DB
}

func NewVocabularyRepository(db *gorm.DB) (*VocabularyRepository, error) {
	if err := db.AutoMigrate(&models.VocabularyEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate vocabulary table: %w", err)
	}
	return &VocabularyRepository{db: db}, nil
}

// Random returns up to count entries in random order.
func (r *VocabularyRepository) Random(ctx context.Context, count int) ([]models.VocabularyEntry, error) {
	var entries []models.VocabularyEntry
	err := r.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(count).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to pick random vocabulary: %w", err)
	}
	return entries, nil
}

func (r *VocabularyRepository) GetByEnglish(ctx context.Context, english string) (*models.VocabularyEntry, error) {
	var entry models.VocabularyEntry
	err := r.db.WithContext(ctx).First(&entry, "english = ?", english).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *VocabularyRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.VocabularyEntry{}).Count(&n).Error
	return n, err
}

// SeedFromFile loads entries from a JSON file into the table when it is
// empty. Existing rows win on conflict.
func (r *VocabularyRepository) SeedFromFile(ctx context.Context, path string) (int, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read vocabulary seed: %w", err)
	}

	var entries []models.VocabularyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("failed to parse vocabulary seed: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entries).Error
	if err != nil {
		return 0, fmt.Errorf("failed to seed vocabulary: %w", err)
	}
	return len(entries), nil
}
