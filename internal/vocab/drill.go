// Package vocab builds vocabulary drill sessions from the reference
// table.
package vocab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cducdev/learn-english/internal/models"
)

var ErrNoVocabulary = errors.New("vocabulary table is empty")

// EntryPicker supplies random vocabulary entries. The gorm repository
// satisfies it.
type EntryPicker interface {
	Random(ctx context.Context, count int) ([]models.VocabularyEntry, error)
}

// Drill turns random vocabulary entries into fill_blank questions for one
// direction. It keeps the picked entries so missed questions map back to
// their entry and direction when they are recorded as wrong items.
type Drill struct {
	repo      EntryPicker
	direction models.Direction
	entries   map[string]models.VocabularyEntry
}

func NewDrill(repo EntryPicker, direction models.Direction) *Drill {
	return &Drill{
		repo:      repo,
		direction: direction,
		entries:   make(map[string]models.VocabularyEntry),
	}
}

// Generate picks count random entries and shapes them as questions. The
// topic parameter is unused for drills.
func (d *Drill) Generate(ctx context.Context, count int, _ string) ([]models.Question, error) {
	entries, err := d.repo.Random(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("failed to pick vocabulary: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoVocabulary
	}

	questions := make([]models.Question, 0, len(entries))
	for _, entry := range entries {
		d.entries[entry.English] = entry
		questions = append(questions, d.question(entry))
	}
	return questions, nil
}

func (d *Drill) question(entry models.VocabularyEntry) models.Question {
	q := models.Question{
		ID:          entry.English,
		Type:        models.FillBlank,
		Explanation: entry.Explanation,
	}

	if d.direction == models.TargetToEnglish {
		if len(entry.Translations) > 0 {
			q.Prompt = entry.Translations[0]
		}
		q.Answer = models.TextAnswer(entry.English)
		q.AcceptedAnswers = []string{entry.English}
		return q
	}

	// english_to_target: every stored translation is accepted.
	q.Prompt = entry.English
	q.AcceptedAnswers = append([]string(nil), entry.Translations...)
	if len(entry.Translations) > 0 {
		q.Answer = models.TextAnswer(entry.Translations[0])
	}
	return q
}

// WrongItem maps a missed drill question back to its vocabulary entry so
// the store keys it by (english, direction).
func (d *Drill) WrongItem(q models.Question, at time.Time) models.WrongItem {
	if entry, ok := d.entries[q.ID]; ok {
		return models.WrongVocabularyItem(entry, d.direction, at)
	}
	return models.WrongQuestionItem(q, at)
}
