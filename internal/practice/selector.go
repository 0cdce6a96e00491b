// Package practice re-feeds stored wrong items into fresh review
// sessions.
package practice

import (
	"context"
	"errors"
	"time"

	"github.com/cducdev/learn-english/internal/models"
	"github.com/cducdev/learn-english/internal/store"
)

var ErrNothingToPractice = errors.New("no wrong items to practice")

// Selector rehydrates wrong items into question sets. It satisfies the
// session QuestionSource contract, so practice sessions run through the
// same controller as exams.
type Selector struct {
	wrongs *store.WrongItemStore
}

func NewSelector(wrongs *store.WrongItemStore) *Selector {
	return &Selector{wrongs: wrongs}
}

// Generate returns up to count questions rebuilt from the most recently
// recorded wrong items. The topic parameter is unused for practice.
func (s *Selector) Generate(_ context.Context, count int, _ string) ([]models.Question, error) {
	items := s.wrongs.List()
	if len(items) == 0 {
		return nil, ErrNothingToPractice
	}
	if count > 0 && count < len(items) {
		items = items[:count]
	}

	questions := make([]models.Question, 0, len(items))
	for _, item := range items {
		questions = append(questions, QuestionFor(item))
	}
	return questions, nil
}

// QuestionFor rebuilds a drillable question from one wrong item. The
// question id is the item's store key, so a repeat miss dedups against
// the existing entry.
func QuestionFor(item models.WrongItem) models.Question {
	if item.Kind == models.WrongQuestion {
		q := *item.Question
		return q
	}

	entry := item.Vocabulary
	q := models.Question{
		ID:          item.Key(),
		Type:        models.FillBlank,
		Explanation: entry.Explanation,
	}

	if item.Direction == models.TargetToEnglish {
		// Show a translation, expect the english word.
		if len(entry.Translations) > 0 {
			q.Prompt = entry.Translations[0]
		}
		q.Answer = models.TextAnswer(entry.English)
		q.AcceptedAnswers = []string{entry.English}
		return q
	}

	q.Prompt = entry.English
	q.AcceptedAnswers = append([]string(nil), entry.Translations...)
	if len(entry.Translations) > 0 {
		q.Answer = models.TextAnswer(entry.Translations[0])
	}
	return q
}

// WrongItemFor maps a practice question that was missed again back onto
// its original wrong item, so the store key stays stable across review
// rounds.
func (s *Selector) WrongItemFor(q models.Question, at time.Time) models.WrongItem {
	if existing, ok := s.wrongs.Get(q.ID); ok {
		existing.RecordedAt = at
		return existing
	}
	if existing, ok := s.wrongs.Get("q:" + q.ID); ok {
		existing.RecordedAt = at
		return existing
	}
	return models.WrongQuestionItem(q, at)
}
