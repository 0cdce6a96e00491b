package models

import (
	"fmt"
	"time"
)

type WrongItemKind string

const (
	WrongQuestion   WrongItemKind = "question"
	WrongVocabulary WrongItemKind = "vocabulary"
)

// WrongItem is a question or vocabulary entry the user answered
// incorrectly, retained for later practice. Exactly one of Question or
// Vocabulary is set, according to Kind.
type WrongItem struct {
	Kind       WrongItemKind    `json:"kind"`
	Question   *Question        `json:"question,omitempty"`
	Vocabulary *VocabularyEntry `json:"vocabulary,omitempty"`
	Direction  Direction        `json:"direction,omitempty"`
	RecordedAt time.Time        `json:"recorded_at"`
}

// Key is the dedup identity: the question id for question items, the
// (english, direction) pair for vocabulary items. Both drill directions of
// the same word queue independently.
func (w WrongItem) Key() string {
	switch w.Kind {
	case WrongQuestion:
		return "q:" + w.Question.ID
	case WrongVocabulary:
		return fmt.Sprintf("v:%s:%s", w.Vocabulary.English, w.Direction)
	}
	return ""
}

// WrongQuestionItem snapshots a question at the moment it was missed.
func WrongQuestionItem(q Question, at time.Time) WrongItem {
	return WrongItem{Kind: WrongQuestion, Question: &q, RecordedAt: at}
}

// WrongVocabularyItem records a missed vocabulary drill in one direction.
func WrongVocabularyItem(entry VocabularyEntry, dir Direction, at time.Time) WrongItem {
	return WrongItem{Kind: WrongVocabulary, Vocabulary: &entry, Direction: dir, RecordedAt: at}
}
