package models

import (
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	FillBlank             QuestionType = "fill_blank"
	MultipleChoice        QuestionType = "multiple_choice"
	SentenceRearrangement QuestionType = "sentence_rearrangement"
)

// IsValid reports whether t is one of the supported question types.
func (t QuestionType) IsValid() bool {
	switch t {
	case FillBlank, MultipleChoice, SentenceRearrangement:
		return true
	}
	return false
}

// AnswerKind tags the shape of an AnswerValue. Every question type maps to
// exactly one kind, so grading and validation can switch exhaustively.
type AnswerKind string

const (
	AnswerText     AnswerKind = "text"
	AnswerSequence AnswerKind = "sequence"
)

// KindForType returns the answer shape a question type expects.
func KindForType(t QuestionType) AnswerKind {
	if t == SentenceRearrangement {
		return AnswerSequence
	}
	return AnswerText
}

// AnswerValue is a tagged variant holding either a single string or an
// ordered sequence of strings. On the wire it is a bare JSON string or a
// JSON array, matching the question/answer contract exchanged with the
// question generator and checker services.
type AnswerValue struct {
	Kind     AnswerKind
	Text     string
	Sequence []string
}

func TextAnswer(s string) AnswerValue {
	return AnswerValue{Kind: AnswerText, Text: s}
}

func SequenceAnswer(items []string) AnswerValue {
	return AnswerValue{Kind: AnswerSequence, Sequence: items}
}

// IsZero reports whether the value carries no answer at all.
func (v AnswerValue) IsZero() bool {
	return v.Kind == "" || (v.Kind == AnswerText && v.Text == "") ||
		(v.Kind == AnswerSequence && len(v.Sequence) == 0)
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.Kind == AnswerSequence {
		if v.Sequence == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.Sequence)
	}
	return json.Marshal(v.Text)
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = TextAnswer(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*v = SequenceAnswer(items)
		return nil
	}
	return fmt.Errorf("answer value must be a string or an array of strings")
}

// Question is a single prompt presented during a session. IDs are stable
// across sessions so wrong-item dedup can key on them.
type Question struct {
	ID      string       `json:"id" validate:"required"`
	Type    QuestionType `json:"type" validate:"required,question_type"`
	Prompt  string       `json:"question" validate:"required"`
	Options []string     `json:"options,omitempty"`
	Answer  AnswerValue  `json:"answer"`

	// AcceptedAnswers widens fill_blank grading to a set of equally valid
	// strings. Vocabulary drills use it for multiple translations.
	AcceptedAnswers []string `json:"accepted_answers,omitempty"`

	Explanation string `json:"explanation,omitempty"`
}

// HasOption reports whether opt is one of the question's options,
// byte-for-byte.
func (q *Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}
