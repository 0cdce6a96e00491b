package models

import "strings"

// Answer is a user's response to one question. The value shape must match
// the owning question's type contract; a mismatch is a caller error and is
// rejected before grading.
type Answer struct {
	QuestionID string      `json:"question_id" validate:"required"`
	Value      AnswerValue `json:"answer"`
}

// CheckResult is the graded outcome for one (Question, Answer) pair. It is
// immutable after creation; the canonical answer is always populated so
// review screens can show the right answer even for unanswered questions.
type CheckResult struct {
	QuestionID    string      `json:"question_id"`
	Correct       bool        `json:"correct"`
	CorrectAnswer AnswerValue `json:"correct_answer"`
	Explanation   string      `json:"explanation,omitempty"`
}

// NormalizeAnswer turns a raw input value into an Answer matching q's type
// contract:
//
//   - fill_blank: trimmed text (case handling is left to grading)
//   - multiple_choice: exactly one element of q.Options; anything else is
//     reported via ok=false so the caller can ignore the input
//   - sentence_rearrangement: sequence as-is (token-level rules are
//     enforced by the session's append/reset operations)
//
// A shape mismatch returns ok=false with a nil answer.
func NormalizeAnswer(q *Question, value AnswerValue) (Answer, bool) {
	if value.Kind != KindForType(q.Type) {
		return Answer{}, false
	}

	switch q.Type {
	case FillBlank:
		return Answer{QuestionID: q.ID, Value: TextAnswer(strings.TrimSpace(value.Text))}, true

	case MultipleChoice:
		if !q.HasOption(value.Text) {
			return Answer{}, false
		}
		return Answer{QuestionID: q.ID, Value: value}, true

	case SentenceRearrangement:
		return Answer{QuestionID: q.ID, Value: value}, true
	}

	return Answer{}, false
}
