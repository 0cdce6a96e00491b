// Package grading compares a user's answer to a question's canonical
// answer, type-aware. Grading is pure: no I/O, no side effects.
package grading

import (
	"strings"

	"github.com/cducdev/learn-english/internal/models"
)

// Grade checks answer against the question's canonical answer.
//
// An absent answer (nil) grades as incorrect with the canonical answer
// still populated, so review screens can show the right answer.
func Grade(q *models.Question, answer *models.Answer) models.CheckResult {
	result := models.CheckResult{
		QuestionID:    q.ID,
		CorrectAnswer: q.Answer,
		Explanation:   q.Explanation,
	}

	if answer == nil || answer.Value.IsZero() {
		return result
	}

	switch q.Type {
	case models.FillBlank:
		result.Correct = gradeFillBlank(q, answer.Value.Text)
	case models.MultipleChoice:
		// Options are a closed set presented verbatim, so the match is
		// byte-for-byte.
		result.Correct = answer.Value.Text == q.Answer.Text
	case models.SentenceRearrangement:
		result.Correct = sequencesEqual(answer.Value.Sequence, q.Answer.Sequence)
	}

	return result
}

// GradeAll grades every question in display order, looking answers up by
// question id. Unanswered questions grade incorrect.
func GradeAll(questions []models.Question, answers map[string]models.Answer) []models.CheckResult {
	results := make([]models.CheckResult, len(questions))
	for i := range questions {
		var answer *models.Answer
		if a, ok := answers[questions[i].ID]; ok {
			answer = &a
		}
		results[i] = Grade(&questions[i], answer)
	}
	return results
}

func gradeFillBlank(q *models.Question, text string) bool {
	got := normalize(text)
	if got == "" {
		return false
	}
	if got == normalize(q.Answer.Text) {
		return true
	}
	for _, accepted := range q.AcceptedAnswers {
		if got == normalize(accepted) {
			return true
		}
	}
	return false
}

// sequencesEqual compares element-for-element in order. A partial or
// reordered sequence is incorrect; there is no partial credit.
func sequencesEqual(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if normalize(got[i]) != normalize(want[i]) {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
