package practice

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cducdev/learn-english/internal/models"
	"github.com/cducdev/learn-english/internal/store"
)

func testStore(t *testing.T) *store.WrongItemStore {
	t.Helper()
	s, err := store.NewWrongItemStore(context.Background(), store.NewMemoryKV(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return s
}

func TestGenerateEmptyStore(t *testing.T) {
	selector := NewSelector(testStore(t))

	_, err := selector.Generate(context.Background(), 5, "")
	assert.ErrorIs(t, err, ErrNothingToPractice)
}

func TestGenerateRehydratesQuestions(t *testing.T) {
	wrongs := testStore(t)
	ctx := context.Background()
	base := time.Now()

	original := models.Question{
		ID:      "q1",
		Type:    models.MultipleChoice,
		Prompt:  "pick the animal",
		Options: []string{"Cat", "Table"},
		Answer:  models.TextAnswer("Cat"),
	}
	require.NoError(t, wrongs.Add(ctx, models.WrongQuestionItem(original, base.Add(-time.Hour))))
	require.NoError(t, wrongs.Add(ctx, models.WrongVocabularyItem(
		models.VocabularyEntry{English: "apple", Translations: []string{"táo", "quả táo"}},
		models.EnglishToTarget, base)))

	questions, err := NewSelector(wrongs).Generate(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, questions, 2)

	// Most recent first: the vocabulary item leads.
	vocabQ := questions[0]
	assert.Equal(t, "v:apple:english_to_target", vocabQ.ID)
	assert.Equal(t, models.FillBlank, vocabQ.Type)
	assert.Equal(t, "apple", vocabQ.Prompt)
	assert.Equal(t, []string{"táo", "quả táo"}, vocabQ.AcceptedAnswers)

	assert.Equal(t, original, questions[1])
}

func TestGenerateHonorsCount(t *testing.T) {
	wrongs := testStore(t)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		q := models.Question{ID: id, Type: models.FillBlank, Prompt: id, Answer: models.TextAnswer(id)}
		require.NoError(t, wrongs.Add(ctx, models.WrongQuestionItem(q, time.Now().Add(time.Duration(i)*time.Minute))))
	}

	questions, err := NewSelector(wrongs).Generate(ctx, 2, "")
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestQuestionForTargetToEnglish(t *testing.T) {
	item := models.WrongVocabularyItem(
		models.VocabularyEntry{English: "apple", Translations: []string{"táo"}},
		models.TargetToEnglish, time.Now())

	q := QuestionFor(item)
	assert.Equal(t, "táo", q.Prompt)
	assert.Equal(t, models.TextAnswer("apple"), q.Answer)
	assert.Equal(t, []string{"apple"}, q.AcceptedAnswers)
}

func TestWrongItemForKeepsStableKey(t *testing.T) {
	wrongs := testStore(t)
	ctx := context.Background()

	entry := models.VocabularyEntry{English: "apple", Translations: []string{"táo"}}
	require.NoError(t, wrongs.Add(ctx, models.WrongVocabularyItem(entry, models.EnglishToTarget, time.Now())))

	selector := NewSelector(wrongs)
	questions, err := selector.Generate(ctx, 0, "")
	require.NoError(t, err)

	// Missing the practice question again maps back to the same store key,
	// so Add stays a dedup no-op.
	item := selector.WrongItemFor(questions[0], time.Now())
	assert.Equal(t, "v:apple:english_to_target", item.Key())
	require.NoError(t, wrongs.Add(ctx, item))
	assert.Equal(t, 1, wrongs.Len())
}
