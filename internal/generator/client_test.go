package generator

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cducdev/learn-english/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate-exam", r.URL.Path)

		var req examRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.NumQuestions)
		assert.Equal(t, "animals", req.Topic)

		json.NewEncoder(w).Encode([]models.Question{
			{ID: "q1", Type: models.FillBlank, Prompt: "feline", Answer: models.TextAnswer("cat")},
			{ID: "q2", Type: models.SentenceRearrangement, Prompt: "arrange",
				Options: []string{"I", "am", "happy"},
				Answer:  models.SequenceAnswer([]string{"I", "am", "happy"})},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	questions, err := client.Generate(context.Background(), 2, "animals")
	require.NoError(t, err)
	require.Len(t, questions, 2)

	// Both answer shapes survive the wire round trip.
	assert.Equal(t, models.AnswerText, questions[0].Answer.Kind)
	assert.Equal(t, models.AnswerSequence, questions[1].Answer.Kind)
	assert.Equal(t, []string{"I", "am", "happy"}, questions[1].Answer.Sequence)
}

func TestGenerateServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	_, err := client.Generate(context.Background(), 1, "")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestCheckSendsEmptyValueForUnanswered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/check-answer", r.URL.Path)

		var payload map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.JSONEq(t, `"q1"`, string(payload["question_id"]))
		assert.JSONEq(t, `""`, string(payload["answer"]))

		json.NewEncoder(w).Encode(models.CheckResult{
			Correct:       false,
			CorrectAnswer: models.TextAnswer("cat"),
		})
	}))
	defer srv.Close()

	q := models.Question{ID: "q1", Type: models.FillBlank, Answer: models.TextAnswer("cat")}
	client := NewClient(srv.URL, testLogger())

	result, err := client.Check(context.Background(), &q, nil)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, "q1", result.QuestionID)
	assert.Equal(t, models.TextAnswer("cat"), result.CorrectAnswer)
}

func TestExplain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/get-explanation", r.URL.Path)
		json.NewEncoder(w).Encode(explanationResponse{Explanation: "because grammar"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	explanation, err := client.Explain(context.Background(), "q1")
	require.NoError(t, err)
	assert.Equal(t, "because grammar", explanation)
}
