package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cducdev/learn-english/internal/models"
	"github.com/cducdev/learn-english/internal/session"
	"github.com/cducdev/learn-english/internal/store"
	"github.com/cducdev/learn-english/internal/validator"
)

type stubSource struct {
	questions []models.Question
	err       error
}

func (s *stubSource) Generate(context.Context, int, string) ([]models.Question, error) {
	return s.questions, s.err
}

type stubExplainer struct{}

func (stubExplainer) Explain(_ context.Context, questionID string) (string, error) {
	return "explanation for " + questionID, nil
}

func testQuestions() []models.Question {
	return []models.Question{
		{
			ID:     "q1",
			Type:   models.FillBlank,
			Prompt: "A baby cat is called a ___",
			Answer: models.TextAnswer("kitten"),
		},
		{
			ID:      "q2",
			Type:    models.MultipleChoice,
			Prompt:  "Pick the fruit",
			Options: []string{"Apple", "Chair"},
			Answer:  models.TextAnswer("Apple"),
		},
	}
}

func testRouter(t *testing.T, source session.QuestionSource) *gin.Engine {
	return testRouterWithDefaults(t, source, SessionDefaults{QuestionCount: 5})
}

func testRouterWithDefaults(t *testing.T, source session.QuestionSource, defaults SessionDefaults) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.DiscardHandler)
	wrongs, err := store.NewWrongItemStore(context.Background(), store.NewMemoryKV(), logger)
	require.NoError(t, err)

	handler := NewSessionHandler(
		session.NewRegistry(logger), source, nil, stubExplainer{},
		wrongs, nil, validator.New(), defaults, logger)

	router := gin.New()
	router.POST("/sessions", handler.StartSession)
	router.GET("/sessions/:id", handler.GetSession)
	router.POST("/sessions/:id/answers", handler.RecordAnswer)
	router.POST("/sessions/:id/submit", handler.SubmitSession)
	router.GET("/questions/:id/explanation", handler.GetExplanation)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStartRecordSubmitFlow(t *testing.T) {
	router := testRouter(t, &stubSource{questions: testQuestions()})

	w := doJSON(router, http.MethodPost, "/sessions", StartSessionRequest{NumQuestions: 2})
	require.Equal(t, http.StatusCreated, w.Code)

	var started StartSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	require.NotEmpty(t, started.SessionID)
	require.Len(t, started.Questions, 2)

	w = doJSON(router, http.MethodPost, fmt.Sprintf("/sessions/%s/answers", started.SessionID),
		RecordAnswerRequest{QuestionID: "q1", Answer: models.TextAnswer(" Kitten ")})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, fmt.Sprintf("/sessions/%s/submit", started.SessionID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var submitted struct {
		Result models.ExamResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitted))
	assert.Equal(t, models.SessionSubmitted, submitted.Result.State)
	assert.Equal(t, 2, submitted.Result.TotalQuestions)
	assert.Equal(t, 1, submitted.Result.CorrectAnswers)
	assert.InDelta(t, 50.0, submitted.Result.Score, 0.01)
}

func TestStartSessionDurationDefaults(t *testing.T) {
	router := testRouterWithDefaults(t, &stubSource{questions: testQuestions()},
		SessionDefaults{QuestionCount: 5, DurationSeconds: 300})

	// Omitted duration falls back to the configured default.
	w := doJSON(router, http.MethodPost, "/sessions", StartSessionRequest{})
	require.Equal(t, http.StatusCreated, w.Code)
	var started StartSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	assert.Equal(t, 300, started.DurationSeconds)

	// An explicit 0 requests an untimed session, not the default.
	untimed := 0
	w = doJSON(router, http.MethodPost, "/sessions", StartSessionRequest{DurationSeconds: &untimed})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	assert.Equal(t, 0, started.DurationSeconds)
}

func TestStartSessionGenerationFailure(t *testing.T) {
	router := testRouter(t, &stubSource{err: fmt.Errorf("model offline")})

	w := doJSON(router, http.MethodPost, "/sessions", StartSessionRequest{})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetUnknownSession(t *testing.T) {
	router := testRouter(t, &stubSource{questions: testQuestions()})

	req := httptest.NewRequest(http.MethodGet, "/sessions/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordAnswerShapeMismatch(t *testing.T) {
	router := testRouter(t, &stubSource{questions: testQuestions()})

	w := doJSON(router, http.MethodPost, "/sessions", StartSessionRequest{})
	require.Equal(t, http.StatusCreated, w.Code)
	var started StartSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))

	w = doJSON(router, http.MethodPost, fmt.Sprintf("/sessions/%s/answers", started.SessionID),
		RecordAnswerRequest{QuestionID: "q1", Answer: models.SequenceAnswer([]string{"a", "b"})})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetExplanation(t *testing.T) {
	router := testRouter(t, &stubSource{questions: testQuestions()})

	req := httptest.NewRequest(http.MethodGet, "/questions/q1/explanation", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "explanation for q1", resp["explanation"])
}
