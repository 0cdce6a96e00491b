// Package generator talks to the remote question service: exam
// generation, answer checking and explanation retrieval. All failures are
// surfaced to the caller and leave the session in its current state.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cducdev/learn-english/internal/models"
)

var ErrServiceUnavailable = errors.New("question service unavailable")

// Client is an HTTP client for the question service. It doubles as the
// session's QuestionSource and its remote grading Checker.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type examRequest struct {
	NumQuestions int    `json:"num_questions"`
	Topic        string `json:"topic,omitempty"`
}

// Generate asks the service for an ordered question set.
func (c *Client) Generate(ctx context.Context, count int, topic string) ([]models.Question, error) {
	var questions []models.Question
	err := c.post(ctx, "/generate-exam", examRequest{NumQuestions: count, Topic: topic}, &questions)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Generated exam questions", "count", len(questions), "topic", topic)
	return questions, nil
}

// Check delegates grading of one answer to the service. An absent answer
// is sent as an empty value so the service grades it incorrect with the
// canonical answer populated.
func (c *Client) Check(ctx context.Context, question *models.Question, answer *models.Answer) (models.CheckResult, error) {
	payload := models.Answer{QuestionID: question.ID}
	if answer != nil {
		payload = *answer
	} else if models.KindForType(question.Type) == models.AnswerSequence {
		payload.Value = models.SequenceAnswer(nil)
	} else {
		payload.Value = models.TextAnswer("")
	}

	var result models.CheckResult
	if err := c.post(ctx, "/check-answer", payload, &result); err != nil {
		return models.CheckResult{}, err
	}
	result.QuestionID = question.ID
	return result, nil
}

type explanationResponse struct {
	Explanation string `json:"explanation"`
}

// Explain fetches a teaching explanation for one question.
func (c *Client) Explain(ctx context.Context, questionID string) (string, error) {
	var resp explanationResponse
	err := c.post(ctx, "/get-explanation", map[string]string{"question_id": questionID}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Explanation, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s", ErrServiceUnavailable, path, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
