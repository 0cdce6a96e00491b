// Package session implements the exam/practice/drill state machine: an
// ordered set of questions, per-question answer state, a one-second
// countdown, and terminal grading that feeds the wrong-item store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cducdev/learn-english/internal/events"
	"github.com/cducdev/learn-english/internal/grading"
	"github.com/cducdev/learn-english/internal/models"
	"github.com/cducdev/learn-english/internal/store"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionNotCreated    = errors.New("session already started")
	ErrSessionNotRunning    = errors.New("session is not running")
	ErrQuestionNotInSession = errors.New("question does not belong to this session")
	ErrAnswerShapeMismatch  = errors.New("answer shape does not match question type")
	ErrGenerationFailed     = errors.New("question generation failed")
)

// Checker is an optional remote grading delegate. When absent or failing,
// grading happens fully locally.
type Checker interface {
	Check(ctx context.Context, question *models.Question, answer *models.Answer) (models.CheckResult, error)
}

// WrongItemFunc maps a missed question to the wrong-item it should record.
// Exam sessions snapshot the question itself; vocabulary drills map back
// to the vocabulary entry and drill direction.
type WrongItemFunc func(q models.Question, at time.Time) models.WrongItem

// Controller owns one Session for its lifetime. All methods are safe for
// the cooperative callers the engine expects: the countdown tick, answer
// recording and submission never block each other for long.
type Controller struct {
	mu sync.Mutex

	sess      models.Session
	remaining int

	checker   Checker
	wrongItem WrongItemFunc
	wrongs    *store.WrongItemStore
	publisher events.Publisher
	logger    *slog.Logger

	result      *models.ExamResult
	storeErrors []string

	stopTimer chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithChecker delegates per-question grading to a remote authority.
func WithChecker(c Checker) Option {
	return func(ctrl *Controller) { ctrl.checker = c }
}

// WithWrongItemFunc overrides how missed questions map to wrong items.
func WithWrongItemFunc(f WrongItemFunc) Option {
	return func(ctrl *Controller) { ctrl.wrongItem = f }
}

// WithPublisher emits session lifecycle events after terminal grading.
func WithPublisher(p events.Publisher) Option {
	return func(ctrl *Controller) { ctrl.publisher = p }
}

// New builds a Controller in the Created state over a fixed question
// order. durationSeconds of 0 means untimed.
func New(questions []models.Question, durationSeconds int, wrongs *store.WrongItemStore, logger *slog.Logger, opts ...Option) *Controller {
	ctrl := &Controller{
		sess: models.Session{
			ID:              uuid.NewString(),
			Questions:       questions,
			Answers:         make(map[string]models.Answer),
			DurationSeconds: durationSeconds,
			State:           models.SessionCreated,
		},
		remaining: durationSeconds,
		wrongs:    wrongs,
		wrongItem: models.WrongQuestionItem,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	ctrl.logger = ctrl.logger.With("session_id", ctrl.sess.ID)
	return ctrl
}

// ID returns the session id.
func (c *Controller) ID() string {
	return c.sess.ID
}

// Start moves Created -> Running, stamps started_at and arms the countdown
// for timed sessions.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State != models.SessionCreated {
		return ErrSessionNotCreated
	}

	c.sess.StartedAt = time.Now()
	c.sess.State = models.SessionRunning

	if c.sess.DurationSeconds > 0 {
		c.stopTimer = make(chan struct{})
		go c.runCountdown()
	}

	c.logger.Info("Session started",
		"questions", len(c.sess.Questions),
		"duration_seconds", c.sess.DurationSeconds)
	return nil
}

// runCountdown drives Tick on a fixed one-second cadence until the session
// leaves Running.
func (c *Controller) runCountdown() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !c.Tick() {
				return
			}
		case <-c.stopTimer:
			return
		}
	}
}

// Tick decrements the countdown by one second. When the counter reaches
// zero the session expires, which is equivalent to an automatic submit.
// It returns false once the session is no longer Running.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	if c.sess.State != models.SessionRunning || c.sess.DurationSeconds == 0 {
		c.mu.Unlock()
		return false
	}

	c.remaining--
	expired := c.remaining <= 0
	c.mu.Unlock()

	if expired {
		c.expire()
		return false
	}
	return true
}

// Remaining returns the countdown value in whole seconds.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Snapshot returns a copy of the session for display purposes.
func (c *Controller) Snapshot() models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := c.sess
	cp.Questions = append([]models.Question(nil), c.sess.Questions...)
	cp.Answers = make(map[string]models.Answer, len(c.sess.Answers))
	for k, v := range c.sess.Answers {
		cp.Answers[k] = v
	}
	return cp
}

// RecordAnswer validates that the question belongs to the session and the
// value shape matches its type, then overwrites any prior answer. It never
// grades. After submission or expiry it is a silent no-op: the caller
// should already be blocking input, but the contract tolerates the race.
func (c *Controller) RecordAnswer(questionID string, value models.AnswerValue) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State.IsTerminal() {
		return nil
	}
	if c.sess.State != models.SessionRunning {
		return ErrSessionNotRunning
	}

	q := c.sess.QuestionByID(questionID)
	if q == nil {
		return ErrQuestionNotInSession
	}

	if value.Kind != models.KindForType(q.Type) {
		return fmt.Errorf("%w: question %s expects %s", ErrAnswerShapeMismatch, questionID, models.KindForType(q.Type))
	}

	answer, ok := models.NormalizeAnswer(q, value)
	if !ok {
		// Unknown multiple-choice option: ignore the input rather than
		// surfacing an error.
		c.logger.Debug("Ignoring answer outside option set", "question_id", questionID)
		return nil
	}

	c.sess.Answers[questionID] = answer
	return nil
}

// AppendToken adds one token to a sentence_rearrangement answer. Tokens
// already present in the current sequence are not selectable again.
func (c *Controller) AppendToken(questionID, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State.IsTerminal() {
		return nil
	}
	if c.sess.State != models.SessionRunning {
		return ErrSessionNotRunning
	}

	q := c.sess.QuestionByID(questionID)
	if q == nil {
		return ErrQuestionNotInSession
	}
	if q.Type != models.SentenceRearrangement {
		return fmt.Errorf("%w: question %s is not a rearrangement question", ErrAnswerShapeMismatch, questionID)
	}
	if !q.HasOption(token) {
		c.logger.Debug("Ignoring token outside option set", "question_id", questionID, "token", token)
		return nil
	}

	current := c.sess.Answers[questionID].Value.Sequence
	for _, t := range current {
		if t == token {
			return nil
		}
	}

	seq := append(append([]string(nil), current...), token)
	c.sess.Answers[questionID] = models.Answer{
		QuestionID: questionID,
		Value:      models.SequenceAnswer(seq),
	}
	return nil
}

// ResetSequence clears a sentence_rearrangement answer back to empty.
func (c *Controller) ResetSequence(questionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State.IsTerminal() {
		return nil
	}
	if c.sess.State != models.SessionRunning {
		return ErrSessionNotRunning
	}
	if c.sess.QuestionByID(questionID) == nil {
		return ErrQuestionNotInSession
	}

	delete(c.sess.Answers, questionID)
	return nil
}

// Submit moves Running -> Submitted, grades every question in display
// order and records wrong items. Calling it again returns the already
// computed result; a second call never regrades.
func (c *Controller) Submit(ctx context.Context) (*models.ExamResult, error) {
	return c.finalize(ctx, models.SessionSubmitted)
}

func (c *Controller) expire() {
	// Expiry grades exactly the answers recorded up to the tick that
	// crossed zero.
	if _, err := c.finalize(context.Background(), models.SessionExpired); err != nil {
		c.logger.Error("Failed to finalize expired session", "error", err)
	}
}

func (c *Controller) finalize(ctx context.Context, terminal models.SessionState) (*models.ExamResult, error) {
	c.mu.Lock()

	if c.result != nil {
		result := c.result
		c.mu.Unlock()
		return result, nil
	}
	if c.sess.State != models.SessionRunning {
		c.mu.Unlock()
		return nil, ErrSessionNotRunning
	}

	c.sess.State = terminal
	if c.stopTimer != nil {
		close(c.stopTimer)
		c.stopTimer = nil
	}

	questions := append([]models.Question(nil), c.sess.Questions...)
	answers := make(map[string]models.Answer, len(c.sess.Answers))
	for k, v := range c.sess.Answers {
		answers[k] = v
	}
	c.mu.Unlock()

	results := c.gradeAll(ctx, questions, answers)
	now := time.Now()

	correct := 0
	var storeErrors []string
	for i, r := range results {
		if r.Correct {
			correct++
			continue
		}
		// Wrong items are pushed in display order so dedup-at-insert is
		// deterministic when two questions share a key.
		item := c.wrongItem(questions[i], now)
		if err := c.wrongs.Add(ctx, item); err != nil {
			c.logger.Error("Failed to record wrong item", "key", item.Key(), "error", err)
			storeErrors = append(storeErrors, err.Error())
			continue
		}
		c.publish(ctx, events.NewWrongItemRecorded(c.sess.ID, item))
	}

	score := 0.0
	if len(questions) > 0 {
		score = float64(correct) / float64(len(questions)) * 100
	}

	result := &models.ExamResult{
		SessionID:      c.sess.ID,
		State:          terminal,
		TotalQuestions: len(questions),
		CorrectAnswers: correct,
		Score:          score,
		Details:        results,
	}

	c.mu.Lock()
	c.result = result
	c.storeErrors = storeErrors
	c.mu.Unlock()

	c.publish(ctx, events.NewSessionCompleted(c.sess.ID, string(terminal), len(questions), correct, score))

	c.logger.Info("Session finalized",
		"state", terminal,
		"total", len(questions),
		"correct", correct,
		"wrong_items", len(questions)-correct)

	return result, nil
}

// gradeAll grades each question, preferring the remote checker when
// configured. The controller waits for every per-question result before
// the terminal state is reported; a failed remote call falls back to local
// grading so submission never wedges on the checking service.
func (c *Controller) gradeAll(ctx context.Context, questions []models.Question, answers map[string]models.Answer) []models.CheckResult {
	if c.checker == nil {
		return grading.GradeAll(questions, answers)
	}

	results := make([]models.CheckResult, len(questions))
	for i := range questions {
		var answer *models.Answer
		if a, ok := answers[questions[i].ID]; ok {
			answer = &a
		}

		r, err := c.checker.Check(ctx, &questions[i], answer)
		if err != nil {
			c.logger.Warn("Remote check failed, grading locally",
				"question_id", questions[i].ID, "error", err)
			r = grading.Grade(&questions[i], answer)
		}
		results[i] = r
	}
	return results
}

func (c *Controller) publish(ctx context.Context, event *events.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

// StoreErrors reports persistence failures from the terminal grading pass.
func (c *Controller) StoreErrors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.storeErrors...)
}

// Close releases the countdown goroutine when a session is abandoned
// before reaching a terminal state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopTimer != nil {
		close(c.stopTimer)
		c.stopTimer = nil
	}
}
