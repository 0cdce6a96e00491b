package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cducdev/learn-english/internal/models"
	"github.com/cducdev/learn-english/internal/store"
)

// QuestionSource produces the ordered question set a session runs over.
// The remote generator, the document importer and the practice selector
// all feed the same start path through this interface.
type QuestionSource interface {
	Generate(ctx context.Context, count int, topic string) ([]models.Question, error)
}

// Registry tracks live controllers by session id. Terminal sessions stay
// resolvable until the caller abandons them; they are never resumed.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Controller
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Controller),
		logger:   logger,
	}
}

// Start fetches a question set from source and runs a new session over
// it. A source failure leaves no session behind: the caller sees the
// error and nothing else changes.
func (r *Registry) Start(ctx context.Context, source QuestionSource, count int, topic string, durationSeconds int, wrongs *store.WrongItemStore, opts ...Option) (*Controller, error) {
	questions, err := source.Generate(ctx, count, topic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: source returned no questions", ErrGenerationFailed)
	}

	return r.StartWithQuestions(questions, durationSeconds, wrongs, opts...)
}

// StartWithQuestions runs a new session over an already materialized
// question set (imported documents, practice items).
func (r *Registry) StartWithQuestions(questions []models.Question, durationSeconds int, wrongs *store.WrongItemStore, opts ...Option) (*Controller, error) {
	ctrl := New(questions, durationSeconds, wrongs, r.logger, opts...)
	if err := ctrl.Start(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[ctrl.ID()] = ctrl
	r.mu.Unlock()

	return ctrl, nil
}

func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctrl, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ctrl, nil
}

// Remove discards a session. In-progress sessions are simply dropped;
// there is no background persistence of unfinished work.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	ctrl, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		ctrl.Close()
		r.logger.Info("Session discarded", "session_id", id)
	}
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
