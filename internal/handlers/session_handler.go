package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cducdev/learn-english/internal/events"
	"github.com/cducdev/learn-english/internal/generator"
	"github.com/cducdev/learn-english/internal/models"
	"github.com/cducdev/learn-english/internal/session"
	"github.com/cducdev/learn-english/internal/store"
	"github.com/cducdev/learn-english/internal/validator"
)

// SessionDefaults are applied when a start request omits the field.
type SessionDefaults struct {
	QuestionCount   int
	DurationSeconds int
}

type SessionHandler struct {
	BaseHandler
	registry  *session.Registry
	source    session.QuestionSource
	checker   session.Checker
	explainer generator.Explainer
	wrongs    *store.WrongItemStore
	publisher events.Publisher
	validator *validator.Validator
	defaults  SessionDefaults
}

func NewSessionHandler(
	registry *session.Registry,
	source session.QuestionSource,
	checker session.Checker,
	explainer generator.Explainer,
	wrongs *store.WrongItemStore,
	publisher events.Publisher,
	v *validator.Validator,
	defaults SessionDefaults,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		registry:    registry,
		source:      source,
		checker:     checker,
		explainer:   explainer,
		wrongs:      wrongs,
		publisher:   publisher,
		validator:   v,
		defaults:    defaults,
	}
}

type StartSessionRequest struct {
	NumQuestions int    `json:"num_questions" validate:"omitempty,min=1,max=50"`
	Topic        string `json:"topic" validate:"omitempty,max=200"`

	// Pointer so an explicit 0 (untimed) is distinguishable from an
	// omitted field, which gets the configured default.
	DurationSeconds *int `json:"duration_seconds" validate:"omitempty,min=0,max=7200"`
}

type StartSessionResponse struct {
	SessionID        string            `json:"session_id"`
	Questions        []models.Question `json:"questions"`
	DurationSeconds  int               `json:"duration_seconds"`
	RemainingSeconds int               `json:"remaining_seconds"`
}

type RecordAnswerRequest struct {
	QuestionID string             `json:"question_id" validate:"required"`
	Answer     models.AnswerValue `json:"answer"`
}

type AppendTokenRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Token      string `json:"token" validate:"required"`
}

// StartSession generates a fresh exam and runs a session over it.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	if req.NumQuestions == 0 {
		req.NumQuestions = h.defaults.QuestionCount
	}
	durationSeconds := h.defaults.DurationSeconds
	if req.DurationSeconds != nil {
		durationSeconds = *req.DurationSeconds
	}

	h.LogRequest(c, "Starting exam session",
		"num_questions", req.NumQuestions, "topic", req.Topic)

	ctrl, err := h.registry.Start(c.Request.Context(), h.source,
		req.NumQuestions, req.Topic, durationSeconds, h.wrongs,
		h.sessionOptions()...)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	snap := ctrl.Snapshot()
	c.JSON(http.StatusCreated, StartSessionResponse{
		SessionID:        ctrl.ID(),
		Questions:        snap.Questions,
		DurationSeconds:  snap.DurationSeconds,
		RemainingSeconds: ctrl.Remaining(),
	})
}

// GetSession returns the current session snapshot.
func (h *SessionHandler) GetSession(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	snap := ctrl.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"session":           snap,
		"remaining_seconds": ctrl.Remaining(),
	})
}

// GetTimeRemaining returns the countdown value.
func (h *SessionHandler) GetTimeRemaining(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining_seconds": ctrl.Remaining()})
}

// RecordAnswer stores or overwrites one answer without grading it.
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	var req RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := ctrl.RecordAnswer(req.QuestionID, req.Answer); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Answer recorded"})
}

// AppendToken adds one token to a rearrangement answer.
func (h *SessionHandler) AppendToken(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	var req AppendTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := ctrl.AppendToken(req.QuestionID, req.Token); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Token appended"})
}

// ResetSequence clears a rearrangement answer back to empty.
func (h *SessionHandler) ResetSequence(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	if err := ctrl.ResetSequence(questionID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Sequence reset"})
}

// SubmitSession grades the session. Submitting twice returns the same
// result without regrading.
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	ctrl := h.controller(c)
	if ctrl == nil {
		return
	}

	h.LogRequest(c, "Submitting session", "session_id", ctrl.ID())

	result, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := gin.H{"result": result}
	if storeErrors := ctrl.StoreErrors(); len(storeErrors) > 0 {
		resp["store_errors"] = storeErrors
	}
	c.JSON(http.StatusOK, resp)
}

// AbandonSession discards a session without grading it.
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	h.registry.Remove(id)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Session discarded"})
}

// GetExplanation fetches a teaching explanation for one question.
func (h *SessionHandler) GetExplanation(c *gin.Context) {
	questionID := ParseStringIDParam(c, "id")
	if questionID == "" {
		return
	}

	explanation, err := h.explainer.Explain(c.Request.Context(), questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question_id": questionID,
		"explanation": explanation,
	})
}

// sessionOptions are the options every generator-backed session carries.
func (h *SessionHandler) sessionOptions() []session.Option {
	opts := []session.Option{}
	if h.checker != nil {
		opts = append(opts, session.WithChecker(h.checker))
	}
	if h.publisher != nil {
		opts = append(opts, session.WithPublisher(h.publisher))
	}
	return opts
}

func (h *SessionHandler) controller(c *gin.Context) *session.Controller {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return nil
	}
	ctrl, err := h.registry.Get(id)
	if err != nil {
		h.handleServiceError(c, err)
		return nil
	}
	return ctrl
}
