package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cducdev/learn-english/internal/events"
	"github.com/cducdev/learn-english/internal/practice"
	"github.com/cducdev/learn-english/internal/session"
	"github.com/cducdev/learn-english/internal/store"
	"github.com/cducdev/learn-english/internal/validator"
)

type WrongItemHandler struct {
	BaseHandler
	registry  *session.Registry
	wrongs    *store.WrongItemStore
	publisher events.Publisher
	validator *validator.Validator
}

func NewWrongItemHandler(
	registry *session.Registry,
	wrongs *store.WrongItemStore,
	publisher events.Publisher,
	v *validator.Validator,
	logger *slog.Logger,
) *WrongItemHandler {
	return &WrongItemHandler{
		BaseHandler: NewBaseHandler(logger),
		registry:    registry,
		wrongs:      wrongs,
		publisher:   publisher,
		validator:   v,
	}
}

type StartPracticeRequest struct {
	Count           int `json:"count" validate:"omitempty,min=1,max=100"`
	DurationSeconds int `json:"duration_seconds" validate:"omitempty,min=0,max=7200"`
}

// ListWrongItems returns the retained wrong items, most recent first.
func (h *WrongItemHandler) ListWrongItems(c *gin.Context) {
	items := h.wrongs.List()
	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

// RemoveWrongItem deletes one wrong item by its key. Removing an absent
// key is a no-op.
func (h *WrongItemHandler) RemoveWrongItem(c *gin.Context) {
	key := ParseStringIDParam(c, "key")
	if key == "" {
		return
	}

	if err := h.wrongs.Remove(c.Request.Context(), key); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Wrong item removed"})
}

// StartPractice runs a review session over the stored wrong items.
// Practice sessions are untimed unless the request says otherwise.
func (h *WrongItemHandler) StartPractice(c *gin.Context) {
	var req StartPracticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Starting practice session", "count", req.Count)

	selector := practice.NewSelector(h.wrongs)
	questions, err := selector.Generate(c.Request.Context(), req.Count, "")
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	opts := []session.Option{session.WithWrongItemFunc(selector.WrongItemFor)}
	if h.publisher != nil {
		opts = append(opts, session.WithPublisher(h.publisher))
	}

	ctrl, err := h.registry.StartWithQuestions(questions, req.DurationSeconds, h.wrongs, opts...)
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
