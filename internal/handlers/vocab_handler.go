package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cducdev/learn-english/internal/events"
	"github.com/cducdev/learn-english/internal/models"
	"github.com/cducdev/learn-english/internal/session"
	"github.com/cducdev/learn-english/internal/store"
	"github.com/cducdev/learn-english/internal/validator"
	"github.com/cducdev/learn-english/internal/vocab"
)

type VocabHandler struct {
	BaseHandler
	registry  *session.Registry
	repo      *store.VocabularyRepository
	wrongs    *store.WrongItemStore
	publisher events.Publisher
	validator *validator.Validator
}

func NewVocabHandler(
	registry *session.Registry,
	repo *store.VocabularyRepository,
	wrongs *store.WrongItemStore,
	publisher events.Publisher,
	v *validator.Validator,
	logger *slog.Logger,
) *VocabHandler {
	return &VocabHandler{
		BaseHandler: NewBaseHandler(logger),
		registry:    registry,
		repo:        repo,
		wrongs:      wrongs,
		publisher:   publisher,
		validator:   v,
	}
}

type StartDrillRequest struct {
	Count           int    `json:"count" validate:"omitempty,min=1,max=100"`
	Direction       string `json:"direction" validate:"required,direction"`
	DurationSeconds int    `json:"duration_seconds" validate:"omitempty,min=0,max=7200"`
}

// StartDrill runs a vocabulary drill session in one direction. Missed
// words queue as wrong items keyed by word and direction.
func (h *VocabHandler) StartDrill(c *gin.Context) {
	var req StartDrillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	if req.Count == 0 {
		req.Count = 10
	}

	h.LogRequest(c, "Starting vocabulary drill",
		"count", req.Count, "direction", req.Direction)

	drill := vocab.NewDrill(h.repo, models.Direction(req.Direction))
	questions, err := drill.Generate(c.Request.Context(), req.Count, "")
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	opts := []session.Option{session.WithWrongItemFunc(drill.WrongItem)}
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

// GetRandomEntries returns random vocabulary entries for browsing.
func (h *VocabHandler) GetRandomEntries(c *gin.Context) {
	count := 10
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			h.RespondWithError(c, http.StatusBadRequest, "Invalid count parameter", err)
			return
		}
		count = n
	}

	entries, err := h.repo.Random(c.Request.Context(), count)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetEntry looks up one vocabulary entry by its english form.
func (h *VocabHandler) GetEntry(c *gin.Context) {
	english := ParseStringIDParam(c, "english")
	if english == "" {
		return
	}

	entry, err := h.repo.GetByEnglish(c.Request.Context(), english)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.RespondWithError(c, http.StatusNotFound, "Vocabulary entry not found", err)
			return
		}
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
