package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cducdev/learn-english/internal/errors"
	"github.com/cducdev/learn-english/internal/generator"
	"github.com/cducdev/learn-english/internal/practice"
	"github.com/cducdev/learn-english/internal/session"
	"github.com/cducdev/learn-english/internal/speech"
	"github.com/cducdev/learn-english/internal/vocab"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error mapping for all handlers
type BaseHandler struct {
	logger *slog.Logger
}

func NewBaseHandler(logger *slog.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
	}
	fields = append(fields, additionalFields...)
	h.logger.Info(message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error) {
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Details = err.Error()
		h.logger.Error(message, "status_code", statusCode, "error", err,
			"method", c.Request.Method, "path", c.Request.URL.Path)
	}
	c.JSON(statusCode, resp)
}

// handleServiceError maps engine errors onto HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs apperrors.ValidationErrors
	var validationErr *apperrors.ValidationError
	var recognitionErr *speech.RecognitionError

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
	case errors.Is(err, session.ErrQuestionNotInSession):
		h.RespondWithError(c, http.StatusNotFound, "Question not found in session", err)
	case errors.Is(err, session.ErrSessionNotRunning),
		errors.Is(err, session.ErrSessionNotCreated):
		h.RespondWithError(c, http.StatusConflict, "Session is not accepting this operation", err)
	case errors.Is(err, session.ErrAnswerShapeMismatch):
		h.RespondWithError(c, http.StatusBadRequest, "Answer shape does not match question type", err)
	case errors.Is(err, session.ErrGenerationFailed),
		errors.Is(err, generator.ErrServiceUnavailable):
		h.RespondWithError(c, http.StatusBadGateway, "Question service unavailable", err)
	case errors.Is(err, practice.ErrNothingToPractice):
		h.RespondWithError(c, http.StatusNotFound, "No wrong items to practice", err)
	case errors.Is(err, vocab.ErrNoVocabulary):
		h.RespondWithError(c, http.StatusNotFound, "Vocabulary table is empty", err)
	case errors.Is(err, speech.ErrUnsupportedCapability):
		h.RespondWithError(c, http.StatusNotImplemented, "Speech capability not available", err)
	case errors.Is(err, speech.ErrNoMatch):
		h.RespondWithError(c, http.StatusUnprocessableEntity, "Transcript matched no option", err)
	case errors.As(err, &recognitionErr):
		h.RespondWithError(c, http.StatusUnprocessableEntity, "Recognition failed", err)
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Details: validationErrs})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Details: validationErr})
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// ParseStringIDParam extracts a non-empty path parameter, responding with
// 400 when it is missing.
func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}
