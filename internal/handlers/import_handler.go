package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cducdev/learn-english/internal/events"
	"github.com/cducdev/learn-english/internal/importer"
	"github.com/cducdev/learn-english/internal/session"
	"github.com/cducdev/learn-english/internal/store"
)

const maxImportBytes = 10 << 20

type ImportHandler struct {
	BaseHandler
	importer  *importer.Importer
	registry  *session.Registry
	wrongs    *store.WrongItemStore
	publisher events.Publisher
}

func NewImportHandler(
	imp *importer.Importer,
	registry *session.Registry,
	wrongs *store.WrongItemStore,
	publisher events.Publisher,
	logger *slog.Logger,
) *ImportHandler {
	return &ImportHandler{
		BaseHandler: NewBaseHandler(logger),
		importer:    imp,
		registry:    registry,
		wrongs:      wrongs,
		publisher:   publisher,
	}
}

// ImportQuestions parses an uploaded CSV or Excel file and reports what
// it would yield, without starting a session.
func (h *ImportHandler) ImportQuestions(c *gin.Context) {
	result, ok := h.parseUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportAndStart parses an upload and immediately runs a session over
// the imported questions. Rows that failed to parse are reported
// alongside the session.
func (h *ImportHandler) ImportAndStart(c *gin.Context) {
	result, ok := h.parseUpload(c)
	if !ok {
		return
	}
	if len(result.Questions) == 0 {
		h.RespondWithError(c, http.StatusBadRequest, "No importable questions in file", nil)
		return
	}

	durationSeconds := 0
	if raw := c.PostForm("duration_seconds"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 7200 {
			h.RespondWithError(c, http.StatusBadRequest, "Invalid duration_seconds", err)
			return
		}
		durationSeconds = n
	}

	var opts []session.Option
	if h.publisher != nil {
		opts = append(opts, session.WithPublisher(h.publisher))
	}

	ctrl, err := h.registry.StartWithQuestions(result.Questions, durationSeconds, h.wrongs, opts...)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	snap := ctrl.Snapshot()
	c.JSON(http.StatusCreated, gin.H{
		"session_id":        ctrl.ID(),
		"questions":         snap.Questions,
		"duration_seconds":  snap.DurationSeconds,
		"remaining_seconds": ctrl.Remaining(),
		"import":            result,
	})
}

func (h *ImportHandler) parseUpload(c *gin.Context) (*importer.ImportResult, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Missing file upload", err)
		return nil, false
	}
	if fileHeader.Size > maxImportBytes {
		h.RespondWithError(c, http.StatusBadRequest, "File too large", nil)
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Failed to open upload", err)
		return nil, false
	}
	defer file.Close()

	h.LogRequest(c, "Importing questions", "filename", fileHeader.Filename, "size", fileHeader.Size)

	result, err := h.importer.ImportFile(file, fileHeader.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}
	return result, true
}
