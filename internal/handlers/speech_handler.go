package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cducdev/learn-english/internal/models"
	"github.com/cducdev/learn-english/internal/session"
	"github.com/cducdev/learn-english/internal/speech"
	"github.com/cducdev/learn-english/internal/validator"
)

// Uploaded audio clips are short spoken answers; anything bigger than
// this is rejected before it reaches the recognition service.
const maxAudioBytes = 5 << 20

type SpeechHandler struct {
	BaseHandler
	adapter   *speech.Adapter
	registry  *session.Registry
	language  string
	validator *validator.Validator
}

func NewSpeechHandler(
	adapter *speech.Adapter,
	registry *session.Registry,
	language string,
	v *validator.Validator,
	logger *slog.Logger,
) *SpeechHandler {
	return &SpeechHandler{
		BaseHandler: NewBaseHandler(logger),
		adapter:     adapter,
		registry:    registry,
		language:    language,
		validator:   v,
	}
}

type SynthesizeRequest struct {
	Text     string `json:"text" validate:"required,max=500"`
	Language string `json:"language" validate:"omitempty,max=20"`
}

// GetCapabilities reports which speech features resolved as available.
func (h *SpeechHandler) GetCapabilities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"can_synthesize": h.adapter.CanSynthesize(),
		"can_recognize":  h.adapter.CanRecognize(),
	})
}

// Synthesize vocalizes text and streams back the audio. When synthesis
// is unavailable or fails the response is empty rather than an error.
func (h *SpeechHandler) Synthesize(c *gin.Context) {
	var req SynthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	language := req.Language
	if language == "" {
		language = h.language
	}

	audio := h.adapter.Synthesize(c.Request.Context(), req.Text, language)
	if len(audio) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

// RecognizeAnswer transcribes an uploaded clip and records the result as
// the answer to a session question. Multiple-choice transcripts must
// match an option; rearrangement transcripts append matching tokens in
// spoken order; fill_blank takes the raw transcript.
func (h *SpeechHandler) RecognizeAnswer(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	questionID := c.PostForm("question_id")
	if sessionID == "" || questionID == "" {
		h.RespondWithError(c, http.StatusBadRequest, "session_id and question_id are required", nil)
		return
	}

	ctrl, err := h.registry.Get(sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	snap := ctrl.Snapshot()
	question := snap.QuestionByID(questionID)
	if question == nil {
		h.handleServiceError(c, session.ErrQuestionNotInSession)
		return
	}

	audio, err := h.readAudio(c)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid audio upload", err)
		return
	}

	language := c.PostForm("language")
	if language == "" {
		language = h.language
	}

	transcript, err := h.adapter.Recognize(c.Request.Context(), audio, language)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	recorded, err := h.record(ctrl, question, transcript)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transcript": transcript,
		"recorded":   recorded,
	})
}

func (h *SpeechHandler) record(ctrl *session.Controller, q *models.Question, transcript string) (models.AnswerValue, error) {
	switch q.Type {
	case models.MultipleChoice:
		option, err := speech.MatchChoice(transcript, q.Options)
		if err != nil {
			return models.AnswerValue{}, err
		}
		value := models.TextAnswer(option)
		return value, ctrl.RecordAnswer(q.ID, value)

	case models.SentenceRearrangement:
		used := ctrl.Snapshot().Answers[q.ID].Value.Sequence
		matched := speech.MatchTokens(transcript, q.Options, used)
		if len(matched) == 0 {
			return models.AnswerValue{}, speech.ErrNoMatch
		}
		for _, token := range matched {
			if err := ctrl.AppendToken(q.ID, token); err != nil {
				return models.AnswerValue{}, err
			}
		}
		return ctrl.Snapshot().Answers[q.ID].Value, nil

	default:
		value := models.TextAnswer(transcript)
		return value, ctrl.RecordAnswer(q.ID, value)
	}
}

func (h *SpeechHandler) readAudio(c *gin.Context) ([]byte, error) {
	file, _, err := c.Request.FormFile("audio")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxAudioBytes))
}
