package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cducdev/learn-english/internal/events"
	"github.com/cducdev/learn-english/internal/generator"
	"github.com/cducdev/learn-english/internal/importer"
	"github.com/cducdev/learn-english/internal/session"
	"github.com/cducdev/learn-english/internal/speech"
	"github.com/cducdev/learn-english/internal/store"
	"github.com/cducdev/learn-english/internal/validator"
)

type HandlerManager struct {
	sessionHandler   *SessionHandler
	wrongItemHandler *WrongItemHandler
	vocabHandler     *VocabHandler
	speechHandler    *SpeechHandler
	importHandler    *ImportHandler
}

// Dependencies carries everything the HTTP layer wires together.
type Dependencies struct {
	Registry  *session.Registry
	Generator *generator.Client
	Explainer generator.Explainer
	Wrongs    *store.WrongItemStore
	Vocab     *store.VocabularyRepository
	Speech    *speech.Adapter
	Importer  *importer.Importer
	Publisher events.Publisher
	Validator *validator.Validator
	Defaults  SessionDefaults
	Language  string
}

func NewHandlerManager(deps Dependencies, logger *slog.Logger) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(
			deps.Registry, deps.Generator, deps.Generator, deps.Explainer,
			deps.Wrongs, deps.Publisher, deps.Validator, deps.Defaults, logger),
		wrongItemHandler: NewWrongItemHandler(
			deps.Registry, deps.Wrongs, deps.Publisher, deps.Validator, logger),
		vocabHandler: NewVocabHandler(
			deps.Registry, deps.Vocab, deps.Wrongs, deps.Publisher, deps.Validator, logger),
		speechHandler: NewSpeechHandler(
			deps.Speech, deps.Registry, deps.Language, deps.Validator, logger),
		importHandler: NewImportHandler(
			deps.Importer, deps.Registry, deps.Wrongs, deps.Publisher, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "learn-english",
		})
	})

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.GET("/:id/time-remaining", hm.sessionHandler.GetTimeRemaining)
			sessions.POST("/:id/answers", hm.sessionHandler.RecordAnswer)
			sessions.POST("/:id/tokens", hm.sessionHandler.AppendToken)
			sessions.DELETE("/:id/tokens/:question_id", hm.sessionHandler.ResetSequence)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
			sessions.DELETE("/:id", hm.sessionHandler.AbandonSession)
		}

		questions := v1.Group("/questions")
		{
			questions.GET("/:id/explanation", hm.sessionHandler.GetExplanation)
		}

		wrongItems := v1.Group("/wrong-items")
		{
			wrongItems.GET("", hm.wrongItemHandler.ListWrongItems)
			wrongItems.DELETE("/:key", hm.wrongItemHandler.RemoveWrongItem)
			wrongItems.POST("/practice", hm.wrongItemHandler.StartPractice)
		}

		vocab := v1.Group("/vocabulary")
		{
			vocab.GET("/random", hm.vocabHandler.GetRandomEntries)
			vocab.GET("/:english", hm.vocabHandler.GetEntry)
			vocab.POST("/drills", hm.vocabHandler.StartDrill)
		}

		speechRoutes := v1.Group("/speech")
		{
			speechRoutes.GET("/capabilities", hm.speechHandler.GetCapabilities)
			speechRoutes.POST("/synthesize", hm.speechHandler.Synthesize)
			speechRoutes.POST("/recognize", hm.speechHandler.RecognizeAnswer)
		}

		imports := v1.Group("/import")
		{
			imports.POST("/questions", hm.importHandler.ImportQuestions)
			imports.POST("/sessions", hm.importHandler.ImportAndStart)
		}
	}
}
