package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/cducdev/learn-english/internal/models"
)

type EventType string

const (
	SessionCompleted  EventType = "session.completed"
	WrongItemRecorded EventType = "wrong_item.recorded"
)

// Event is the envelope published to the event stream after a session
// reaches a terminal state.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`

	Session   *SessionCompletedPayload `json:"session,omitempty"`
	WrongItem *models.WrongItem        `json:"wrong_item,omitempty"`
	SessionID string                   `json:"session_id"`
}

type SessionCompletedPayload struct {
	State          string  `json:"state"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Score          float64 `json:"score"`
}

func newEvent(eventType EventType, sessionID string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "learn-english",
		Timestamp: time.Now(),
		SessionID: sessionID,
	}
}

func NewSessionCompleted(sessionID, state string, total, correct int, score float64) *Event {
	e := newEvent(SessionCompleted, sessionID)
	e.Session = &SessionCompletedPayload{
		State:          state,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Score:          score,
	}
	return e
}

func NewWrongItemRecorded(sessionID string, item models.WrongItem) *Event {
	e := newEvent(WrongItemRecorded, sessionID)
	e.WrongItem = &item
	return e
}
