package models

import "time"

type SessionState string

const (
	SessionCreated   SessionState = "Created"
	SessionRunning   SessionState = "Running"
	SessionSubmitted SessionState = "Submitted"
	SessionExpired   SessionState = "Expired"
)

// IsTerminal reports whether the state accepts no further transitions.
// A terminal session is discarded and replaced, never reopened.
func (s SessionState) IsTerminal() bool {
	return s == SessionSubmitted || s == SessionExpired
}

// Session is one run through an ordered set of questions. The question
// order is fixed at creation and defines both display and grading order.
// The answers map is partial: unanswered questions are simply absent.
type Session struct {
	ID              string            `json:"id"`
	Questions       []Question        `json:"questions"`
	Answers         map[string]Answer `json:"answers"`
	StartedAt       time.Time         `json:"started_at"`
	DurationSeconds int               `json:"duration_seconds"` // 0 means untimed
	State           SessionState      `json:"state"`
	Topic           string            `json:"topic,omitempty"`
}

// AnsweredCount returns how many of the session's questions currently have
// a recorded answer.
func (s Session) AnsweredCount() int {
	n := 0
	for _, q := range s.Questions {
		if _, ok := s.Answers[q.ID]; ok {
			n++
		}
	}
	return n
}

// QuestionByID returns the session question with the given id, or nil if
// the id does not belong to this session.
func (s Session) QuestionByID(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// ExamResult summarizes a graded session.
type ExamResult struct {
	SessionID      string        `json:"session_id"`
	State          SessionState  `json:"state"`
	TotalQuestions int           `json:"total_questions"`
	CorrectAnswers int           `json:"correct_answers"`
	Score          float64       `json:"score"`
	Details        []CheckResult `json:"details"`
}
