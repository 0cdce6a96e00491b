package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() Session {
	return Session{
		ID: "s1",
		Questions: []Question{
			{ID: "q1", Type: FillBlank, Prompt: "a ___", Answer: TextAnswer("cat")},
			{ID: "q2", Type: MultipleChoice, Prompt: "pick", Options: []string{"A", "B"}, Answer: TextAnswer("A")},
		},
		Answers:   map[string]Answer{"q1": {QuestionID: "q1", Value: TextAnswer("cat")}},
		StartedAt: time.Now(),
		State:     SessionRunning,
	}
}

func TestSessionReadHelpersOnValue(t *testing.T) {
	// Both helpers must be callable on a plain value, e.g. directly on a
	// snapshot copy returned from a function.
	snapshot := func() Session { return sampleSession() }

	assert.Equal(t, 1, snapshot().AnsweredCount())

	q := snapshot().QuestionByID("q2")
	require.NotNil(t, q)
	assert.Equal(t, "pick", q.Prompt)
	assert.Nil(t, snapshot().QuestionByID("missing"))
}

func TestSessionStateTerminal(t *testing.T) {
	assert.False(t, SessionCreated.IsTerminal())
	assert.False(t, SessionRunning.IsTerminal())
	assert.True(t, SessionSubmitted.IsTerminal())
	assert.True(t, SessionExpired.IsTerminal())
}
