package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cducdev/learn-english/internal/errors"
	"github.com/cducdev/learn-english/internal/models"
)

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name      string
		question  models.Question
		wantField string
	}{
		{
			name: "valid fill_blank",
			question: models.Question{
				ID: "q1", Type: models.FillBlank, Prompt: "a ___",
				Answer: models.TextAnswer("cat"),
			},
		},
		{
			name: "valid multiple_choice",
			question: models.Question{
				ID: "q1", Type: models.MultipleChoice, Prompt: "pick",
				Options: []string{"Cat", "Dog"}, Answer: models.TextAnswer("Cat"),
			},
		},
		{
			name: "valid rearrangement",
			question: models.Question{
				ID: "q1", Type: models.SentenceRearrangement, Prompt: "arrange",
				Options: []string{"I", "am"}, Answer: models.SequenceAnswer([]string{"I", "am"}),
			},
		},
		{
			name: "missing id",
			question: models.Question{
				Type: models.FillBlank, Prompt: "a ___", Answer: models.TextAnswer("cat"),
			},
			wantField: "id",
		},
		{
			name: "unknown type",
			question: models.Question{
				ID: "q1", Type: "true_false", Prompt: "?", Answer: models.TextAnswer("yes"),
			},
			wantField: "type",
		},
		{
			name: "missing prompt",
			question: models.Question{
				ID: "q1", Type: models.FillBlank, Answer: models.TextAnswer("cat"),
			},
			wantField: "question",
		},
		{
			name: "multiple_choice with one option",
			question: models.Question{
				ID: "q1", Type: models.MultipleChoice, Prompt: "pick",
				Options: []string{"Cat"}, Answer: models.TextAnswer("Cat"),
			},
			wantField: "options",
		},
		{
			name: "multiple_choice answer outside options",
			question: models.Question{
				ID: "q1", Type: models.MultipleChoice, Prompt: "pick",
				Options: []string{"Cat", "Dog"}, Answer: models.TextAnswer("Bird"),
			},
			wantField: "answer",
		},
		{
			name: "rearrangement without sequence",
			question: models.Question{
				ID: "q1", Type: models.SentenceRearrangement, Prompt: "arrange",
				Options: []string{"I", "am"},
			},
			wantField: "answer",
		},
		{
			name: "fill_blank without answer",
			question: models.Question{
				ID: "q1", Type: models.FillBlank, Prompt: "a ___",
			},
			wantField: "answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(&tt.question)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidateStructTags(t *testing.T) {
	type drillRequest struct {
		Direction string `json:"direction" validate:"required,direction"`
		Count     int    `json:"count" validate:"omitempty,min=1"`
	}

	v := New()
	assert.NoError(t, v.Validate(&drillRequest{Direction: "english_to_target", Count: 5}))

	err := v.Validate(&drillRequest{Direction: "sideways"})
	require.Error(t, err)
	var verrs apperrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	// Errors report the json field name, not the Go field name.
	assert.Equal(t, "direction", verrs[0].Field)
}
