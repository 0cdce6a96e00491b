// Package validator wraps go-playground struct validation with the
// custom tags the request types use.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/cducdev/learn-english/internal/errors"
	"github.com/cducdev/learn-english/internal/models"
)

type Validator struct {
	structValidator *validator.Validate
}

func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)
	return &Validator{structValidator: structValidator}
}

// Validate checks struct tags and converts failures into field-level
// validation errors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		return apperrors.ToValidationErrors(err)
	}
	return nil
}

// ValidateQuestion checks the per-type shape rules a struct tag cannot
// express. The importer runs every parsed row through it before the row
// can reach a session.
func ValidateQuestion(q *models.Question) error {
	if q.ID == "" {
		return apperrors.NewValidationError("id", "question id is required", nil)
	}
	if !q.Type.IsValid() {
		return apperrors.NewValidationError("type", "invalid question type", string(q.Type))
	}
	if q.Prompt == "" {
		return apperrors.NewValidationError("question", "question text is required", nil)
	}

	switch q.Type {
	case models.MultipleChoice:
		if len(q.Options) < 2 {
			return apperrors.NewValidationError("options", "multiple_choice needs at least 2 options", len(q.Options))
		}
		if !q.HasOption(q.Answer.Text) {
			return apperrors.NewValidationError("answer", "answer must be one of the options", q.Answer.Text)
		}
	case models.SentenceRearrangement:
		if len(q.Answer.Sequence) == 0 {
			return apperrors.NewValidationError("answer", "sentence_rearrangement needs an answer sequence", nil)
		}
	default:
		if q.Answer.Text == "" {
			return apperrors.NewValidationError("answer", "answer is required", nil)
		}
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("direction", validateDirection)

	// Report errors against json field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).IsValid()
}

func validateDirection(fl validator.FieldLevel) bool {
	switch models.Direction(fl.Field().String()) {
	case models.EnglishToTarget, models.TargetToEnglish:
		return true
	}
	return false
}
