package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Tanuroy10/studyhub-service/internal/models"
)

// ValidationError describes one failed rule on one field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve))
	for i, e := range ve {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with the domain rules.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerDomainRules()
	return v
}

// Validate validates struct tags and returns ValidationErrors on failure.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if ok := isInvalidValidation(err, &invalid); ok {
		return fmt.Errorf("invalid validation target: %w", err)
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func (v *Validator) registerDomainRules() {
	_ = v.validate.RegisterValidation("difficulty_level", func(fl validator.FieldLevel) bool {
		switch models.DifficultyLevel(fl.Field().String()) {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
			return true
		}
		return false
	})

	_ = v.validate.RegisterValidation("post_type", func(fl validator.FieldLevel) bool {
		switch models.PostType(fl.Field().String()) {
		case models.PostAchievement, models.PostQuestion, models.PostDiscussion:
			return true
		}
		return false
	})
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "difficulty_level":
		return "must be easy, medium or hard"
	case "post_type":
		return "must be achievement, question or discussion"
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}

func isInvalidValidation(err error, target **validator.InvalidValidationError) bool {
	iv, ok := err.(*validator.InvalidValidationError)
	if ok {
		*target = iv
	}
	return ok
}
