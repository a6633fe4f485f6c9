package handler

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/scribehub/identity-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to
// echo.Echo.Validator. It registers the custom "password" rule used at
// registration.
func NewValidator() *echoValidator {
	v := validator.New()
	_ = v.RegisterValidation("password", passwordRule)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Violations surface as a
// domain.ValidationError so the error handler renders per-field detail.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]domain.FieldError, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, fieldError(fe))
			}
			return &domain.ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

// passwordRule enforces the registration password policy: length >= 8, at
// least one digit, at least one uppercase letter.
func passwordRule(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 {
		return false
	}
	var digit, upper bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && upper
}

// fieldError converts a single ValidationError into a field descriptor.
func fieldError(fe validator.FieldError) domain.FieldError {
	field := strings.ToLower(fe.Field())
	var msg string
	switch fe.Tag() {
	case "required":
		msg = field + " is required"
	case "email":
		msg = field + " must be a valid email"
	case "password":
		msg = "password must be at least 8 characters and contain a digit and an uppercase letter"
	case "min":
		msg = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		msg = fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
	return domain.FieldError{Field: field, Message: msg}
}
