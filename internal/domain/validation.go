package domain

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// TagGUID accepts the 8-4-4-4-12 hex form in either case. The validator's
// built-in uuid tag only accepts lowercase.
const TagGUID = "guid"

var guidPattern = regexp.MustCompile(`^[0-9A-Fa-f]{8}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{12}$`)

func IsGUID(s string) bool {
	return guidPattern.MatchString(s)
}

// RegisterValidations adds the domain tags to v. Both the HTTP binding
// engine and the event validator call it so ids are judged the same way.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation(TagGUID, func(fl validator.FieldLevel) bool {
		return IsGUID(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register %s validation: %w", TagGUID, err)
	}
	return nil
}

// NewValidator returns a validator with the domain tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	// Registering a static tag on a fresh validator cannot fail.
	_ = RegisterValidations(v)
	return v
}
