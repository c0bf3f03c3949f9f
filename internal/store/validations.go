package store

import (
	"errors"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	errorvalues "github.com/limbo/tickdone/internal/error_values"
)

// Package-level validator with custom rules for the request structs
var (
	validate *validator.Validate
	once     sync.Once

	clockTimeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		// Reminder times are wall-clock "HH:MM" strings
		validate.RegisterValidation("clock_time", func(fl validator.FieldLevel) bool {
			return clockTimeRe.MatchString(fl.Field().String())
		})
	})
}

// validateStruct folds field errors into one value matchable against
// ErrValidation with errors.Is.
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		joined := error(errorvalues.ErrValidation)
		for _, fieldErr := range fieldErrors {
			joined = errors.Join(joined, fieldErr)
		}
		return joined
	}
	return errors.New("validation unexpected error: " + err.Error())
}
