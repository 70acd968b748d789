package dto

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// The stock alphanum tag rejects underscores, which usernames allow.
	if err := v.RegisterValidation("alphanumunderscore", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks a request struct against its validate tags and maps any
// failure to apperrors.ErrValidation.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return nil
}
