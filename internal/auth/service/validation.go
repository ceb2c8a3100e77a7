package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Password cap of 72 bytes matches the bcrypt input limit.
type credentials struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,max=72"`
}

func validateCredentials(email, password string) error {
	err := validate.Struct(credentials{Email: email, Password: password})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if fieldErrs[0].Field() == "Password" {
			return ErrValidationPassword
		}
		return ErrValidationEmail
	}
	return ErrValidationEmail
}
