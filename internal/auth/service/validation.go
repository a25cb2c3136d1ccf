package service

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/user-auth/internal/common/constants"
)

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// bcrypt only reads the first 72 bytes of a password.
var newPasswordRule = fmt.Sprintf("maxbytes=%d", constants.MaxPasswordBytes)

type CredentialValidator struct {
	validate *validator.Validate
}

func NewCredentialValidator() CredentialValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return CredentialValidator{validate: v}
}

// maxBytes limits the UTF-8 byte length of a string; the builtin max rule
// counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Validate requires both fields to be non-empty. Content rules are left to
// the client.
func (cv CredentialValidator) Validate(username, password string) error {
	if err := cv.validate.Struct(credentials{Username: username, Password: password}); err != nil {
		return ErrValidation.WithCause(err)
	}
	return nil
}

// ValidateRegistration also rejects passwords the hasher cannot take.
func (cv CredentialValidator) ValidateRegistration(username, password string) error {
	if err := cv.Validate(username, password); err != nil {
		return err
	}
	if err := cv.validate.Var(password, newPasswordRule); err != nil {
		return ErrPasswordTooLong.WithCause(err)
	}
	return nil
}
