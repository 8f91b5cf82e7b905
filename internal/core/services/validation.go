package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// requestValidator checks request DTOs against the same `binding` tags gin uses,
// so services reject malformed input even when called without the HTTP layer.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}

func validateRequest(req any) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.NewValidationError(err.Error())
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return apperrors.NewValidationError("invalid request: " + strings.Join(msgs, "; "))
}
