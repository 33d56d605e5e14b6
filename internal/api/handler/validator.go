package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator plugs go-playground/validator into c.Validate. Clients
// only ever see the fixed message of each route; the field list below ends up
// in the request log through the error's internal cause.
type requestValidator struct {
	v *validator.Validate
}

func NewValidator() *requestValidator {
	return &requestValidator{v: validator.New()}
}

// fieldsError lists every field that failed, e.g.
// "invalid fields: email (required), lat (required without city)".
type fieldsError []string

func (f fieldsError) Error() string {
	return "invalid fields: " + strings.Join(f, ", ")
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(fieldsError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, describe(fe))
	}
	return fields
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	param := strings.ToLower(fe.Param())
	switch fe.Tag() {
	case "required":
		return field + " (required)"
	case "required_without":
		return fmt.Sprintf("%s (required without %s)", field, param)
	case "required_without_all":
		return fmt.Sprintf("%s (required without any of %s)", field, param)
	}
	return fmt.Sprintf("%s (%s)", field, fe.Tag())
}
