package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error is returned for input that has the wrong shape or length.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// First is the message shown back on the form.
func (e *Error) First() FieldError {
	if len(e.Fields) == 0 {
		return FieldError{Message: "is invalid"}
	}
	return e.Fields[0]
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their form name, that is what the user typed into
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return sf.Name
		}
		return name
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s any) error {
	return FromError(v.v.Struct(s))
}

// Var validates a single value, field is the name used in messages.
func (v *Validator) Var(field string, value any, tag string) error {
	err := v.v.Var(value, tag)
	if err == nil {
		return nil
	}

	var validatorErrors validator.ValidationErrors
	if errors.As(err, &validatorErrors) {
		fields := make([]FieldError, 0, len(validatorErrors))
		for _, fe := range validatorErrors {
			fields = append(fields, newFieldError(field, fe.Tag(), fe.Param()))
		}
		return &Error{Fields: fields}
	}

	return err
}

// FromError converts validator errors into *Error and passes anything else
// through untouched.
func FromError(err error) error {
	if err == nil {
		return nil
	}

	var validatorErrors validator.ValidationErrors

	if errors.As(err, &validatorErrors) {
		fields := make([]FieldError, 0, len(validatorErrors))

		for _, fieldError := range validatorErrors {
			fields = append(fields, newFieldError(fieldError.Field(), fieldError.Tag(), fieldError.Param()))
		}
		return &Error{Fields: fields}
	}

	return err
}

func newFieldError(field, rule, param string) FieldError {
	return FieldError{
		Field:   field,
		Rule:    rule,
		Param:   param,
		Message: Message(rule, param),
	}
}

func Message(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "len":
		return "must be exactly " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
