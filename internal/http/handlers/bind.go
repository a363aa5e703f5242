package handlers

import (
	"errors"
	"net/http"

	"github.com/geocoder89/classroom/internal/validation"
	"github.com/gin-gonic/gin"
)

// BindForm decodes a form body into out. Field rules are checked by the
// stores, so a failure here means the body itself was unreadable.
func BindForm(ctx *gin.Context, out any) error {
	if err := ctx.ShouldBind(out); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &validation.Error{Fields: []validation.FieldError{{
				Field: "body", Rule: "max", Message: "is too large",
			}}}
		}

		return &validation.Error{Fields: []validation.FieldError{{
			Field: "form", Rule: "decode", Message: "could not be read",
		}}}
	}

	return nil
}

// formMessage renders the first field error the way the form shows it.
func formMessage(err error) string {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return "Invalid input."
	}

	f := verr.First()
	if f.Field == "" {
		return "Invalid input."
	}

	return "Bad " + f.Field + ": " + f.Message + "."
}
