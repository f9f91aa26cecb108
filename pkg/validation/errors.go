package validation

import (
	"errors"
	"reflect"
	"strings"

	apperrors "github.com/Payphone-Digital/tokenauth/internal/errors"
	"github.com/go-playground/validator/v10"
)

// UseJSONFieldNames makes v report fields by their json tag instead of the Go
// field name.
func UseJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// FieldErrors converts validator failures into per-field messages. It
// reports false when err is not a validation failure.
func FieldErrors(err error) (apperrors.FieldErrors, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	fields := apperrors.FieldErrors{}
	for _, e := range verrs {
		fields.Add(e.Field(), Message(e))
	}
	return fields, true
}

// Message picks the custom message for the failed rule, falling back to the
// default wording.
func Message(e validator.FieldError) string {
	if fieldMessages := CustomMessage(e.Field()); fieldMessages != nil {
		if msg, exists := fieldMessages[e.Tag()]; exists {
			return msg
		}
	}
	return DefaultMessage(e.Field(), e.Tag(), e.Param())
}
