package validation

import (
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// RegisterRules adds the custom rules used by request DTOs to v.
func RegisterRules(v *validator.Validate) error {
	return v.RegisterValidation("max_bytes", maxBytes)
}

// maxBytes limits the encoded length of a string. The built-in max counts
// runes, which is the wrong unit for bcrypt input.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return len(field.String()) <= limit
}
