package validation

import (
	"fmt"
	"strings"
)

// DefaultMessage renders the message for a failed rule when no custom
// message exists for the field.
func DefaultMessage(field, tag, param string) string {
	field = strings.ReplaceAll(strings.ToLower(field), "_", " ")

	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "numeric":
		return fmt.Sprintf("The %s field must be a number.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, param)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, param)
	case "max_bytes":
		return fmt.Sprintf("The %s field must not be greater than %s bytes.", field, param)
	case "len":
		return fmt.Sprintf("The %s field must be %s characters.", field, param)
	case "alphanum":
		return fmt.Sprintf("The %s field must only contain letters and numbers.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
