package constants

// Standard Response Field Keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldErrors  = "errors"
)

// BuildMessageResponse returns the {"message": ...} body used for every
// non-validation error and for simple acknowledgements.
func BuildMessageResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}

// BuildValidationErrorResponse returns the 422 body with per-field messages.
func BuildValidationErrorResponse(fields map[string][]string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: MsgValidationFailed,
		ResponseFieldErrors:  fields,
	}
}
