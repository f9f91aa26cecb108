package validation

// CustomMessage returns per-rule overrides for field, keyed by validator tag.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"mobile_number": {
			"required": "The mobile number field is required.",
			"max":      "The mobile number field must not be greater than 30 characters.",
		},
		"username": {
			"required": "The username field is required.",
		},
	}
	return customValidationMessages[field]
}
