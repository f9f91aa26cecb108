package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderRetryAfter    = "Retry-After"
)

// Authorization scheme accepted by the token gate
const AuthSchemeBearer = "Bearer"

// Response messages. These mirror the public API contract and must not change.
const (
	MsgUnauthenticated    = "Unauthenticated."
	MsgAuthFailed         = "auth failed"
	MsgLoggedOut          = "Logged out successfully."
	MsgValidationFailed   = "The given data was invalid."
	MsgTooManyAttempts    = "Too Many Attempts."
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service unavailable"
	MsgBadRequest         = "Invalid request"
)
