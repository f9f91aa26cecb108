package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	apperrors "github.com/Payphone-Digital/tokenauth/internal/errors"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"github.com/Payphone-Digital/tokenauth/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bindJSON decodes and validates the body into req. It writes the error
// response and returns false when the request cannot be used. An empty body
// is validated as an empty object.
func bindJSON(ctx context.Context, c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(req)
	}
	if err == nil {
		return true
	}

	if fields, ok := validation.FieldErrors(err); ok {
		logger.InfoWithContext(ctx, "Request validation failed").
			Int("error_count", len(fields)).
			Log()
		c.JSON(http.StatusUnprocessableEntity, constants.BuildValidationErrorResponse(fields))
		return false
	}

	logger.WarnWithContext(ctx, "Malformed request body").
		Err(err).
		Log()
	c.JSON(http.StatusBadRequest, constants.BuildMessageResponse(constants.MsgBadRequest))
	return false
}

// respondError maps a service error onto the public error contract.
func respondError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, constants.BuildValidationErrorResponse(verr.Fields))
	case errors.Is(err, apperrors.ErrCredentialsRejected):
		c.JSON(http.StatusUnprocessableEntity, constants.BuildMessageResponse(constants.MsgAuthFailed))
	case apperrors.IsUnauthenticated(err):
		c.JSON(http.StatusUnauthorized, constants.BuildMessageResponse(constants.MsgUnauthenticated))
	default:
		status := apperrors.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			c.JSON(status, constants.BuildMessageResponse(constants.MsgInternalError))
			return
		}
		c.JSON(status, constants.BuildMessageResponse(apperrors.GetErrorMessage(err)))
	}
}
