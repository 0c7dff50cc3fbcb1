package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mberk/coursedex/internal/app/models/dto"
	"github.com/mberk/coursedex/internal/pkg/apperrors"
	"github.com/mberk/coursedex/internal/pkg/logger"
)

// HandleAPIError maps application errors onto HTTP responses. Controllers
// delegate every service error here so status codes stay consistent across
// endpoints.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrNetworkNotFound,
		apperrors.ErrSessionNotFound,
		apperrors.ErrCourseNotFound,
		apperrors.ErrExportNotFound):
		respondError(c, http.StatusNotFound,
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, messageFor(err, "Resource not found")))

	case errors.Is(err, apperrors.ErrMissingAPIKey):
		respondError(c, http.StatusForbidden,
			dto.NewErrorDetail(dto.ErrorCodeMissingAPIKey, "API key required"))

	case errors.Is(err, apperrors.ErrInvalidAPIKey):
		respondError(c, http.StatusForbidden,
			dto.NewErrorDetail(dto.ErrorCodeInvalidAPIKey, "API key is not valid"))

	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, messageFor(err, "Invalid request")))

	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict,
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, messageFor(err, "Conflict")))

	default:
		logger.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled API error")
		respondError(c, http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"))
	}
}

// messageFor prefers the custom error's message when one was attached.
func messageFor(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}

func respondError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// ErrorHandlerMiddleware converts errors pushed onto the gin error stack into
// the standard error response, for handlers that use c.Error instead of
// returning early.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		HandleAPIError(c, c.Errors.Last().Err)
	}
}
