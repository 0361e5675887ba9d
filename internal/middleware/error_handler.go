package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"jobboard_echo/internal/services"
)

// JSONErrorHandler maps the domain error taxonomy onto HTTP responses so
// the payer flow and the admin UI can react differently to each kind.
func JSONErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	var validation *services.ValidationError
	var precondition *services.PreconditionError
	var integrity *services.DataIntegrityError

	switch {
	case errors.Is(err, services.ErrSignatureInvalid):
		// Untrusted input; keep the body generic
		code = http.StatusBadRequest
		message = "Payment verification failed"
	case errors.As(err, &validation):
		code = http.StatusBadRequest
		message = validation.Error()
	case errors.As(err, &precondition):
		message = precondition.Error()
		if precondition.Reason == services.ReasonNotFound {
			code = http.StatusNotFound
		} else {
			code = http.StatusConflict
		}
	case errors.As(err, &integrity):
		// Already logged at Error level by the reconciler; surface opaquely
		code = http.StatusInternalServerError
		message = "Payment record inconsistency, operators have been notified"
	case errors.Is(err, gorm.ErrRecordNotFound):
		code = http.StatusNotFound
		message = "Resource not found"
	default:
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok && msg != "" {
				message = msg
			}
		}
	}

	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	}

	if jsonErr := c.JSON(code, map[string]interface{}{"error": message}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}
