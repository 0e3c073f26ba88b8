package httputil

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"items-backend/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ErrorHandler is the application's echo.HTTPErrorHandler: the single
// transport boundary where errors become responses. Domain errors are mapped
// through the taxonomy; anything unrecognized becomes a 500 with zero
// internal detail in the body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *HTTPError
	var echoHE *echo.HTTPError
	var de *domain.Error
	var ve validator.ValidationErrors

	switch {
	case errors.As(err, &he):
		// Already mapped (bind/validation failures from handlers).

	case errors.As(err, &de):
		// For 5xx kinds the mapped body is redacted; keep the full detail
		// in the server log.
		he = FromError(err)
		if he.StatusCode >= 500 {
			log.Printf("Domain error (%s): %v, Path: %s", domain.KindOf(err), err, c.Request().URL.Path)
		}

	case errors.As(err, &echoHE):
		// Errors from Echo's internals (routing not found, method not allowed).
		message := http.StatusText(echoHE.Code)
		if msg, ok := echoHE.Message.(string); ok {
			message = msg
		}
		he = NewHTTPError(echoHE.Code, message)

	case errors.As(err, &ve):
		// Validation errors that slipped past handler-level parsing.
		he = ValidationError("Input validation failed", ParseValidationErrors(err))

	default:
		// Unexpected failure: full detail server-side, generic body.
		log.Printf("Unhandled error: %v, Path: %s", err, c.Request().URL.Path)
		he = InternalServerError("")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.StatusCode)
		return
	}
	_ = SendErrorResponse(c, he)
}

// ParseValidationErrors converts validator.ValidationErrors into a
// field-to-message map for 422 response details.
func ParseValidationErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fmt.Sprintf("Failed validation on rule '%s'", fe.Tag())
		}
		return out
	}
	return map[string]string{"error": "Invalid input data"}
}
