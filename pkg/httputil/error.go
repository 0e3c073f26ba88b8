package httputil

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"items-backend/internal/domain"

	"github.com/labstack/echo/v4"
)

// HTTPError represents a structured error response.
type HTTPError struct {
	StatusCode int               `json:"-"`                 // HTTP status code, not part of the JSON body
	Code       string            `json:"code,omitempty"`    // Machine-readable error code
	Message    string            `json:"message"`           // Human-readable error message
	Details    any               `json:"details,omitempty"` // Extra structured information (e.g., validation errors)
	Headers    map[string]string `json:"-"`                 // Extra response headers (e.g., Retry-After)
}

// NewHTTPError creates a new HTTPError instance.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewHTTPErrorWithCode creates a new HTTPError instance with a machine-readable code.
func NewHTTPErrorWithCode(statusCode int, code string, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// WithDetails adds details to the HTTPError.
func (e *HTTPError) WithDetails(details any) *HTTPError {
	e.Details = details
	return e
}

// WithHeader adds an extra response header to the HTTPError.
func (e *HTTPError) WithHeader(key, value string) *HTTPError {
	if e.Headers == nil {
		e.Headers = make(map[string]string, 1)
	}
	e.Headers[key] = value
	return e
}

// Error implements the error interface so handlers can return an HTTPError
// directly and let the central error handler send it.
func (e *HTTPError) Error() string {
	return e.Message
}

// FromError maps a domain error to its transport representation.
//
// The mapping is deterministic per error kind. 4xx responses carry the
// domain message verbatim since it is safe and user-facing. 5xx responses
// (DataSource, ExternalService, Timeout, and anything unrecognized) carry
// only fixed generic text: backend identities and raw error messages are
// logged server-side, never echoed to clients. Preserve this asymmetry.
func FromError(err error) *HTTPError {
	var de *domain.Error
	if !errors.As(err, &de) {
		return InternalServerError("")
	}

	switch de.Kind {
	case domain.KindAuthentication:
		return NewHTTPErrorWithCode(http.StatusUnauthorized, "UNAUTHORIZED", de.Message).
			WithHeader(echo.HeaderWWWAuthenticate, "Bearer")
	case domain.KindAuthorization:
		return NewHTTPErrorWithCode(http.StatusForbidden, "FORBIDDEN", de.Message)
	case domain.KindNotFound:
		return NewHTTPErrorWithCode(http.StatusNotFound, "NOT_FOUND", de.Message)
	case domain.KindConflict:
		return NewHTTPErrorWithCode(http.StatusConflict, "CONFLICT", de.Message)
	case domain.KindPrecondition:
		return NewHTTPErrorWithCode(http.StatusPreconditionFailed, "PRECONDITION_FAILED", de.Message)
	case domain.KindValidation:
		he := NewHTTPErrorWithCode(http.StatusUnprocessableEntity, "VALIDATION_ERROR", de.Message)
		if de.Field != "" {
			he.WithDetails(map[string]string{"field": de.Field})
		}
		return he
	case domain.KindRateLimit:
		he := NewHTTPErrorWithCode(http.StatusTooManyRequests, "RATE_LIMITED", de.Message)
		if de.RetryAfter > 0 {
			he.WithHeader(echo.HeaderRetryAfter, strconv.Itoa(de.RetryAfter))
		}
		return he
	case domain.KindGeneric:
		return NewHTTPErrorWithCode(http.StatusBadRequest, "BAD_REQUEST", de.Message)
	case domain.KindDataSource, domain.KindExternalService:
		// Internal source/service name and message are logged, not exposed.
		return NewHTTPErrorWithCode(http.StatusBadGateway, "BAD_GATEWAY", "An upstream dependency failed.")
	case domain.KindServiceUnavailable:
		he := NewHTTPErrorWithCode(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", de.Message)
		if de.RetryAfter > 0 {
			he.WithHeader(echo.HeaderRetryAfter, strconv.Itoa(de.RetryAfter))
		}
		return he
	case domain.KindTimeout:
		return NewHTTPErrorWithCode(http.StatusGatewayTimeout, "GATEWAY_TIMEOUT", "The operation timed out.")
	default:
		return InternalServerError("")
	}
}

// SendErrorResponse sends a standardized JSON error response, applying any
// extra headers the error carries. Server errors are logged for monitoring.
func SendErrorResponse(c echo.Context, err *HTTPError) error {
	if err.StatusCode >= 500 {
		log.Printf("Server Error: Status %d, Message: %s, Path: %s",
			err.StatusCode, err.Message, c.Request().URL.Path)
	}

	for key, value := range err.Headers {
		c.Response().Header().Set(key, value)
	}
	return c.JSON(err.StatusCode, err)
}

// --- Common Error Constructors ---

func BadRequestError(message string) *HTTPError {
	return NewHTTPErrorWithCode(http.StatusBadRequest, "BAD_REQUEST", message)
}

func ValidationError(message string, details any) *HTTPError {
	err := NewHTTPErrorWithCode(http.StatusUnprocessableEntity, "VALIDATION_ERROR", message)
	return err.WithDetails(details)
}

func NotFoundError(message string) *HTTPError {
	return NewHTTPErrorWithCode(http.StatusNotFound, "NOT_FOUND", message)
}

func UnauthorizedError(message string) *HTTPError {
	return NewHTTPErrorWithCode(http.StatusUnauthorized, "UNAUTHORIZED", message).
		WithHeader(echo.HeaderWWWAuthenticate, "Bearer")
}

func ForbiddenError(message string) *HTTPError {
	return NewHTTPErrorWithCode(http.StatusForbidden, "FORBIDDEN", message)
}

func ConflictError(message string) *HTTPError {
	return NewHTTPErrorWithCode(http.StatusConflict, "CONFLICT", message)
}

func InternalServerError(message string) *HTTPError {
	// Client-facing message stays generic; detail belongs in server logs.
	if message == "" {
		message = "An unexpected error occurred on the server."
	}
	return NewHTTPErrorWithCode(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}
