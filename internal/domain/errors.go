package domain

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a category of domain failure. The set is closed:
// transport-level mapping switches exhaustively over these values and treats
// anything else as an unexpected failure.
type ErrorKind string

const (
	KindAuthentication     ErrorKind = "AUTHENTICATION"
	KindAuthorization      ErrorKind = "AUTHORIZATION"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindConflict           ErrorKind = "CONFLICT"
	KindPrecondition       ErrorKind = "PRECONDITION"
	KindValidation         ErrorKind = "VALIDATION"
	KindRateLimit          ErrorKind = "RATE_LIMIT"
	KindDataSource         ErrorKind = "DATA_SOURCE"
	KindExternalService    ErrorKind = "EXTERNAL_SERVICE"
	KindServiceUnavailable ErrorKind = "SERVICE_UNAVAILABLE"
	KindTimeout            ErrorKind = "TIMEOUT"
	KindGeneric            ErrorKind = "GENERIC"

	// KindUnknown is never constructed by this package. It is what KindOf
	// reports for errors that did not originate from the taxonomy.
	KindUnknown ErrorKind = "UNKNOWN"
)

// Error is a domain error carrying a kind from the closed taxonomy plus
// optional structured context. Callers branch on Kind, not on message text.
// Services and repositories return these; the HTTP boundary maps them to
// responses.
type Error struct {
	Kind    ErrorKind
	Message string

	// Optional context, additive per kind.
	Resource       string  // NotFound
	ResourceID     string  // NotFound
	Field          string  // Validation
	RetryAfter     int     // RateLimit, ServiceUnavailable (seconds)
	Source         string  // DataSource
	Service        string  // ExternalService
	UpstreamStatus int     // ExternalService (original upstream status)
	Operation      string  // Timeout
	TimeoutSeconds float64 // Timeout

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches by kind, so errors.Is(err, &Error{Kind: KindNotFound}) holds for
// any NotFound error regardless of message or context.
func (e *Error) Is(target error) bool {
	var de *Error
	if !errors.As(target, &de) {
		return false
	}
	return e.Kind == de.Kind
}

// WithErr attaches an underlying cause.
func (e *Error) WithErr(err error) *Error {
	e.Err = err
	return e
}

// KindOf extracts the taxonomy kind from an error chain. Errors that did not
// originate from the taxonomy report KindUnknown.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// --- Constructors ---
// Every kind is constructible with just a message override; passing an empty
// message selects the kind's default.

// NewError creates an error of the given kind with an optional message
// override.
func NewError(kind ErrorKind, message string) *Error {
	if message == "" {
		message = defaultMessage(kind)
	}
	return &Error{Kind: kind, Message: message}
}

// NewAuthentication reports missing or invalid authentication.
func NewAuthentication(message string) *Error {
	return NewError(KindAuthentication, message)
}

// NewAuthorization reports an authenticated caller lacking permission.
func NewAuthorization(message string) *Error {
	return NewError(KindAuthorization, message)
}

// NewNotFound reports that a resource does not exist. resource defaults to
// "Resource"; the ID is optional.
func NewNotFound(resource, resourceID string) *Error {
	if resource == "" {
		resource = "Resource"
	}
	message := fmt.Sprintf("%s not found", resource)
	if resourceID != "" {
		message = fmt.Sprintf("%s with id '%s' not found", resource, resourceID)
	}
	return &Error{
		Kind:       KindNotFound,
		Message:    message,
		Resource:   resource,
		ResourceID: resourceID,
	}
}

// NewConflict reports an operation conflicting with existing state, such as
// a duplicate entry.
func NewConflict(message string) *Error {
	return NewError(KindConflict, message)
}

// NewPrecondition reports an unmet operation precondition (ETag mismatch,
// version conflict).
func NewPrecondition(message string) *Error {
	return NewError(KindPrecondition, message)
}

// NewValidation reports a domain-level validation failure. field is optional.
func NewValidation(message, field string) *Error {
	e := NewError(KindValidation, message)
	e.Field = field
	return e
}

// NewRateLimit reports an exceeded rate limit. retryAfter is seconds until a
// retry is allowed; zero means unspecified.
func NewRateLimit(message string, retryAfter int) *Error {
	e := NewError(KindRateLimit, message)
	e.RetryAfter = retryAfter
	return e
}

// NewDataSource reports an internal data source returning invalid or corrupt
// data. The source name is kept for server-side logging and never exposed to
// clients.
func NewDataSource(source, message string) *Error {
	if message == "" {
		message = "Invalid data"
	}
	return &Error{
		Kind:    KindDataSource,
		Message: fmt.Sprintf("%s: %s", source, message),
		Source:  source,
	}
}

// NewExternalService reports a failed external API or service call.
// upstreamStatus is the original status from the external service; zero
// means unknown.
func NewExternalService(service, message string, upstreamStatus int) *Error {
	if message == "" {
		message = "External service error"
	}
	return &Error{
		Kind:           KindExternalService,
		Message:        fmt.Sprintf("%s: %s", service, message),
		Service:        service,
		UpstreamStatus: upstreamStatus,
	}
}

// NewServiceUnavailable reports a required dependency being down or in
// maintenance. retryAfter is seconds until the service may be available;
// zero means unspecified.
func NewServiceUnavailable(message string, retryAfter int) *Error {
	e := NewError(KindServiceUnavailable, message)
	e.RetryAfter = retryAfter
	return e
}

// NewTimeout reports a timed-out operation. operation defaults to
// "Operation"; timeoutSeconds of zero means unknown.
func NewTimeout(operation string, timeoutSeconds float64) *Error {
	if operation == "" {
		operation = "Operation"
	}
	message := fmt.Sprintf("%s timed out", operation)
	if timeoutSeconds > 0 {
		message = fmt.Sprintf("%s timed out after %gs", operation, timeoutSeconds)
	}
	return &Error{
		Kind:           KindTimeout,
		Message:        message,
		Operation:      operation,
		TimeoutSeconds: timeoutSeconds,
	}
}

// NewGeneric creates a fallback error for failures that fit no other kind.
func NewGeneric(message string) *Error {
	return NewError(KindGeneric, message)
}

func defaultMessage(kind ErrorKind) string {
	switch kind {
	case KindAuthentication:
		return "Authentication required"
	case KindAuthorization:
		return "Not authorized"
	case KindNotFound:
		return "Resource not found"
	case KindConflict:
		return "Resource conflict"
	case KindPrecondition:
		return "Precondition failed"
	case KindValidation:
		return "Validation failed"
	case KindRateLimit:
		return "Rate limit exceeded"
	case KindDataSource:
		return "Invalid data"
	case KindExternalService:
		return "External service error"
	case KindServiceUnavailable:
		return "Service temporarily unavailable"
	case KindTimeout:
		return "Operation timed out"
	default:
		return "An error occurred"
	}
}
