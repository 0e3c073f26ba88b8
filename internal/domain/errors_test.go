package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"authentication", NewAuthentication(""), "Authentication required"},
		{"authorization", NewAuthorization(""), "Not authorized"},
		{"conflict", NewConflict(""), "Resource conflict"},
		{"precondition", NewPrecondition(""), "Precondition failed"},
		{"validation", NewValidation("", ""), "Validation failed"},
		{"rate limit", NewRateLimit("", 0), "Rate limit exceeded"},
		{"service unavailable", NewServiceUnavailable("", 0), "Service temporarily unavailable"},
		{"generic", NewGeneric(""), "An error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Message)
		})
	}
}

func TestMessageOverride(t *testing.T) {
	// Every kind is constructible with just a message override.
	err := NewConflict("an item with this name already exists")
	assert.Equal(t, "an item with this name already exists", err.Message)
	assert.Equal(t, KindConflict, err.Kind)
}

func TestNotFoundMessages(t *testing.T) {
	tests := []struct {
		name       string
		resource   string
		resourceID string
		want       string
	}{
		{"resource and id", "Item", "abc", "Item with id 'abc' not found"},
		{"resource only", "Item", "", "Item not found"},
		{"defaults", "", "", "Resource not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFound(tt.resource, tt.resourceID)
			assert.Equal(t, tt.want, err.Message)
			assert.Equal(t, tt.resourceID, err.ResourceID)
		})
	}
}

func TestContextFields(t *testing.T) {
	t.Run("validation carries field", func(t *testing.T) {
		err := NewValidation("Name cannot be empty", "name")
		assert.Equal(t, "name", err.Field)
	})

	t.Run("rate limit carries retry after", func(t *testing.T) {
		err := NewRateLimit("", 30)
		assert.Equal(t, 30, err.RetryAfter)
	})

	t.Run("data source prefixes source", func(t *testing.T) {
		err := NewDataSource("gcs", "")
		assert.Equal(t, "gcs: Invalid data", err.Message)
		assert.Equal(t, "gcs", err.Source)
	})

	t.Run("external service keeps upstream status", func(t *testing.T) {
		err := NewExternalService("payments", "", 503)
		assert.Equal(t, "payments: External service error", err.Message)
		assert.Equal(t, 503, err.UpstreamStatus)
	})

	t.Run("timeout formats seconds", func(t *testing.T) {
		err := NewTimeout("report export", 2.5)
		assert.Equal(t, "report export timed out after 2.5s", err.Message)

		err = NewTimeout("", 0)
		assert.Equal(t, "Operation timed out", err.Message)
	})
}

func TestIsMatchesByKind(t *testing.T) {
	// Identity is by kind, never by message text.
	a := NewNotFound("Item", "abc")
	b := NewNotFound("User", "42")

	assert.True(t, errors.Is(a, &Error{Kind: KindNotFound}))
	assert.True(t, errors.Is(b, &Error{Kind: KindNotFound}))
	assert.False(t, errors.Is(a, &Error{Kind: KindConflict}))
}

func TestIsSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("service: failed to get item: %w", NewNotFound("Item", "abc"))
	assert.True(t, errors.Is(wrapped, &Error{Kind: KindNotFound}))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindTimeout, KindOf(NewTimeout("query", 5)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain error")))
	assert.True(t, IsKind(NewGeneric(""), KindGeneric))
	assert.False(t, IsKind(errors.New("plain error"), KindGeneric))
}

func TestErrorStringAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewConflict("duplicate entry").WithErr(cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "[CONFLICT] duplicate entry: connection refused", err.Error())
	assert.Equal(t, "[NOT_FOUND] Item with id 'abc' not found", NewNotFound("Item", "abc").Error())
}
