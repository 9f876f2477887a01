package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetStatusAndType(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
	}{
		{"validation", NewValidationError("bad input", nil), ErrorTypeValidation, http.StatusUnprocessableEntity},
		{"conflict", NewConflictError("already voted"), ErrorTypeConflict, http.StatusConflict},
		{"not found", NewNotFoundError("no such thing"), ErrorTypeNotFound, http.StatusNotFound},
		{"upstream", NewUpstreamError("api down", cause), ErrorTypeUpstream, http.StatusBadGateway},
		{"internal", NewInternalError("broke", cause), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
		})
	}
}

func TestErrorStringIncludesInternalCause(t *testing.T) {
	err := NewInternalError("broke", errors.New("boom"))
	assert.Contains(t, err.Error(), "boom")

	bare := NewConflictError("already voted")
	assert.Equal(t, "conflict: already voted", bare.Error())
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewUpstreamError("api down", cause)
	assert.True(t, errors.Is(err, cause))

	assert.Nil(t, errors.Unwrap(NewConflictError("already voted")))
}
