package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_New(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "thing not found")

	assert.Equal(t, "TEST_NOT_FOUND", code)

	err := reg.New(code)
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "thing not found", err.Message)

	// each New call returns an independent value
	err.WithDetail("id", "1")
	assert.Empty(t, reg.New(code).Details)
}

func TestRegistry_UnknownCode(t *testing.T) {
	err := NewRegistry("X").New("X_MISSING")
	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "noop", TypeInternal))

	cause := errors.New("connection refused")
	wrapped := Wrap(cause, "failed to load", TypeInternal)
	require.NotNil(t, wrapped)
	assert.Equal(t, "INTERNAL_ERROR", wrapped.Code)
	assert.ErrorIs(t, wrapped, cause)

	domain := New("DOMAIN_CODE", TypeConflict, "conflict")
	assert.Same(t, domain, Wrap(fmt.Errorf("ctx: %w", domain), "ignored", TypeInternal))
}

func TestToHTTPResponse_HidesInternalDetails(t *testing.T) {
	err := New("INTERNAL_ERROR", TypeInternal, "boom").WithDetail("query", "SELECT 1")
	assert.Nil(t, err.ToHTTPResponse().Details)

	v := New("BAD", TypeValidation, "bad input").WithDetail("field", "status")
	resp := v.ToHTTPResponse()
	assert.Equal(t, "status", resp.Details["field"])
	assert.Equal(t, "Bad Request", resp.Error)
}

func TestIsCodeAndType(t *testing.T) {
	err := fmt.Errorf("outer: %w", New("A_B", TypeConflict, "x"))
	assert.True(t, IsCode(err, "A_B"))
	assert.True(t, IsType(err, TypeConflict))
	assert.False(t, IsType(errors.New("plain"), TypeConflict))
}
