package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeConflict, "email already registered")
	require.Error(t, err)
	assert.Equal(t, "email already registered", err.Error())
	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeValidation))
}

func TestErrorMessageFallsBackToCode(t *testing.T) {
	err := &Error{Code: CodeRateLimited}
	assert.Equal(t, "rate_limited", err.Error())
}

func TestWrapPreservesOriginalCode(t *testing.T) {
	inner := New(CodeUnauthorized, "invalid credentials")
	wrapped := Wrap(inner, CodeInternal, "login failed")

	assert.True(t, HasCode(wrapped, CodeUnauthorized))
	assert.Equal(t, "login failed", wrapped.Error())
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrapPlainError(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	wrapped := Wrap(inner, CodeInternal, "database unavailable")

	assert.True(t, HasCode(wrapped, CodeInternal))
	assert.ErrorIs(t, wrapped, inner)
}

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeValidation, "name is required")
	assert.True(t, errors.Is(err, &Error{Code: CodeValidation}))
	assert.False(t, errors.Is(err, &Error{Code: CodeConflict}))
}

func TestHasCodeOnPlainError(t *testing.T) {
	assert.False(t, HasCode(errors.New("boom"), CodeInternal))
}
