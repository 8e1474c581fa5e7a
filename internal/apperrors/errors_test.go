package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"storefront/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want apperrors.Kind
	}{
		{"validation", apperrors.Validation("price must not be negative"), apperrors.KindValidation},
		{"not found", apperrors.NotFound("product not found"), apperrors.KindNotFound},
		{"unauthorized", apperrors.Unauthorized("invalid token"), apperrors.KindUnauthorized},
		{"storage", apperrors.Storage("query failed", cause), apperrors.KindStorage},
		{"service", apperrors.Service("failed", cause), apperrors.KindService},
		{"wrapped with fmt", fmt.Errorf("outer: %w", apperrors.NotFound("x")), apperrors.KindNotFound},
		{"plain error", cause, apperrors.KindService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.KindOf(tt.err))
		})
	}
}

func TestError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("disk full")
	err := apperrors.Storage("failed to insert product", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperrors.Storage("", nil))
	assert.NotErrorIs(t, err, apperrors.NotFound(""))
	assert.Contains(t, err.Error(), "storage_error")
	assert.Contains(t, err.Error(), "disk full")
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "price must not be negative",
		apperrors.MessageOf(apperrors.Validation("price must not be negative"), "fallback"))
	assert.Equal(t, "fallback",
		apperrors.MessageOf(apperrors.Storage("SELECT failed on products", errors.New("boom")), "fallback"))
	assert.Equal(t, "fallback", apperrors.MessageOf(errors.New("raw driver text"), "fallback"))
	assert.Equal(t, "fallback", apperrors.MessageOf(apperrors.NotFound(""), "fallback"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "not_found", apperrors.KindNotFound.String())
	assert.Equal(t, "kind(42)", apperrors.Kind(42).String())
}
