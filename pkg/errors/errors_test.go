package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := NotFound("bakery", "42")
	assert.Contains(t, e.Error(), "NOT_FOUND")
	assert.Contains(t, e.Error(), "bakery 42 not found")
}

func TestAppError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, InvalidInput("bad"), ErrInvalidInput)
	assert.ErrorIs(t, Unauthorized("no token"), ErrUnauthorized)
	assert.ErrorIs(t, Conflict("taken"), ErrConflict)
	assert.ErrorIs(t, Unprocessable("EMPTY_CART", "cart is empty"), ErrUnprocessable)
	assert.ErrorIs(t, Unavailable("down"), ErrUnavailable)
}

func TestAppError_UnwrapThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load cart: %w", NotFound("cart", "dev-1"))
	assert.ErrorIs(t, wrapped, ErrNotFound)

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", NotFound("cart", "x"), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("ctx: %w", Conflict("c")), http.StatusConflict},
		{"sentinel", ErrInvalidInput, http.StatusBadRequest},
		{"unauthorized sentinel", ErrUnauthorized, http.StatusUnauthorized},
		{"unprocessable sentinel", ErrUnprocessable, http.StatusUnprocessableEntity},
		{"unavailable sentinel", ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"custom code keeps status", New("EMPTY_CART", "cart is empty", http.StatusBadRequest, ErrInvalidInput), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
