package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"public bad request", New(ErrBadRequest, "Invalid payment signature"), http.StatusBadRequest, "Invalid payment signature"},
		{"wrapped public", fmt.Errorf("verify: %w", New(ErrConflict, "Order already paid")), http.StatusConflict, "Order already paid"},
		{"bare sentinel", fmt.Errorf("%w: order 42", ErrNotFound), http.StatusNotFound, "not found"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unavailable", fmt.Errorf("%w: timeout", ErrUnavailable), http.StatusBadGateway, "payment provider unavailable"},
		{"unknown", errors.New("db is down"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, tt.msg, Message(tt.err))
		})
	}
}

func TestPublic_Is(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", New(ErrForbidden, "not your order"))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrNotFound)
}
