package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"shop-api/internal/apperr"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Unauthenticated("no token"), http.StatusUnauthorized},
		{apperr.Forbidden("not yours"), http.StatusForbidden},
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.InvalidArgument("bad input"), http.StatusBadRequest},
		{apperr.InvalidState("empty cart"), http.StatusBadRequest},
		{fmt.Errorf("context: %w", apperr.NotFound("missing")), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, apperr.StatusCode(tt.err), "error %v", tt.err)
	}
}

func TestErrorMessageAndKind(t *testing.T) {
	err := apperr.NotFound("product not found")
	assert.Equal(t, "product not found", err.Error())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NotErrorIs(t, err, apperr.ErrInvalidArgument)
}
