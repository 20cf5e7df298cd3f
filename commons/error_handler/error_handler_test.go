package error_handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		ec   *ErrorCollection
		want int
	}{
		{"nil collection", nil, http.StatusOK},
		{"empty", NewErrorCollection(), http.StatusOK},
		{"validation", NewErrorCollection().AddError(CodeValidationError, "bad", nil), http.StatusBadRequest},
		{"forbidden", NewErrorCollection().AddError(CodeForbidden, "no", nil), http.StatusForbidden},
		{"not found", NewErrorCollection().AddError(CodeNotFound, "gone", nil), http.StatusNotFound},
		{"unavailable", NewErrorCollection().AddError(CodeServiceUnavailable, "down", nil), http.StatusServiceUnavailable},
		{"first error wins", NewErrorCollection().
			AddError(CodeUnauthorized, "who", nil).
			AddError(CodeInternalServerError, "boom", nil), http.StatusUnauthorized},
		{"application code", NewErrorCollection().AddError(42, "odd", nil), http.StatusBadRequest},
		{"out of range", NewErrorCollection().AddError(1001, "odd", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ec.GetHTTPStatus())
		})
	}
}
