package response

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/mapreview/pkg/errors"
)

func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"not found", errors.NewNotFoundError("mapping", "1/grid"), http.StatusNotFound, `{"error":"mapping with ID 1/grid not found","code":"NOT_FOUND"}`},
		{"wrapped validation", fmt.Errorf("save: %w", errors.NewValidationError("", nil, "Invalid data")), http.StatusBadRequest, `{"error":"Invalid data","code":"BAD_REQUEST"}`},
		{"other", errors.New("disk full"), http.StatusInternalServerError, `{"error":"Internal server error","code":"INTERNAL_ERROR"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ErrorFromType(rec, tt.err)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, Saved{Success: true})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}
