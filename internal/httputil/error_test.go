package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", fmt.Errorf("%w: match R1M1", bracket.ErrNotFound), http.StatusNotFound, "not found: match R1M1"},
		{"conflict", fmt.Errorf("%w: stale", bracket.ErrConflict), http.StatusConflict, "conflict: stale"},
		{"transition", fmt.Errorf("%w: done", bracket.ErrInvalidTransition), http.StatusConflict, "invalid status transition: done"},
		{"input", fmt.Errorf("%w: tie", bracket.ErrInvalidInput), http.StatusBadRequest, "invalid input: tie"},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, "Failed to do the thing", tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorBody
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.body, body.Error)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"teams": 4})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"teams": 4}`, rec.Body.String())
}
