package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatgrid/theatre-booking/internal/engine"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, respondError(c, err))
	return rec
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{engine.ErrNotFound, http.StatusNotFound},
		{&engine.ValidationError{Reason: "bad date"}, http.StatusBadRequest},
		{&engine.ConflictError{Seats: []string{"A2"}}, http.StatusConflict},
		{engine.ErrLockTimeout, http.StatusServiceUnavailable},
		{&engine.PolicyError{Reason: "window closed"}, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := respond(t, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
	}
}

func TestRespondErrorConflictListsSeats(t *testing.T) {
	rec := respond(t, &engine.ConflictError{Seats: []string{"A2", "A3"}})

	var body struct {
		Error string   `json:"error"`
		Seats []string `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "seats_unavailable", body.Error)
	assert.Equal(t, []string{"A2", "A3"}, body.Seats)
}

func TestRespondErrorLockTimeoutSetsRetryAfter(t *testing.T) {
	rec := respond(t, engine.ErrLockTimeout)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
