// Package handler contains the HTTP handlers for the booking service.
// Handlers bind and validate transport-level input, delegate to the
// engine, and translate engine errors to HTTP responses.  They assume
// authentication and role checks already ran in middleware.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seatgrid/theatre-booking/internal/engine"
)

// respondError maps engine failures onto the HTTP surface.  Conflicts
// include the contended seat keys so clients can re-render and retry;
// lock timeouts are 503 because the request may succeed on retry.
func respondError(c echo.Context, err error) error {
	var (
		ve *engine.ValidationError
		ce *engine.ConflictError
		pe *engine.PolicyError
	)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": ve.Reason})
	case errors.As(err, &ce):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "seats_unavailable",
			"message": "some requested seats are already booked",
			"seats":   ce.Seats,
		})
	case errors.Is(err, engine.ErrLockTimeout):
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error":   "busy",
			"message": "the show is receiving heavy booking traffic, please retry",
		})
	case errors.As(err, &pe):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "policy", "message": pe.Reason})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal"})
	}
}
