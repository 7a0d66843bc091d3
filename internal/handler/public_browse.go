package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seatgrid/theatre-booking/internal/engine"
	"github.com/seatgrid/theatre-booking/internal/model"
)

// BrowseHandler serves the public read surface: seating layouts,
// per-showtime availability, and the schedule listing.  No
// authentication is required for these routes.
type BrowseHandler struct {
	Engine *engine.Engine
}

func NewBrowseHandler(eng *engine.Engine) *BrowseHandler {
	if eng == nil {
		panic("nil engine passed to NewBrowseHandler")
	}
	return &BrowseHandler{Engine: eng}
}

// GetLayout handles GET /v1/screens/:id/layout.  It returns the full
// seating chart with seat classes and grid placement for rendering.
func (h *BrowseHandler) GetLayout(c echo.Context) error {
	screenID := c.Param("id")
	if screenID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "screen id is required"})
	}
	layout, err := h.Engine.GetLayout(c.Request().Context(), screenID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, layout)
}

// GetAvailability handles GET /v1/screens/:id/availability?date&time.
// Past dates are rejected up front: there is no seat to sell for a
// show that already played.
func (h *BrowseHandler) GetAvailability(c echo.Context) error {
	screenID := c.Param("id")
	date := c.QueryParam("date")
	showtime := c.QueryParam("time")
	if screenID == "" || date == "" || showtime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "date and time query parameters are required"})
	}

	day, err := model.ParseDate(date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": err.Error()})
	}
	if today := time.Now().UTC().Truncate(24 * time.Hour); day.Before(today) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "date is in the past"})
	}

	view, err := h.Engine.Resolve(c.Request().Context(), screenID, date, showtime)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// ListSchedules handles GET /v1/screens/:id/schedules?date.
func (h *BrowseHandler) ListSchedules(c echo.Context) error {
	screenID := c.Param("id")
	date := c.QueryParam("date")
	if screenID == "" || date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "date query parameter is required"})
	}
	schedules, err := h.Engine.ListSchedules(c.Request().Context(), screenID, date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": schedules})
}
