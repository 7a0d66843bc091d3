package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seatgrid/theatre-booking/internal/engine"
	"github.com/seatgrid/theatre-booking/internal/model"
)

// OperatorHandler serves the theatre-operator surface: replacing a
// screen's seating layout, maintaining show schedules, and marking
// no-shows after a performance starts.  Every route behind it requires
// an OPERATOR token.
type OperatorHandler struct {
	Engine *engine.Engine
}

func NewOperatorHandler(eng *engine.Engine) *OperatorHandler {
	if eng == nil {
		panic("nil engine passed to NewOperatorHandler")
	}
	return &OperatorHandler{Engine: eng}
}

type layoutBody struct {
	Meta    model.LayoutMeta  `json:"meta"`
	Classes []model.SeatClass `json:"classes"`
	Seats   []model.Seat      `json:"seats"`
}

// ReplaceLayout handles PUT /v1/screens/:id/layout.  Updates are full
// replacements: the body must carry the complete seat set, and the
// stored layout becomes exactly what was sent.
func (h *OperatorHandler) ReplaceLayout(c echo.Context) error {
	screenID := c.Param("id")
	var body layoutBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid request body"})
	}
	layout, err := h.Engine.ReplaceLayout(c.Request().Context(), &model.ScreenLayout{
		ScreenID: screenID,
		Meta:     body.Meta,
		Classes:  body.Classes,
		Seats:    body.Seats,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, layout)
}

type scheduleBody struct {
	MovieID           string   `json:"movie_id"`
	Date              string   `json:"date"`
	Showtimes         []string `json:"showtimes"`
	RunningWindowDays int      `json:"running_window_days"`
}

// UpsertSchedule handles POST /v1/screens/:id/schedules.  With a
// running window it writes one schedule row per date from the start
// date through the window; the response lists the dates written.
func (h *OperatorHandler) UpsertSchedule(c echo.Context) error {
	var body scheduleBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid request body"})
	}
	dates, err := h.Engine.UpsertSchedule(c.Request().Context(), engine.ScheduleRequest{
		ScreenID:          c.Param("id"),
		MovieID:           body.MovieID,
		Date:              body.Date,
		Showtimes:         body.Showtimes,
		RunningWindowDays: body.RunningWindowDays,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"dates": dates})
}

// DeleteSchedule handles DELETE /v1/screens/:id/schedules?date&movie_id.
func (h *OperatorHandler) DeleteSchedule(c echo.Context) error {
	date := c.QueryParam("date")
	movieID := c.QueryParam("movie_id")
	if date == "" || movieID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "date and movie_id query parameters are required"})
	}
	if err := h.Engine.DeleteSchedule(c.Request().Context(), c.Param("id"), date, movieID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CleanupSchedules handles POST /v1/screens/:id/schedules/cleanup.
// It deactivates schedules for dates that have passed and reports how
// many rows changed; running it twice is harmless.
func (h *OperatorHandler) CleanupSchedules(c echo.Context) error {
	removed, err := h.Engine.CleanupPast(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deactivated": removed})
}

// MarkNoShow handles POST /v1/bookings/:code/no-show.  Only valid once
// the booked performance has started.
func (h *OperatorHandler) MarkNoShow(c echo.Context) error {
	booking, err := h.Engine.MarkNoShow(c.Request().Context(), c.Param("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// ListBookings handles GET /v1/screens/:id/bookings?date&time, the
// operator's per-showtime manifest of confirmed bookings.
func (h *OperatorHandler) ListBookings(c echo.Context) error {
	bookings, err := h.Engine.ListBookings(c.Request().Context(), c.Param("id"), c.QueryParam("date"), c.QueryParam("time"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}
