package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seatgrid/theatre-booking/internal/model"
)

// StreamAvailability handles GET /v1/screens/:id/availability/stream.
// It joins the occurrence's seat-change channel and relays deltas as
// server-sent events until the client disconnects.  Joining and
// leaving never block bookers; a client that falls behind misses
// deltas and should re-sync with a fresh availability read.
func (h *BrowseHandler) StreamAvailability(c echo.Context) error {
	screenID := c.Param("id")
	occ, err := model.NewOccurrence(screenID, c.QueryParam("date"), c.QueryParam("time"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": err.Error()})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	sub := h.Engine.Hub().Subscribe(occ)
	defer h.Engine.Hub().Unsubscribe(sub)

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case delta, ok := <-sub.C:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(delta)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: seats\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
