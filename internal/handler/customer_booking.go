package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/seatgrid/theatre-booking/internal/engine"
	"github.com/seatgrid/theatre-booking/internal/model"
)

// BookingHandler serves the customer-facing booking lifecycle:
// reserving seats, retrieving a booking by code, cancelling, and
// recording payment updates from the payment collaborator.
type BookingHandler struct {
	Engine *engine.Engine
}

func NewBookingHandler(eng *engine.Engine) *BookingHandler {
	if eng == nil {
		panic("nil engine passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: eng}
}

type reserveBody struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Seats []struct {
		Row    string `json:"row"`
		Number int    `json:"number"`
		Key    string `json:"key"`
	} `json:"seats"`
	Contact       model.Contact `json:"contact"`
	DiscountCents int64         `json:"discount_cents"`
}

// CreateReservation handles POST /v1/screens/:id/reservations.  On
// success it returns 201 with the booking code and the charge total.
// Competing requests for overlapping seats get 409 with the seats that
// were taken; heavy contention on one showtime can surface as 503,
// which the client is expected to retry.
func (h *BookingHandler) CreateReservation(c echo.Context) error {
	screenID := c.Param("id")
	var body reserveBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid request body"})
	}
	if len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "seats is required"})
	}
	if strings.TrimSpace(body.Contact.Name) == "" || strings.TrimSpace(body.Contact.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "contact name and email are required"})
	}

	keys := make([]string, 0, len(body.Seats))
	for _, s := range body.Seats {
		if s.Key != "" {
			keys = append(keys, s.Key)
			continue
		}
		keys = append(keys, fmt.Sprintf("%s%d", s.Row, s.Number))
	}

	booking, err := h.Engine.Reserve(c.Request().Context(), engine.ReserveRequest{
		ScreenID:      screenID,
		Date:          body.Date,
		Showtime:      body.Time,
		SeatKeys:      keys,
		Contact:       body.Contact,
		DiscountCents: body.DiscountCents,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_code": booking.Code,
		"total_cents":  booking.Charges.TotalCents,
		"currency":     "INR",
		"booking":      booking,
	})
}

// GetBooking handles GET /v1/bookings/:code.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	booking, err := h.Engine.GetBooking(c.Request().Context(), c.Param("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// CancelBooking handles POST /v1/bookings/:code/cancel.  Cancellation
// inside the cutoff window comes back as 422 with the policy reason;
// a successful cancel reports the fee charged and the refund due.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	booking, err := h.Engine.Cancel(c.Request().Context(), c.Param("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking":          booking,
		"cancel_fee_cents": booking.CancelFeeCents,
		"refund_cents":     booking.RefundCents,
	})
}

type paymentBody struct {
	PaymentRef string `json:"payment_ref"`
	Status     string `json:"status"`
}

// MarkPayment handles POST /v1/bookings/:code/payment.  The payment
// collaborator calls this after settling a charge; status must be one
// of PENDING, PAID or REFUNDED.
func (h *BookingHandler) MarkPayment(c echo.Context) error {
	var body paymentBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid request body"})
	}
	booking, err := h.Engine.MarkPayment(c.Request().Context(), c.Param("code"), body.PaymentRef, model.PaymentStatus(strings.ToUpper(body.Status)))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}
