// Package router wires HTTP routes to their handlers and attaches the
// middleware each surface needs.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/seatgrid/theatre-booking/internal/handler"
	"github.com/seatgrid/theatre-booking/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication or
// grouping, currently just the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse surface: seating
// layout, live availability, the availability event stream, and the
// schedule listing.  The cache middleware applies only to the layout
// read; availability must always reflect the ledger.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/screens/:id/layout", b.GetLayout, cache)
	e.GET("/v1/screens/:id/availability", b.GetAvailability)
	e.GET("/v1/screens/:id/availability/stream", b.StreamAvailability)
	e.GET("/v1/screens/:id/schedules", b.ListSchedules)
}

// RegisterBooking registers the customer booking lifecycle behind JWT
// authentication.  The reservation endpoint additionally carries the
// rate limiter, since it is the one route a stampede hits.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(middleware.RoleCustomer, middleware.RoleOperator))

	g.POST("/screens/:id/reservations", h.CreateReservation, limiter)
	g.GET("/bookings/:code", h.GetBooking)
	g.POST("/bookings/:code/cancel", h.CancelBooking)
	g.POST("/bookings/:code/payment", h.MarkPayment)
}

// RegisterOperator registers theatre-operator routes.  These require a
// token carrying the OPERATOR role.  cacheBust evicts the cached
// public layout read when a replace succeeds, so operators never serve
// a stale seat map for the cache TTL.
func RegisterOperator(e *echo.Echo, o *handler.OperatorHandler, jwtSecret string, cacheBust echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(middleware.RoleOperator))

	g.PUT("/screens/:id/layout", o.ReplaceLayout, cacheBust)
	g.POST("/screens/:id/schedules", o.UpsertSchedule)
	g.DELETE("/screens/:id/schedules", o.DeleteSchedule)
	g.POST("/screens/:id/schedules/cleanup", o.CleanupSchedules)
	g.GET("/screens/:id/bookings", o.ListBookings)
	g.POST("/bookings/:code/no-show", o.MarkNoShow)
}
