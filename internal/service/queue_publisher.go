// Package service publishes booking lifecycle events to RabbitMQ and
// adapts the publishers to the engine's event sink.  Publish errors
// are logged and swallowed: queue delivery is best-effort and must
// never fail a committed reservation.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/seatgrid/theatre-booking/internal/model"
	q "github.com/seatgrid/theatre-booking/internal/queue"
)

// publish dials the broker, declares the durable queue and publishes
// one persistent JSON message.  Dialing per publish keeps the hot path
// free of shared channel state; reservation volume is bounded by seat
// inventory, not by broker round trips.
func publish(ctx context.Context, queueName string, event interface{}) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// PublishBookingConfirmed publishes to the booking.confirmed queue.
func PublishBookingConfirmed(ctx context.Context, event q.BookingConfirmedEvent) error {
	return publish(ctx, "booking.confirmed", event)
}

// PublishBookingCancelled publishes to the booking.cancelled queue.
func PublishBookingCancelled(ctx context.Context, event q.BookingCancelledEvent) error {
	return publish(ctx, "booking.cancelled", event)
}

// QueueSink adapts the publishers to engine.EventSink.  The zero value
// is usable.
type QueueSink struct{}

// BookingConfirmed builds and publishes a BookingConfirmedEvent.
func (QueueSink) BookingConfirmed(ctx context.Context, b *model.Booking) {
	_ = PublishBookingConfirmed(ctx, q.BookingConfirmedEvent{
		BookingCode: b.Code,
		ScreenID:    b.Occurrence.ScreenID,
		Date:        b.Occurrence.Date,
		Showtime:    b.Occurrence.Showtime,
		MovieTitle:  b.MovieTitle,
		SeatKeys:    b.SeatKeys(),
		TotalCents:  b.Charges.TotalCents,
		BuyerEmail:  b.Contact.Email,
		ConfirmedAt: b.CreatedAt.Format(time.RFC3339),
	})
}

// BookingCancelled builds and publishes a BookingCancelledEvent.
func (QueueSink) BookingCancelled(ctx context.Context, b *model.Booking) {
	cancelledAt := b.UpdatedAt
	if b.CancelledAt != nil {
		cancelledAt = *b.CancelledAt
	}
	_ = PublishBookingCancelled(ctx, q.BookingCancelledEvent{
		BookingCode: b.Code,
		ScreenID:    b.Occurrence.ScreenID,
		Date:        b.Occurrence.Date,
		Showtime:    b.Occurrence.Showtime,
		SeatKeys:    b.SeatKeys(),
		FeeCents:    b.CancelFeeCents,
		RefundCents: b.RefundCents,
		BuyerEmail:  b.Contact.Email,
		CancelledAt: cancelledAt.Format(time.RFC3339),
	})
}
