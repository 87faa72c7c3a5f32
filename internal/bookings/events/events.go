package events

import (
	"context"
	"time"

	"restobook/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingUpdated   = "booking.updated"
	TypeBookingCancelled = "booking.cancelled"

	SchemaVersion = "1"
)

// Event is the payload published for every booking state change.
type Event struct {
	Type          string                   `json:"type"`
	BookingID     string                   `json:"bookingId"`
	RestaurantID  string                   `json:"restaurantId,omitempty"`
	UserID        string                   `json:"userId"`
	Reservation   *model.ReservationWindow `json:"reservationDate,omitempty"`
	GuestNumber   int                      `json:"guestNumber,omitempty"`
	TotalAmount   int                      `json:"totalAmount,omitempty"`
	PaymentStatus model.PaymentStatus      `json:"paymentStatus,omitempty"`
	BookingStatus model.BookingStatus      `json:"bookingStatus,omitempty"`
	OccurredAt    time.Time                `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error {
	return nil
}
