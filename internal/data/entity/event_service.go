package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Locked reports whether the booking has been confirmed or paid, after which
// its frozen price is superseded rather than rewritten.
func (s BookingStatus) Locked() bool {
	return s == BookingStatusConfirmed || s == BookingStatusPaid
}

// EventService is the price snapshot frozen when a service is added to an event.
type EventService struct {
	BaseNoDelete
	EventID                uuid.UUID     `db:"event_id"`
	ServiceID              uuid.UUID     `db:"service_id"`
	PricePerGuestAtBooking float64       `db:"price_per_guest_at_booking"`
	TotalEstimatedPrice    float64       `db:"total_estimated_price"`
	BookingStatus          BookingStatus `db:"booking_status"`
}
