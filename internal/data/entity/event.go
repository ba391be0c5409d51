package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPlanning  EventStatus = "planning"
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// GuestBreakdown splits attendance into full, half and free paying guests.
type GuestBreakdown struct {
	FullGuests int `db:"full_guests" json:"full_guests"`
	HalfGuests int `db:"half_guests" json:"half_guests"`
	FreeGuests int `db:"free_guests" json:"free_guests"`
}

func (g GuestBreakdown) Total() int {
	return g.FullGuests + g.HalfGuests + g.FreeGuests
}

type Event struct {
	Base
	ClientID   uuid.UUID   `db:"client_id"`
	Name       string      `db:"name"`
	EventDate  time.Time   `db:"event_date"`
	FullGuests *int        `db:"full_guests"`
	HalfGuests *int        `db:"half_guests"`
	FreeGuests *int        `db:"free_guests"`
	GuestCount *int        `db:"guest_count"`
	Status     EventStatus `db:"status"`
}

// Guests returns the stored breakdown. Rows created before the breakdown
// columns existed only carry guest_count, which is read as full guests.
// ok is false when neither is present.
func (e *Event) Guests() (g GuestBreakdown, ok bool) {
	if e.FullGuests != nil || e.HalfGuests != nil || e.FreeGuests != nil {
		return GuestBreakdown{
			FullGuests: intOrZero(e.FullGuests),
			HalfGuests: intOrZero(e.HalfGuests),
			FreeGuests: intOrZero(e.FreeGuests),
		}, true
	}
	if e.GuestCount != nil {
		return GuestBreakdown{FullGuests: *e.GuestCount}, true
	}
	return GuestBreakdown{}, false
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
