package pricing

import (
	"math"

	"be-fest/internal/data/entity"

	"github.com/google/uuid"
)

// Tolerance is the absolute difference, in currency units, under which a
// stored total still counts as correct. It is absolute so small bookings
// cannot hide real drift.
const Tolerance = 0.01

// toleranceSlack absorbs binary float error so that a difference of exactly
// one cent compares as one cent.
const toleranceSlack = 1e-9

// IsPriceCorrect reports whether the snapshot's stored total matches the
// value recomputed from its frozen per-guest price.
func IsPriceCorrect(snapshot *entity.EventService, guests entity.GuestBreakdown) bool {
	expected := CalculateServiceValue(snapshot.PricePerGuestAtBooking, guests)
	return math.Abs(expected-snapshot.TotalEstimatedPrice) <= Tolerance+toleranceSlack
}

// Correction is a staged repair of one snapshot. Delta is old minus new, so
// a stored total that was too low yields a negative delta.
type Correction struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	ServiceID uuid.UUID `json:"service_id"`
	OldValue  float64   `json:"old_value"`
	NewValue  float64   `json:"new_value"`
	Delta     float64   `json:"delta"`
}

// Audit compares a snapshot against the formula. stale is false when the
// stored value is within tolerance, in which case the correction is empty.
func Audit(snapshot *entity.EventService, guests entity.GuestBreakdown) (c Correction, stale bool, err error) {
	if err := ValidateGuests(guests); err != nil {
		return Correction{}, false, err
	}
	if snapshot.PricePerGuestAtBooking < 0 {
		return Correction{}, false, invalid("price_per_guest_at_booking", "must not be negative")
	}
	if IsPriceCorrect(snapshot, guests) {
		return Correction{}, false, nil
	}

	expected := CalculateServiceValue(snapshot.PricePerGuestAtBooking, guests)
	return Correction{
		ID:        snapshot.ID,
		EventID:   snapshot.EventID,
		ServiceID: snapshot.ServiceID,
		OldValue:  snapshot.TotalEstimatedPrice,
		NewValue:  expected,
		Delta:     snapshot.TotalEstimatedPrice - expected,
	}, true, nil
}
