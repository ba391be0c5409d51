package pricing

import "be-fest/internal/data/entity"

// ValidateGuests rejects negative counts; they are never clamped.
func ValidateGuests(g entity.GuestBreakdown) error {
	switch {
	case g.FullGuests < 0:
		return invalid("full_guests", "must not be negative")
	case g.HalfGuests < 0:
		return invalid("half_guests", "must not be negative")
	case g.FreeGuests < 0:
		return invalid("free_guests", "must not be negative")
	}
	return nil
}
