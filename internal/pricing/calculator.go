package pricing

import (
	"math"

	"be-fest/internal/data/entity"

	"github.com/google/uuid"
)

// ServicePrice is one contracted service as seen by the total calculation.
type ServicePrice struct {
	ServiceID              uuid.UUID `json:"service_id"`
	PricePerGuestAtBooking float64   `json:"price_per_guest_at_booking"`
}

type PricingResult struct {
	Subtotal      float64 `json:"subtotal"`
	BefestFee     float64 `json:"befest_fee"`
	Total         float64 `json:"total"`
	FeePercentage float64 `json:"fee_percentage"`
}

// CalculateServiceValue prices one service for an event. Half guests pay
// half the per-guest price and free guests pay nothing. No rounding is
// applied; guests must already be valid (see ValidateGuests).
func CalculateServiceValue(pricePerGuest float64, guests entity.GuestBreakdown) float64 {
	return float64(guests.FullGuests)*pricePerGuest +
		float64(guests.HalfGuests)*(pricePerGuest/2) +
		float64(guests.FreeGuests)*0
}

// CalculateTotalPricing sums every service value and adds the platform fee.
func CalculateTotalPricing(services []ServicePrice, guests entity.GuestBreakdown, feeRate float64) (PricingResult, error) {
	if err := ValidateGuests(guests); err != nil {
		return PricingResult{}, err
	}
	if err := ValidateFeeRate(feeRate); err != nil {
		return PricingResult{}, err
	}

	var subtotal float64
	for _, s := range services {
		if s.PricePerGuestAtBooking < 0 {
			return PricingResult{}, invalid("price_per_guest_at_booking", "must not be negative")
		}
		subtotal += CalculateServiceValue(s.PricePerGuestAtBooking, guests)
	}

	fee := subtotal * feeRate
	return PricingResult{
		Subtotal:      subtotal,
		BefestFee:     fee,
		Total:         subtotal + fee,
		FeePercentage: feeRate * 100,
	}, nil
}

// PriceWithFee is the display price shown in tier tables before a booking
// exists: the fee is applied and the result rounded up to a whole currency
// unit. The product is rounded to cents first so float noise such as
// 110.00000000000001 does not add a unit.
func PriceWithFee(basePrice, feeRate float64) float64 {
	cents := math.Round(basePrice * (1 + feeRate) * 100)
	return math.Ceil(cents / 100)
}

// RoundCents rounds a value to the cent, the precision prices are stored at.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func ValidateFeeRate(rate float64) error {
	if rate < 0 || rate >= 1 || math.IsNaN(rate) {
		return invalid("fee_rate", "must be in [0, 1)")
	}
	return nil
}
