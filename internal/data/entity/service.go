package entity

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Base
	ProviderID    uuid.UUID `db:"provider_id"`
	Name          string    `db:"name"`
	Category      string    `db:"category"`
	BasePrice     float64   `db:"base_price"`
	PricePerGuest float64   `db:"price_per_guest"`
	IsActive      bool      `db:"is_active"`
}

// GuestTier prices a service per adult for a range of total guests.
// A nil MaxTotalGuests means the range is unbounded.
type GuestTier struct {
	ID                uuid.UUID `db:"id"`
	ServiceID         uuid.UUID `db:"service_id"`
	MinTotalGuests    int       `db:"min_total_guests"`
	MaxTotalGuests    *int      `db:"max_total_guests"`
	BasePricePerAdult float64   `db:"base_price_per_adult"`
	Description       string    `db:"description"`
}

func (t GuestTier) Contains(totalGuests int) bool {
	if totalGuests < t.MinTotalGuests {
		return false
	}
	return t.MaxTotalGuests == nil || totalGuests <= *t.MaxTotalGuests
}

type AgePricingType string

const (
	AgePricingFree       AgePricingType = "free"
	AgePricingPercentage AgePricingType = "percentage"
	AgePricingFixed      AgePricingType = "fixed"
)

type AgePricingRule struct {
	ID          uuid.UUID      `db:"id"`
	ServiceID   uuid.UUID      `db:"service_id"`
	MinAge      int            `db:"min_age"`
	MaxAge      *int           `db:"max_age"`
	PricingType AgePricingType `db:"pricing_type"`
	Value       float64        `db:"value"`
}

type SurchargeType string

const (
	SurchargePercentage SurchargeType = "percentage"
	SurchargeFixed      SurchargeType = "fixed"
)

type DateSurcharge struct {
	ID             uuid.UUID     `db:"id"`
	ServiceID      uuid.UUID     `db:"service_id"`
	Name           string        `db:"name"`
	StartDate      time.Time     `db:"start_date"`
	EndDate        time.Time     `db:"end_date"`
	SurchargeType  SurchargeType `db:"surcharge_type"`
	SurchargeValue float64       `db:"surcharge_value"`
	IsActive       bool          `db:"is_active"`
}
