package response

import (
	"time"

	"be-fest/internal/data/entity"
	"be-fest/internal/pricing"
)

type PriceTableResponse struct {
	ServiceID      string          `json:"service_id"`
	ServiceName    string          `json:"service_name"`
	FeePercentage  float64         `json:"fee_percentage"`
	FlatRate       bool            `json:"flat_rate"`
	Tiers          []PriceTableRow `json:"tiers"`
	AgeBands       []AgeBandRow    `json:"age_bands,omitempty"`
	HalfGuestShare float64         `json:"half_guest_share"`
}

type PriceTableRow struct {
	MinTotalGuests    int     `json:"min_total_guests"`
	MaxTotalGuests    *int    `json:"max_total_guests"`
	Description       string  `json:"description,omitempty"`
	BasePricePerAdult float64 `json:"base_price_per_adult"`
	PriceWithFee      float64 `json:"price_with_fee"`
	HalfPriceWithFee  float64 `json:"half_price_with_fee"`
	Formatted         string  `json:"formatted"`
}

// AgeBandRow prices an age band against the first tier of the table.
type AgeBandRow struct {
	MinAge       int                   `json:"min_age"`
	MaxAge       *int                  `json:"max_age"`
	PricingType  entity.AgePricingType `json:"pricing_type"`
	Value        float64               `json:"value"`
	PriceWithFee float64               `json:"price_with_fee"`
}

type EventPricingResponse struct {
	EventID        string                 `json:"event_id"`
	Guests         entity.GuestBreakdown  `json:"guests"`
	TotalGuests    int                    `json:"total_guests"`
	Services       []EventServiceResponse `json:"services"`
	Pricing        pricing.PricingResult  `json:"pricing"`
	FormattedTotal string                 `json:"formatted_total"`
}

type EventServiceResponse struct {
	ID                     string                     `json:"id"`
	EventID                string                     `json:"event_id"`
	ServiceID              string                     `json:"service_id"`
	PricePerGuestAtBooking float64                    `json:"price_per_guest_at_booking"`
	TotalEstimatedPrice    float64                    `json:"total_estimated_price"`
	BookingStatus          entity.BookingStatus       `json:"booking_status"`
	PriceCorrect           bool                       `json:"price_correct"`
	Surcharges             []pricing.AppliedSurcharge `json:"surcharges,omitempty"`
	UpdatedAt              time.Time                  `json:"updated_at"`
}

func EventServiceToResponse(es *entity.EventService, guests entity.GuestBreakdown) EventServiceResponse {
	return EventServiceResponse{
		ID:                     es.ID.String(),
		EventID:                es.EventID.String(),
		ServiceID:              es.ServiceID.String(),
		PricePerGuestAtBooking: es.PricePerGuestAtBooking,
		TotalEstimatedPrice:    es.TotalEstimatedPrice,
		BookingStatus:          es.BookingStatus,
		PriceCorrect:           pricing.IsPriceCorrect(es, guests),
		UpdatedAt:              es.UpdatedAt,
	}
}
