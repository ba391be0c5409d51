package pricing

import (
	"cmp"
	"slices"
	"time"

	"be-fest/internal/data/entity"
)

type AppliedSurcharge struct {
	Name   string               `json:"name"`
	Type   entity.SurchargeType `json:"type"`
	Value  float64              `json:"value"`
	Amount float64              `json:"amount"`
}

// ApplyDateSurcharges raises a per-guest price by every active surcharge whose
// window contains the event date. Windows are inclusive and compared by
// calendar day. Surcharges apply in start date order: percentages to the
// running price, fixed amounts per guest. The result is rounded to the cent
// because it is the price frozen on the booking, and the stored total must be
// reproducible from the stored price.
func ApplyDateSurcharges(pricePerGuest float64, eventDate time.Time, surcharges []entity.DateSurcharge) (float64, []AppliedSurcharge) {
	day := calendarDay(eventDate)

	active := make([]entity.DateSurcharge, 0, len(surcharges))
	for _, s := range surcharges {
		if !s.IsActive {
			continue
		}
		if day.Before(calendarDay(s.StartDate)) || day.After(calendarDay(s.EndDate)) {
			continue
		}
		active = append(active, s)
	}
	slices.SortStableFunc(active, func(a, b entity.DateSurcharge) int {
		return a.StartDate.Compare(b.StartDate)
	})

	var applied []AppliedSurcharge
	for _, s := range active {
		var amount float64
		switch s.SurchargeType {
		case entity.SurchargePercentage:
			amount = pricePerGuest * s.SurchargeValue / 100
		case entity.SurchargeFixed:
			amount = s.SurchargeValue
		default:
			continue
		}
		pricePerGuest += amount
		applied = append(applied, AppliedSurcharge{
			Name:   s.Name,
			Type:   s.SurchargeType,
			Value:  s.SurchargeValue,
			Amount: amount,
		})
	}
	return RoundCents(pricePerGuest), applied
}

// AgeRuleUnitPrice is the per-guest price an age band pays for a base price.
func AgeRuleUnitPrice(pricePerGuest float64, rule entity.AgePricingRule) (float64, error) {
	switch rule.PricingType {
	case entity.AgePricingFree:
		return 0, nil
	case entity.AgePricingPercentage:
		if rule.Value < 0 {
			return 0, invalid("value", "percentage must not be negative")
		}
		return pricePerGuest * rule.Value / 100, nil
	case entity.AgePricingFixed:
		if rule.Value < 0 {
			return 0, invalid("value", "fixed price must not be negative")
		}
		return rule.Value, nil
	default:
		return 0, invalid("pricing_type", "must be one of free, percentage, fixed")
	}
}

// SortAgeRules orders rules by their lower age bound.
func SortAgeRules(rules []entity.AgePricingRule) []entity.AgePricingRule {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b entity.AgePricingRule) int {
		return cmp.Compare(a.MinAge, b.MinAge)
	})
	return sorted
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
