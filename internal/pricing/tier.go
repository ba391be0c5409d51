package pricing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"be-fest/internal/data/entity"
)

// GapPolicy decides what happens when no tier range contains the guest count.
type GapPolicy string

const (
	// GapPolicyTopTier charges an unmatched count at the tier with the
	// largest minimum. This is the behaviour existing bookings were priced with.
	GapPolicyTopTier GapPolicy = "top_tier"
	// GapPolicyStrict treats an unmatched count as a configuration error.
	GapPolicyStrict GapPolicy = "strict"
)

func ParseGapPolicy(s string) (GapPolicy, error) {
	switch GapPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", GapPolicyTopTier:
		return GapPolicyTopTier, nil
	case GapPolicyStrict:
		return GapPolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown tier gap policy %q", s)
	}
}

// ValidateTiers checks every tier on its own and then that the set, ordered
// by minimum, has no overlapping ranges.
func ValidateTiers(tiers []entity.GuestTier) error {
	for _, t := range tiers {
		if t.MinTotalGuests < 0 {
			return invalid("min_total_guests", "must not be negative")
		}
		if t.MaxTotalGuests != nil && *t.MaxTotalGuests <= t.MinTotalGuests {
			return invalid("max_total_guests", fmt.Sprintf("must be greater than min_total_guests (%d)", t.MinTotalGuests))
		}
		if t.BasePricePerAdult < 0 {
			return invalid("base_price_per_adult", "must not be negative")
		}
	}

	sorted := SortTiers(tiers)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.MaxTotalGuests == nil || cur.MinTotalGuests <= *prev.MaxTotalGuests {
			return invalid("service_guest_tiers", fmt.Sprintf("tier starting at %d overlaps tier starting at %d", cur.MinTotalGuests, prev.MinTotalGuests))
		}
	}
	return nil
}

// ResolveTier selects the tier that prices totalGuests.
func ResolveTier(tiers []entity.GuestTier, totalGuests int, policy GapPolicy) (*entity.GuestTier, error) {
	if totalGuests < 0 {
		return nil, invalid("total_guests", "must not be negative")
	}
	if len(tiers) == 0 {
		return nil, &NotFoundError{Resource: "guest tiers", Err: ErrNoTiers}
	}
	if err := ValidateTiers(tiers); err != nil {
		return nil, err
	}

	sorted := SortTiers(tiers)
	for i := range sorted {
		if sorted[i].Contains(totalGuests) {
			return &sorted[i], nil
		}
	}

	if policy == GapPolicyStrict {
		return nil, &ValidationError{
			Field:  "total_guests",
			Reason: fmt.Sprintf("%d is not covered by any tier", totalGuests),
			Err:    ErrTierGap,
		}
	}
	return &sorted[len(sorted)-1], nil
}

// ResolveBasePrice returns the per-adult price of the tier for totalGuests.
// An empty tier set yields ErrNoTiers so callers can fall back to a flat
// price instead of charging zero.
func ResolveBasePrice(tiers []entity.GuestTier, totalGuests int, policy GapPolicy) (float64, error) {
	tier, err := ResolveTier(tiers, totalGuests, policy)
	if err != nil {
		return 0, err
	}
	return tier.BasePricePerAdult, nil
}

// ResolveServicePrice resolves the per-guest price of a service, falling back
// to the service's own per-guest or flat base price when it has no tiers.
func ResolveServicePrice(service *entity.Service, tiers []entity.GuestTier, totalGuests int, policy GapPolicy) (float64, error) {
	price, err := ResolveBasePrice(tiers, totalGuests, policy)
	if err == nil {
		return price, nil
	}
	if !IsNotFound(err) {
		return 0, err
	}

	switch {
	case service == nil:
		return 0, &NotFoundError{Resource: "service", Err: ErrNoPrice}
	case service.PricePerGuest > 0:
		return service.PricePerGuest, nil
	case service.BasePrice > 0:
		return service.BasePrice, nil
	default:
		return 0, &NotFoundError{Resource: "price for service", ID: service.ID.String(), Err: ErrNoPrice}
	}
}

// SortTiers returns a copy of tiers ordered by minimum guest count.
func SortTiers(tiers []entity.GuestTier) []entity.GuestTier {
	sorted := slices.Clone(tiers)
	slices.SortStableFunc(sorted, func(a, b entity.GuestTier) int {
		return cmp.Compare(a.MinTotalGuests, b.MinTotalGuests)
	})
	return sorted
}
