package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"be-fest/internal/data/entity"
	"be-fest/internal/data/repository"
	"be-fest/internal/dto/request"
	"be-fest/internal/pricing"
	"be-fest/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func newPricing(t *testing.T, f *fixture) PricingService {
	t.Helper()
	srv, err := NewPricingService(f.repo, utils.PricingConfig{
		FeeRate:        0.10,
		DisplayFeeRate: 0.10,
		TierGapPolicy:  "top_tier",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("new pricing service: %v", err)
	}
	return srv
}

func (f *fixture) addService(pricePerGuest float64, active bool, tiers ...entity.GuestTier) *entity.Service {
	svc := &entity.Service{
		Base:          entity.Base{ID: uuid.New()},
		Name:          "Buffet completo",
		Category:      "buffet",
		PricePerGuest: pricePerGuest,
		IsActive:      active,
	}
	f.services.services[svc.ID] = svc
	for i := range tiers {
		tiers[i].ID = uuid.New()
		tiers[i].ServiceID = svc.ID
	}
	f.tiers.tiers[svc.ID] = tiers
	return svc
}

func TestNewPricingServiceRejectsBadConfig(t *testing.T) {
	f := newFixture()
	cases := []utils.PricingConfig{
		{FeeRate: 1.5, DisplayFeeRate: 0.1, TierGapPolicy: "top_tier"},
		{FeeRate: 0.1, DisplayFeeRate: -0.1, TierGapPolicy: "top_tier"},
		{FeeRate: 0.1, DisplayFeeRate: 0.1, TierGapPolicy: "closest"},
	}
	for _, cfg := range cases {
		if _, err := NewPricingService(f.repo, cfg, zap.NewNop()); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestGetPriceTableTiers(t *testing.T) {
	f := newFixture()
	svc := f.addService(0, true,
		entity.GuestTier{MinTotalGuests: 51, BasePricePerAdult: 80, Description: "grande"},
		entity.GuestTier{MinTotalGuests: 0, MaxTotalGuests: intPtr(50), BasePricePerAdult: 100, Description: "pequena"},
	)
	f.rules.ageRules[svc.ID] = []entity.AgePricingRule{
		{ID: uuid.New(), MinAge: 6, MaxAge: intPtr(12), PricingType: entity.AgePricingPercentage, Value: 50},
		{ID: uuid.New(), MinAge: 0, MaxAge: intPtr(5), PricingType: entity.AgePricingFree},
	}

	table, err := newPricing(t, f).GetPriceTable(context.Background(), svc.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if table.FlatRate || len(table.Tiers) != 2 {
		t.Fatalf("unexpected table: %+v", table)
	}
	first, second := table.Tiers[0], table.Tiers[1]
	if first.MinTotalGuests != 0 || first.PriceWithFee != 110 || first.HalfPriceWithFee != 55 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if second.MinTotalGuests != 51 || second.MaxTotalGuests != nil || second.PriceWithFee != 88 {
		t.Fatalf("unexpected second row: %+v", second)
	}
	if table.FeePercentage != 10 {
		t.Fatalf("fee percentage = %v, want 10", table.FeePercentage)
	}
	if len(table.AgeBands) != 2 || table.AgeBands[0].MinAge != 0 || table.AgeBands[0].PriceWithFee != 0 || table.AgeBands[1].PriceWithFee != 55 {
		t.Fatalf("unexpected age bands: %+v", table.AgeBands)
	}
}

func TestGetPriceTableFlatRate(t *testing.T) {
	f := newFixture()
	svc := f.addService(45, true)

	table, err := newPricing(t, f).GetPriceTable(context.Background(), svc.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !table.FlatRate || len(table.Tiers) != 1 || table.Tiers[0].BasePricePerAdult != 45 || table.Tiers[0].PriceWithFee != 50 {
		t.Fatalf("unexpected flat table: %+v", table)
	}
}

func TestGetPriceTableErrors(t *testing.T) {
	f := newFixture()
	unpriced := f.addService(0, true)
	inactive := f.addService(30, false)
	overlapping := f.addService(0, true,
		entity.GuestTier{MinTotalGuests: 0, MaxTotalGuests: intPtr(50), BasePricePerAdult: 100},
		entity.GuestTier{MinTotalGuests: 40, MaxTotalGuests: intPtr(80), BasePricePerAdult: 90},
	)
	srv := newPricing(t, f)

	tests := []struct {
		name     string
		id       string
		notFound bool
		noPrice  bool
	}{
		{name: "malformed id", id: "not-a-uuid"},
		{name: "unknown service", id: uuid.NewString(), notFound: true},
		{name: "inactive service", id: inactive.ID.String(), notFound: true},
		{name: "no tiers and no fallback", id: unpriced.ID.String(), notFound: true, noPrice: true},
		{name: "overlapping tiers", id: overlapping.ID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.GetPriceTable(context.Background(), tt.id)
			if err == nil {
				t.Fatal("expected error")
			}
			if pricing.IsNotFound(err) != tt.notFound {
				t.Fatalf("IsNotFound = %v for %v", !tt.notFound, err)
			}
			if !tt.notFound && !pricing.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tt.noPrice && !errors.Is(err, pricing.ErrNoPrice) {
				t.Fatalf("expected ErrNoPrice, got %v", err)
			}
		})
	}
}

func TestAddServiceToEvent(t *testing.T) {
	f := newFixture()
	event := f.addEvent(100, 20, 5)
	svc := f.addService(0, true,
		entity.GuestTier{MinTotalGuests: 0, MaxTotalGuests: intPtr(100), BasePricePerAdult: 150},
		entity.GuestTier{MinTotalGuests: 101, BasePricePerAdult: 140},
	)
	f.rules.surcharges[svc.ID] = []entity.DateSurcharge{
		{
			Name:           "Alta temporada",
			StartDate:      time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC),
			SurchargeType:  entity.SurchargePercentage,
			SurchargeValue: 10,
			IsActive:       true,
		},
		{
			Name:           "Reveillon",
			StartDate:      time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			SurchargeType:  entity.SurchargeFixed,
			SurchargeValue: 500,
			IsActive:       true,
		},
	}
	srv := newPricing(t, f)

	resp, err := srv.AddServiceToEvent(context.Background(), event.ID.String(), &request.AddEventServiceRequest{ServiceID: svc.ID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !approx(resp.PricePerGuestAtBooking, 154) || !approx(resp.TotalEstimatedPrice, 16940) {
		t.Fatalf("unexpected snapshot prices: %+v", resp)
	}
	if resp.BookingStatus != entity.BookingStatusPending || !resp.PriceCorrect {
		t.Fatalf("unexpected snapshot state: %+v", resp)
	}
	if len(resp.Surcharges) != 1 || resp.Surcharges[0].Name != "Alta temporada" {
		t.Fatalf("unexpected surcharges: %+v", resp.Surcharges)
	}

	stored, _ := f.eventService.FindByEventAndService(context.Background(), event.ID, svc.ID)
	if stored == nil || !approx(stored.TotalEstimatedPrice, 16940) {
		t.Fatalf("snapshot not persisted: %+v", stored)
	}

	_, err = srv.AddServiceToEvent(context.Background(), event.ID.String(), &request.AddEventServiceRequest{ServiceID: svc.ID.String()})
	if !errors.Is(err, ErrServiceAlreadyAdded) {
		t.Fatalf("expected ErrServiceAlreadyAdded, got %v", err)
	}
}

func TestAddServiceToEventErrors(t *testing.T) {
	f := newFixture()
	event := f.addEvent(10, 0, 0)
	inactive := f.addService(30, false)
	srv := newPricing(t, f)

	tests := []struct {
		name       string
		eventID    string
		serviceID  string
		validation bool
	}{
		{name: "missing service id", eventID: event.ID.String(), serviceID: "", validation: true},
		{name: "malformed service id", eventID: event.ID.String(), serviceID: "abc", validation: true},
		{name: "malformed event id", eventID: "abc", serviceID: inactive.ID.String(), validation: true},
		{name: "inactive service", eventID: event.ID.String(), serviceID: inactive.ID.String(), validation: true},
		{name: "unknown event", eventID: uuid.NewString(), serviceID: inactive.ID.String()},
		{name: "unknown service", eventID: event.ID.String(), serviceID: uuid.NewString()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.AddServiceToEvent(context.Background(), tt.eventID, &request.AddEventServiceRequest{ServiceID: tt.serviceID})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.validation && !pricing.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !tt.validation && !pricing.IsNotFound(err) {
				t.Fatalf("expected not found error, got %v", err)
			}
		})
	}
	if f.eventService.writes != 0 || len(f.eventService.rows) != 0 {
		t.Fatal("failed requests created snapshots")
	}
}

func TestGetEventPricing(t *testing.T) {
	f := newFixture()
	event := f.addEvent(100, 20, 5)
	f.addSnapshot(event.ID, 140, 15400, entity.BookingStatusPending)
	f.addSnapshot(event.ID, 50, 5500, entity.BookingStatusConfirmed)
	f.addSnapshot(event.ID, 999, 99900, entity.BookingStatusCancelled)

	resp, err := newPricing(t, f).GetEventPricing(context.Background(), event.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.TotalGuests != 125 || len(resp.Services) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !approx(resp.Pricing.Subtotal, 20900) || !approx(resp.Pricing.BefestFee, 2090) || !approx(resp.Pricing.Total, 22990) {
		t.Fatalf("unexpected pricing: %+v", resp.Pricing)
	}
	if resp.FormattedTotal == "" {
		t.Fatal("formatted total is empty")
	}
}

func TestGetEventPricingMissingGuests(t *testing.T) {
	f := newFixture()
	blank := &entity.Event{Base: entity.Base{ID: uuid.New()}}
	f.events.events[blank.ID] = blank

	_, err := newPricing(t, f).GetEventPricing(context.Background(), blank.ID.String())
	if !pricing.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestAddServiceToEventSurchargedPriceSurvivesReconcile(t *testing.T) {
	f := newFixture()
	event := f.addEvent(100, 20, 0)
	svc := f.addService(99.99, true)
	f.rules.surcharges[svc.ID] = []entity.DateSurcharge{{
		Name:           "Feriado prolongado",
		StartDate:      time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC),
		SurchargeType:  entity.SurchargePercentage,
		SurchargeValue: 15,
		IsActive:       true,
	}}

	resp, err := newPricing(t, f).AddServiceToEvent(context.Background(), event.ID.String(), &request.AddEventServiceRequest{ServiceID: svc.ID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PricePerGuestAtBooking != 114.99 || !approx(resp.TotalEstimatedPrice, 12648.9) {
		t.Fatalf("unexpected frozen prices: %+v", resp)
	}

	report, err := newReconcile(f, nil).ReconcileAll(context.Background(), false)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if report.TotalChecked != 1 || report.CorrectedCount != 0 || report.HasFailures() {
		t.Fatalf("freshly stored snapshot was flagged: %+v", report)
	}
	if got := report.Items[0].Outcome; got != pricing.OutcomeOK {
		t.Fatalf("outcome = %v, want ok", got)
	}
}

func TestAddServiceToEventDuplicateInsert(t *testing.T) {
	f := newFixture()
	event := f.addEvent(10, 0, 0)
	svc := f.addService(50, true)
	f.eventService.createErr = fmt.Errorf("create event service: %w", repository.ErrDuplicate)

	_, err := newPricing(t, f).AddServiceToEvent(context.Background(), event.ID.String(), &request.AddEventServiceRequest{ServiceID: svc.ID.String()})
	if !errors.Is(err, ErrServiceAlreadyAdded) {
		t.Fatalf("expected ErrServiceAlreadyAdded, got %v", err)
	}
}
