package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"be-fest/internal/data/entity"
	"be-fest/internal/data/repository"
	"be-fest/internal/dto/request"
	"be-fest/internal/dto/response"
	"be-fest/internal/pricing"
	"be-fest/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrServiceAlreadyAdded is returned when an event already holds an active
// snapshot for the service.
var ErrServiceAlreadyAdded = errors.New("service already added to event")

type PricingService interface {
	// Read-only price table, no booking needed
	GetPriceTable(ctx context.Context, serviceID string) (*response.PriceTableResponse, error)

	// Booking flow
	GetEventPricing(ctx context.Context, eventID string) (*response.EventPricingResponse, error)
	AddServiceToEvent(ctx context.Context, eventID string, req *request.AddEventServiceRequest) (*response.EventServiceResponse, error)
}

type pricingService struct {
	repo           *repository.Repository
	feeRate        float64
	displayFeeRate float64
	gapPolicy      pricing.GapPolicy
	log            *zap.Logger
}

func NewPricingService(repo *repository.Repository, cfg utils.PricingConfig, log *zap.Logger) (PricingService, error) {
	if err := pricing.ValidateFeeRate(cfg.FeeRate); err != nil {
		return nil, fmt.Errorf("pricing fee rate: %w", err)
	}
	if err := pricing.ValidateFeeRate(cfg.DisplayFeeRate); err != nil {
		return nil, fmt.Errorf("pricing display fee rate: %w", err)
	}
	policy, err := pricing.ParseGapPolicy(cfg.TierGapPolicy)
	if err != nil {
		return nil, err
	}

	return &pricingService{
		repo:           repo,
		feeRate:        cfg.FeeRate,
		displayFeeRate: cfg.DisplayFeeRate,
		gapPolicy:      policy,
		log:            log.With(zap.String("service", "pricing")),
	}, nil
}

func (s *pricingService) GetPriceTable(ctx context.Context, serviceID string) (*response.PriceTableResponse, error) {
	id, err := parseID("service_id", serviceID)
	if err != nil {
		return nil, err
	}

	service, err := s.repo.Service.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if service == nil || !service.IsActive {
		return nil, &pricing.NotFoundError{Resource: "service", ID: serviceID}
	}

	tiers, err := s.repo.GuestTier.FindByServiceID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get guest tiers: %w", err)
	}
	if err := pricing.ValidateTiers(tiers); err != nil {
		s.log.Warn("Service has malformed guest tiers",
			zap.String("service_id", serviceID),
			zap.Error(err),
		)
		return nil, err
	}

	ageRules, err := s.repo.PricingRule.FindAgeRulesByServiceID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get age pricing rules: %w", err)
	}

	table := &response.PriceTableResponse{
		ServiceID:      service.ID.String(),
		ServiceName:    service.Name,
		FeePercentage:  s.displayFeeRate * 100,
		HalfGuestShare: 0.5,
	}

	if len(tiers) == 0 {
		flat, err := pricing.ResolveServicePrice(service, nil, 0, s.gapPolicy)
		if err != nil {
			return nil, err
		}
		table.FlatRate = true
		table.Tiers = []response.PriceTableRow{s.priceRow(entity.GuestTier{BasePricePerAdult: flat})}
	} else {
		for _, tier := range pricing.SortTiers(tiers) {
			table.Tiers = append(table.Tiers, s.priceRow(tier))
		}
	}

	reference := table.Tiers[0].BasePricePerAdult
	for _, rule := range pricing.SortAgeRules(ageRules) {
		unit, err := pricing.AgeRuleUnitPrice(reference, rule)
		if err != nil {
			s.log.Warn("Skipping malformed age pricing rule",
				zap.String("service_id", serviceID),
				zap.String("rule_id", rule.ID.String()),
				zap.Error(err),
			)
			continue
		}
		table.AgeBands = append(table.AgeBands, response.AgeBandRow{
			MinAge:       rule.MinAge,
			MaxAge:       rule.MaxAge,
			PricingType:  rule.PricingType,
			Value:        rule.Value,
			PriceWithFee: pricing.PriceWithFee(unit, s.displayFeeRate),
		})
	}

	return table, nil
}

func (s *pricingService) GetEventPricing(ctx context.Context, eventID string) (*response.EventPricingResponse, error) {
	id, err := parseID("event_id", eventID)
	if err != nil {
		return nil, err
	}

	_, guests, err := s.loadEventGuests(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.repo.EventService.FindByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event services: %w", err)
	}

	prices := make([]pricing.ServicePrice, len(snapshots))
	services := make([]response.EventServiceResponse, len(snapshots))
	for i, es := range snapshots {
		prices[i] = pricing.ServicePrice{
			ServiceID:              es.ServiceID,
			PricePerGuestAtBooking: es.PricePerGuestAtBooking,
		}
		services[i] = response.EventServiceToResponse(es, guests)
	}

	result, err := pricing.CalculateTotalPricing(prices, guests, s.feeRate)
	if err != nil {
		return nil, err
	}

	return &response.EventPricingResponse{
		EventID:        eventID,
		Guests:         guests,
		TotalGuests:    guests.Total(),
		Services:       services,
		Pricing:        result,
		FormattedTotal: pricing.FormatCurrency(result.Total),
	}, nil
}

func (s *pricingService) AddServiceToEvent(ctx context.Context, eventID string, req *request.AddEventServiceRequest) (*response.EventServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Add service validation failed", zap.Any("errors", errs))
		return nil, &pricing.ValidationError{Field: "request", Reason: utils.FormatValidationErrors(errs)}
	}

	eventUUID, err := parseID("event_id", eventID)
	if err != nil {
		return nil, err
	}
	serviceUUID, err := parseID("service_id", req.ServiceID)
	if err != nil {
		return nil, err
	}

	event, guests, err := s.loadEventGuests(ctx, eventUUID)
	if err != nil {
		return nil, err
	}

	service, err := s.repo.Service.FindByID(ctx, serviceUUID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if service == nil {
		return nil, &pricing.NotFoundError{Resource: "service", ID: req.ServiceID}
	}
	if !service.IsActive {
		return nil, &pricing.ValidationError{Field: "service_id", Reason: "service is not active"}
	}

	existing, err := s.repo.EventService.FindByEventAndService(ctx, eventUUID, serviceUUID)
	if err != nil {
		return nil, fmt.Errorf("check existing event service: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("service %s on event %s: %w", req.ServiceID, eventID, ErrServiceAlreadyAdded)
	}

	tiers, err := s.repo.GuestTier.FindByServiceID(ctx, serviceUUID)
	if err != nil {
		return nil, fmt.Errorf("get guest tiers: %w", err)
	}
	basePrice, err := pricing.ResolveServicePrice(service, tiers, guests.Total(), s.gapPolicy)
	if err != nil {
		return nil, err
	}

	surcharges, err := s.repo.PricingRule.FindDateSurchargesByServiceID(ctx, serviceUUID)
	if err != nil {
		return nil, fmt.Errorf("get date surcharges: %w", err)
	}
	pricePerGuest, applied := pricing.ApplyDateSurcharges(basePrice, event.EventDate, surcharges)

	now := time.Now()
	snapshot := &entity.EventService{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		EventID:                eventUUID,
		ServiceID:              serviceUUID,
		PricePerGuestAtBooking: pricePerGuest,
		TotalEstimatedPrice:    pricing.RoundCents(pricing.CalculateServiceValue(pricePerGuest, guests)),
		BookingStatus:          entity.BookingStatusPending,
	}

	if err := s.repo.EventService.Create(ctx, snapshot); err != nil {
		// a concurrent request added the same service after the check above
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("service %s on event %s: %w", req.ServiceID, eventID, ErrServiceAlreadyAdded)
		}
		s.log.Error("Failed to create event service",
			zap.Error(err),
			zap.String("event_id", eventID),
			zap.String("service_id", req.ServiceID),
		)
		return nil, fmt.Errorf("create event service: %w", err)
	}

	s.log.Info("Service added to event",
		zap.String("event_service_id", snapshot.ID.String()),
		zap.String("event_id", eventID),
		zap.String("service_id", req.ServiceID),
		zap.Int("total_guests", guests.Total()),
		zap.Float64("base_price", basePrice),
		zap.Float64("price_per_guest", pricePerGuest),
		zap.Float64("total_estimated_price", snapshot.TotalEstimatedPrice),
		zap.Int("surcharges", len(applied)),
	)

	resp := response.EventServiceToResponse(snapshot, guests)
	resp.Surcharges = applied
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *pricingService) loadEventGuests(ctx context.Context, id uuid.UUID) (*entity.Event, entity.GuestBreakdown, error) {
	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, entity.GuestBreakdown{}, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, entity.GuestBreakdown{}, &pricing.NotFoundError{Resource: "event", ID: id.String()}
	}

	guests, ok := event.Guests()
	if !ok {
		return nil, entity.GuestBreakdown{}, &pricing.NotFoundError{Resource: "guest data for event", ID: id.String()}
	}
	if err := pricing.ValidateGuests(guests); err != nil {
		return nil, entity.GuestBreakdown{}, err
	}

	return event, guests, nil
}

func (s *pricingService) priceRow(tier entity.GuestTier) response.PriceTableRow {
	withFee := pricing.PriceWithFee(tier.BasePricePerAdult, s.displayFeeRate)
	return response.PriceTableRow{
		MinTotalGuests:    tier.MinTotalGuests,
		MaxTotalGuests:    tier.MaxTotalGuests,
		Description:       tier.Description,
		BasePricePerAdult: tier.BasePricePerAdult,
		PriceWithFee:      withFee,
		HalfPriceWithFee:  pricing.PriceWithFee(tier.BasePricePerAdult/2, s.displayFeeRate),
		Formatted:         pricing.FormatCurrency(withFee),
	}
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &pricing.ValidationError{Field: field, Reason: "must be a valid UUID", Err: err}
	}
	return id, nil
}
