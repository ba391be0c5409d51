package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"be-fest/internal/data/entity"
	"be-fest/internal/data/repository"

	"github.com/google/uuid"
)

// --------------------------------------------------
// In-memory repositories
// --------------------------------------------------

type fakeEventRepo struct {
	events map[uuid.UUID]*entity.Event
	err    error
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events[id], nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*entity.Service
}

func (f *fakeServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	return f.services[id], nil
}

type fakeGuestTierRepo struct {
	tiers map[uuid.UUID][]entity.GuestTier
}

func (f *fakeGuestTierRepo) FindByServiceID(_ context.Context, serviceID uuid.UUID) ([]entity.GuestTier, error) {
	return f.tiers[serviceID], nil
}

type fakePricingRuleRepo struct {
	ageRules   map[uuid.UUID][]entity.AgePricingRule
	surcharges map[uuid.UUID][]entity.DateSurcharge
}

func (f *fakePricingRuleRepo) FindAgeRulesByServiceID(_ context.Context, serviceID uuid.UUID) ([]entity.AgePricingRule, error) {
	return f.ageRules[serviceID], nil
}

func (f *fakePricingRuleRepo) FindDateSurchargesByServiceID(_ context.Context, serviceID uuid.UUID) ([]entity.DateSurcharge, error) {
	return f.surcharges[serviceID], nil
}

// fakeEventServiceRepo mirrors the conditional update of the Postgres
// repository: the write only lands when updated_at still matches and the
// booking is not locked.
type fakeEventServiceRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*entity.EventService
	failWrite map[uuid.UUID]error
	writes    int
	listErr   error
	createErr error
}

func newFakeEventServiceRepo(rows ...*entity.EventService) *fakeEventServiceRepo {
	f := &fakeEventServiceRepo{
		rows:      make(map[uuid.UUID]*entity.EventService),
		failWrite: make(map[uuid.UUID]error),
	}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

// Create stores prices at cent precision like the NUMERIC(12,2) columns.
func (f *fakeEventServiceRepo) Create(_ context.Context, es *entity.EventService) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	clone := *es
	clone.PricePerGuestAtBooking = math.Round(es.PricePerGuestAtBooking*100) / 100
	clone.TotalEstimatedPrice = math.Round(es.TotalEstimatedPrice*100) / 100
	f.rows[es.ID] = &clone
	return nil
}

func (f *fakeEventServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.EventService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rows[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeEventServiceRepo) FindByEventID(_ context.Context, eventID uuid.UUID) ([]*entity.EventService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.EventService
	for _, r := range f.rows {
		if r.EventID == eventID && r.BookingStatus != entity.BookingStatusCancelled {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeEventServiceRepo) FindByEventAndService(_ context.Context, eventID, serviceID uuid.UUID) (*entity.EventService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.EventID == eventID && r.ServiceID == serviceID && r.BookingStatus != entity.BookingStatusCancelled {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeEventServiceRepo) ListForReconciliation(_ context.Context) ([]*entity.EventService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*entity.EventService
	for _, r := range f.rows {
		if r.BookingStatus != entity.BookingStatusCancelled {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeEventServiceRepo) UpdateTotal(_ context.Context, id uuid.UUID, total float64, readAt time.Time) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failWrite[id]; err != nil {
		return time.Time{}, err
	}
	r, ok := f.rows[id]
	if !ok || !r.UpdatedAt.Equal(readAt) || r.BookingStatus.Locked() {
		return time.Time{}, repository.ErrConflict
	}
	r.TotalEstimatedPrice = total
	r.UpdatedAt = r.UpdatedAt.Add(time.Second)
	f.writes++
	return r.UpdatedAt, nil
}

func (f *fakeEventServiceRepo) total(id uuid.UUID) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id].TotalEstimatedPrice
}

// --------------------------------------------------
// Publisher
// --------------------------------------------------

type publishedMessage struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []publishedMessage
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, payload []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, publishedMessage{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// --------------------------------------------------
// Fixture
// --------------------------------------------------

type fixture struct {
	events       *fakeEventRepo
	services     *fakeServiceRepo
	tiers        *fakeGuestTierRepo
	rules        *fakePricingRuleRepo
	eventService *fakeEventServiceRepo
	repo         *repository.Repository
}

func newFixture(rows ...*entity.EventService) *fixture {
	f := &fixture{
		events:       &fakeEventRepo{events: make(map[uuid.UUID]*entity.Event)},
		services:     &fakeServiceRepo{services: make(map[uuid.UUID]*entity.Service)},
		tiers:        &fakeGuestTierRepo{tiers: make(map[uuid.UUID][]entity.GuestTier)},
		rules:        &fakePricingRuleRepo{ageRules: make(map[uuid.UUID][]entity.AgePricingRule), surcharges: make(map[uuid.UUID][]entity.DateSurcharge)},
		eventService: newFakeEventServiceRepo(rows...),
	}
	f.repo = &repository.Repository{
		Event:        f.events,
		Service:      f.services,
		GuestTier:    f.tiers,
		PricingRule:  f.rules,
		EventService: f.eventService,
	}
	return f
}

func (f *fixture) addEvent(full, half, free int) *entity.Event {
	e := &entity.Event{
		Base:       entity.Base{ID: uuid.New()},
		Name:       "Festa de 15 anos",
		EventDate:  time.Date(2026, 11, 14, 20, 0, 0, 0, time.UTC),
		FullGuests: &full,
		HalfGuests: &half,
		FreeGuests: &free,
		Status:     entity.EventStatusPlanning,
	}
	f.events.events[e.ID] = e
	return e
}

func (f *fixture) addSnapshot(eventID uuid.UUID, pricePerGuest, stored float64, status entity.BookingStatus) *entity.EventService {
	es := &entity.EventService{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		},
		EventID:                eventID,
		ServiceID:              uuid.New(),
		PricePerGuestAtBooking: pricePerGuest,
		TotalEstimatedPrice:    stored,
		BookingStatus:          status,
	}
	f.eventService.rows[es.ID] = es
	return es
}

var errWriteFailed = errors.New("connection reset by peer")
