package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"be-fest/internal/data/entity"
	"be-fest/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventServiceRepository interface {
	Create(ctx context.Context, es *entity.EventService) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.EventService, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.EventService, error)
	FindByEventAndService(ctx context.Context, eventID, serviceID uuid.UUID) (*entity.EventService, error)

	// Reconciliation
	ListForReconciliation(ctx context.Context) ([]*entity.EventService, error)
	UpdateTotal(ctx context.Context, id uuid.UUID, total float64, readAt time.Time) (time.Time, error)
}

type eventServiceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventServiceRepository(db database.PgxIface, log *zap.Logger) EventServiceRepository {
	return &eventServiceRepository{
		db:  db,
		log: log.With(zap.String("repository", "event_service")),
	}
}

const eventServiceColumns = `id, event_id, service_id, price_per_guest_at_booking, total_estimated_price,
		       booking_status, created_at, updated_at`

func scanEventService(row pgx.Row) (*entity.EventService, error) {
	var es entity.EventService
	err := row.Scan(
		&es.ID,
		&es.EventID,
		&es.ServiceID,
		&es.PricePerGuestAtBooking,
		&es.TotalEstimatedPrice,
		&es.BookingStatus,
		&es.CreatedAt,
		&es.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &es, nil
}

func (r *eventServiceRepository) Create(ctx context.Context, es *entity.EventService) error {
	query := `
		INSERT INTO event_services (id, event_id, service_id, price_per_guest_at_booking,
		                            total_estimated_price, booking_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		es.ID,
		es.EventID,
		es.ServiceID,
		es.PricePerGuestAtBooking,
		es.TotalEstimatedPrice,
		es.BookingStatus,
		es.CreatedAt,
		es.UpdatedAt,
	)

	if isUniqueViolation(err) {
		r.log.Warn("Event service already exists",
			zap.String("event_id", es.EventID.String()),
			zap.String("service_id", es.ServiceID.String()),
		)
		return fmt.Errorf("create event service for event %s: %w", es.EventID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create event service",
			zap.Error(err),
			zap.String("event_id", es.EventID.String()),
			zap.String("service_id", es.ServiceID.String()),
		)
		return fmt.Errorf("create event service for event %s: %w", es.EventID.String(), err)
	}

	return nil
}

func (r *eventServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.EventService, error) {
	query := `SELECT ` + eventServiceColumns + ` FROM event_services WHERE id = $1`

	es, err := scanEventService(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event service by ID",
			zap.Error(err),
			zap.String("event_service_id", id.String()),
		)
		return nil, fmt.Errorf("find event service by ID %s: %w", id.String(), err)
	}

	return es, nil
}

func (r *eventServiceRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.EventService, error) {
	query := `
		SELECT ` + eventServiceColumns + `
		FROM event_services
		WHERE event_id = $1 AND booking_status <> 'cancelled'
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find event services by event ID",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("find event services by event ID %s: %w", eventID.String(), err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *eventServiceRepository) FindByEventAndService(ctx context.Context, eventID, serviceID uuid.UUID) (*entity.EventService, error) {
	query := `
		SELECT ` + eventServiceColumns + `
		FROM event_services
		WHERE event_id = $1 AND service_id = $2 AND booking_status <> 'cancelled'
	`

	es, err := scanEventService(r.db.QueryRow(ctx, query, eventID, serviceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event service",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("service_id", serviceID.String()),
		)
		return nil, fmt.Errorf("find event service for event %s: %w", eventID.String(), err)
	}

	return es, nil
}

// ListForReconciliation returns every snapshot that still carries a price.
// Cancelled bookings are left out.
func (r *eventServiceRepository) ListForReconciliation(ctx context.Context) ([]*entity.EventService, error) {
	query := `
		SELECT ` + eventServiceColumns + `
		FROM event_services
		WHERE booking_status <> 'cancelled'
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list event services for reconciliation", zap.Error(err))
		return nil, fmt.Errorf("list event services for reconciliation: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// UpdateTotal writes a corrected total only if the row still has the
// updated_at it was read with and has not been confirmed or paid since.
// Otherwise it returns ErrConflict and leaves the row untouched.
func (r *eventServiceRepository) UpdateTotal(ctx context.Context, id uuid.UUID, total float64, readAt time.Time) (time.Time, error) {
	query := `
		UPDATE event_services
		SET total_estimated_price = $2, updated_at = NOW()
		WHERE id = $1
		  AND updated_at = $3
		  AND booking_status NOT IN ('confirmed', 'paid')
		RETURNING updated_at
	`

	var updatedAt time.Time
	err := r.db.QueryRow(ctx, query, id, total, readAt).Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		r.log.Warn("Event service changed since it was read",
			zap.String("event_service_id", id.String()),
		)
		return time.Time{}, fmt.Errorf("update event service %s total: %w", id.String(), ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to update event service total",
			zap.Error(err),
			zap.String("event_service_id", id.String()),
			zap.Float64("total_estimated_price", total),
		)
		return time.Time{}, fmt.Errorf("update event service %s total: %w", id.String(), err)
	}

	return updatedAt, nil
}

func (r *eventServiceRepository) collect(rows pgx.Rows) ([]*entity.EventService, error) {
	var result []*entity.EventService
	for rows.Next() {
		es, err := scanEventService(rows)
		if err != nil {
			r.log.Error("Failed to scan event service row", zap.Error(err))
			return nil, fmt.Errorf("scan event service row: %w", err)
		}
		result = append(result, es)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event service rows: %w", err)
	}

	return result, nil
}
