package repository

import (
	"context"
	"errors"
	"fmt"

	"be-fest/internal/data/entity"
	"be-fest/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, client_id, name, event_date, full_guests, half_guests, free_guests,
		       guest_count, status, created_at, updated_at
		FROM events
		WHERE id = $1 AND deleted_at IS NULL
	`

	var event entity.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.ClientID,
		&event.Name,
		&event.EventDate,
		&event.FullGuests,
		&event.HalfGuests,
		&event.FreeGuests,
		&event.GuestCount,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by ID",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("find event by ID %s: %w", id.String(), err)
	}

	return &event, nil
}
