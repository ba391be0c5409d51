package repository

import (
	"errors"

	"be-fest/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrConflict is returned by conditional writes when the row changed since it
// was read, or is no longer in a writable state.
var ErrConflict = errors.New("row was modified concurrently")

// ErrDuplicate is returned by inserts that hit a unique index.
var ErrDuplicate = errors.New("row already exists")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type Repository struct {
	Event        EventRepository
	Service      ServiceRepository
	GuestTier    GuestTierRepository
	PricingRule  PricingRuleRepository
	EventService EventServiceRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Event:        NewEventRepository(db, log),
		Service:      NewServiceRepository(db, log),
		GuestTier:    NewGuestTierRepository(db, log),
		PricingRule:  NewPricingRuleRepository(db, log),
		EventService: NewEventServiceRepository(db, log),
	}
}
