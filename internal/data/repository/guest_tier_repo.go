package repository

import (
	"context"
	"fmt"

	"be-fest/internal/data/entity"
	"be-fest/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GuestTierRepository interface {
	FindByServiceID(ctx context.Context, serviceID uuid.UUID) ([]entity.GuestTier, error)
}

type guestTierRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGuestTierRepository(db database.PgxIface, log *zap.Logger) GuestTierRepository {
	return &guestTierRepository{
		db:  db,
		log: log.With(zap.String("repository", "guest_tier")),
	}
}

func (r *guestTierRepository) FindByServiceID(ctx context.Context, serviceID uuid.UUID) ([]entity.GuestTier, error) {
	query := `
		SELECT id, service_id, min_total_guests, max_total_guests, base_price_per_adult,
		       COALESCE(description, '')
		FROM service_guest_tiers
		WHERE service_id = $1
		ORDER BY min_total_guests
	`

	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		r.log.Error("Failed to find guest tiers by service ID",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
		)
		return nil, fmt.Errorf("find guest tiers by service ID %s: %w", serviceID.String(), err)
	}
	defer rows.Close()

	var tiers []entity.GuestTier
	for rows.Next() {
		var tier entity.GuestTier
		err := rows.Scan(
			&tier.ID,
			&tier.ServiceID,
			&tier.MinTotalGuests,
			&tier.MaxTotalGuests,
			&tier.BasePricePerAdult,
			&tier.Description,
		)
		if err != nil {
			r.log.Error("Failed to scan guest tier row", zap.Error(err))
			return nil, fmt.Errorf("scan guest tier row: %w", err)
		}
		tiers = append(tiers, tier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guest tier rows: %w", err)
	}

	return tiers, nil
}
