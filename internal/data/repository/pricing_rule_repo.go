package repository

import (
	"context"
	"fmt"

	"be-fest/internal/data/entity"
	"be-fest/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PricingRuleRepository reads the optional per-service adjustments: age bands
// and date surcharges.
type PricingRuleRepository interface {
	FindAgeRulesByServiceID(ctx context.Context, serviceID uuid.UUID) ([]entity.AgePricingRule, error)
	FindDateSurchargesByServiceID(ctx context.Context, serviceID uuid.UUID) ([]entity.DateSurcharge, error)
}

type pricingRuleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPricingRuleRepository(db database.PgxIface, log *zap.Logger) PricingRuleRepository {
	return &pricingRuleRepository{
		db:  db,
		log: log.With(zap.String("repository", "pricing_rule")),
	}
}

func (r *pricingRuleRepository) FindAgeRulesByServiceID(ctx context.Context, serviceID uuid.UUID) ([]entity.AgePricingRule, error) {
	query := `
		SELECT id, service_id, min_age, max_age, pricing_type, value
		FROM service_age_pricing_rules
		WHERE service_id = $1
		ORDER BY min_age
	`

	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		r.log.Error("Failed to find age pricing rules",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
		)
		return nil, fmt.Errorf("find age pricing rules for service %s: %w", serviceID.String(), err)
	}
	defer rows.Close()

	var rules []entity.AgePricingRule
	for rows.Next() {
		var rule entity.AgePricingRule
		err := rows.Scan(
			&rule.ID,
			&rule.ServiceID,
			&rule.MinAge,
			&rule.MaxAge,
			&rule.PricingType,
			&rule.Value,
		)
		if err != nil {
			r.log.Error("Failed to scan age pricing rule row", zap.Error(err))
			return nil, fmt.Errorf("scan age pricing rule row: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate age pricing rule rows: %w", err)
	}

	return rules, nil
}

func (r *pricingRuleRepository) FindDateSurchargesByServiceID(ctx context.Context, serviceID uuid.UUID) ([]entity.DateSurcharge, error) {
	query := `
		SELECT id, service_id, name, start_date, end_date, surcharge_type, surcharge_value, is_active
		FROM service_date_surcharges
		WHERE service_id = $1
		ORDER BY start_date
	`

	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		r.log.Error("Failed to find date surcharges",
			zap.Error(err),
			zap.String("service_id", serviceID.String()),
		)
		return nil, fmt.Errorf("find date surcharges for service %s: %w", serviceID.String(), err)
	}
	defer rows.Close()

	var surcharges []entity.DateSurcharge
	for rows.Next() {
		var s entity.DateSurcharge
		err := rows.Scan(
			&s.ID,
			&s.ServiceID,
			&s.Name,
			&s.StartDate,
			&s.EndDate,
			&s.SurchargeType,
			&s.SurchargeValue,
			&s.IsActive,
		)
		if err != nil {
			r.log.Error("Failed to scan date surcharge row", zap.Error(err))
			return nil, fmt.Errorf("scan date surcharge row: %w", err)
		}
		surcharges = append(surcharges, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate date surcharge rows: %w", err)
	}

	return surcharges, nil
}
