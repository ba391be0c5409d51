package usecase

import (
	"be-fest/internal/data/repository"
	"be-fest/pkg/broker"
	"be-fest/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Pricing   PricingService
	Reconcile ReconcileService
}

func NewService(repo *repository.Repository, config *utils.Config, publisher broker.Publisher, log *zap.Logger) (*Service, error) {
	pricingSrv, err := NewPricingService(repo, config.Pricing, log)
	if err != nil {
		return nil, err
	}

	return &Service{
		Pricing:   pricingSrv,
		Reconcile: NewReconcileService(repo, config.Reconcile, publisher, config.Kafka.PricingTopic, log),
	}, nil
}
