package adaptor

import (
	"errors"
	"net/http"

	"be-fest/internal/data/repository"
	"be-fest/internal/pricing"
	"be-fest/internal/usecase"
	"be-fest/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Pricing   *PricingHandler
	Reconcile *ReconcileHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Pricing:   NewPricingHandler(service.Pricing, log),
		Reconcile: NewReconcileHandler(service.Reconcile, log),
	}
}

// writeServiceError maps usecase errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *pricing.ValidationError
		notFoundErr   *pricing.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), map[string]string{validationErr.Field: validationErr.Reason})

	case errors.As(err, &notFoundErr):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, usecase.ErrServiceAlreadyAdded), errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseError(w, http.StatusConflict, err.Error())

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseError(w, http.StatusInternalServerError, "Internal server error")
	}
}
