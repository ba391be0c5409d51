package adaptor

import (
	"encoding/json"
	"net/http"

	"be-fest/internal/dto/request"
	"be-fest/internal/usecase"
	"be-fest/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PricingHandler struct {
	service usecase.PricingService
	log     *zap.Logger
}

func NewPricingHandler(service usecase.PricingService, log *zap.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		log:     log.With(zap.String("handler", "pricing")),
	}
}

// GetPriceTable handles GET /api/services/{id}/price-table (public)
func (h *PricingHandler) GetPriceTable(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "id")
	if serviceID == "" {
		utils.ResponseBadRequest(w, "Service ID is required", nil)
		return
	}

	table, err := h.service.GetPriceTable(r.Context(), serviceID)
	if err != nil {
		writeServiceError(w, h.log, err, "get price table")
		return
	}

	utils.ResponseSuccess(w, "success", table)
}

// GetEventPricing handles GET /api/events/{id}/pricing
func (h *PricingHandler) GetEventPricing(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	resp, err := h.service.GetEventPricing(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, h.log, err, "get event pricing")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// AddServiceToEvent handles POST /api/events/{id}/services
func (h *PricingHandler) AddServiceToEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	var req request.AddEventServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Invalid request body", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.AddServiceToEvent(r.Context(), eventID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "add service to event")
		return
	}

	utils.ResponseCreated(w, "Service added to event", resp)
}
