package wire

import (
	"be-fest/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePricing(r chi.Router, pricingHandler *adaptor.PricingHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/services/{id}/price-table - tier table with fee applied
	r.Get("/api/services/{id}/price-table", pricingHandler.GetPriceTable)

	// ==================== EVENT ROUTES ====================
	r.Route("/api/events/{id}", func(r chi.Router) {
		// GET /api/events/{id}/pricing - subtotal, fee and total for the event
		r.Get("/pricing", pricingHandler.GetEventPricing)

		// POST /api/events/{id}/services - price and attach a service
		r.Post("/services", pricingHandler.AddServiceToEvent)
	})
}
