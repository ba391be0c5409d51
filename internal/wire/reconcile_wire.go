package wire

import (
	"be-fest/internal/adaptor"
	"be-fest/pkg/middleware"
	"be-fest/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReconcile(r chi.Router, reconcileHandler *adaptor.ReconcileHandler, config *utils.Config, log *zap.Logger) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminToken(config.Admin.TokenHash, log))

		// POST /api/admin/reconcile?dry_run=true - audit and fix stored totals
		r.Post("/reconcile", reconcileHandler.Reconcile)
	})
}
