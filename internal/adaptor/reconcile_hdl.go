package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"be-fest/internal/dto/request"
	"be-fest/internal/usecase"
	"be-fest/pkg/utils"

	"go.uber.org/zap"
)

type ReconcileHandler struct {
	service usecase.ReconcileService
	log     *zap.Logger
}

func NewReconcileHandler(service usecase.ReconcileService, log *zap.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		service: service,
		log:     log.With(zap.String("handler", "reconcile")),
	}
}

// Reconcile handles POST /api/admin/reconcile (admin)
// Dry run can be requested with ?dry_run=true or {"dry_run": true}.
func (h *ReconcileHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req request.ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.log.Warn("Invalid request body", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		req.DryRun = utils.ParseBool(raw, req.DryRun)
	}

	report, err := h.service.ReconcileAll(r.Context(), req.DryRun)
	if err != nil {
		writeServiceError(w, h.log, err, "reconcile prices")
		return
	}

	message := "Reconciliation finished"
	if report.HasFailures() {
		message = "Reconciliation finished with failures"
	}
	utils.ResponseSuccess(w, message, report)
}
