package wire

import (
	"net/http"

	"be-fest/internal/adaptor"
	"be-fest/internal/data/repository"
	"be-fest/internal/usecase"
	"be-fest/pkg/broker"
	"be-fest/pkg/middleware"
	"be-fest/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and the router
func Wiring(repo *repository.Repository, config *utils.Config, publisher broker.Publisher, logger *zap.Logger) (*App, error) {
	service, err := usecase.NewService(repo, config, publisher, logger)
	if err != nil {
		return nil, err
	}
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, config, logger),
		Service: service,
	}, nil
}

func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wirePricing(r, handler.Pricing)
	wireReconcile(r, handler.Reconcile, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
