// Package http exposes the rental management API over chi. Handlers stay
// thin: decode, delegate to a service, encode.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joaopjk/moto-manager/internal/service"
)

// NewRouter wires the API routes.
func NewRouter(fleet *service.FleetService, partners *service.PartnerService, rentals *service.RentalService, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	fh := &fleetHandler{fleet: fleet}
	ph := &partnerHandler{partners: partners}
	rh := &rentalHandler{rentals: rentals}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestIdentity)
	r.Use(requestLogging(logger.With("component", "http")))

	r.Route("/motos", func(r chi.Router) {
		r.Post("/", fh.register)
		r.Get("/", fh.search)
		r.Get("/{id}", fh.getByID)
		r.Put("/{id}/placa", fh.updatePlate)
	})

	r.Post("/entregadores", ph.register)

	r.Route("/locacao", func(r chi.Router) {
		r.Post("/", rh.create)
		r.Get("/{id}", rh.getByID)
		r.Put("/{id}/devolucao", rh.updateReturnDate)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
