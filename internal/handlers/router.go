package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Izaque674/SmartLOG-sub000/internal/middleware"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// Options configures NewRouter.
type Options struct {
	Auth           *middleware.AuthMiddleware
	Handler        *Handler
	RequestTimeout time.Duration
	RateLimit      int
	Production     bool
	// Health reports readiness of the backing stores. Nil means always healthy.
	Health func(ctx context.Context) error
}

// NewRouter mounts every API route.
func NewRouter(opts Options) http.Handler {
	h := opts.Handler
	a := opts.Auth

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecureHeaders(opts.Production))
	r.Use(middleware.RateLimit(opts.RateLimit))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if opts.Health != nil {
			if err := opts.Health(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		h.Health(w, r)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(a.Authenticate)

		// The live feed stays open, so it is kept outside the request timeout.
		r.With(a.RequirePermission(models.ActionViewDispatch), a.RequireOwner).
			Get("/operacao/{ownerId}/ws", h.LiveFeed)

		r.Group(func(r chi.Router) {
			if opts.RequestTimeout > 0 {
				r.Use(chimw.Timeout(opts.RequestTimeout))
			}

			r.Get("/me", h.GetProfile)

			r.Group(func(r chi.Router) {
				r.Use(a.RequirePermission(models.ActionViewDispatch))
				r.Get("/dados", h.Snapshot)
				r.Get("/entregadores", h.ListCouriers)
				r.Get("/jornadas/{id}/detalhes", h.JourneyDetails)
				r.Get("/jornadas/{id}/relatorio", h.JourneyReport)

				r.Group(func(r chi.Router) {
					r.Use(a.RequireOwner)
					r.Get("/kpis/{ownerId}", h.KPIs)
					r.Get("/operacao/{ownerId}", h.Operation)
					r.Get("/jornadas/ativa/{ownerId}", h.ActiveJourney)
					r.Get("/jornadas/historico/{ownerId}", h.JourneyHistory)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(a.RequirePermission(models.ActionUpdateDeliveries))
				r.Post("/entregas", h.CreateDelivery)
				r.Put("/entregas/{id}/atribuir", h.AssignDelivery)
				r.Put("/entregas/{id}/status", h.UpdateDeliveryStatus)
			})

			r.Group(func(r chi.Router) {
				r.Use(a.RequirePermission(models.ActionManageCouriers))
				r.Post("/entregadores", h.CreateCourier)
				r.Put("/entregadores/{id}", h.UpdateCourier)
				r.Delete("/entregadores/{id}", h.DeleteCourier)
			})

			r.Group(func(r chi.Router) {
				r.Use(a.RequirePermission(models.ActionManageJourneys))
				r.Post("/jornadas", h.StartJourney)
				r.Post("/jornadas/{id}/finalizar", h.FinalizeJourney)
				// Erasing journey history is kept for managers.
				r.With(a.RequireRole(models.RoleManager)).Delete("/jornadas/{id}", h.DeleteJourney)
			})

			r.Group(func(r chi.Router) {
				r.Use(a.RequirePermission(models.ActionViewFleet))
				r.Get("/veiculos", h.ListVehicles)
				r.Get("/veiculos/{id}", h.GetVehicle)
				r.Get("/veiculos/{id}/historico", h.VehicleHistory)
			})

			r.Group(func(r chi.Router) {
				r.Use(a.RequirePermission(models.ActionManageFleet))
				r.Post("/veiculos", h.CreateVehicle)
				r.Delete("/veiculos/{id}", h.DeleteVehicle)
				r.Put("/veiculos/{id}/km", h.UpdateOdometer)
				r.Put("/veiculos/{id}/itens", h.UpdateItems)
				r.Post("/veiculos/{id}/servicos", h.RegisterService)
			})
		})
	})

	return r
}
