package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/Izaque674/SmartLOG-sub000/internal/dispatch"
	"github.com/Izaque674/SmartLOG-sub000/internal/middleware"
)

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Snapshot handles GET /api/dados
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dispatch.Snapshot(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// KPIs handles GET /api/kpis/{ownerId}. The result is cached per owner and local day.
func (h *Handler) KPIs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := chi.URLParam(r, middleware.OwnerParam)
	today := h.now().In(h.dispatch.Location()).Format("2006-01-02")

	c := h.cache
	key, err := c.KPIKey(ctx, ownerID, today)
	if err != nil {
		log.WithError(err).WithField("owner_id", ownerID).Warn("KPI cache unavailable")
		c = nil
	}

	var kpi dispatch.KPI
	err = c.FetchJSON(ctx, key, &kpi, func(ctx context.Context) (interface{}, error) {
		return h.dispatch.YesterdayCompleted(ctx, ownerID)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kpi)
}

// Operation handles GET /api/operacao/{ownerId}
func (h *Handler) Operation(w http.ResponseWriter, r *http.Request) {
	op, err := h.dispatch.Operation(r.Context(), chi.URLParam(r, middleware.OwnerParam))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

// LiveFeed handles GET /api/operacao/{ownerId}/ws
func (h *Handler) LiveFeed(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "live feed disabled"})
		return
	}
	h.hub.ServeWS(w, r, chi.URLParam(r, middleware.OwnerParam))
}
