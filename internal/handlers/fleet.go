package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Izaque674/SmartLOG-sub000/internal/maintenance"
)

type itemRequest struct {
	ID            string `json:"id"`
	Name          string `json:"nome" validate:"required"`
	IntervalKm    int    `json:"intervalo_km" validate:"required,gt=0"`
	LastServiceKm *int   `json:"km_ultima_revisao" validate:"omitempty,gte=0"`
}

type vehicleRequest struct {
	Plate     string        `json:"placa" validate:"required"`
	Model     string        `json:"modelo" validate:"required"`
	Year      int           `json:"ano" validate:"required,gte=1900"`
	CurrentKm *int          `json:"km_atual" validate:"required,gte=0"`
	PhotoURL  string        `json:"fotoUrl" validate:"omitempty,url"`
	Items     []itemRequest `json:"itensDeManutencao" validate:"omitempty,dive"`
}

type odometerRequest struct {
	CurrentKm *int `json:"km_atual" validate:"required,gte=0"`
}

type itemsRequest struct {
	Items []itemRequest `json:"itensDeManutencao" validate:"required,dive"`
}

type serviceRequest struct {
	ItemID      string     `json:"itemId" validate:"required"`
	ServiceKm   *int       `json:"km_servico" validate:"omitempty,gte=0"`
	Cost        *float64   `json:"custo" validate:"omitempty,gte=0"`
	Notes       string     `json:"observacoes"`
	ServiceDate *time.Time `json:"data"`
}

func itemInputs(in []itemRequest) []maintenance.ItemInput {
	out := make([]maintenance.ItemInput, 0, len(in))
	for _, it := range in {
		out = append(out, maintenance.ItemInput{
			ID:            it.ID,
			Name:          it.Name,
			IntervalKm:    it.IntervalKm,
			LastServiceKm: it.LastServiceKm,
		})
	}
	return out
}

// ListVehicles handles GET /api/veiculos
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	views, err := h.fleet.List(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// CreateVehicle handles POST /api/veiculos
func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.fleet.CreateVehicle(r.Context(), owner(r), maintenance.VehicleInput{
		Plate:     req.Plate,
		Model:     req.Model,
		Year:      req.Year,
		CurrentKm: *req.CurrentKm,
		PhotoURL:  req.PhotoURL,
		Items:     itemInputs(req.Items),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// GetVehicle handles GET /api/veiculos/{id}
func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	view, err := h.fleet.Get(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DeleteVehicle handles DELETE /api/veiculos/{id}
func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.fleet.Delete(r.Context(), owner(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateOdometer handles PUT /api/veiculos/{id}/km
func (h *Handler) UpdateOdometer(w http.ResponseWriter, r *http.Request) {
	var req odometerRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.fleet.UpdateOdometer(r.Context(), owner(r), chi.URLParam(r, "id"), *req.CurrentKm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateItems handles PUT /api/veiculos/{id}/itens
func (h *Handler) UpdateItems(w http.ResponseWriter, r *http.Request) {
	var req itemsRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := h.fleet.UpdateItems(r.Context(), owner(r), chi.URLParam(r, "id"), itemInputs(req.Items))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RegisterService handles POST /api/veiculos/{id}/servicos
func (h *Handler) RegisterService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if !h.decode(w, r, &req) {
		return
	}
	in := maintenance.ServiceInput{
		ItemID:    req.ItemID,
		ServiceKm: req.ServiceKm,
		Cost:      req.Cost,
		Notes:     req.Notes,
	}
	if req.ServiceDate != nil {
		in.ServiceDate = *req.ServiceDate
	}
	rec, err := h.fleet.RegisterService(r.Context(), owner(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// VehicleHistory handles GET /api/veiculos/{id}/historico
func (h *Handler) VehicleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.fleet.History(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
