package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Izaque674/SmartLOG-sub000/internal/dispatch"
	"github.com/Izaque674/SmartLOG-sub000/internal/middleware"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

type courierRequest struct {
	Name     string `json:"nome" validate:"required"`
	Phone    string `json:"telefone"`
	Vehicle  string `json:"veiculo"`
	Route    string `json:"rota"`
	PhotoURL string `json:"fotoUrl" validate:"omitempty,url"`
}

func (c courierRequest) input() dispatch.CourierInput {
	return dispatch.CourierInput{Name: c.Name, Phone: c.Phone, Vehicle: c.Vehicle, Route: c.Route, PhotoURL: c.PhotoURL}
}

type deliveryRequest struct {
	Client    string `json:"cliente" validate:"required"`
	Address   string `json:"endereco" validate:"required"`
	OrderNote string `json:"pedido"`
	CourierID string `json:"entregadorId"`
}

type assignRequest struct {
	CourierID string `json:"entregadorId" validate:"required"`
}

type statusRequest struct {
	Status            models.DeliveryStatus `json:"status" validate:"required,oneof=concluida falhou"`
	RequiresAttention bool                  `json:"requerAtencao"`
}

type journeyRequest struct {
	CourierIDs []string `json:"entregadoresIds" validate:"required,min=1,dive,required"`
}

// ListCouriers handles GET /api/entregadores
func (h *Handler) ListCouriers(w http.ResponseWriter, r *http.Request) {
	couriers, err := h.dispatch.ListCouriers(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, couriers)
}

// CreateCourier handles POST /api/entregadores
func (h *Handler) CreateCourier(w http.ResponseWriter, r *http.Request) {
	var req courierRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.dispatch.CreateCourier(r.Context(), owner(r), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCourier handles PUT /api/entregadores/{id}
func (h *Handler) UpdateCourier(w http.ResponseWriter, r *http.Request) {
	var req courierRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.dispatch.UpdateCourier(r.Context(), owner(r), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCourier handles DELETE /api/entregadores/{id}
func (h *Handler) DeleteCourier(w http.ResponseWriter, r *http.Request) {
	if err := h.dispatch.DeleteCourier(r.Context(), owner(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateDelivery handles POST /api/entregas
func (h *Handler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.dispatch.CreateDelivery(r.Context(), owner(r), dispatch.DeliveryInput{
		Client:    req.Client,
		Address:   req.Address,
		OrderNote: req.OrderNote,
		CourierID: req.CourierID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// AssignDelivery handles PUT /api/entregas/{id}/atribuir
func (h *Handler) AssignDelivery(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.dispatch.AssignDelivery(r.Context(), owner(r), chi.URLParam(r, "id"), req.CourierID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// UpdateDeliveryStatus handles PUT /api/entregas/{id}/status
func (h *Handler) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.dispatch.UpdateDeliveryStatus(r.Context(), owner(r), chi.URLParam(r, "id"), req.Status, req.RequiresAttention)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// StartJourney handles POST /api/jornadas
func (h *Handler) StartJourney(w http.ResponseWriter, r *http.Request) {
	var req journeyRequest
	if !h.decode(w, r, &req) {
		return
	}
	j, err := h.dispatch.StartJourney(r.Context(), owner(r), req.CourierIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

// ActiveJourney handles GET /api/jornadas/ativa/{ownerId}
func (h *Handler) ActiveJourney(w http.ResponseWriter, r *http.Request) {
	j, err := h.dispatch.ActiveJourney(r.Context(), chi.URLParam(r, middleware.OwnerParam))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// FinalizeJourney handles POST /api/jornadas/{id}/finalizar
func (h *Handler) FinalizeJourney(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dispatch.FinalizeJourney(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// JourneyHistory handles GET /api/jornadas/historico/{ownerId}
func (h *Handler) JourneyHistory(w http.ResponseWriter, r *http.Request) {
	journeys, err := h.dispatch.History(r.Context(), chi.URLParam(r, middleware.OwnerParam))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, journeys)
}

// JourneyDetails handles GET /api/jornadas/{id}/detalhes
func (h *Handler) JourneyDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.dispatch.Details(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// JourneyReport handles GET /api/jornadas/{id}/relatorio
func (h *Handler) JourneyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.dispatch.Report(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DeleteJourney handles DELETE /api/jornadas/{id}
func (h *Handler) DeleteJourney(w http.ResponseWriter, r *http.Request) {
	if err := h.dispatch.DeleteJourney(r.Context(), owner(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
