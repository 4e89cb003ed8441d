// Package handlers exposes the fleet and dispatch services over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/Izaque674/SmartLOG-sub000/internal/cache"
	"github.com/Izaque674/SmartLOG-sub000/internal/dispatch"
	"github.com/Izaque674/SmartLOG-sub000/internal/live"
	"github.com/Izaque674/SmartLOG-sub000/internal/maintenance"
	"github.com/Izaque674/SmartLOG-sub000/internal/middleware"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// Fleet is the vehicle workflow the handlers call.
type Fleet interface {
	CreateVehicle(ctx context.Context, ownerID string, in maintenance.VehicleInput) (maintenance.VehicleView, error)
	Get(ctx context.Context, ownerID, vehicleID string) (maintenance.VehicleView, error)
	List(ctx context.Context, ownerID string) ([]maintenance.VehicleView, error)
	UpdateOdometer(ctx context.Context, ownerID, vehicleID string, km int) (maintenance.VehicleView, error)
	UpdateItems(ctx context.Context, ownerID, vehicleID string, in []maintenance.ItemInput) (maintenance.VehicleView, error)
	RegisterService(ctx context.Context, ownerID, vehicleID string, in maintenance.ServiceInput) (models.ServiceRecord, error)
	History(ctx context.Context, ownerID, vehicleID string) ([]models.ServiceRecord, error)
	Delete(ctx context.Context, ownerID, vehicleID string) error
}

// Dispatch is the courier, delivery and journey workflow the handlers call.
type Dispatch interface {
	CreateCourier(ctx context.Context, ownerID string, in dispatch.CourierInput) (*models.Courier, error)
	UpdateCourier(ctx context.Context, ownerID, courierID string, in dispatch.CourierInput) (*models.Courier, error)
	DeleteCourier(ctx context.Context, ownerID, courierID string) error
	ListCouriers(ctx context.Context, ownerID string) ([]models.Courier, error)

	CreateDelivery(ctx context.Context, ownerID string, in dispatch.DeliveryInput) (*models.Delivery, error)
	AssignDelivery(ctx context.Context, ownerID, deliveryID, courierID string) (*models.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, ownerID, deliveryID string, status models.DeliveryStatus, requiresAttention bool) (*models.Delivery, error)

	StartJourney(ctx context.Context, ownerID string, courierIDs []string) (*models.Journey, error)
	ActiveJourney(ctx context.Context, ownerID string) (*models.Journey, error)
	FinalizeJourney(ctx context.Context, ownerID, journeyID string) (models.JourneySummary, error)
	DeleteJourney(ctx context.Context, ownerID, journeyID string) error
	History(ctx context.Context, ownerID string) ([]models.Journey, error)

	Snapshot(ctx context.Context, ownerID string) (*dispatch.Snapshot, error)
	Operation(ctx context.Context, ownerID string) (*dispatch.Operation, error)
	Details(ctx context.Context, ownerID, journeyID string) (*dispatch.JourneyDetails, error)
	Report(ctx context.Context, ownerID, journeyID string) (*dispatch.JourneyReport, error)
	YesterdayCompleted(ctx context.Context, ownerID string) (dispatch.KPI, error)
	Location() *time.Location
}

// Handler serves every API route.
type Handler struct {
	fleet    Fleet
	dispatch Dispatch
	cache    *cache.Cache
	hub      *live.Hub
	validate *validator.Validate
	now      func() time.Time
}

// NewHandler creates a handler. cache and hub may be nil.
func NewHandler(fleet Fleet, d Dispatch, c *cache.Cache, hub *live.Hub) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{fleet: fleet, dispatch: d, cache: c, hub: hub, validate: v, now: time.Now}
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to write response")
	}
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, models.ErrRemote):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeError answers with the mapped status. Internal errors are logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := log.WithError(err).WithFields(log.Fields{"method": r.Method, "path": r.URL.Path})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}
	entry.Debug("Request rejected")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// decode parses the JSON body into dst and validates it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fieldPath(fe)] = fe.Tag()
			}
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
			return false
		}
		writeError(w, r, err)
		return false
	}
	return true
}

// fieldPath strips the top-level struct name from a validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// owner returns the owner id of the authenticated caller.
func owner(r *http.Request) string {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return ""
	}
	return claims.OwnerID
}
