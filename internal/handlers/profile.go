package handlers

import (
	"net/http"

	"github.com/Izaque674/SmartLOG-sub000/internal/middleware"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

type profileResponse struct {
	OwnerID     string      `json:"ownerId"`
	Email       string      `json:"email,omitempty"`
	Role        models.Role `json:"role"`
	ExpiresAt   int64       `json:"exp"`
	Permissions []string    `json:"permissions"`
}

var allActions = []string{
	models.ActionViewFleet,
	models.ActionManageFleet,
	models.ActionViewDispatch,
	models.ActionManageCouriers,
	models.ActionManageJourneys,
	models.ActionUpdateDeliveries,
}

// GetProfile returns the caller's identity as seen by the API
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "User context not found"})
		return
	}

	perms := make([]string, 0, len(allActions))
	for _, a := range allActions {
		if claims.HasPermission(a) {
			perms = append(perms, a)
		}
	}
	writeJSON(w, http.StatusOK, profileResponse{
		OwnerID:     claims.OwnerID,
		Email:       claims.Email,
		Role:        claims.Role,
		ExpiresAt:   claims.Exp,
		Permissions: perms,
	})
}
