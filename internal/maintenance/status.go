// Package maintenance derives service urgency from odometer readings and runs the
// vehicle workflows that feed it.
package maintenance

import "github.com/Izaque674/SmartLOG-sub000/internal/models"

// AttentionThresholdKm is the remaining distance at or below which an item needs attention.
const AttentionThresholdKm = 3000

// ItemStatus is the derived urgency of a maintenance item or vehicle.
type ItemStatus string

const (
	StatusOnTrack   ItemStatus = "em_dia"
	StatusAttention ItemStatus = "atencao"
	StatusOverdue   ItemStatus = "atrasado"
)

// Badge is the presentation hint the dashboard renders for a status.
type Badge struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

// Badge maps the status to its display label and tone. ok is false for a value outside
// the enumeration.
func (s ItemStatus) Badge() (b Badge, ok bool) {
	switch s {
	case StatusOnTrack:
		return Badge{Label: "Em dia", Tone: "success"}, true
	case StatusAttention:
		return Badge{Label: "Atenção", Tone: "warning"}, true
	case StatusOverdue:
		return Badge{Label: "Atrasado", Tone: "danger"}, true
	}
	return Badge{}, false
}

// ItemView is a maintenance item together with its derived fields.
type ItemView struct {
	models.MaintenanceItem
	NextServiceKm int        `json:"kmProximaRevisao"`
	RemainingKm   int        `json:"kmRestantes"`
	Status        ItemStatus `json:"status"`
	Badge         Badge      `json:"selo"`
}

// VehicleView is a vehicle with every item derived and the vehicle-level status.
type VehicleView struct {
	models.Vehicle
	Items      []ItemView `json:"itensDeManutencao"`
	Status     ItemStatus `json:"status"`
	Badge      Badge      `json:"selo"`
	MostUrgent *ItemView  `json:"itemMaisUrgente"`
}

// DeriveItemStatus computes the next service threshold, the remaining distance and the
// status of item for the given odometer reading.
func DeriveItemStatus(item models.MaintenanceItem, currentKm int) ItemView {
	next := item.LastServiceKm + item.IntervalKm
	remaining := next - currentKm

	status := StatusOnTrack
	switch {
	case remaining <= 0:
		status = StatusOverdue
	case remaining <= AttentionThresholdKm:
		status = StatusAttention
	}

	badge, _ := status.Badge()
	return ItemView{
		MaintenanceItem: item,
		NextServiceKm:   next,
		RemainingKm:     remaining,
		Status:          status,
		Badge:           badge,
	}
}

// DeriveVehicleStatus derives every item of v. The vehicle takes the status of the item
// with the least remaining distance; the first one wins a tie. A vehicle without items
// is on track and has no most urgent item. v is not modified.
func DeriveVehicleStatus(v models.Vehicle) VehicleView {
	view := VehicleView{
		Vehicle: v,
		Items:   make([]ItemView, 0, len(v.Items)),
		Status:  StatusOnTrack,
	}
	view.Vehicle.Items = append([]models.MaintenanceItem(nil), v.Items...)

	urgent := -1
	for i, item := range v.Items {
		iv := DeriveItemStatus(item, v.CurrentKm)
		view.Items = append(view.Items, iv)
		if urgent < 0 || iv.RemainingKm < view.Items[urgent].RemainingKm {
			urgent = i
		}
	}
	if urgent >= 0 {
		mu := view.Items[urgent]
		view.MostUrgent = &mu
		view.Status = mu.Status
	}
	view.Badge, _ = view.Status.Badge()
	return view
}
