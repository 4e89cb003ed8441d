package db

import (
	"context"
	"time"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle *models.Vehicle) error
	FindVehicles(ctx context.Context, ownerID string) ([]models.Vehicle, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	// UpdateOdometer fails with models.ErrConflict when km is below the stored reading.
	UpdateOdometer(ctx context.Context, id string, km int) error
	UpdateItems(ctx context.Context, id string, items []models.MaintenanceItem) error
	// RegisterService appends the record and advances the item's last-service km as one write.
	RegisterService(ctx context.Context, record *models.ServiceRecord) error
	FindHistory(ctx context.Context, vehicleID string) ([]models.ServiceRecord, error)
	DeleteVehicle(ctx context.Context, id string) error
}

// CourierCollection defines the interface for courier data operations.
type CourierCollection interface {
	InsertCourier(ctx context.Context, courier *models.Courier) error
	FindCouriers(ctx context.Context, ownerID string) ([]models.Courier, error)
	FindCourierByID(ctx context.Context, id string) (*models.Courier, error)
	UpdateCourier(ctx context.Context, id string, courier models.Courier) error
	DeleteCourier(ctx context.Context, id string) error
}

// DeliveryFilter selects deliveries. Zero fields are ignored.
type DeliveryFilter struct {
	OwnerID     string
	JourneyID   string
	CourierIDs  []string
	Statuses    []models.DeliveryStatus
	CreatedFrom time.Time
	CreatedTo   time.Time
	UpdatedFrom time.Time
	UpdatedTo   time.Time
}

// DeliveryChange is the set of fields a status transition writes.
type DeliveryChange struct {
	Status            models.DeliveryStatus
	CourierID         string
	RequiresAttention bool
	UpdatedAt         time.Time
}

// DeliveryCollection defines the interface for delivery data operations.
type DeliveryCollection interface {
	InsertDelivery(ctx context.Context, delivery *models.Delivery) error
	FindDeliveryByID(ctx context.Context, id string) (*models.Delivery, error)
	FindDeliveries(ctx context.Context, filter DeliveryFilter) ([]models.Delivery, error)
	// TransitionDelivery applies change only while the stored status is still from,
	// otherwise it fails with models.ErrInvalidState.
	TransitionDelivery(ctx context.Context, id string, from models.DeliveryStatus, change DeliveryChange) error
}

// JourneyCollection defines the interface for journey data operations.
type JourneyCollection interface {
	// InsertJourney fails with models.ErrConflict when the owner already has an active journey.
	InsertJourney(ctx context.Context, journey *models.Journey) error
	FindActiveJourney(ctx context.Context, ownerID string) (*models.Journey, error)
	FindJourneyByID(ctx context.Context, id string) (*models.Journey, error)
	FindJourneys(ctx context.Context, ownerID string, status models.JourneyStatus) ([]models.Journey, error)
	// FinishJourney fails with models.ErrNotFound unless the journey is still active.
	FinishJourney(ctx context.Context, id string, endedAt time.Time, summary models.JourneySummary) error
	DeleteJourney(ctx context.Context, id string) error
	InsertEvent(ctx context.Context, event *models.JourneyEvent) error
	FindEvents(ctx context.Context, journeyID string) ([]models.JourneyEvent, error)
}
