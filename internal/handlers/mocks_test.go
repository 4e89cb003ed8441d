package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Izaque674/SmartLOG-sub000/internal/dispatch"
	"github.com/Izaque674/SmartLOG-sub000/internal/maintenance"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// MockFleet is a mock implementation of Fleet
type MockFleet struct {
	mock.Mock
}

func (m *MockFleet) CreateVehicle(ctx context.Context, ownerID string, in maintenance.VehicleInput) (maintenance.VehicleView, error) {
	args := m.Called(ctx, ownerID, in)
	return args.Get(0).(maintenance.VehicleView), args.Error(1)
}

func (m *MockFleet) Get(ctx context.Context, ownerID, vehicleID string) (maintenance.VehicleView, error) {
	args := m.Called(ctx, ownerID, vehicleID)
	return args.Get(0).(maintenance.VehicleView), args.Error(1)
}

func (m *MockFleet) List(ctx context.Context, ownerID string) ([]maintenance.VehicleView, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]maintenance.VehicleView), args.Error(1)
}

func (m *MockFleet) UpdateOdometer(ctx context.Context, ownerID, vehicleID string, km int) (maintenance.VehicleView, error) {
	args := m.Called(ctx, ownerID, vehicleID, km)
	return args.Get(0).(maintenance.VehicleView), args.Error(1)
}

func (m *MockFleet) UpdateItems(ctx context.Context, ownerID, vehicleID string, in []maintenance.ItemInput) (maintenance.VehicleView, error) {
	args := m.Called(ctx, ownerID, vehicleID, in)
	return args.Get(0).(maintenance.VehicleView), args.Error(1)
}

func (m *MockFleet) RegisterService(ctx context.Context, ownerID, vehicleID string, in maintenance.ServiceInput) (models.ServiceRecord, error) {
	args := m.Called(ctx, ownerID, vehicleID, in)
	return args.Get(0).(models.ServiceRecord), args.Error(1)
}

func (m *MockFleet) History(ctx context.Context, ownerID, vehicleID string) ([]models.ServiceRecord, error) {
	args := m.Called(ctx, ownerID, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceRecord), args.Error(1)
}

func (m *MockFleet) Delete(ctx context.Context, ownerID, vehicleID string) error {
	return m.Called(ctx, ownerID, vehicleID).Error(0)
}

// MockDispatch is a mock implementation of Dispatch
type MockDispatch struct {
	mock.Mock
}

func (m *MockDispatch) CreateCourier(ctx context.Context, ownerID string, in dispatch.CourierInput) (*models.Courier, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Courier), args.Error(1)
}

func (m *MockDispatch) UpdateCourier(ctx context.Context, ownerID, courierID string, in dispatch.CourierInput) (*models.Courier, error) {
	args := m.Called(ctx, ownerID, courierID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Courier), args.Error(1)
}

func (m *MockDispatch) DeleteCourier(ctx context.Context, ownerID, courierID string) error {
	return m.Called(ctx, ownerID, courierID).Error(0)
}

func (m *MockDispatch) ListCouriers(ctx context.Context, ownerID string) ([]models.Courier, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Courier), args.Error(1)
}

func (m *MockDispatch) CreateDelivery(ctx context.Context, ownerID string, in dispatch.DeliveryInput) (*models.Delivery, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Delivery), args.Error(1)
}

func (m *MockDispatch) AssignDelivery(ctx context.Context, ownerID, deliveryID, courierID string) (*models.Delivery, error) {
	args := m.Called(ctx, ownerID, deliveryID, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Delivery), args.Error(1)
}

func (m *MockDispatch) UpdateDeliveryStatus(ctx context.Context, ownerID, deliveryID string, status models.DeliveryStatus, requiresAttention bool) (*models.Delivery, error) {
	args := m.Called(ctx, ownerID, deliveryID, status, requiresAttention)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Delivery), args.Error(1)
}

func (m *MockDispatch) StartJourney(ctx context.Context, ownerID string, courierIDs []string) (*models.Journey, error) {
	args := m.Called(ctx, ownerID, courierIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Journey), args.Error(1)
}

func (m *MockDispatch) ActiveJourney(ctx context.Context, ownerID string) (*models.Journey, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Journey), args.Error(1)
}

func (m *MockDispatch) FinalizeJourney(ctx context.Context, ownerID, journeyID string) (models.JourneySummary, error) {
	args := m.Called(ctx, ownerID, journeyID)
	return args.Get(0).(models.JourneySummary), args.Error(1)
}

func (m *MockDispatch) DeleteJourney(ctx context.Context, ownerID, journeyID string) error {
	return m.Called(ctx, ownerID, journeyID).Error(0)
}

func (m *MockDispatch) History(ctx context.Context, ownerID string) ([]models.Journey, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Journey), args.Error(1)
}

func (m *MockDispatch) Snapshot(ctx context.Context, ownerID string) (*dispatch.Snapshot, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.Snapshot), args.Error(1)
}

func (m *MockDispatch) Operation(ctx context.Context, ownerID string) (*dispatch.Operation, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.Operation), args.Error(1)
}

func (m *MockDispatch) Details(ctx context.Context, ownerID, journeyID string) (*dispatch.JourneyDetails, error) {
	args := m.Called(ctx, ownerID, journeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.JourneyDetails), args.Error(1)
}

func (m *MockDispatch) Report(ctx context.Context, ownerID, journeyID string) (*dispatch.JourneyReport, error) {
	args := m.Called(ctx, ownerID, journeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.JourneyReport), args.Error(1)
}

func (m *MockDispatch) YesterdayCompleted(ctx context.Context, ownerID string) (dispatch.KPI, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(dispatch.KPI), args.Error(1)
}

func (m *MockDispatch) Location() *time.Location {
	return time.UTC
}
