package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// MockVehicleCollection is a mock implementation of db.VehicleCollection
type MockVehicleCollection struct {
	mock.Mock
}

func (m *MockVehicleCollection) InsertVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleCollection) FindVehicles(ctx context.Context, ownerID string) ([]models.Vehicle, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) UpdateOdometer(ctx context.Context, id string, km int) error {
	args := m.Called(ctx, id, km)
	return args.Error(0)
}

func (m *MockVehicleCollection) UpdateItems(ctx context.Context, id string, items []models.MaintenanceItem) error {
	args := m.Called(ctx, id, items)
	return args.Error(0)
}

func (m *MockVehicleCollection) RegisterService(ctx context.Context, record *models.ServiceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockVehicleCollection) FindHistory(ctx context.Context, vehicleID string) ([]models.ServiceRecord, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceRecord), args.Error(1)
}

func (m *MockVehicleCollection) DeleteVehicle(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store *MockVehicleCollection) *Service {
	t.Helper()
	svc, err := NewService(store, nil)
	require.NoError(t, err)
	svc.now = func() time.Time { return now }
	return svc
}

func storedVehicle() *models.Vehicle {
	return &models.Vehicle{
		ID:        primitive.NewObjectID(),
		OwnerID:   "owner-1",
		Plate:     "ABC1D23",
		Model:     "Fiorino",
		Year:      2020,
		CurrentKm: 87500,
		Items: []models.MaintenanceItem{
			{ID: "oleo", Name: "Troca de óleo", IntervalKm: 10000, LastServiceKm: 80000},
			{ID: "geral", Name: "Revisão geral", IntervalKm: 80000, LastServiceKm: 62000},
		},
	}
}

func TestService_CreateVehicle(t *testing.T) {
	ctx := context.Background()

	t.Run("default plan", func(t *testing.T) {
		store := new(MockVehicleCollection)
		svc := newTestService(t, store)
		store.On("InsertVehicle", ctx, mock.AnythingOfType("*models.Vehicle")).Return(nil)

		view, err := svc.CreateVehicle(ctx, "owner-1", VehicleInput{Plate: " abc1d23 ", Model: "Fiorino", Year: 2020, CurrentKm: 50000})
		require.NoError(t, err)
		assert.Equal(t, "ABC1D23", view.Plate)
		assert.Equal(t, "owner-1", view.OwnerID)
		assert.Equal(t, now, view.CreatedAt)
		plan, _ := DefaultPlan()
		assert.Len(t, view.Items, len(plan.Entries))
		store.AssertExpectations(t)
	})

	t.Run("custom items", func(t *testing.T) {
		store := new(MockVehicleCollection)
		svc := newTestService(t, store)
		store.On("InsertVehicle", ctx, mock.AnythingOfType("*models.Vehicle")).Return(nil)

		last := 48000
		view, err := svc.CreateVehicle(ctx, "owner-1", VehicleInput{
			Plate: "XYZ", Model: "Van", Year: 2021, CurrentKm: 50000,
			Items: []ItemInput{{Name: "Óleo", IntervalKm: 5000, LastServiceKm: &last}, {Name: "Pneus", IntervalKm: 40000}},
		})
		require.NoError(t, err)
		require.Len(t, view.Items, 2)
		assert.Equal(t, 48000, view.Items[0].LastServiceKm)
		assert.Equal(t, 50000, view.Items[1].LastServiceKm)
		assert.NotEmpty(t, view.Items[0].ID)
	})

	t.Run("validation", func(t *testing.T) {
		store := new(MockVehicleCollection)
		svc := newTestService(t, store)
		for _, in := range []VehicleInput{
			{Model: "Van", Year: 2020},
			{Plate: "ABC", Year: 2020},
			{Plate: "ABC", Model: "Van", Year: 1800},
			{Plate: "ABC", Model: "Van", Year: 2020, CurrentKm: -1},
			{Plate: "ABC", Model: "Van", Year: 2020, Items: []ItemInput{{ID: "mine", Name: "Óleo", IntervalKm: 5000}}},
			{Plate: "ABC", Model: "Van", Year: 2020, Items: []ItemInput{{Name: "Óleo"}}},
		} {
			_, err := svc.CreateVehicle(ctx, "owner-1", in)
			assert.ErrorIs(t, err, models.ErrValidation, "%+v", in)
		}
		store.AssertNotCalled(t, "InsertVehicle", mock.Anything, mock.Anything)
	})
}

func TestService_Get_OtherOwner(t *testing.T) {
	ctx := context.Background()
	store := new(MockVehicleCollection)
	svc := newTestService(t, store)
	v := storedVehicle()
	store.On("FindVehicleByID", ctx, v.ID.Hex()).Return(v, nil)

	view, err := svc.Get(ctx, "owner-1", v.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, StatusAttention, view.Status)
	assert.Equal(t, "oleo", view.MostUrgent.ID)

	_, err = svc.Get(ctx, "owner-2", v.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	store := new(MockVehicleCollection)
	svc := newTestService(t, store)
	store.On("FindVehicles", ctx, "owner-1").Return([]models.Vehicle{*storedVehicle(), {CurrentKm: 10}}, nil)

	views, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, StatusAttention, views[0].Status)
	assert.Equal(t, StatusOnTrack, views[1].Status)
}

func TestService_UpdateOdometer(t *testing.T) {
	ctx := context.Background()

	t.Run("lower reading conflicts", func(t *testing.T) {
		store := new(MockVehicleCollection)
		svc := newTestService(t, store)
		v := storedVehicle()
		store.On("FindVehicleByID", ctx, v.ID.Hex()).Return(v, nil)

		_, err := svc.UpdateOdometer(ctx, "owner-1", v.ID.Hex(), 87499)
		assert.ErrorIs(t, err, models.ErrConflict)
		store.AssertNotCalled(t, "UpdateOdometer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("same reading is a no-op", func(t *testing.T) {
		store := new(MockVehicleCollection)
		svc := newTestService(t, store)
		v := storedVehicle()
		store.On("FindVehicleByID", ctx, v.ID.Hex()).Return(v, nil)

		view, err := svc.UpdateOdometer(ctx, "owner-1", v.ID.Hex(), 87500)
		require.NoError(t, err)
		assert.Equal(t, 87500, view.CurrentKm)
		store.AssertNotCalled(t, "UpdateOdometer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("higher reading rederives status", func(t *testing.T) {
		store := new(MockVehicleCollection)
		svc := newTestService(t, store)
		v := storedVehicle()
		store.On("FindVehicleByID", ctx, v.ID.Hex()).Return(v, nil)
		store.On("UpdateOdometer", ctx, v.ID.Hex(), 91000).Return(nil)

		view, err := svc.UpdateOdometer(ctx, "owner-1", v.ID.Hex(), 91000)
		require.NoError(t, err)
		assert.Equal(t, StatusOverdue, view.Status)
		assert.Equal(t, -1000, view.MostUrgent.RemainingKm)
		store.AssertExpectations(t)
	})
}

func TestService_UpdateItems(t *testing.T) {
	ctx := context.Background()
	store := new(MockVehicleCollection)
	svc := newTestService(t, store)
	v := storedVehicle()
	store.On("FindVehicleByID", ctx, v.ID.Hex()).Return(v, nil)
	store.On("UpdateItems", ctx, v.ID.Hex(), mock.AnythingOfType("[]models.MaintenanceItem")).Return(nil)

	view, err := svc.UpdateItems(ctx, "owner-1", v.ID.Hex(), []ItemInput{
		{ID: "oleo", Name: "Óleo sintético", IntervalKm: 15000},
		{Name: "Pneus", IntervalKm: 40000},
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "oleo", view.Items[0].ID)
	assert.Equal(t, 80000, view.Items[0].LastServiceKm, "existing item keeps its history")
	assert.Equal(t, 95000, view.Items[0].NextServiceKm)
	assert.Equal(t, 87500, view.Items[1].LastServiceKm, "new item starts at the odometer")

	_, err = svc.UpdateItems(ctx, "owner-1", v.ID.Hex(), []ItemInput{{ID: "ghost", Name: "X", IntervalKm: 1}})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.UpdateItems(ctx, "owner-1", v.ID.Hex(), []ItemInput{
		{ID: "oleo", Name: "A", IntervalKm: 1},
		{ID: "oleo", Name: "B", IntervalKm: 1},
	})
	assert.ErrorIs(t, err, models.ErrValidation)
	store.AssertNumberOfCalls(t, "UpdateItems", 1)
}

func TestService_RegisterService(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		store := new(MockVehicleCollection)
		svc := newTestService(t, store)
		v := storedVehicle()
		store.On("FindVehicleByID", ctx, v.ID.Hex()).Return(v, nil)
		store.On("RegisterService", ctx, mock.MatchedBy(func(r *models.ServiceRecord) bool {
			return r.ItemID == "oleo" && r.ServiceKm == 87500 && r.Cost == 0
		})).Return(nil)

		rec, err := svc.RegisterService(ctx, "owner-1", v.ID.Hex(), ServiceInput{ItemID: "oleo", Notes: " ok "})
		require.NoError(t, err)
		assert.Equal(t, "Troca de óleo", rec.ItemName)
		assert.Equal(t, v.ID.Hex(), rec.VehicleID)
		assert.Equal(t, "ok", rec.Notes)
		assert.Equal(t, now, rec.ServiceDate)
		assert.Equal(t, now, rec.Timestamp)
		store.AssertExpectations(t)
	})

	t.Run("explicit values", func(t *testing.T) {
		store := new(MockVehicleCollection)
		svc := newTestService(t, store)
		v := storedVehicle()
		store.On("FindVehicleByID", ctx, v.ID.Hex()).Return(v, nil)
		store.On("RegisterService", ctx, mock.AnythingOfType("*models.ServiceRecord")).Return(nil)

		km, cost := 86000, 250.5
		date := now.AddDate(0, 0, -2)
		rec, err := svc.RegisterService(ctx, "owner-1", v.ID.Hex(), ServiceInput{ItemID: "geral", ServiceKm: &km, Cost: &cost, ServiceDate: date})
		require.NoError(t, err)
		assert.Equal(t, 86000, rec.ServiceKm)
		assert.Equal(t, 250.5, rec.Cost)
		assert.Equal(t, date, rec.ServiceDate)
	})

	t.Run("same km as last service", func(t *testing.T) {
		store := new(MockVehicleCollection)
		svc := newTestService(t, store)
		v := storedVehicle()
		store.On("FindVehicleByID", ctx, v.ID.Hex()).Return(v, nil)
		store.On("RegisterService", ctx, mock.AnythingOfType("*models.ServiceRecord")).Return(nil)

		km := 80000
		rec, err := svc.RegisterService(ctx, "owner-1", v.ID.Hex(), ServiceInput{ItemID: "oleo", ServiceKm: &km})
		require.NoError(t, err)
		assert.Equal(t, 80000, rec.ServiceKm)
	})

	t.Run("rejections", func(t *testing.T) {
		store := new(MockVehicleCollection)
		svc := newTestService(t, store)
		v := storedVehicle()
		store.On("FindVehicleByID", ctx, v.ID.Hex()).Return(v, nil)

		_, err := svc.RegisterService(ctx, "owner-1", v.ID.Hex(), ServiceInput{ItemID: "ghost"})
		assert.ErrorIs(t, err, models.ErrNotFound)

		above, negative := 90000, -1
		_, err = svc.RegisterService(ctx, "owner-1", v.ID.Hex(), ServiceInput{ItemID: "oleo", ServiceKm: &above})
		assert.ErrorIs(t, err, models.ErrValidation)
		_, err = svc.RegisterService(ctx, "owner-1", v.ID.Hex(), ServiceInput{ItemID: "oleo", ServiceKm: &negative})
		assert.ErrorIs(t, err, models.ErrValidation)

		backdated := 70000
		_, err = svc.RegisterService(ctx, "owner-1", v.ID.Hex(), ServiceInput{ItemID: "oleo", ServiceKm: &backdated})
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Equal(t, 80000, v.Items[0].LastServiceKm)

		cost := -10.0
		_, err = svc.RegisterService(ctx, "owner-1", v.ID.Hex(), ServiceInput{ItemID: "oleo", Cost: &cost})
		assert.ErrorIs(t, err, models.ErrValidation)

		_, err = svc.RegisterService(ctx, "owner-2", v.ID.Hex(), ServiceInput{ItemID: "oleo"})
		assert.ErrorIs(t, err, models.ErrNotFound)
		store.AssertNotCalled(t, "RegisterService", mock.Anything, mock.Anything)
	})
}

func TestService_HistoryAndDelete(t *testing.T) {
	ctx := context.Background()
	store := new(MockVehicleCollection)
	svc := newTestService(t, store)
	v := storedVehicle()
	records := []models.ServiceRecord{{ItemID: "oleo", ServiceKm: 80000}}
	store.On("FindVehicleByID", ctx, v.ID.Hex()).Return(v, nil)
	store.On("FindHistory", ctx, v.ID.Hex()).Return(records, nil)
	store.On("DeleteVehicle", ctx, v.ID.Hex()).Return(nil)

	got, err := svc.History(ctx, "owner-1", v.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, records, got)

	assert.ErrorIs(t, svc.Delete(ctx, "owner-2", v.ID.Hex()), models.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "owner-1", v.ID.Hex()))
	store.AssertNumberOfCalls(t, "DeleteVehicle", 1)
}
