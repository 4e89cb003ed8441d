package maintenance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Izaque674/SmartLOG-sub000/internal/db"
	"github.com/Izaque674/SmartLOG-sub000/internal/models"
)

// VehicleInput is the payload for registering a vehicle.
type VehicleInput struct {
	Plate     string
	Model     string
	Year      int
	CurrentKm int
	PhotoURL  string
	Items     []ItemInput // empty means the default plan
}

// ItemInput describes one maintenance item in a plan edit. An empty ID adds an item.
type ItemInput struct {
	ID            string
	Name          string
	IntervalKm    int
	LastServiceKm *int
}

// ServiceInput is a completed maintenance event.
type ServiceInput struct {
	ItemID      string
	ServiceKm   *int     // defaults to the current odometer
	Cost        *float64 // defaults to zero
	Notes       string
	ServiceDate time.Time // defaults to now
}

// Service runs the vehicle workflows.
type Service struct {
	vehicles db.VehicleCollection
	plan     *Plan
	now      func() time.Time
	upper    cases.Caser
}

// NewService creates a vehicle service. A nil plan uses DefaultPlan.
func NewService(vehicles db.VehicleCollection, plan *Plan) (*Service, error) {
	if plan == nil {
		var err error
		if plan, err = DefaultPlan(); err != nil {
			return nil, err
		}
	}
	return &Service{
		vehicles: vehicles,
		plan:     plan,
		now:      time.Now,
		upper:    cases.Upper(language.BrazilianPortuguese),
	}, nil
}

// CreateVehicle registers a vehicle with its initial maintenance plan.
func (s *Service) CreateVehicle(ctx context.Context, ownerID string, in VehicleInput) (VehicleView, error) {
	plate := s.upper.String(strings.TrimSpace(in.Plate))
	if plate == "" {
		return VehicleView{}, fmt.Errorf("plate is required: %w", models.ErrValidation)
	}
	if strings.TrimSpace(in.Model) == "" {
		return VehicleView{}, fmt.Errorf("model is required: %w", models.ErrValidation)
	}
	if in.Year < 1900 || in.Year > s.now().Year()+1 {
		return VehicleView{}, fmt.Errorf("year %d out of range: %w", in.Year, models.ErrValidation)
	}
	if in.CurrentKm < 0 {
		return VehicleView{}, fmt.Errorf("odometer must not be negative: %w", models.ErrValidation)
	}

	items := s.plan.Items(in.CurrentKm)
	if len(in.Items) > 0 {
		var err error
		if items, err = mergeItems(nil, in.Items, in.CurrentKm); err != nil {
			return VehicleView{}, err
		}
	}

	now := s.now()
	v := models.Vehicle{
		OwnerID:   ownerID,
		Plate:     plate,
		Model:     strings.TrimSpace(in.Model),
		Year:      in.Year,
		CurrentKm: in.CurrentKm,
		Items:     items,
		PhotoURL:  in.PhotoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.vehicles.InsertVehicle(ctx, &v); err != nil {
		return VehicleView{}, err
	}
	return DeriveVehicleStatus(v), nil
}

// Get returns the derived view of one vehicle.
func (s *Service) Get(ctx context.Context, ownerID, vehicleID string) (VehicleView, error) {
	v, err := s.load(ctx, ownerID, vehicleID)
	if err != nil {
		return VehicleView{}, err
	}
	return DeriveVehicleStatus(*v), nil
}

// List returns the derived views of every vehicle of the owner.
func (s *Service) List(ctx context.Context, ownerID string) ([]VehicleView, error) {
	vehicles, err := s.vehicles.FindVehicles(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	views := make([]VehicleView, 0, len(vehicles))
	for _, v := range vehicles {
		views = append(views, DeriveVehicleStatus(v))
	}
	return views, nil
}

// UpdateOdometer sets the current odometer. A reading below the stored one is rejected.
func (s *Service) UpdateOdometer(ctx context.Context, ownerID, vehicleID string, km int) (VehicleView, error) {
	v, err := s.load(ctx, ownerID, vehicleID)
	if err != nil {
		return VehicleView{}, err
	}
	if km < v.CurrentKm {
		return VehicleView{}, fmt.Errorf("odometer %d is below current %d: %w", km, v.CurrentKm, models.ErrConflict)
	}
	if km != v.CurrentKm {
		if err := s.vehicles.UpdateOdometer(ctx, vehicleID, km); err != nil {
			return VehicleView{}, err
		}
		v.CurrentKm = km
	}
	return DeriveVehicleStatus(*v), nil
}

// UpdateItems replaces the maintenance plan. Existing items keep their service history
// unless the edit names a new last-service value.
func (s *Service) UpdateItems(ctx context.Context, ownerID, vehicleID string, in []ItemInput) (VehicleView, error) {
	v, err := s.load(ctx, ownerID, vehicleID)
	if err != nil {
		return VehicleView{}, err
	}
	items, err := mergeItems(v.Items, in, v.CurrentKm)
	if err != nil {
		return VehicleView{}, err
	}
	if err := s.vehicles.UpdateItems(ctx, vehicleID, items); err != nil {
		return VehicleView{}, err
	}
	v.Items = items
	return DeriveVehicleStatus(*v), nil
}

// RegisterService records a completed service and advances the item's last-service
// odometer in a single store call.
func (s *Service) RegisterService(ctx context.Context, ownerID, vehicleID string, in ServiceInput) (models.ServiceRecord, error) {
	v, err := s.load(ctx, ownerID, vehicleID)
	if err != nil {
		return models.ServiceRecord{}, err
	}
	item, ok := v.Item(in.ItemID)
	if !ok {
		return models.ServiceRecord{}, fmt.Errorf("maintenance item %q: %w", in.ItemID, models.ErrNotFound)
	}

	km := v.CurrentKm
	if in.ServiceKm != nil {
		km = *in.ServiceKm
	}
	if km < 0 || km > v.CurrentKm {
		return models.ServiceRecord{}, fmt.Errorf("service km %d outside [0, %d]: %w", km, v.CurrentKm, models.ErrValidation)
	}
	if km < item.LastServiceKm {
		return models.ServiceRecord{}, fmt.Errorf("service km %d is before the last service of %q at %d: %w",
			km, item.Name, item.LastServiceKm, models.ErrValidation)
	}
	cost := 0.0
	if in.Cost != nil {
		cost = *in.Cost
	}
	if cost < 0 {
		return models.ServiceRecord{}, fmt.Errorf("cost must not be negative: %w", models.ErrValidation)
	}

	now := s.now()
	date := in.ServiceDate
	if date.IsZero() {
		date = now
	}
	rec := models.ServiceRecord{
		VehicleID:   vehicleID,
		ItemID:      item.ID,
		ItemName:    item.Name,
		ServiceKm:   km,
		Cost:        cost,
		Notes:       strings.TrimSpace(in.Notes),
		ServiceDate: date,
		Timestamp:   now,
	}
	if err := s.vehicles.RegisterService(ctx, &rec); err != nil {
		return models.ServiceRecord{}, err
	}
	return rec, nil
}

// History returns the service records of a vehicle, newest first.
func (s *Service) History(ctx context.Context, ownerID, vehicleID string) ([]models.ServiceRecord, error) {
	if _, err := s.load(ctx, ownerID, vehicleID); err != nil {
		return nil, err
	}
	return s.vehicles.FindHistory(ctx, vehicleID)
}

// Delete removes a vehicle. Its history stays behind.
func (s *Service) Delete(ctx context.Context, ownerID, vehicleID string) error {
	if _, err := s.load(ctx, ownerID, vehicleID); err != nil {
		return err
	}
	return s.vehicles.DeleteVehicle(ctx, vehicleID)
}

func (s *Service) load(ctx context.Context, ownerID, vehicleID string) (*models.Vehicle, error) {
	v, err := s.vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != ownerID {
		return nil, fmt.Errorf("vehicle %s: %w", vehicleID, models.ErrNotFound)
	}
	return v, nil
}

func mergeItems(current []models.MaintenanceItem, in []ItemInput, currentKm int) ([]models.MaintenanceItem, error) {
	byID := make(map[string]models.MaintenanceItem, len(current))
	for _, item := range current {
		byID[item.ID] = item
	}

	seen := make(map[string]bool, len(in))
	out := make([]models.MaintenanceItem, 0, len(in))
	for _, e := range in {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("item name is required: %w", models.ErrValidation)
		}
		if e.IntervalKm <= 0 {
			return nil, fmt.Errorf("item %q: interval must be positive: %w", name, models.ErrValidation)
		}
		if e.LastServiceKm != nil && *e.LastServiceKm < 0 {
			return nil, fmt.Errorf("item %q: last service km must not be negative: %w", name, models.ErrValidation)
		}

		item := models.MaintenanceItem{ID: e.ID, LastServiceKm: currentKm}
		if e.ID == "" {
			item.ID = uuid.NewString()
		} else {
			prev, ok := byID[e.ID]
			if !ok {
				return nil, fmt.Errorf("unknown item id %q: %w", e.ID, models.ErrValidation)
			}
			item.LastServiceKm = prev.LastServiceKm
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("duplicate item id %q: %w", item.ID, models.ErrValidation)
		}
		seen[item.ID] = true

		if e.LastServiceKm != nil {
			item.LastServiceKm = *e.LastServiceKm
		}
		item.Name = name
		item.IntervalKm = e.IntervalKm
		out = append(out, item)
	}
	return out, nil
}
